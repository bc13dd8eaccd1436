package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tuido/internal/model"
)

// entryItem adapts a to-do Item to bubbles/list.Item
type entryItem struct {
	it model.Item
}

func (e entryItem) Title() string       { return e.it.Label }
func (e entryItem) Description() string { return "" }
func (e entryItem) FilterValue() string { return e.it.Label }

// entryDelegate renders one item per line: checkbox glyph + label.
type entryDelegate struct{}

func (d entryDelegate) Height() int                               { return 1 }
func (d entryDelegate) Spacing() int                              { return 0 }
func (d entryDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d entryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	e, ok := item.(entryItem)
	if !ok {
		return
	}
	box := mutedStyle.Render(boxUnchecked)
	label := e.it.Label
	if e.it.Checked {
		box = successStyle.Render(boxChecked)
		label = doneStyle.Render(label)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+box+" "+label)
}

// itemsScreen shows one list's items. cur is a provisional cache of server
// state: toggles and deletes edit it immediately, and snapshot (the last
// server-confirmed items) is what rollback restores when the call fails.
type itemsScreen struct {
	listID string
	name   string

	cur      model.ToDoList
	snapshot []model.Item

	list list.Model

	loading bool
	busy    bool

	adding   bool
	input    textinput.Model
	inputErr string
}

func newItemsScreen() itemsScreen {
	l := list.New(nil, entryDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(true)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")

	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add item"))
	toggleBind := key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	delBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	backBind := key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back"))
	extra := func() []key.Binding { return []key.Binding{toggleBind, addBind, delBind, backBind} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New item label..."
	ti.CharLimit = 200

	return itemsScreen{list: l, input: ti}
}

// reset prepares the screen for a freshly selected list.
func (s *itemsScreen) reset(listID, name string) {
	*s = newItemsScreen()
	s.listID = listID
	s.name = name
}

// setList installs a server-confirmed list as both current state and
// rollback snapshot.
func (s *itemsScreen) setList(l model.ToDoList) {
	s.cur = l
	if l.Name != "" {
		s.name = l.Name
	}
	s.snapshot = l.CloneItems()
	s.rebuild()
}

// rollback restores the last server-confirmed items after a failed mutation.
func (s *itemsScreen) rollback() {
	s.cur.Items = append([]model.Item(nil), s.snapshot...)
	s.rebuild()
}

func (s *itemsScreen) rebuild() {
	idx := s.list.Index()
	items := make([]list.Item, 0, len(s.cur.Items))
	for _, it := range s.cur.Items {
		items = append(items, entryItem{it: it})
	}
	s.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		s.list.Select(idx)
	}
}

func (s itemsScreen) selected() (model.Item, bool) {
	e, ok := s.list.SelectedItem().(entryItem)
	if !ok {
		return model.Item{}, false
	}
	return e.it, true
}

func (a App) updateItemsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &a.items

	// inline add mode
	if s.adding {
		switch msg.String() {
		case "enter":
			label := strings.TrimSpace(s.input.Value())
			if label == "" {
				// whitespace-only labels never produce a request
				s.inputErr = "Label cannot be empty"
				return a, nil
			}
			if s.busy {
				return a, nil
			}
			s.busy = true
			s.adding = false
			s.inputErr = ""
			s.input.SetValue("")
			s.input.Blur()
			return a, a.createItem(s.listID, label)
		case "esc":
			s.adding = false
			s.inputErr = ""
			s.input.SetValue("")
			s.input.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return a, cmd
	}

	if s.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		s.list, cmd = s.list.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit

	case "esc":
		cmd := a.backToLists()
		return a, cmd

	case " ":
		if s.busy || s.loading {
			return a, nil
		}
		it, ok := s.selected()
		if !ok {
			return a, nil
		}
		if it.Synthetic {
			// the server never assigned this item an id, so it cannot be addressed
			a.logger.Debug("skip toggle on synthetic item", "label", it.Label)
			return a, nil
		}
		a.applyLocalToggle(it.ID)
		s.busy = true
		checked := !it.Checked
		return a, a.setChecked(s.listID, it.ID, checked)

	case "d":
		if s.busy || s.loading {
			return a, nil
		}
		it, ok := s.selected()
		if !ok {
			return a, nil
		}
		if it.Synthetic {
			a.logger.Debug("skip delete on synthetic item", "label", it.Label)
			return a, nil
		}
		a.applyLocalDelete(it.ID)
		s.busy = true
		return a, a.deleteItem(s.listID, it.ID)

	case "a":
		s.adding = true
		s.inputErr = ""
		s.input.SetValue("")
		s.input.Focus()
		return a, textinput.Blink

	case "r":
		if s.loading {
			return a, nil
		}
		s.loading = true
		return a, a.fetchList(s.listID)
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return a, cmd
}

// applyLocalToggle flips an item in the cached list before the server
// answers. The snapshot is left untouched so a failure can revert.
func (a *App) applyLocalToggle(itemID string) {
	for i := range a.items.cur.Items {
		if a.items.cur.Items[i].ID == itemID {
			a.items.cur.Items[i].Checked = !a.items.cur.Items[i].Checked
			break
		}
	}
	a.items.rebuild()
}

// applyLocalDelete removes an item from the cached list before the server
// answers.
func (a *App) applyLocalDelete(itemID string) {
	items := a.items.cur.Items
	for i := range items {
		if items[i].ID == itemID {
			a.items.cur.Items = append(items[:i:i], items[i+1:]...)
			break
		}
	}
	a.items.rebuild()
}

func (a App) viewItems() string {
	s := a.items

	done, pending := s.cur.Stats()
	header := fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render(s.name),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), pending,
		accentStyle.Render("Total"), len(s.cur.Items),
	)
	if s.loading || s.busy {
		header += "  " + a.spin.View()
	}

	w, h := a.listSize(s.adding)
	s.list.SetSize(w, h)

	content := header + "\n" + s.list.View()

	bar := ""
	if s.adding {
		title := "Add new item"
		if s.inputErr != "" {
			title += " — " + errorStyle.Render(s.inputErr)
		}
		bar = title + "\n" + s.input.View()
	}
	return a.frame(content, bar)
}
