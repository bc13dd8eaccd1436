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

// summaryItem adapts a ListSummary to bubbles/list.Item
type summaryItem struct {
	s model.ListSummary
}

func (i summaryItem) Title() string       { return i.s.Name }
func (i summaryItem) Description() string { return "" }
func (i summaryItem) FilterValue() string { return i.s.Name }

// summaryDelegate renders one overview row on a single line.
type summaryDelegate struct{}

func (d summaryDelegate) Height() int                               { return 1 }
func (d summaryDelegate) Spacing() int                              { return 0 }
func (d summaryDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d summaryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(summaryItem)
	if !ok {
		return
	}
	count := fmt.Sprintf("%d items", it.s.ItemCount)
	if it.s.ItemCount == 1 {
		count = "1 item"
	}
	line := fmt.Sprintf("%s %s", it.s.Name, mutedStyle.Render("· "+count))
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

// listsScreen is the list-of-lists overview.
type listsScreen struct {
	list      list.Model
	summaries []model.ListSummary

	loading bool // overview fetch in flight
	busy    bool // one mutating request at a time

	adding   bool
	input    textinput.Model
	inputErr string
}

func newListsScreen() listsScreen {
	l := list.New(nil, summaryDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(true)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("list", "lists")

	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add list"))
	delBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	openBind := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open"))
	refreshBind := key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
	extra := func() []key.Binding { return []key.Binding{openBind, addBind, delBind, refreshBind} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New list name..."
	ti.CharLimit = 200

	return listsScreen{list: l, input: ti}
}

func (s *listsScreen) setSummaries(sums []model.ListSummary) {
	s.summaries = sums
	idx := s.list.Index()
	items := make([]list.Item, 0, len(sums))
	for _, sum := range sums {
		items = append(items, summaryItem{s: sum})
	}
	s.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		s.list.Select(idx)
	}
}

func (s listsScreen) selected() (model.ListSummary, bool) {
	it, ok := s.list.SelectedItem().(summaryItem)
	if !ok {
		return model.ListSummary{}, false
	}
	return it.s, true
}

func (a App) updateListsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &a.lists

	// inline add mode
	if s.adding {
		switch msg.String() {
		case "enter":
			name := strings.TrimSpace(s.input.Value())
			if name == "" {
				s.inputErr = "Name cannot be empty"
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
			return a, a.createList(name)
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
	case "q", "esc":
		return a, tea.Quit

	case "enter":
		sum, ok := s.selected()
		if !ok {
			return a, nil
		}
		cmd := a.openList(sum)
		return a, cmd

	case "a":
		s.adding = true
		s.inputErr = ""
		s.input.SetValue("")
		s.input.Focus()
		return a, textinput.Blink

	case "d":
		if s.busy || s.loading {
			return a, nil
		}
		sum, ok := s.selected()
		if !ok {
			return a, nil
		}
		s.busy = true
		return a, a.deleteList(sum.ID)

	case "r":
		if s.loading {
			return a, nil
		}
		s.loading = true
		return a, a.fetchLists()
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return a, cmd
}

func (a App) viewLists() string {
	s := a.lists

	total := 0
	for _, sum := range s.summaries {
		total += sum.ItemCount
	}
	header := fmt.Sprintf("%s   %s %d  %s %d",
		titleStyle.Render("Lists"),
		accentStyle.Render("·"), len(s.summaries),
		mutedStyle.Render("items"), total,
	)
	if s.loading || s.busy {
		header += "  " + a.spin.View()
	}

	w, h := a.listSize(s.adding)
	s.list.SetSize(w, h)

	content := header + "\n" + s.list.View()

	bar := ""
	if s.adding {
		title := "Add new list"
		if s.inputErr != "" {
			title += " — " + errorStyle.Render(s.inputErr)
		}
		bar = title + "\n" + s.input.View()
	}
	return a.frame(content, bar)
}
