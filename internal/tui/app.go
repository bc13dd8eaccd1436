// Package tui implements the interactive two-screen client: a lists
// overview and a per-list item view, both backed by the REST API.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tuido/internal/api"
	"github.com/idilsaglam/tuido/internal/model"
)

type screen int

const (
	screenLists screen = iota
	screenItems
)

// App is the Bubble Tea root model. It tracks which screen is active and
// refetches data on every transition; all server state the screens hold is
// a provisional cache.
type App struct {
	client *api.Client
	logger *log.Logger

	active screen
	width  int
	height int

	// seq guards against stale responses, see messages.go.
	seq int

	spin  spinner.Model
	lists listsScreen
	items itemsScreen
}

func NewApp(client *api.Client, logger *log.Logger) App {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = accentStyle
	a := App{
		client: client,
		logger: logger,
		active: screenLists,
		width:  80,
		height: 24,
		spin:   sp,
		lists:  newListsScreen(),
		items:  newItemsScreen(),
	}
	// the overview fetch fires from Init
	a.lists.loading = true
	return a
}

// Run starts the interactive program and blocks until the user quits.
func Run(client *api.Client, logger *log.Logger) error {
	p := tea.NewProgram(NewApp(client, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.fetchLists(), a.spin.Tick)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case listsLoadedMsg:
		if msg.seq != a.seq {
			return a, nil // stale: fired before a navigation
		}
		a.lists.loading = false
		if msg.err != nil {
			a.logger.Error("fetch lists", "err", msg.err)
			return a, nil // keep last known-good rows
		}
		a.lists.setSummaries(msg.lists)
		return a, nil

	case listCreatedMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		a.lists.busy = false
		if msg.err != nil {
			a.logger.Error("create list", "err", msg.err)
			return a, nil
		}
		// the receipt body is ignored on purpose; the overview refetches
		a.lists.loading = true
		return a, a.fetchLists()

	case listDeletedMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		a.lists.busy = false
		if msg.err != nil {
			a.logger.Error("delete list", "id", msg.id, "err", msg.err)
			return a, nil
		}
		a.lists.loading = true
		return a, a.fetchLists()

	case listLoadedMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		a.items.loading = false
		if msg.err != nil {
			a.logger.Error("fetch list", "id", a.items.listID, "err", msg.err)
			return a, nil
		}
		a.items.setList(msg.list)
		return a, nil

	case itemMutatedMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		a.items.busy = false
		if msg.err != nil {
			// revert the optimistic edit to the last server-confirmed state
			a.logger.Error("item "+msg.op, "list", a.items.listID, "err", msg.err)
			a.items.rollback()
			return a, nil
		}
		a.items.setList(msg.list)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.active == screenItems {
			return a.updateItemsKey(msg)
		}
		return a.updateListsKey(msg)
	}

	return a, a.routeToActiveList(msg)
}

// routeToActiveList forwards non-key messages (mouse, blink ticks) to the
// focused bubbles widget.
func (a *App) routeToActiveList(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if a.active == screenItems {
		a.items.list, cmd = a.items.list.Update(msg)
	} else {
		a.lists.list, cmd = a.lists.list.Update(msg)
	}
	return cmd
}

func (a App) View() string {
	if a.active == screenItems {
		return a.viewItems()
	}
	return a.viewLists()
}

// ---------------------------------------------------
// navigation
// ---------------------------------------------------

// openList switches to the items screen and refetches the selected list.
// Any overview mutation still in flight will be dropped by the seq fence,
// so its busy flag is forgotten here rather than waiting for a reply that
// will never be applied.
func (a *App) openList(s model.ListSummary) tea.Cmd {
	a.active = screenItems
	a.seq++
	a.lists.busy = false
	a.items.reset(s.ID, s.Name)
	a.items.loading = true
	return a.fetchList(s.ID)
}

// backToLists returns to the overview and refetches it. Items-screen state
// is discarded; anything still in flight for it will miss the new seq.
func (a *App) backToLists() tea.Cmd {
	a.active = screenLists
	a.seq++
	a.lists.busy = false
	a.items = newItemsScreen()
	a.lists.loading = true
	return a.fetchLists()
}

// ---------------------------------------------------
// network commands
// ---------------------------------------------------

func (a App) fetchLists() tea.Cmd {
	seq, c := a.seq, a.client
	return func() tea.Msg {
		lists, err := c.Lists(context.Background())
		return listsLoadedMsg{seq: seq, lists: lists, err: err}
	}
}

func (a App) createList(name string) tea.Cmd {
	seq, c := a.seq, a.client
	return func() tea.Msg {
		ref, err := c.CreateList(context.Background(), name)
		return listCreatedMsg{seq: seq, ref: ref, err: err}
	}
}

func (a App) deleteList(id string) tea.Cmd {
	seq, c := a.seq, a.client
	return func() tea.Msg {
		err := c.DeleteList(context.Background(), id)
		return listDeletedMsg{seq: seq, id: id, err: err}
	}
}

func (a App) fetchList(id string) tea.Cmd {
	seq, c := a.seq, a.client
	return func() tea.Msg {
		l, err := c.List(context.Background(), id)
		return listLoadedMsg{seq: seq, list: l, err: err}
	}
}

func (a App) createItem(listID, label string) tea.Cmd {
	seq, c := a.seq, a.client
	return func() tea.Msg {
		l, err := c.CreateItem(context.Background(), listID, label)
		return itemMutatedMsg{seq: seq, op: "create", list: l, err: err}
	}
}

func (a App) deleteItem(listID, itemID string) tea.Cmd {
	seq, c := a.seq, a.client
	return func() tea.Msg {
		l, err := c.DeleteItem(context.Background(), listID, itemID)
		return itemMutatedMsg{seq: seq, op: "delete", list: l, err: err}
	}
}

func (a App) setChecked(listID, itemID string, checked bool) tea.Cmd {
	seq, c := a.seq, a.client
	return func() tea.Msg {
		l, err := c.SetChecked(context.Background(), listID, itemID, checked)
		return itemMutatedMsg{seq: seq, op: "toggle", list: l, err: err}
	}
}

// ---------------------------------------------------
// shared view helpers
// ---------------------------------------------------

func (a App) frame(content, inputBar string) string {
	if inputBar != "" {
		content += "\n" + inputBarStyle.Render(inputBar)
	}
	return panelStyle.Render(content)
}

func (a App) listSize(hasInput bool) (w, h int) {
	w = a.width - 4
	h = a.height - 4
	if hasInput {
		h -= 4
	}
	if w < 20 {
		w = 20
	}
	if h < 3 {
		h = 3
	}
	return w, h
}
