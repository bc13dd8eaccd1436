package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tuido/internal/api"
	"github.com/idilsaglam/tuido/internal/logging"
	"github.com/idilsaglam/tuido/internal/model"
)

func newTestApp() App {
	// the client is never dialed: tests feed result messages directly
	c := api.New("http://127.0.0.1:0", time.Second, logging.Discard())
	return NewApp(c, logging.Discard())
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	next, cmd := a.Update(msg)
	out, ok := next.(App)
	if !ok {
		t.Fatalf("Update returned %T, want App", next)
	}
	return out, cmd
}

func groceries() model.ToDoList {
	return model.ToDoList{
		ID:   "l1",
		Name: "Groceries",
		Items: []model.Item{
			{ID: "i1", Label: "Milk"},
			{ID: "i2", Label: "Bread", Checked: true},
		},
	}
}

// openGroceries walks a fresh app onto the items screen with a loaded list.
func openGroceries(t *testing.T, a App) App {
	t.Helper()
	a, _ = update(t, a, listsLoadedMsg{seq: a.seq, lists: []model.ListSummary{
		{ID: "l1", Name: "Groceries", ItemCount: 2},
	}})
	a, cmd := update(t, a, keyMsg("enter"))
	if a.active != screenItems {
		t.Fatal("enter should open the items screen")
	}
	if cmd == nil {
		t.Fatal("opening a list must trigger a fetch")
	}
	a, _ = update(t, a, listLoadedMsg{seq: a.seq, list: groceries()})
	if a.items.loading {
		t.Fatal("loading flag should clear once the list lands")
	}
	return a
}

func TestEmptyLabelIsNoOp(t *testing.T) {
	a := openGroceries(t, newTestApp())

	a, _ = update(t, a, keyMsg("a"))
	if !a.items.adding {
		t.Fatal("a should enter add mode")
	}
	a.items.input.SetValue("   \t ")
	a, cmd := update(t, a, keyMsg("enter"))

	if cmd != nil {
		t.Fatal("whitespace-only label must not produce a request")
	}
	if a.items.busy {
		t.Fatal("busy flag must stay clear")
	}
	if a.items.inputErr == "" {
		t.Fatal("expected inline validation message")
	}
	if !a.items.adding {
		t.Fatal("input should stay open for correction")
	}
}

func TestToggleOptimisticThenRevertOnFailure(t *testing.T) {
	a := openGroceries(t, newTestApp())

	a, cmd := update(t, a, keyMsg(" "))
	if cmd == nil {
		t.Fatal("toggle should fire a request")
	}
	if !a.items.busy {
		t.Fatal("busy flag should be set while the request is in flight")
	}
	if !a.items.cur.Items[0].Checked {
		t.Fatal("toggle must be reflected immediately")
	}

	a, _ = update(t, a, itemMutatedMsg{seq: a.seq, op: "toggle", err: errors.New("boom")})
	if a.items.busy {
		t.Fatal("busy flag should clear on response")
	}
	if a.items.cur.Items[0].Checked {
		t.Fatal("failed toggle must revert to the last confirmed state")
	}
}

func TestToggleConfirmedByServer(t *testing.T) {
	a := openGroceries(t, newTestApp())

	a, _ = update(t, a, keyMsg(" "))
	confirmed := groceries()
	confirmed.Items[0].Checked = true
	a, _ = update(t, a, itemMutatedMsg{seq: a.seq, op: "toggle", list: confirmed})

	if !a.items.cur.Items[0].Checked {
		t.Fatal("confirmed toggle should stick")
	}
	// the confirmed state becomes the new rollback point
	if !a.items.snapshot[0].Checked {
		t.Fatal("snapshot should advance to the confirmed state")
	}
}

func TestDeleteOptimisticThenRestoreOnFailure(t *testing.T) {
	a := openGroceries(t, newTestApp())

	a, cmd := update(t, a, keyMsg("d"))
	if cmd == nil {
		t.Fatal("delete should fire a request")
	}
	if len(a.items.cur.Items) != 1 {
		t.Fatalf("delete must remove locally immediately, have %d items", len(a.items.cur.Items))
	}

	a, _ = update(t, a, itemMutatedMsg{seq: a.seq, op: "delete", err: errors.New("boom")})
	if len(a.items.cur.Items) != 2 {
		t.Fatalf("failed delete must restore the item, have %d items", len(a.items.cur.Items))
	}
	if a.items.cur.Items[0].ID != "i1" {
		t.Errorf("restored order wrong: first id = %s", a.items.cur.Items[0].ID)
	}
}

func TestBusyFlagBlocksDuplicateMutations(t *testing.T) {
	a := openGroceries(t, newTestApp())

	a, _ = update(t, a, keyMsg(" "))
	if !a.items.busy {
		t.Fatal("first toggle should set busy")
	}
	before := a.items.cur.Items[1].Checked

	a, cmd := update(t, a, keyMsg(" "))
	if cmd != nil {
		t.Fatal("second mutation while busy must be ignored")
	}
	if a.items.cur.Items[1].Checked != before {
		t.Fatal("ignored mutation must not touch state")
	}
}

func TestSyntheticItemsAreNotMutated(t *testing.T) {
	a := openGroceries(t, newTestApp())
	l := a.items.cur
	l.Items = append(l.Items, model.Item{ID: "local-1", Label: "orphan", Synthetic: true})
	a.items.setList(l)
	a.items.list.Select(2)

	a, cmd := update(t, a, keyMsg(" "))
	if cmd != nil {
		t.Fatal("toggle on a synthetic item must not produce a request")
	}
	a, cmd = update(t, a, keyMsg("d"))
	if cmd != nil {
		t.Fatal("delete on a synthetic item must not produce a request")
	}
	if len(a.items.cur.Items) != 3 {
		t.Fatal("synthetic item must stay rendered")
	}
}

func TestStaleResponsesAreDropped(t *testing.T) {
	a := openGroceries(t, newTestApp())

	// navigate back: bumps seq, so anything fired earlier is stale
	a, cmd := update(t, a, keyMsg("esc"))
	if a.active != screenLists {
		t.Fatal("esc should return to the lists screen")
	}
	if cmd == nil {
		t.Fatal("returning must refetch the overview")
	}

	stale := groceries()
	stale.Items[0].Checked = true
	a, _ = update(t, a, listLoadedMsg{seq: a.seq - 1, list: stale})
	if len(a.items.cur.Items) != 0 {
		t.Fatal("stale items-screen response must not be applied")
	}

	a, _ = update(t, a, listsLoadedMsg{seq: a.seq - 1, lists: []model.ListSummary{{ID: "zzz", Name: "stale"}}})
	for _, s := range a.lists.summaries {
		if s.ID == "zzz" {
			t.Fatal("stale overview response must not be applied")
		}
	}
}

func TestListsFetchFailureKeepsLastKnownGood(t *testing.T) {
	a := newTestApp()
	a, _ = update(t, a, listsLoadedMsg{seq: a.seq, lists: []model.ListSummary{
		{ID: "l1", Name: "Groceries", ItemCount: 2},
	}})

	a, _ = update(t, a, listsLoadedMsg{seq: a.seq, err: errors.New("connection refused")})
	if len(a.lists.summaries) != 1 || a.lists.summaries[0].Name != "Groceries" {
		t.Fatal("a failed refetch must keep the previous rows")
	}
	if a.lists.loading {
		t.Fatal("loading flag should clear on failure")
	}
}

func TestEmptyListNameIsNoOp(t *testing.T) {
	a := newTestApp()
	a, _ = update(t, a, keyMsg("a"))
	a.lists.input.SetValue("  ")
	a, cmd := update(t, a, keyMsg("enter"))
	if cmd != nil {
		t.Fatal("whitespace-only name must not produce a request")
	}
	if a.lists.busy {
		t.Fatal("busy flag must stay clear")
	}
}

func TestCreateListTriggersRefetch(t *testing.T) {
	a := newTestApp()
	a, _ = update(t, a, keyMsg("a"))
	a.lists.input.SetValue("Chores")
	a, cmd := update(t, a, keyMsg("enter"))
	if cmd == nil {
		t.Fatal("create should fire a request")
	}
	if !a.lists.busy {
		t.Fatal("create should set the busy flag")
	}

	a, cmd = update(t, a, listCreatedMsg{seq: a.seq, ref: api.NewListRef{ID: "l2", Name: "Chores"}})
	if a.lists.busy {
		t.Fatal("busy should clear on response")
	}
	if cmd == nil {
		t.Fatal("successful create must refetch the overview")
	}
	if !a.lists.loading {
		t.Fatal("refetch should set the loading flag")
	}
}

func TestListDeleteInFlightDoesNotWedgeOverview(t *testing.T) {
	a := newTestApp()
	a, _ = update(t, a, listsLoadedMsg{seq: a.seq, lists: []model.ListSummary{
		{ID: "l1", Name: "Groceries", ItemCount: 2},
	}})

	a, cmd := update(t, a, keyMsg("d"))
	if cmd == nil || !a.lists.busy {
		t.Fatal("delete should fire a request and set busy")
	}
	firedAt := a.seq

	// open the list before the delete answers, then let the answer land
	// stale and come back to the overview
	a, _ = update(t, a, keyMsg("enter"))
	a, _ = update(t, a, listDeletedMsg{seq: firedAt, id: "l1"})
	a, _ = update(t, a, keyMsg("esc"))
	a, _ = update(t, a, listsLoadedMsg{seq: a.seq, lists: []model.ListSummary{
		{ID: "l1", Name: "Groceries", ItemCount: 2},
	}})

	if a.lists.busy {
		t.Fatal("busy must not survive the navigation round trip")
	}
	a, cmd = update(t, a, keyMsg("d"))
	if cmd == nil {
		t.Fatal("overview mutations must still fire after the round trip")
	}
	if !a.lists.busy {
		t.Fatal("the new delete should set busy again")
	}
}

func TestDeleteListFailureDoesNotRefetch(t *testing.T) {
	a := newTestApp()
	a, _ = update(t, a, listsLoadedMsg{seq: a.seq, lists: []model.ListSummary{
		{ID: "l1", Name: "Groceries", ItemCount: 2},
	}})
	a, cmd := update(t, a, keyMsg("d"))
	if cmd == nil {
		t.Fatal("delete should fire a request")
	}
	a, cmd = update(t, a, listDeletedMsg{seq: a.seq, id: "l1", err: errors.New("boom")})
	if cmd != nil {
		t.Fatal("failed delete keeps last known-good rows without refetching")
	}
	if len(a.lists.summaries) != 1 {
		t.Fatal("rows must be untouched after a failed delete")
	}
}
