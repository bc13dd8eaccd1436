package tui

import (
	"github.com/idilsaglam/tuido/internal/api"
	"github.com/idilsaglam/tuido/internal/model"
)

// Every network response carries the sequence number it was fired under.
// Navigating between screens bumps the app sequence, so a response that
// arrives after the user has moved on compares unequal and is dropped
// instead of being applied to the wrong screen. In-flight requests are
// never cancelled, only ignored.

type listsLoadedMsg struct {
	seq   int
	lists []model.ListSummary
	err   error
}

type listCreatedMsg struct {
	seq int
	ref api.NewListRef
	err error
}

type listDeletedMsg struct {
	seq int
	id  string
	err error
}

type listLoadedMsg struct {
	seq  int
	list model.ToDoList
	err  error
}

// itemMutatedMsg is the shared result of item create/delete/toggle; the
// backend answers all three with the authoritative updated list.
type itemMutatedMsg struct {
	seq  int
	op   string
	list model.ToDoList
	err  error
}
