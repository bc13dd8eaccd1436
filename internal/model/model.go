package model

import "github.com/google/uuid"

// ListSummary is one row of the lists overview, as returned by GET /api/lists.
type ListSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ItemCount int    `json:"item_count"`
}

// Item is a single entry inside a list.
type Item struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`

	// Synthetic marks ids minted locally because the server omitted one.
	// Such items render fine but cannot be mutated (the server has no
	// address for them), so mutation paths skip them.
	Synthetic bool `json:"-"`
}

// ToDoList is a full list with its items, as returned by GET /api/lists/{id}
// and by every item mutation endpoint.
type ToDoList struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Normalize makes a server payload safe to render: items with duplicate ids
// collapse to the first occurrence, and items without an id get a synthetic
// one so list widgets always have a stable key.
func (l *ToDoList) Normalize() {
	if len(l.Items) == 0 {
		return
	}
	seen := make(map[string]struct{}, len(l.Items))
	out := l.Items[:0]
	for _, it := range l.Items {
		if it.ID == "" {
			it.ID = uuid.NewString()
			it.Synthetic = true
		} else if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	l.Items = out
}

// Find returns the item with the given id.
func (l ToDoList) Find(id string) (Item, bool) {
	for _, it := range l.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// CloneItems copies the items slice so a snapshot survives in-place edits.
func (l ToDoList) CloneItems() []Item {
	if l.Items == nil {
		return nil
	}
	out := make([]Item, len(l.Items))
	copy(out, l.Items)
	return out
}

// Stats counts done and pending items.
func (l ToDoList) Stats() (done, pending int) {
	for _, it := range l.Items {
		if it.Checked {
			done++
		} else {
			pending++
		}
	}
	return
}
