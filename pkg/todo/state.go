package todo

import "strings"

// State is the whole list: ordered items plus the text typed into the input
// box but not yet added.
type State struct {
	Items        []Item `json:"items"`
	PendingInput string `json:"pendingInput"`
}

// DeleteStep reports what RequestDelete did.
type DeleteStep int

const (
	// DeleteNone means no item matched.
	DeleteNone DeleteStep = iota
	// DeleteArmed means the first click armed the confirmation.
	DeleteArmed
	// DeleteRemoved means the armed item was removed.
	DeleteRemoved
)

func (s DeleteStep) String() string {
	switch s {
	case DeleteArmed:
		return "armed"
	case DeleteRemoved:
		return "removed"
	default:
		return "none"
	}
}

// Seed builds a state holding one incomplete item per name.
func Seed(ids IDGenerator, names ...string) State {
	items := make([]Item, 0, len(names))
	for _, name := range names {
		items = append(items, NewItem(name, ids))
	}
	return State{Items: items}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := State{PendingInput: s.PendingInput}
	if s.Items != nil {
		out.Items = make([]Item, len(s.Items))
		copy(out.Items, s.Items)
	}
	return out
}

// Len returns the number of items.
func (s State) Len() int {
	return len(s.Items)
}

// Index returns the position of the item with id, or -1.
func (s State) Index(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range s.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Item returns the item with id.
func (s State) Item(id string) (Item, bool) {
	if idx := s.Index(id); idx >= 0 {
		return s.Items[idx], true
	}
	return Item{}, false
}

// FindByName returns the first item whose name equals name.
func (s State) FindByName(name string) (Item, bool) {
	for _, item := range s.Items {
		if item.Name == name {
			return item, true
		}
	}
	return Item{}, false
}

// Remaining counts incomplete items.
func (s State) Remaining() int {
	n := 0
	for _, item := range s.Items {
		if !item.Completed {
			n++
		}
	}
	return n
}

// SetInput records value verbatim as the pending input.
func (s State) SetInput(value string) State {
	out := s.Clone()
	out.PendingInput = value
	return out
}

// Add appends the pending input as a new incomplete item and clears the
// input. A pending input that is empty after trimming leaves the state
// unchanged and reports false.
func (s State) Add(ids IDGenerator) (State, bool) {
	if strings.TrimSpace(s.PendingInput) == "" {
		return s, false
	}
	out := s.Clone()
	out.Items = append(out.Items, NewItem(s.PendingInput, ids))
	out.PendingInput = ""
	return out, true
}

// Toggle flips the completion flag of the item with id.
func (s State) Toggle(id string) (State, bool) {
	return s.toggleAt(s.Index(id))
}

// ToggleByName flips the first item named name.
func (s State) ToggleByName(name string) (State, bool) {
	item, ok := s.FindByName(name)
	if !ok {
		return s, false
	}
	return s.Toggle(item.ID)
}

// Delete removes the item with id.
func (s State) Delete(id string) (State, bool) {
	return s.deleteAt(s.Index(id))
}

// DeleteByName removes the first item named name, leaving the others in
// their original order.
func (s State) DeleteByName(name string) (State, bool) {
	for i, item := range s.Items {
		if item.Name == name {
			return s.deleteAt(i)
		}
	}
	return s, false
}

// RequestDelete implements the two-step delete: the first request arms the
// item, a second request on an armed item removes it.
func (s State) RequestDelete(id string) (State, DeleteStep) {
	idx := s.Index(id)
	if idx < 0 {
		return s, DeleteNone
	}
	if s.Items[idx].ConfirmDelete {
		out, _ := s.deleteAt(idx)
		return out, DeleteRemoved
	}
	out := s.Clone()
	out.Items[idx].ConfirmDelete = true
	return out, DeleteArmed
}

// Disarm clears the pending confirmation of the item with id.
func (s State) Disarm(id string) (State, bool) {
	idx := s.Index(id)
	if idx < 0 || !s.Items[idx].ConfirmDelete {
		return s, false
	}
	out := s.Clone()
	out.Items[idx].ConfirmDelete = false
	return out, true
}

// DisarmAll clears every pending confirmation.
func (s State) DisarmAll() State {
	out := s.Clone()
	for i := range out.Items {
		out.Items[i].ConfirmDelete = false
	}
	return out
}

func (s State) toggleAt(idx int) (State, bool) {
	if idx < 0 {
		return s, false
	}
	out := s.Clone()
	out.Items[idx].Completed = !out.Items[idx].Completed
	return out, true
}

func (s State) deleteAt(idx int) (State, bool) {
	if idx < 0 {
		return s, false
	}
	out := State{PendingInput: s.PendingInput}
	out.Items = make([]Item, 0, len(s.Items)-1)
	out.Items = append(out.Items, s.Items[:idx]...)
	out.Items = append(out.Items, s.Items[idx+1:]...)
	return out, true
}
