package todo

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Item is one task. ID is the stable identity used for every update and
// delete; Name is display text and may repeat. ConfirmDelete is transient UI
// state (armed delete button) and is never persisted.
type Item struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	Completed     bool   `json:"completed"`
	ConfirmDelete bool   `json:"-"`
}

// IDGenerator returns a fresh identifier on each call.
type IDGenerator func() string

// UUIDs generates random UUID identifiers.
func UUIDs() IDGenerator {
	return uuid.NewString
}

// SequentialIDs returns prefix-1, prefix-2, ... Safe for concurrent use.
func SequentialIDs(prefix string) IDGenerator {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func (g IDGenerator) next() string {
	if g == nil {
		return uuid.NewString()
	}
	return g()
}

// NewItem returns an incomplete item named name with a fresh id.
func NewItem(name string, ids IDGenerator) Item {
	return Item{ID: ids.next(), Name: name}
}
