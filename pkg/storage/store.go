package storage

import (
	"context"
	"errors"
)

// DefaultKey is the key the list state is stored under.
const DefaultKey = "todo-list"

var (
	// ErrCorruptState reports a stored value that cannot be decoded into a
	// list state.
	ErrCorruptState = errors.New("storage: corrupt state")
	// ErrEmptyKey is returned when a backend receives a blank key.
	ErrEmptyKey = errors.New("storage: empty key")
)

// LocalStore is a string key/value store. GetItem reports ok=false for a key
// that has never been set or was removed.
type LocalStore interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Closer is implemented by backends holding external resources.
type Closer interface {
	Close() error
}

// Close releases store resources when the backend holds any.
func Close(store LocalStore) error {
	if c, ok := store.(Closer); ok {
		return c.Close()
	}
	return nil
}
