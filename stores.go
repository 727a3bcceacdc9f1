package todolist

import (
	"context"

	"github.com/goliatone/go-todolist/pkg/storage"
	"github.com/goliatone/go-todolist/pkg/widget"
)

// LocalStore aliases storage.LocalStore.
type LocalStore = storage.LocalStore

// NewMemoryStore returns a process-local store.
func NewMemoryStore() LocalStore {
	return storage.NewMemory()
}

// NewFileStore returns a store backed by a JSON file at path.
func NewFileStore(path string) (LocalStore, error) {
	store, err := storage.NewFile(path)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// OpenMySQLStore connects to dsn and prepares the backing table. Release it
// with storage.Close.
func OpenMySQLStore(ctx context.Context, dsn string) (LocalStore, error) {
	store, err := storage.OpenSQL(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// WithStore persists the list in store under key.
func WithStore(store LocalStore, key string) Option {
	return widget.WithStore(store, key)
}
