package widget

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-todolist/internal/logging"
	"github.com/goliatone/go-todolist/pkg/component"
	"github.com/goliatone/go-todolist/pkg/dom"
	"github.com/goliatone/go-todolist/pkg/storage"
	"github.com/goliatone/go-todolist/pkg/todo"
)

// List is the TODO list container. It is not safe for concurrent use;
// callers that dispatch events from several goroutines must serialise them.
type List struct {
	base    component.Base
	state   todo.State
	opts    options
	logger  *log.Logger
	rows    *component.Cache[string, *row]
	mounted bool
}

var _ component.Renderer = (*List)(nil)

// New builds a list. A state given with WithState wins. Otherwise, when a
// store is configured and holds a value under the key, that value becomes
// the initial state; a value that cannot be decoded is returned as an error
// wrapping storage.ErrCorruptState. Otherwise the seed items are used.
func New(ctx context.Context, opts ...Option) (*List, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	l := &List{
		opts:   cfg,
		logger: logging.OrDiscard(cfg.logger),
		rows:   component.NewCache[string, *row](),
	}

	if cfg.initial != nil {
		l.state = *cfg.initial
		return l, nil
	}
	if cfg.store != nil {
		state, found, err := storage.Load(ctx, cfg.store, cfg.storeKey, cfg.ids)
		if err != nil {
			return nil, fmt.Errorf("widget: load state: %w", err)
		}
		if found {
			l.state = state
			l.logger.Debug("state restored", "key", cfg.storeKey, "items", state.Len())
			return l, nil
		}
	}
	l.state = todo.Seed(cfg.ids, cfg.seed...)
	return l, nil
}

// State returns a copy of the current state.
func (l *List) State() todo.State {
	return l.state.Clone()
}

// Node returns the mounted subtree, nil before the first render.
func (l *List) Node() *dom.Node {
	return l.base.Node()
}

// Theme returns the theme the list renders with.
func (l *List) Theme() Theme {
	return l.opts.theme
}

// ConfirmDelete reports whether deletes need a second click.
func (l *List) ConfirmDelete() bool {
	return l.opts.confirmDelete
}

// Mount appends the list to the document body once the document is ready.
// Repeated calls are ignored.
func (l *List) Mount(doc *dom.Document) {
	if l.mounted || doc == nil {
		return
	}
	l.mounted = true
	doc.OnReady(func() {
		if err := doc.Body.AppendChild(l.base.Mount(l)); err != nil {
			l.logger.Error("mount list", "err", err)
		}
	})
}

// Refresh re-renders the list without changing state.
func (l *List) Refresh() error {
	_, err := l.base.Update(l)
	return err
}

// SetInput records the text typed into the input box and persists it. The
// list is not re-rendered since the input already shows the value.
func (l *List) SetInput(ctx context.Context, value string) error {
	return l.commit(ctx, l.state.SetInput(value), false)
}

// Add appends the pending input as a new item. It reports false and leaves
// everything untouched when the input is blank.
func (l *List) Add(ctx context.Context) (bool, error) {
	next, ok := l.state.Add(l.opts.ids)
	if !ok {
		return false, nil
	}
	item := next.Items[len(next.Items)-1]
	l.logger.Info("item added", "id", item.ID, "name", item.Name)
	return true, l.commit(ctx, next, true)
}

// Toggle flips the completion flag of the item with id.
func (l *List) Toggle(ctx context.Context, id string) (bool, error) {
	next, ok := l.state.Toggle(id)
	if !ok {
		return false, nil
	}
	l.logger.Debug("item toggled", "id", id)
	return true, l.commit(ctx, next, true)
}

// ToggleByName flips the first item named name.
func (l *List) ToggleByName(ctx context.Context, name string) (bool, error) {
	item, ok := l.state.FindByName(name)
	if !ok {
		return false, nil
	}
	return l.Toggle(ctx, item.ID)
}

// Delete removes the item with id immediately, whether or not confirmation
// is enabled.
func (l *List) Delete(ctx context.Context, id string) (bool, error) {
	next, ok := l.state.Delete(id)
	if !ok {
		return false, nil
	}
	l.logger.Info("item deleted", "id", id)
	return true, l.commit(ctx, next, true)
}

// DeleteByName removes the first item named name.
func (l *List) DeleteByName(ctx context.Context, name string) (bool, error) {
	item, ok := l.state.FindByName(name)
	if !ok {
		return false, nil
	}
	return l.Delete(ctx, item.ID)
}

// RequestDelete is what the delete button does. With confirmation disabled
// it deletes straight away; otherwise the first request arms the item and
// the second removes it.
func (l *List) RequestDelete(ctx context.Context, id string) (todo.DeleteStep, error) {
	if !l.opts.confirmDelete {
		ok, err := l.Delete(ctx, id)
		if !ok {
			return todo.DeleteNone, err
		}
		return todo.DeleteRemoved, err
	}
	next, step := l.state.RequestDelete(id)
	switch step {
	case todo.DeleteNone:
		return step, nil
	case todo.DeleteArmed:
		l.logger.Debug("delete armed", "id", id)
	case todo.DeleteRemoved:
		l.logger.Info("item deleted", "id", id)
	}
	return step, l.commit(ctx, next, true)
}

// CancelDelete disarms a pending confirmation.
func (l *List) CancelDelete(ctx context.Context, id string) (bool, error) {
	next, ok := l.state.Disarm(id)
	if !ok {
		return false, nil
	}
	return true, l.commit(ctx, next, true)
}

// Reset replaces the state with the seed items.
func (l *List) Reset(ctx context.Context) error {
	return l.commit(ctx, todo.Seed(l.opts.ids, l.opts.seed...), true)
}

// commit installs next, persists it and re-renders. A failed write is
// logged and returned but the new state stays in place.
func (l *List) commit(ctx context.Context, next todo.State, rerender bool) error {
	l.state = next
	var errs []error
	if l.opts.store != nil {
		if err := storage.Save(ctx, l.opts.store, l.opts.storeKey, l.state); err != nil {
			l.logger.Error("persist state", "key", l.opts.storeKey, "err", err)
			errs = append(errs, err)
		}
	}
	if rerender {
		if _, err := l.base.Update(l); err != nil {
			l.logger.Error("re-render list", "err", err)
			errs = append(errs, fmt.Errorf("widget: update: %w", err))
		}
	}
	return errors.Join(errs...)
}
