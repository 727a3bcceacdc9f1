package widget

import (
	"github.com/charmbracelet/log"

	"github.com/goliatone/go-todolist/pkg/storage"
	"github.com/goliatone/go-todolist/pkg/todo"
)

// Default labels.
const (
	DefaultHeading     = "TODO List"
	DefaultPlaceholder = "Задание"
	DefaultAddLabel    = "+"
	DefaultDeleteLabel = "🗑️"
)

// DefaultSeed returns the items a fresh list starts with.
func DefaultSeed() []string {
	return []string{"Сделать домашку", "Сделать практику", "Пойти домой"}
}

// Option configures a List.
type Option func(*options)

type options struct {
	heading       string
	placeholder   string
	addLabel      string
	deleteLabel   string
	seed          []string
	confirmDelete bool
	store         storage.LocalStore
	storeKey      string
	theme         Theme
	logger        *log.Logger
	ids           todo.IDGenerator
	keyedRows     bool
	initial       *todo.State
}

func defaultOptions() options {
	return options{
		heading:     DefaultHeading,
		placeholder: DefaultPlaceholder,
		addLabel:    DefaultAddLabel,
		deleteLabel: DefaultDeleteLabel,
		seed:        DefaultSeed(),
		storeKey:    storage.DefaultKey,
		theme:       ResolveTheme(DefaultManifest(), ""),
		ids:         todo.UUIDs(),
	}
}

// WithHeading sets the h1 text.
func WithHeading(heading string) Option {
	return func(o *options) {
		if heading != "" {
			o.heading = heading
		}
	}
}

// WithPlaceholder sets the input placeholder.
func WithPlaceholder(placeholder string) Option {
	return func(o *options) {
		o.placeholder = placeholder
	}
}

// WithLabels sets the add and delete button labels. Empty values keep the
// defaults.
func WithLabels(add, del string) Option {
	return func(o *options) {
		if add != "" {
			o.addLabel = add
		}
		if del != "" {
			o.deleteLabel = del
		}
	}
}

// WithSeed replaces the initial items used when the store holds nothing.
func WithSeed(names ...string) Option {
	return func(o *options) {
		o.seed = append([]string(nil), names...)
	}
}

// WithConfirmDelete enables the two-click delete.
func WithConfirmDelete(enabled bool) Option {
	return func(o *options) {
		o.confirmDelete = enabled
	}
}

// WithStore persists the list under key. An empty key uses
// storage.DefaultKey.
func WithStore(store storage.LocalStore, key string) Option {
	return func(o *options) {
		o.store = store
		if key != "" {
			o.storeKey = key
		}
	}
}

// WithTheme sets the resolved theme tokens.
func WithTheme(theme Theme) Option {
	return func(o *options) {
		o.theme = theme
	}
}

// WithLogger sets the logger. Nil keeps the discarding default.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithIDGenerator overrides how new item ids are produced.
func WithIDGenerator(ids todo.IDGenerator) Option {
	return func(o *options) {
		if ids != nil {
			o.ids = ids
		}
	}
}

// WithKeyedRows keeps row subtrees of unchanged items across renders instead
// of rebuilding every row.
func WithKeyedRows(enabled bool) Option {
	return func(o *options) {
		o.keyedRows = enabled
	}
}

// WithState starts the list from state instead of the store or the seed.
// Armed deletes in state are kept.
func WithState(state todo.State) Option {
	return func(o *options) {
		clone := state.Clone()
		o.initial = &clone
	}
}
