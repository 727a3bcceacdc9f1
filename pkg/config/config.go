// Package config loads the settings shared by the todolist front ends from a
// YAML, TOML or JSON file and turns them into widget options and stores.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-todolist/internal/logging"
	"github.com/goliatone/go-todolist/pkg/dom"
	"github.com/goliatone/go-todolist/pkg/storage"
	"github.com/goliatone/go-todolist/pkg/widget"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverMySQL  = "mysql"
)

// Defaults.
const (
	DefaultAddr      = "127.0.0.1:8080"
	DefaultGrace     = 5 * time.Second
	DefaultStatePath = "todolist-state.json"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the root of the configuration file.
type Config struct {
	Widget  Widget  `yaml:"widget" toml:"widget" json:"widget"`
	Storage Storage `yaml:"storage" toml:"storage" json:"storage"`
	Theme   Theme   `yaml:"theme" toml:"theme" json:"theme"`
	Server  Server  `yaml:"server" toml:"server" json:"server"`
	Log     Log     `yaml:"log" toml:"log" json:"log"`
}

// Widget holds the labels and behaviour of the list.
type Widget struct {
	Heading       string   `yaml:"heading" toml:"heading" json:"heading"`
	Placeholder   string   `yaml:"placeholder" toml:"placeholder" json:"placeholder"`
	AddLabel      string   `yaml:"addLabel" toml:"addLabel" json:"addLabel"`
	DeleteLabel   string   `yaml:"deleteLabel" toml:"deleteLabel" json:"deleteLabel"`
	Seed          []string `yaml:"seed" toml:"seed" json:"seed"`
	ConfirmDelete bool     `yaml:"confirmDelete" toml:"confirmDelete" json:"confirmDelete"`
	KeyedRows     bool     `yaml:"keyedRows" toml:"keyedRows" json:"keyedRows"`
}

// Storage selects the local store backend.
type Storage struct {
	Driver string `yaml:"driver" toml:"driver" json:"driver"`
	Path   string `yaml:"path" toml:"path" json:"path"`
	DSN    string `yaml:"dsn" toml:"dsn" json:"dsn"`
	Key    string `yaml:"key" toml:"key" json:"key"`
}

// Theme picks a manifest and variant and may override tokens.
type Theme struct {
	Name    string            `yaml:"name" toml:"name" json:"name"`
	Variant string            `yaml:"variant" toml:"variant" json:"variant"`
	Tokens  map[string]string `yaml:"tokens" toml:"tokens" json:"tokens"`
}

// Server configures the HTTP front end.
type Server struct {
	Addr  string   `yaml:"addr" toml:"addr" json:"addr"`
	Grace Duration `yaml:"grace" toml:"grace" json:"grace"`
	Title string   `yaml:"title" toml:"title" json:"title"`
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level" toml:"level" json:"level"`
	Format string `yaml:"format" toml:"format" json:"format"`
}

// Duration is a time.Duration written as "5s" in every file format.
type Duration time.Duration

// UnmarshalText parses values such as "750ms" or "5s".
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText renders the duration as time.Duration.String does.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalYAML accepts the same strings as UnmarshalText.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Widget: Widget{
			Heading:     widget.DefaultHeading,
			Placeholder: widget.DefaultPlaceholder,
			AddLabel:    widget.DefaultAddLabel,
			DeleteLabel: widget.DefaultDeleteLabel,
			Seed:        widget.DefaultSeed(),
		},
		Storage: Storage{
			Driver: DriverMemory,
			Path:   DefaultStatePath,
			Key:    storage.DefaultKey,
		},
		Theme: Theme{
			Name: widget.DefaultThemeName,
		},
		Server: Server{
			Addr:  DefaultAddr,
			Grace: Duration(DefaultGrace),
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate reports every problem found, each wrapping ErrInvalid.
func (c Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverFile:
		if strings.TrimSpace(c.Storage.Path) == "" {
			invalid("storage.path is required for the file driver")
		}
	case DriverMySQL:
		if strings.TrimSpace(c.Storage.DSN) == "" {
			invalid("storage.dsn is required for the mysql driver")
		}
	default:
		invalid("storage.driver %q is not one of memory, file, mysql", c.Storage.Driver)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		invalid("storage.key is required")
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		invalid("server.addr is required")
	}
	if c.Server.Grace < 0 {
		invalid("server.grace must not be negative")
	}
	if v, ok := c.Theme.Tokens[widget.TokenDeleteConfirmColor]; ok && !dom.AllowsStyle("color", v) {
		invalid("theme.tokens %q value %q must be a hex, rgb or named colour", widget.TokenDeleteConfirmColor, v)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json", "logfmt":
	default:
		invalid("log.format %q is not one of text, json, logfmt", c.Log.Format)
	}
	return errors.Join(errs...)
}

// OpenStore opens the configured backend. Callers release it with
// storage.Close.
func (c Config) OpenStore(ctx context.Context) (storage.LocalStore, error) {
	switch c.Storage.Driver {
	case "", DriverMemory:
		return storage.NewMemory(), nil
	case DriverFile:
		store, err := storage.NewFile(c.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("config: open file store: %w", err)
		}
		return store, nil
	case DriverMySQL:
		store, err := storage.OpenSQL(ctx, c.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("config: open mysql store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: storage.driver %q", ErrInvalid, c.Storage.Driver)
	}
}

// ResolveTheme picks the configured manifest and variant from the built-in
// manifests and applies token overrides.
func (c Config) ResolveTheme() (widget.Theme, error) {
	selector, err := widget.NewThemeSelector(widget.DefaultManifest())
	if err != nil {
		return widget.Theme{}, err
	}
	theme, err := widget.SelectTheme(selector, c.Theme.Name, c.Theme.Variant)
	if err != nil {
		return widget.Theme{}, err
	}
	return theme.WithTokens(c.Theme.Tokens), nil
}

// Logger builds the logger described by the log section. Level and format
// in opts are replaced; a nil w writes to stderr.
func (c Config) Logger(w io.Writer, opts logging.Options) *log.Logger {
	opts.Level = c.Log.Level
	opts.Format = c.Log.Format
	return logging.New(w, opts)
}

// WidgetOptions translates the widget and theme sections. store may be nil.
func (c Config) WidgetOptions(store storage.LocalStore, logger *log.Logger) ([]widget.Option, error) {
	theme, err := c.ResolveTheme()
	if err != nil {
		return nil, err
	}
	opts := []widget.Option{
		widget.WithHeading(c.Widget.Heading),
		widget.WithPlaceholder(c.Widget.Placeholder),
		widget.WithLabels(c.Widget.AddLabel, c.Widget.DeleteLabel),
		widget.WithSeed(c.Widget.Seed...),
		widget.WithConfirmDelete(c.Widget.ConfirmDelete),
		widget.WithKeyedRows(c.Widget.KeyedRows),
		widget.WithTheme(theme),
		widget.WithLogger(logger),
	}
	if store != nil {
		opts = append(opts, widget.WithStore(store, c.Storage.Key))
	}
	return opts, nil
}
