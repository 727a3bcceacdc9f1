package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-todolist/internal/logging"
	"github.com/goliatone/go-todolist/pkg/config"
	"github.com/goliatone/go-todolist/pkg/storage"
	"github.com/goliatone/go-todolist/pkg/widget"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if diff := cmp.Diff(widget.DefaultSeed(), cfg.Widget.Seed); diff != "" {
		t.Fatalf("seed mismatch (-want +got):\n%s", diff)
	}
	if cfg.Storage.Key != storage.DefaultKey {
		t.Fatalf("storage key = %q", cfg.Storage.Key)
	}
}

func TestLoadFormats(t *testing.T) {
	for _, name := range []string{"todolist.yaml", "todolist.toml", "todolist.json"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := config.Load(filepath.Join("testdata", name))
			if err != nil {
				t.Fatalf("load: %v", err)
			}

			want := config.Default()
			want.Widget.Heading = "Покупки"
			want.Widget.Seed = []string{"Хлеб", "Молоко"}
			want.Widget.ConfirmDelete = true
			want.Storage.Driver = config.DriverFile
			want.Storage.Path = "state.json"
			want.Theme.Variant = "dark"
			want.Theme.Tokens = map[string]string{widget.TokenDeleteConfirmColor: "#aa0000"}
			want.Server.Addr = ":9090"
			want.Server.Grace = config.Duration(750 * time.Millisecond)
			want.Log.Level = "debug"

			if diff := cmp.Diff(want, cfg); diff != "" {
				t.Fatalf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadWithoutPathUsesDefaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(config.Default(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todolist.ini")
	if err := os.WriteFile(path, []byte("x=1"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "unsupported config format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{name: "unknown driver", mutate: func(c *config.Config) { c.Storage.Driver = "redis" }, want: "storage.driver"},
		{name: "file without path", mutate: func(c *config.Config) { c.Storage.Driver = config.DriverFile; c.Storage.Path = "" }, want: "storage.path"},
		{name: "mysql without dsn", mutate: func(c *config.Config) { c.Storage.Driver = config.DriverMySQL }, want: "storage.dsn"},
		{name: "empty key", mutate: func(c *config.Config) { c.Storage.Key = " " }, want: "storage.key"},
		{name: "negative grace", mutate: func(c *config.Config) { c.Server.Grace = -1 }, want: "server.grace"},
		{name: "bad log format", mutate: func(c *config.Config) { c.Log.Format = "xml" }, want: "log.format"},
		{name: "css var confirm colour", mutate: func(c *config.Config) {
			c.Theme.Tokens = map[string]string{widget.TokenDeleteConfirmColor: "var(--todo-delete-confirm-color)"}
		}, want: "delete.confirm-color"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, config.ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestValidateAcceptsPlainColours(t *testing.T) {
	for _, colour := range []string{"#aa0000", "red", "rgb(200, 0, 0)"} {
		cfg := config.Default()
		cfg.Theme.Tokens = map[string]string{widget.TokenDeleteConfirmColor: colour}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("colour %q rejected: %v", colour, err)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TODOLIST_STORAGE_DRIVER": "file",
		"TODOLIST_STORAGE_PATH":   "/tmp/state.json",
		"TODOLIST_CONFIRM_DELETE": "yes",
		"TODOLIST_LOG_LEVEL":      "",
	}
	cfg := config.Default()
	config.ApplyEnv(&cfg, func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	if cfg.Storage.Driver != config.DriverFile || cfg.Storage.Path != "/tmp/state.json" {
		t.Fatalf("storage = %+v", cfg.Storage)
	}
	if !cfg.Widget.ConfirmDelete {
		t.Fatalf("expected confirm delete from env")
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("empty env value should not override, got %q", cfg.Log.Level)
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	store, err := cfg.OpenStore(ctx)
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := store.(*storage.Memory); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}

	cfg.Storage.Driver = config.DriverFile
	cfg.Storage.Path = filepath.Join(t.TempDir(), "state.json")
	store, err = cfg.OpenStore(ctx)
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if err := store.SetItem(ctx, cfg.Storage.Key, `{"items":[]}`); err != nil {
		t.Fatalf("set item: %v", err)
	}
	if _, err := os.Stat(cfg.Storage.Path); err != nil {
		t.Fatalf("state file not written: %v", err)
	}

	cfg.Storage.Driver = "redis"
	if _, err := cfg.OpenStore(ctx); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestWidgetOptionsBuildList(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Widget.Heading = "Покупки"
	cfg.Widget.Seed = []string{"Хлеб"}
	cfg.Widget.ConfirmDelete = true
	cfg.Theme.Variant = "dark"

	store := storage.NewMemory()
	opts, err := cfg.WidgetOptions(store, nil)
	if err != nil {
		t.Fatalf("widget options: %v", err)
	}
	list, err := widget.New(ctx, opts...)
	if err != nil {
		t.Fatalf("new list: %v", err)
	}
	if !list.ConfirmDelete() {
		t.Fatalf("confirm delete not applied")
	}
	if got := list.Theme().Token(widget.TokenDeleteConfirmColor, ""); got != "#ff6b6b" {
		t.Fatalf("dark confirm color = %q", got)
	}
	if got := list.State().Len(); got != 1 {
		t.Fatalf("items = %d, want 1", got)
	}

	if _, err := list.Toggle(ctx, list.State().Items[0].ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, ok, _ := store.GetItem(ctx, cfg.Storage.Key); !ok {
		t.Fatalf("expected state persisted under %q", cfg.Storage.Key)
	}
}

func TestResolveThemeUnknownVariant(t *testing.T) {
	cfg := config.Default()
	cfg.Theme.Variant = "sepia"
	if _, err := cfg.ResolveTheme(); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
}

func TestLoggerUsesLogSection(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "warn"
	cfg.Log.Format = "json"

	var buf strings.Builder
	logger := cfg.Logger(&buf, logging.Options{})
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Fatalf("expected json output, got %s", out)
	}
}
