package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment overrides, e.g. TODOLIST_STORAGE_DRIVER.
const EnvPrefix = "TODOLIST_"

// Load reads path over Default, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := Decode(&cfg, data, filepath.Ext(path)); err != nil {
			return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}
	ApplyEnv(&cfg, os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode unmarshals data into cfg with the codec chosen by ext (".yaml",
// ".yml", ".toml" or ".json"). Fields absent from data keep their values.
func Decode(cfg *Config, data []byte, ext string) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
}

// ApplyEnv overrides single-valued settings from the environment.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if lookup == nil {
		return
	}
	set := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	set("STORAGE_DRIVER", &cfg.Storage.Driver)
	set("STORAGE_PATH", &cfg.Storage.Path)
	set("STORAGE_DSN", &cfg.Storage.DSN)
	set("STORAGE_KEY", &cfg.Storage.Key)
	set("THEME_NAME", &cfg.Theme.Name)
	set("THEME_VARIANT", &cfg.Theme.Variant)
	set("SERVER_ADDR", &cfg.Server.Addr)
	set("LOG_LEVEL", &cfg.Log.Level)
	set("LOG_FORMAT", &cfg.Log.Format)
	if v, ok := lookup(EnvPrefix + "CONFIRM_DELETE"); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			cfg.Widget.ConfirmDelete = true
		case "0", "false", "no", "off":
			cfg.Widget.ConfirmDelete = false
		}
	}
}
