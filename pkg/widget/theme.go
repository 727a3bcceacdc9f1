package widget

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Theme token names read by the list.
const (
	TokenDeleteColor         = "delete.color"
	TokenDeleteConfirmColor  = "delete.confirm-color"
	TokenCompletedDecoration = "completed.decoration"
	TokenCompletedOpacity    = "completed.opacity"
)

// DefaultThemeName names the built-in manifest.
const DefaultThemeName = "todolist"

// Theme is a manifest resolved for one variant.
type Theme struct {
	Name    string
	Variant string
	Tokens  map[string]string
}

// DefaultManifest returns the built-in theme with a dark variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			TokenDeleteColor:         "inherit",
			TokenDeleteConfirmColor:  "#d62828",
			TokenCompletedDecoration: "line-through",
			TokenCompletedOpacity:    "0.6",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					TokenDeleteColor:        "#e0e0e0",
					TokenDeleteConfirmColor: "#ff6b6b",
				},
			},
		},
	}
}

// ResolveTheme resolves manifest for variant. An unknown variant resolves
// to the base tokens.
func ResolveTheme(manifest *theme.Manifest, variant string) Theme {
	if manifest == nil {
		manifest = DefaultManifest()
	}
	if _, ok := manifest.Variants[variant]; !ok {
		variant = ""
	}
	return themeFromSelection(theme.Selection{Theme: manifest.Name, Variant: variant, Manifest: manifest})
}

// NewThemeSelector registers manifests in a go-theme registry and returns a
// selector over it. The first manifest is the default; with none given the
// built-in manifest is registered.
func NewThemeSelector(manifests ...*theme.Manifest) (theme.ThemeSelector, error) {
	if len(manifests) == 0 {
		manifests = []*theme.Manifest{DefaultManifest()}
	}
	registry := theme.NewRegistry()
	for _, m := range manifests {
		if err := registry.Register(m); err != nil {
			return nil, fmt.Errorf("widget: register theme: %w", err)
		}
	}
	return theme.Selector{Registry: registry, DefaultTheme: manifests[0].Name}, nil
}

// SelectTheme asks selector for name/variant. Unknown names fall back to the
// selector's default theme; an unknown variant is an error.
func SelectTheme(selector theme.ThemeSelector, name, variant string) (Theme, error) {
	if selector == nil {
		var err error
		if selector, err = NewThemeSelector(); err != nil {
			return Theme{}, err
		}
	}
	sel, err := selector.Select(name, variant)
	if err != nil {
		return Theme{}, fmt.Errorf("widget: select theme %q: %w", name, err)
	}
	if sel == nil || sel.Manifest == nil {
		return Theme{}, fmt.Errorf("widget: theme %q has no manifest", name)
	}
	if sel.Variant != "" {
		if _, ok := sel.Manifest.Variants[sel.Variant]; !ok {
			return Theme{}, fmt.Errorf("widget: theme %q has no variant %q", sel.Manifest.Name, sel.Variant)
		}
	}
	return themeFromSelection(*sel), nil
}

func themeFromSelection(sel theme.Selection) Theme {
	return Theme{Name: sel.Manifest.Name, Variant: sel.Variant, Tokens: sel.Tokens()}
}

// WithTokens returns a copy of t with overrides applied.
func (t Theme) WithTokens(overrides map[string]string) Theme {
	out := Theme{Name: t.Name, Variant: t.Variant, Tokens: make(map[string]string, len(t.Tokens)+len(overrides))}
	for k, v := range t.Tokens {
		out.Tokens[k] = v
	}
	for k, v := range overrides {
		out.Tokens[k] = v
	}
	return out
}

// Token returns the token value or fallback when unset.
func (t Theme) Token(name, fallback string) string {
	if v, ok := t.Tokens[name]; ok && v != "" {
		return v
	}
	return fallback
}

// CSSVars exposes the tokens as custom properties, e.g.
// delete.confirm-color becomes --todo-delete-confirm-color.
func (t Theme) CSSVars() map[string]string {
	out := make(map[string]string, len(t.Tokens))
	for k, v := range t.Tokens {
		out["--todo-"+strings.ReplaceAll(k, ".", "-")] = v
	}
	return out
}
