// Package html renders the list tree as an HTML fragment or as a full page
// wrapped in a pongo2 template shell.
package html

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/goliatone/go-todolist/pkg/dom"
	"github.com/goliatone/go-todolist/pkg/render"
	rendertemplate "github.com/goliatone/go-todolist/pkg/render/template"
	gotemplate "github.com/goliatone/go-todolist/pkg/render/template/gotemplate"
)

// PageTemplate is the template name used for full pages.
const PageTemplate = "page"

// ErrNilTree is returned when there is nothing to render.
var ErrNilTree = errors.New("html: nil tree")

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	inlineCSS        *string
	lang             string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. It must
// contain page.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithInlineCSS replaces the built-in stylesheet inlined into pages. An
// empty string disables inlining.
func WithInlineCSS(css string) Option {
	return func(cfg *config) {
		cfg.inlineCSS = &css
	}
}

// WithLang sets the html lang attribute.
func WithLang(lang string) Option {
	return func(cfg *config) {
		if lang != "" {
			cfg.lang = lang
		}
	}
}

// Renderer implements render.Renderer for browsers.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	inlineCSS string
	lang      string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), lang: "ru"}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	css := defaultStylesheet()
	if cfg.inlineCSS != nil {
		css = *cfg.inlineCSS
	}
	return &Renderer{templates: templates, inlineCSS: css, lang: cfg.lang}, nil
}

func (r *Renderer) Name() string { return "html" }

func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render serialises root. Markup is passed through the sanitiser unless
// options.Unsafe is set. With options.Fragment only the widget markup is
// returned.
func (r *Renderer) Render(ctx context.Context, root *dom.Node, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	markup, err := Fragment(root, options.Unsafe)
	if err != nil {
		return nil, err
	}
	if options.Fragment {
		return []byte(markup), nil
	}

	title := options.Title
	if title == "" {
		if h := root.Find(dom.ByTag("h1")); h != nil {
			title = h.TextContent()
		}
	}
	data := map[string]any{
		"lang":        r.lang,
		"title":       title,
		"body":        markup,
		"css_vars":    sortedVars(options.CSSVars),
		"inline_css":  r.inlineCSS,
		"stylesheets": options.Stylesheets,
		"scripts":     options.Scripts,
	}
	out, err := r.templates.RenderTemplate(PageTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render page: %w", err)
	}
	return []byte(out), nil
}

// Fragment serialises root, sanitising unless unsafe is true.
func Fragment(root *dom.Node, unsafe bool) (string, error) {
	if root == nil {
		return "", ErrNilTree
	}
	markup, err := dom.RenderString(root)
	if err != nil {
		return "", err
	}
	if unsafe {
		return markup, nil
	}
	return dom.Sanitize(markup), nil
}

func sortedVars(vars map[string]string) []map[string]string {
	if len(vars) == 0 {
		return nil
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]map[string]string, 0, len(names))
	for _, name := range names {
		out = append(out, map[string]string{"name": name, "value": vars[name]})
	}
	return out
}
