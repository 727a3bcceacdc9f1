package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-todolist/internal/logging"
	"github.com/goliatone/go-todolist/pkg/dom"
	"github.com/goliatone/go-todolist/pkg/render"
	htmlrenderer "github.com/goliatone/go-todolist/pkg/renderers/html"
	textrenderer "github.com/goliatone/go-todolist/pkg/renderers/text"
	"github.com/goliatone/go-todolist/pkg/storage"
	"github.com/goliatone/go-todolist/pkg/todo"
	"github.com/goliatone/go-todolist/pkg/widget"
)

const defaultRendererName = "html"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithStore reads and persists list state through store under key.
func WithStore(store storage.LocalStore, key string) Option {
	return func(o *Orchestrator) {
		o.store = store
		o.storeKey = key
	}
}

// WithWidgetOptions appends options passed to every list the orchestrator
// builds.
func WithWidgetOptions(opts ...widget.Option) Option {
	return func(o *Orchestrator) {
		o.widgetOptions = append(o.widgetOptions, opts...)
	}
}

// WithLogger sets the logger handed to lists and used for pipeline events.
func WithLogger(logger *log.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator builds a list, mounts it on a fresh document and renders it
// with a named renderer. The html and text renderers are registered unless a
// registry is injected.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	store           storage.LocalStore
	storeKey        string
	widgetOptions   []widget.Option
	logger          *log.Logger
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one render.
type Request struct {
	// State, when set, is rendered as is and the configured store is neither
	// read nor written.
	State *todo.State

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// RenderOptions is passed to the renderer. Empty CSSVars are filled from
	// the list theme.
	RenderOptions render.RenderOptions
}

// Generate builds the list, mounts it and returns the rendered bytes.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	list, err := o.buildList(ctx, req)
	if err != nil {
		return nil, err
	}
	doc := dom.NewDocument()
	list.Mount(doc)
	doc.Ready()

	opts := req.RenderOptions
	if opts.CSSVars == nil {
		opts.CSSVars = list.Theme().CSSVars()
	}
	output, err := renderer.Render(ctx, list.Node(), opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	o.logger.Debug("list rendered", "renderer", renderer.Name(), "items", list.State().Len(), "bytes", len(output))
	return output, nil
}

func (o *Orchestrator) buildList(ctx context.Context, req Request) (*widget.List, error) {
	opts := append([]widget.Option{widget.WithLogger(o.logger)}, o.widgetOptions...)

	switch {
	case req.State != nil:
		opts = append(opts, widget.WithState(*req.State), widget.WithStore(nil, ""))
	case o.store != nil:
		opts = append(opts, widget.WithStore(o.store, o.storeKey))
	}

	list, err := widget.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: build list: %w", err)
	}
	return list, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}
	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	renderer, err := o.registry.Get("")
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}
	o.logger = logging.OrDiscard(o.logger)
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := htmlrenderer.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
		o.registry.MustRegister(textrenderer.New())
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	o.defaultsApplied = true
}
