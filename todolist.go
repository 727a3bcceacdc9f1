// Package todolist is the entry point of the module: it builds TODO list
// widgets and renders them without touching the subpackages directly.
package todolist

import (
	"context"

	"github.com/goliatone/go-todolist/pkg/dom"
	"github.com/goliatone/go-todolist/pkg/orchestrator"
	"github.com/goliatone/go-todolist/pkg/render"
	"github.com/goliatone/go-todolist/pkg/todo"
	"github.com/goliatone/go-todolist/pkg/widget"
)

// List aliases widget.List.
type List = widget.List

// Option aliases widget.Option.
type Option = widget.Option

// State aliases todo.State.
type State = todo.State

// RenderOptions describes per-request overrides passed to renderers.
type RenderOptions = render.RenderOptions

// New builds a list. See widget.New for how the initial state is chosen.
func New(ctx context.Context, opts ...Option) (*List, error) {
	return widget.New(ctx, opts...)
}

// Mount builds a list and mounts it on a new document that is already
// ready, which is what most callers outside a browser want.
func Mount(ctx context.Context, opts ...Option) (*List, *dom.Document, error) {
	list, err := widget.New(ctx, opts...)
	if err != nil {
		return nil, nil, err
	}
	doc := dom.NewDocument()
	list.Mount(doc)
	doc.Ready()
	return list, doc, nil
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// RenderHTML renders a full page for a list built with opts.
func RenderHTML(ctx context.Context, opts ...Option) ([]byte, error) {
	return Render(ctx, "html", render.RenderOptions{}, opts...)
}

// Render builds a list with opts and renders it with the named renderer
// ("html" or "text").
func Render(ctx context.Context, rendererName string, renderOpts RenderOptions, opts ...Option) ([]byte, error) {
	gen := orchestrator.New(orchestrator.WithWidgetOptions(opts...))
	return gen.Generate(ctx, orchestrator.Request{
		Renderer:      rendererName,
		RenderOptions: renderOpts,
	})
}
