package render

import (
	"context"

	"github.com/goliatone/go-todolist/pkg/dom"
)

// Renderer turns a mounted widget tree into a byte representation (an HTML
// page, a fragment, plain text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, root *dom.Node, options RenderOptions) ([]byte, error)
}
