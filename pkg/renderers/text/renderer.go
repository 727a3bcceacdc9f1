// Package text renders the list tree as plain text for terminals and logs.
package text

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-todolist/pkg/dom"
	"github.com/goliatone/go-todolist/pkg/render"
	"github.com/goliatone/go-todolist/pkg/widget"
)

// ErrNilTree is returned when there is nothing to render.
var ErrNilTree = errors.New("text: nil tree")

// Renderer implements render.Renderer with a plain-text layout.
type Renderer struct {
	numbered bool
}

// Option configures the renderer.
type Option func(*Renderer)

// WithNumbers prefixes every row with its 1-based position.
func WithNumbers(enabled bool) Option {
	return func(r *Renderer) {
		r.numbered = enabled
	}
}

// New constructs a text renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{numbered: true}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

var _ render.Renderer = (*Renderer)(nil)

func (r *Renderer) Name() string { return "text" }

func (r *Renderer) ContentType() string { return "text/plain; charset=utf-8" }

// Render lays the tree out as heading, input line and one line per row.
func (r *Renderer) Render(ctx context.Context, root *dom.Node, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, ErrNilTree
	}

	var b strings.Builder
	title := opts.Title
	if h := root.Find(dom.ByTag("h1")); h != nil {
		title = h.TextContent()
	}
	if title != "" {
		b.WriteString(title + "\n")
		b.WriteString(strings.Repeat("=", utf8.RuneCountInString(title)) + "\n")
	}

	if input := root.ElementByID(widget.IDInput); input != nil {
		value := input.Attribute("value")
		if value == "" {
			value = "(" + input.Attribute("placeholder") + ")"
		}
		line := "> " + value
		if btn := root.ElementByID(widget.IDAddButton); btn != nil {
			line += " [" + btn.TextContent() + "]"
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	rows := root.FindAll(dom.ByTag("li"))
	if len(rows) == 0 {
		b.WriteString("  (empty)\n")
	}
	remaining := 0
	for i, li := range rows {
		box := "[ ]"
		if cb := li.Find(dom.ByAttr("type", "checkbox")); cb != nil && cb.HasAttribute("checked") {
			box = "[x]"
		} else {
			remaining++
		}
		label := ""
		if l := li.Find(dom.ByTag("label")); l != nil {
			label = l.TextContent()
		}
		prefix := "  "
		if r.numbered {
			prefix = fmt.Sprintf("%2d. ", i+1)
		}
		line := prefix + box + " " + label
		if li.Find(dom.ByClass(widget.ClassArmed)) != nil {
			line += "  <- delete again to confirm"
		}
		b.WriteString(line + "\n")
	}
	if len(rows) > 0 {
		fmt.Fprintf(&b, "\n%d of %d remaining\n", remaining, len(rows))
	}
	return []byte(b.String()), nil
}
