// Package component holds the render lifecycle shared by widgets: a component
// renders a fresh subtree from its state, and Base records the mounted node so
// the next render can replace it in its parent.
package component

import (
	"fmt"

	"github.com/goliatone/go-todolist/pkg/dom"
)

// Renderer produces a brand-new subtree from the current state.
type Renderer interface {
	Render() *dom.Node
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func() *dom.Node

// Render calls f.
func (f RenderFunc) Render() *dom.Node {
	return f()
}

// Base records the node produced by the last render.
type Base struct {
	node *dom.Node
}

// Node returns the currently mounted node.
func (b *Base) Node() *dom.Node {
	return b.node
}

// Mount renders r, records the result and returns it.
func (b *Base) Mount(r Renderer) *dom.Node {
	b.node = r.Render()
	return b.node
}

// Update renders r and swaps the new subtree for the mounted one inside its
// parent (replace-on-write). Without a mounted node it behaves like Mount. A
// nil render removes the mounted node from its parent.
func (b *Base) Update(r Renderer) (*dom.Node, error) {
	next := r.Render()
	prev := b.node
	if prev != nil {
		if parent := prev.Parent(); parent != nil {
			var err error
			if next == nil {
				err = parent.RemoveChild(prev)
			} else {
				err = parent.ReplaceChild(next, prev)
			}
			if err != nil {
				return prev, fmt.Errorf("component: replace mounted node: %w", err)
			}
		}
	}
	b.node = next
	return next, nil
}
