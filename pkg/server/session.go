package server

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-todolist/pkg/dom"
	"github.com/goliatone/go-todolist/pkg/todo"
	"github.com/goliatone/go-todolist/pkg/widget"
)

// ErrTargetNotFound is returned when an event names no element of the tree.
var ErrTargetNotFound = errors.New("server: event target not found")

// EventRequest is the body of POST /api/events.
type EventRequest struct {
	Target  string `json:"target"`
	Tag     string `json:"tag,omitempty"`
	Type    string `json:"type"`
	Value   string `json:"value,omitempty"`
	Checked bool   `json:"checked,omitempty"`
}

// Session owns a mounted list and serialises access to it.
type Session struct {
	mu   sync.Mutex
	list *widget.List
	doc  *dom.Document
}

// NewSession mounts list on a fresh document and fires the ready signal.
func NewSession(list *widget.List) *Session {
	doc := dom.NewDocument()
	list.Mount(doc)
	doc.Ready()
	return &Session{list: list, doc: doc}
}

// List returns the hosted widget.
func (s *Session) List() *widget.List {
	return s.list
}

// Snapshot calls fn with the mounted tree and a copy of the state while
// holding the session lock.
func (s *Session) Snapshot(fn func(root *dom.Node, state todo.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.list.Node(), s.list.State())
}

// Dispatch resolves req to an element and delivers the event. The target is
// looked up by element id first and then by data-id, optionally restricted
// to req.Tag. fn runs under the same lock with the tree after the event.
func (s *Session) Dispatch(ctx context.Context, req EventRequest, fn func(root *dom.Node, state todo.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.resolve(req)
	if target == nil {
		return ErrTargetNotFound
	}
	ev := dom.NewEvent(ctx, req.Type)
	ev.Value = req.Value
	ev.Checked = req.Checked
	target.Dispatch(ev)

	if fn == nil {
		return nil
	}
	return fn(s.list.Node(), s.list.State())
}

func (s *Session) resolve(req EventRequest) *dom.Node {
	root := s.list.Node()
	if root == nil {
		return nil
	}
	if el := root.ElementByID(req.Target); el != nil {
		if req.Tag == "" || el.Tag == req.Tag {
			return el
		}
	}
	byData := dom.ByAttr("data-id", req.Target)
	if req.Tag == "" {
		return root.Find(byData)
	}
	byTag := dom.ByTag(req.Tag)
	return root.Find(func(n *dom.Node) bool {
		return byTag(n) && byData(n)
	})
}
