package dom

import "context"

// Common event names.
const (
	EventClick  = "click"
	EventInput  = "input"
	EventChange = "change"
	EventReady  = "DOMContentLoaded"
)

// Handler reacts to an event dispatched on a node.
type Handler func(*Event)

// Events maps event names to handlers.
type Events map[string]Handler

// Event carries the payload of a dispatched event. Value mirrors the value of
// text inputs and Checked the state of checkboxes after the interaction.
type Event struct {
	Type    string
	Target  *Node
	Value   string
	Checked bool

	ctx context.Context
}

// NewEvent returns an event of the given type bound to ctx.
func NewEvent(ctx context.Context, typ string) *Event {
	return &Event{Type: typ, ctx: ctx}
}

// Context returns the context the event was dispatched with, never nil.
func (e *Event) Context() context.Context {
	if e == nil || e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

// WithContext returns a shallow copy of e bound to ctx.
func (e *Event) WithContext(ctx context.Context) *Event {
	out := *e
	out.ctx = ctx
	return &out
}

// AddEventListener registers h for events named typ. Nil handlers are ignored.
func (n *Node) AddEventListener(typ string, h Handler) {
	if !n.IsElement() || typ == "" || h == nil {
		return
	}
	if n.listeners == nil {
		n.listeners = make(map[string][]Handler)
	}
	n.listeners[typ] = append(n.listeners[typ], h)
}

// RemoveEventListeners drops every handler registered for typ.
func (n *Node) RemoveEventListeners(typ string) {
	if n == nil {
		return
	}
	delete(n.listeners, typ)
}

// HasListener reports whether any handler is registered for typ.
func (n *Node) HasListener(typ string) bool {
	return n != nil && len(n.listeners[typ]) > 0
}

// Dispatch delivers ev to the handlers registered on n, in registration
// order. Events do not bubble. Input events store ev.Value in the value
// attribute and change events on checkboxes reflect ev.Checked before the
// handlers run, matching what a browser shows when the listener fires.
// Dispatch reports whether at least one handler ran.
func (n *Node) Dispatch(ev *Event) bool {
	if !n.IsElement() || ev == nil {
		return false
	}
	if ev.Target == nil {
		ev.Target = n
	}
	switch ev.Type {
	case EventInput:
		n.SetAttribute("value", ev.Value)
	case EventChange:
		if n.Tag == "input" && n.Attribute("type") == "checkbox" {
			if ev.Checked {
				n.SetAttribute("checked", "")
			} else {
				n.RemoveAttribute("checked")
			}
		} else {
			n.SetAttribute("value", ev.Value)
		}
	}

	handlers := append([]Handler(nil), n.listeners[ev.Type]...)
	for _, h := range handlers {
		h(ev)
	}
	return len(handlers) > 0
}
