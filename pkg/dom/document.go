package dom

// Document owns the root html element and its head and body, and the
// document-ready signal widgets use to mount themselves.
type Document struct {
	Root *Node
	Head *Node
	Body *Node

	ready []func()
	fired bool
}

// NewDocument returns an empty document: html > (head, body).
func NewDocument() *Document {
	root := NewElement("html")
	head := NewElement("head")
	body := NewElement("body")
	_ = root.AppendChild(head)
	_ = root.AppendChild(body)
	return &Document{Root: root, Head: head, Body: body}
}

// CreateElement returns a detached element.
func (d *Document) CreateElement(tag string) *Node {
	return NewElement(tag)
}

// CreateTextNode returns a detached text node.
func (d *Document) CreateTextNode(data string) *Node {
	return NewText(data)
}

// ElementByID searches the whole document.
func (d *Document) ElementByID(id string) *Node {
	return d.Root.ElementByID(id)
}

// OnReady registers fn to run when the document becomes ready. Callbacks
// registered after the signal fired run immediately.
func (d *Document) OnReady(fn func()) {
	if fn == nil {
		return
	}
	if d.fired {
		fn()
		return
	}
	d.ready = append(d.ready, fn)
}

// Ready fires the ready signal. Callbacks run once, in registration order;
// later calls are no-ops.
func (d *Document) Ready() {
	if d.fired {
		return
	}
	d.fired = true
	callbacks := d.ready
	d.ready = nil
	for _, fn := range callbacks {
		fn()
	}
}

// IsReady reports whether Ready has fired.
func (d *Document) IsReady() bool {
	return d.fired
}
