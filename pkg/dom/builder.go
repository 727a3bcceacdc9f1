package dom

// CreateElement builds an element from a tag, an attribute map, children and
// event handlers.
//
// children may be nil, a string (one text node), a *Node, or a sequence
// ([]any, []*Node, []string) mixing strings and nodes. Inside a sequence,
// strings become text nodes and nodes are appended as-is in order; any other
// entry (numbers, nested sequences, nil) is dropped without error. Children of
// any other type are dropped as well.
func CreateElement(tag string, attrs Attributes, children any, events Events) *Node {
	el := NewElement(tag)
	for name, value := range attrs {
		el.SetAttribute(name, value)
	}

	switch c := children.(type) {
	case []any:
		for _, child := range c {
			appendChild(el, child)
		}
	case []*Node:
		for _, child := range c {
			appendChild(el, child)
		}
	case []string:
		for _, child := range c {
			appendChild(el, child)
		}
	default:
		appendChild(el, children)
	}

	for typ, h := range events {
		el.AddEventListener(typ, h)
	}
	return el
}

func appendChild(el *Node, child any) {
	switch c := child.(type) {
	case string:
		_ = el.AppendChild(NewText(c))
	case *Node:
		if c == nil {
			return
		}
		_ = el.AppendChild(c)
	}
}
