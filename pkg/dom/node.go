package dom

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrHierarchy is returned when an insertion would produce an invalid tree
	// (children on a text node, a node inserted into itself or a descendant).
	ErrHierarchy = errors.New("dom: hierarchy request")
	// ErrNotChild is returned when the reference node is not a child of the
	// node being modified.
	ErrNotChild = errors.New("dom: node is not a child of this node")
)

// NodeType distinguishes elements from text nodes.
type NodeType int

const (
	ElementNode NodeType = iota + 1
	TextNode
)

// Attributes maps attribute names to their string values.
type Attributes map[string]string

// Node is an element or a text node.
type Node struct {
	Type NodeType
	// Tag is the lower-case element name. Empty for text nodes.
	Tag string
	// Data holds the text of a text node.
	Data string

	attrs     map[string]string
	children  []*Node
	parent    *Node
	listeners map[string][]Handler
}

// NewElement returns a detached element with the given tag.
func NewElement(tag string) *Node {
	return &Node{
		Type: ElementNode,
		Tag:  strings.ToLower(strings.TrimSpace(tag)),
	}
}

// NewText returns a detached text node.
func NewText(data string) *Node {
	return &Node{Type: TextNode, Data: data}
}

// IsElement reports whether n is an element node.
func (n *Node) IsElement() bool {
	return n != nil && n.Type == ElementNode
}

// SetAttribute sets name to value. Text nodes ignore attributes.
func (n *Node) SetAttribute(name, value string) {
	if !n.IsElement() || name == "" {
		return
	}
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
}

// GetAttribute returns the value of name and whether it is present.
func (n *Node) GetAttribute(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	value, ok := n.attrs[name]
	return value, ok
}

// Attribute returns the value of name or an empty string.
func (n *Node) Attribute(name string) string {
	value, _ := n.GetAttribute(name)
	return value
}

// HasAttribute reports whether name is set.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

// RemoveAttribute deletes name.
func (n *Node) RemoveAttribute(name string) {
	if n == nil {
		return
	}
	delete(n.attrs, name)
}

// AttributeNames returns the attribute names sorted lexically.
func (n *Node) AttributeNames() []string {
	if n == nil || len(n.attrs) == 0 {
		return nil
	}
	names := make([]string, 0, len(n.attrs))
	for name := range n.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ID returns the id attribute.
func (n *Node) ID() string {
	return n.Attribute("id")
}

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	if n == nil || len(n.children) == 0 {
		return nil
	}
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	if n == nil {
		return 0
	}
	return len(n.children)
}

// AppendChild appends child, detaching it from its current parent first.
func (n *Node) AppendChild(child *Node) error {
	if err := n.checkInsert(child); err != nil {
		return err
	}
	child.detach()
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

// RemoveChild detaches child from n.
func (n *Node) RemoveChild(child *Node) error {
	if n == nil || child == nil || child.parent != n {
		return ErrNotChild
	}
	child.detach()
	return nil
}

// ReplaceChild swaps oldChild for newChild in place. newChild is detached from
// its current parent first.
func (n *Node) ReplaceChild(newChild, oldChild *Node) error {
	if oldChild == nil || oldChild.parent != n {
		return ErrNotChild
	}
	if newChild == oldChild {
		return nil
	}
	if err := n.checkInsert(newChild); err != nil {
		return err
	}
	newChild.detach()
	idx := n.indexOf(oldChild)
	n.children[idx] = newChild
	newChild.parent = n
	oldChild.parent = nil
	return nil
}

// TextContent concatenates the text of n and all of its descendants.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	if n.Type == TextNode {
		return n.Data
	}
	var b strings.Builder
	n.Walk(func(node *Node) bool {
		if node.Type == TextNode {
			b.WriteString(node.Data)
		}
		return true
	})
	return b.String()
}

// Walk visits n and its descendants depth-first in document order. Returning
// false from fn stops the walk.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || fn == nil {
		return
	}
	n.walk(fn)
}

func (n *Node) walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, child := range n.children {
		if !child.walk(fn) {
			return false
		}
	}
	return true
}

// Find returns the first node in document order matching match.
func (n *Node) Find(match func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if match(node) {
			found = node
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node in document order matching match.
func (n *Node) FindAll(match func(*Node) bool) []*Node {
	var out []*Node
	n.Walk(func(node *Node) bool {
		if match(node) {
			out = append(out, node)
		}
		return true
	})
	return out
}

// ElementByID returns the first descendant (or n itself) whose id is id.
func (n *Node) ElementByID(id string) *Node {
	if id == "" {
		return nil
	}
	return n.Find(ByAttr("id", id))
}

// ByTag matches elements with the given tag.
func ByTag(tag string) func(*Node) bool {
	tag = strings.ToLower(tag)
	return func(n *Node) bool {
		return n.IsElement() && n.Tag == tag
	}
}

// ByAttr matches elements whose attribute name equals value.
func ByAttr(name, value string) func(*Node) bool {
	return func(n *Node) bool {
		if !n.IsElement() {
			return false
		}
		got, ok := n.attrs[name]
		return ok && got == value
	}
}

// ByClass matches elements whose class list contains class.
func ByClass(class string) func(*Node) bool {
	return func(n *Node) bool {
		if !n.IsElement() {
			return false
		}
		for _, token := range strings.Fields(n.attrs["class"]) {
			if token == class {
				return true
			}
		}
		return false
	}
}

func (n *Node) checkInsert(child *Node) error {
	if n == nil || child == nil || n.Type != ElementNode {
		return ErrHierarchy
	}
	for ancestor := n; ancestor != nil; ancestor = ancestor.parent {
		if ancestor == child {
			return ErrHierarchy
		}
	}
	return nil
}

func (n *Node) detach() {
	parent := n.parent
	if parent == nil {
		return
	}
	idx := parent.indexOf(n)
	if idx >= 0 {
		parent.children = append(parent.children[:idx], parent.children[idx+1:]...)
	}
	n.parent = nil
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}
