// Package dom provides a small in-memory document tree modelled on the browser
// DOM: element and text nodes, attributes, event listeners, a document with a
// ready signal, and HTML serialisation. CreateElement is the declarative entry
// point widgets use to build their subtrees.
package dom
