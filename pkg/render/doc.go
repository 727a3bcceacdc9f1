// Package render defines the renderer contract shared by every output
// surface of the list and a registry to look renderers up by name.
package render
