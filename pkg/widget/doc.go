// Package widget implements the TODO list container. A List owns the list
// state, renders its whole subtree from scratch on every change and swaps the
// new subtree for the mounted one (replace-on-write). Handlers bound to the
// rendered elements translate DOM events into state transitions from package
// todo, persist the result through a storage.LocalStore when one is
// configured and re-render.
package widget
