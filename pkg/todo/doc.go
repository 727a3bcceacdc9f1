// Package todo defines the TODO list domain: items, the list state, and the
// pure transitions the list container applies on user actions. Every
// transition returns a new State; the receiver is never mutated.
package todo
