package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrTargetMissing means the element a prompt action addresses is not in
	// the mounted tree.
	ErrTargetMissing = errors.New("tui: target element missing")
)
