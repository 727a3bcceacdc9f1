// Package orchestrator wires the store → list → document → renderer pipeline
// behind a single Generate call for callers that only want output bytes.
package orchestrator
