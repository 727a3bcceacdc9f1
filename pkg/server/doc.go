// Package server hosts a TODO list widget over HTTP. The page is rendered
// server side; a small browser runtime posts DOM events to /api/events and
// swaps in the re-rendered fragment. Requests under /api/ are checked against
// the embedded OpenAPI contract.
package server
