// Package storage persists the TODO list through a LocalStore, a small
// string key/value abstraction modeled on browser localStorage. Backends
// cover process memory, a JSON file on disk and a MySQL table. The state
// codec validates payloads against an embedded JSON schema before decoding.
package storage
