package storage

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-todolist/pkg/todo"
)

//go:embed schema/state.schema.json
var schemaFS embed.FS

const schemaURL = "state.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Schema returns the compiled state schema.
func Schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		data, err := schemaFS.ReadFile("schema/state.schema.json")
		if err != nil {
			schemaErr = fmt.Errorf("storage: read schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(data)); err != nil {
			schemaErr = fmt.Errorf("storage: add schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("storage: compile schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// SchemaJSON returns the embedded state schema document.
func SchemaJSON() []byte {
	data, _ := schemaFS.ReadFile("schema/state.schema.json")
	return data
}

// EncodeState serializes the persisted part of the state. Delete
// confirmation flags are dropped.
func EncodeState(state todo.State) (string, error) {
	out := state.DisarmAll()
	if out.Items == nil {
		out.Items = []todo.Item{}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("storage: encode state: %w", err)
	}
	return string(data), nil
}

// DecodeState validates raw against the state schema and decodes it. Items
// stored without an id receive one from ids.
func DecodeState(raw string, ids todo.IDGenerator) (todo.State, error) {
	schema, err := Schema()
	if err != nil {
		return todo.State{}, err
	}

	doc, err := ParseDocument(raw)
	if err != nil {
		return todo.State{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if err := schema.Validate(doc); err != nil {
		return todo.State{}, fmt.Errorf("%w: %s", ErrCorruptState, schemaMessage(err))
	}

	var state todo.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return todo.State{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if ids == nil {
		ids = todo.UUIDs()
	}
	assignIDs(state.Items, ids)
	return state, nil
}

// ParseDocument decodes raw as a single JSON value, keeping numbers as
// json.Number. Data after the value is an error.
func ParseDocument(raw string) (any, error) {
	var doc any
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if err := dec.Decode(new(json.RawMessage)); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, errors.New("unexpected data after top-level value")
		}
		return nil, err
	}
	return doc, nil
}

// assignIDs gives a fresh id to every item stored without one and to every
// repeat of an id already seen. The first holder of an id keeps it.
func assignIDs(items []todo.Item, ids todo.IDGenerator) {
	stored := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.ID != "" {
			stored[item.ID] = struct{}{}
		}
	}
	seen := make(map[string]struct{}, len(items))
	for i := range items {
		id := items[i].ID
		if _, dup := seen[id]; id == "" || dup {
			id = freshID(ids, stored, seen)
			items[i].ID = id
		}
		seen[id] = struct{}{}
	}
}

func freshID(ids todo.IDGenerator, taken ...map[string]struct{}) string {
	for {
		id := ids()
		clash := false
		for _, set := range taken {
			if _, ok := set[id]; ok {
				clash = true
				break
			}
		}
		if !clash {
			return id
		}
	}
}

func schemaMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var msgs []string
	collectCauses(ve, &msgs)
	return strings.Join(msgs, "; ")
}

func collectCauses(ve *jsonschema.ValidationError, msgs *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*msgs = append(*msgs, fmt.Sprintf("%s: %s", loc, ve.Message))
		return
	}
	for _, cause := range ve.Causes {
		collectCauses(cause, msgs)
	}
}

// Load reads the state stored under key. found is false when nothing is
// stored; a stored value that fails to decode returns ErrCorruptState.
func Load(ctx context.Context, store LocalStore, key string, ids todo.IDGenerator) (state todo.State, found bool, err error) {
	raw, ok, err := store.GetItem(ctx, key)
	if err != nil {
		return todo.State{}, false, err
	}
	if !ok {
		return todo.State{}, false, nil
	}
	state, err = DecodeState(raw, ids)
	if err != nil {
		return todo.State{}, true, fmt.Errorf("storage: load %q: %w", key, err)
	}
	return state, true, nil
}

// Save encodes state and writes it under key.
func Save(ctx context.Context, store LocalStore, key string, state todo.State) error {
	raw, err := EncodeState(state)
	if err != nil {
		return err
	}
	if err := store.SetItem(ctx, key, raw); err != nil {
		return fmt.Errorf("storage: save %q: %w", key, err)
	}
	return nil
}
