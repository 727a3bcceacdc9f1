// Package validation reports where a stored TODO list state breaks the state
// schema, one issue per failing location.
package validation

import (
	"errors"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-todolist/pkg/storage"
)

// SchemaIssue represents a validation error with optional location metadata.
type SchemaIssue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// String renders the issue as "field: message".
func (i SchemaIssue) String() string {
	if i.Field == "" {
		return i.Message
	}
	return i.Field + ": " + i.Message
}

// StateValidationResult captures validation outcomes for a stored value.
type StateValidationResult struct {
	Valid  bool          `json:"valid"`
	Issues []SchemaIssue `json:"issues,omitempty"`
}

// ValidateState checks raw, a value as written by storage.EncodeState.
func ValidateState(raw string) StateValidationResult {
	result := StateValidationResult{Valid: true}

	doc, err := storage.ParseDocument(raw)
	if err != nil {
		result.Valid = false
		result.Issues = []SchemaIssue{{Message: "invalid JSON: " + err.Error()}}
		return result
	}

	compiled, err := storage.Schema()
	if err != nil {
		result.Valid = false
		result.Issues = []SchemaIssue{{Message: err.Error()}}
		return result
	}
	if err := compiled.Validate(doc); err != nil {
		result.Valid = false
		result.Issues = issuesFromError(err)
	}
	return result
}

func issuesFromError(err error) []SchemaIssue {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []SchemaIssue{{Message: strings.TrimSpace(err.Error())}}
	}
	var out []SchemaIssue
	collect(ve, &out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func collect(ve *jsonschema.ValidationError, out *[]SchemaIssue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collect(cause, out)
		}
		return
	}
	*out = append(*out, SchemaIssue{
		Path:    ve.InstanceLocation,
		Field:   fieldPathFromPointer(ve.InstanceLocation),
		Message: strings.TrimSpace(ve.Message),
	})
}

// fieldPathFromPointer turns an instance pointer such as /items/0/name into
// items.0.name.
func fieldPathFromPointer(pointer string) string {
	trimmed := strings.TrimSpace(pointer)
	trimmed = strings.TrimPrefix(trimmed, "#")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return ""
	}

	parts := strings.Split(trimmed, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.ReplaceAll(part, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		if segment == "" {
			continue
		}
		out = append(out, segment)
	}
	return strings.Join(out, ".")
}
