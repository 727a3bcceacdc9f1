package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-todolist/pkg/dom"
	"github.com/goliatone/go-todolist/pkg/storage"
	"github.com/goliatone/go-todolist/pkg/todo"
)

// LoadState reads a persisted-state fixture through the storage codec, so
// fixtures are held to the same schema as stored values.
func LoadState(t *testing.T, path string) todo.State {
	t.Helper()

	state, err := LoadStateFromPath(path, todo.SequentialIDs("fixture"))
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	return state
}

// LoadStateFromPath returns the decoded fixture without requiring testing.T.
func LoadStateFromPath(path string, ids todo.IDGenerator) (todo.State, error) {
	if path == "" {
		return todo.State{}, errors.New("testsupport: state path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return todo.State{}, fmt.Errorf("testsupport: read state: %w", err)
	}
	state, err := storage.DecodeState(string(data), ids)
	if err != nil {
		return todo.State{}, fmt.Errorf("testsupport: decode state: %w", err)
	}
	return state, nil
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, payload)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

// MustQuery parses markup into a goquery document.
func MustQuery(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse markup: %v", err)
	}
	return doc
}

// MustQueryNode serialises n and parses the result into a goquery document.
func MustQueryNode(t *testing.T, n *dom.Node) *goquery.Document {
	t.Helper()
	markup, err := dom.RenderString(n)
	if err != nil {
		t.Fatalf("render node: %v", err)
	}
	return MustQuery(t, markup)
}

// Texts collects the trimmed text of every node matching selector.
func Texts(doc *goquery.Document, selector string) []string {
	var out []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}
