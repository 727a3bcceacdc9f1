package text_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-todolist/pkg/render"
	"github.com/goliatone/go-todolist/pkg/renderers/text"
	"github.com/goliatone/go-todolist/pkg/testsupport"
	"github.com/goliatone/go-todolist/pkg/todo"
	"github.com/goliatone/go-todolist/pkg/widget"
)

func TestRenderMatchesGolden(t *testing.T) {
	ctx := testsupport.Context()
	list, err := widget.New(ctx,
		widget.WithIDGenerator(todo.SequentialIDs("t")),
		widget.WithConfirmDelete(true),
	)
	if err != nil {
		t.Fatalf("new list: %v", err)
	}
	if _, err := list.Toggle(ctx, "t-2"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := list.RequestDelete(ctx, "t-1"); err != nil {
		t.Fatalf("arm: %v", err)
	}

	out, err := text.New().Render(ctx, list.Node(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	golden := filepath.Join("testdata", "list.golden")
	if testsupport.WriteMaybeGolden(t, golden, out) {
		return
	}
	want := testsupport.MustReadGoldenString(t, golden)
	if diff := testsupport.CompareGolden(want, string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderEmptyList(t *testing.T) {
	ctx := context.Background()
	list, err := widget.New(ctx, widget.WithSeed(), widget.WithHeading("Chores"))
	if err != nil {
		t.Fatalf("new list: %v", err)
	}
	_ = list.SetInput(ctx, "milk")
	if err := list.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	out, err := text.New(text.WithNumbers(false)).Render(ctx, list.Node(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "Chores\n======\n> milk [+]\n\n  (empty)\n"
	if diff := testsupport.CompareGolden(want, string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderNilTree(t *testing.T) {
	if _, err := text.New().Render(context.Background(), nil, render.RenderOptions{}); !errors.Is(err, text.ErrNilTree) {
		t.Fatalf("expected ErrNilTree, got %v", err)
	}
}
