package widget_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-todolist/pkg/dom"
	"github.com/goliatone/go-todolist/pkg/storage"
	"github.com/goliatone/go-todolist/pkg/todo"
	"github.com/goliatone/go-todolist/pkg/widget"
)

func newList(t *testing.T, opts ...widget.Option) (*widget.List, *dom.Document) {
	t.Helper()
	base := []widget.Option{widget.WithIDGenerator(todo.SequentialIDs("t"))}
	list, err := widget.New(context.Background(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("new list: %v", err)
	}
	doc := dom.NewDocument()
	list.Mount(doc)
	doc.Ready()
	return list, doc
}

func query(t *testing.T, n *dom.Node) *goquery.Document {
	t.Helper()
	markup, err := dom.RenderString(n)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func labels(doc *goquery.Document) []string {
	var out []string
	doc.Find("ul#todos li label").Each(func(_ int, s *goquery.Selection) {
		out = append(out, s.Text())
	})
	return out
}

func typeAndAdd(doc *dom.Document, text string) {
	ctx := context.Background()
	doc.ElementByID(widget.IDInput).Dispatch(&dom.Event{Type: dom.EventInput, Value: text})
	doc.ElementByID(widget.IDAddButton).Dispatch(dom.NewEvent(ctx, dom.EventClick))
}

func TestListMountsOnReadyWithSeed(t *testing.T) {
	list, doc := newList(t)

	if doc.Body.ChildCount() != 1 || doc.Body.Children()[0] != list.Node() {
		t.Fatalf("expected list mounted once in body")
	}

	q := query(t, list.Node())
	if got := q.Find("div.todo-list > h1").Text(); got != widget.DefaultHeading {
		t.Fatalf("heading = %q", got)
	}
	if ph, _ := q.Find("#new-todo").Attr("placeholder"); ph != widget.DefaultPlaceholder {
		t.Fatalf("placeholder = %q", ph)
	}
	if diff := cmp.Diff(widget.DefaultSeed(), labels(q)); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
	if n := q.Find("ul#todos li input[type=checkbox]:not([checked])").Length(); n != 3 {
		t.Fatalf("unchecked boxes = %d", n)
	}
}

func TestListMountIgnoresRepeatedCalls(t *testing.T) {
	list, doc := newList(t)
	list.Mount(doc)
	if doc.Body.ChildCount() != 1 {
		t.Fatalf("expected a single mounted root, got %d", doc.Body.ChildCount())
	}
}

func TestListAddThroughEvents(t *testing.T) {
	list, doc := newList(t, widget.WithSeed())
	before := list.Node()

	typeAndAdd(doc, "Buy milk")

	if list.Node() == before {
		t.Fatalf("expected a fresh subtree after add")
	}
	if before.Parent() != nil {
		t.Fatalf("old subtree still attached")
	}
	if doc.Body.Children()[0] != list.Node() {
		t.Fatalf("new subtree not in body")
	}

	want := todo.State{Items: []todo.Item{{ID: "t-1", Name: "Buy milk"}}}
	if diff := cmp.Diff(want, list.State()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}

	q := query(t, list.Node())
	if v, _ := q.Find("#new-todo").Attr("value"); v != "" {
		t.Fatalf("input not cleared: %q", v)
	}
	if q.Find("ul#todos li").Length() != 1 {
		t.Fatalf("expected one row")
	}
}

func TestListAddBlankIsNoop(t *testing.T) {
	list, doc := newList(t)
	before := list.Node()
	state := list.State()

	typeAndAdd(doc, "   ")

	if list.Node() != before {
		t.Fatalf("blank add should not re-render")
	}
	if diff := cmp.Diff(state.SetInput("   "), list.State()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestListInputDoesNotRerender(t *testing.T) {
	list, doc := newList(t)
	before := list.Node()

	input := doc.ElementByID(widget.IDInput)
	input.Dispatch(&dom.Event{Type: dom.EventInput, Value: "dra"})

	if list.Node() != before {
		t.Fatalf("input should not re-render")
	}
	if list.State().PendingInput != "dra" || input.Attribute("value") != "dra" {
		t.Fatalf("pending input not tracked")
	}
}

func TestListToggleThroughCheckbox(t *testing.T) {
	list, doc := newList(t)

	box := doc.ElementByID(widget.ToggleID("t-2"))
	box.Dispatch(&dom.Event{Type: dom.EventChange, Checked: true})

	got := list.State()
	if got.Items[0].Completed || !got.Items[1].Completed || got.Items[2].Completed {
		t.Fatalf("unexpected completion flags: %+v", got.Items)
	}

	q := query(t, list.Node())
	row := q.Find(`li[data-id="t-2"]`)
	if _, ok := row.Find("input").Attr("checked"); !ok {
		t.Fatalf("checkbox not checked after re-render")
	}
	if !row.Find("label").HasClass(widget.ClassCompleted) {
		t.Fatalf("label missing completed class")
	}
}

func TestListDeleteThroughButton(t *testing.T) {
	list, doc := newList(t, widget.WithSeed("a", "b", "a"))

	doc.ElementByID(widget.DeleteID("t-3")).Dispatch(dom.NewEvent(context.Background(), dom.EventClick))

	if diff := cmp.Diff([]string{"a", "b"}, labels(query(t, list.Node()))); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
	if list.State().Items[0].ID != "t-1" {
		t.Fatalf("wrong duplicate removed")
	}
}

func TestListConfirmDelete(t *testing.T) {
	list, doc := newList(t, widget.WithConfirmDelete(true))
	click := func() {
		doc.ElementByID(widget.DeleteID("t-1")).Dispatch(dom.NewEvent(context.Background(), dom.EventClick))
	}

	click()
	if list.State().Len() != 3 {
		t.Fatalf("first click must not delete")
	}
	q := query(t, list.Node())
	btn := q.Find("#" + widget.DeleteID("t-1"))
	if !btn.HasClass(widget.ClassArmed) {
		t.Fatalf("button not armed")
	}
	if style, _ := btn.Attr("style"); !strings.Contains(style, "#d62828") {
		t.Fatalf("armed button not recoloured: %q", style)
	}

	// arming survives unrelated re-renders
	if _, err := list.Toggle(context.Background(), "t-2"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !query(t, list.Node()).Find("#" + widget.DeleteID("t-1")).HasClass(widget.ClassArmed) {
		t.Fatalf("arming lost after re-render")
	}

	click()
	if diff := cmp.Diff([]string{"Сделать практику", "Пойти домой"}, labels(query(t, list.Node()))); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestListCancelDelete(t *testing.T) {
	list, _ := newList(t, widget.WithConfirmDelete(true))
	ctx := context.Background()

	step, err := list.RequestDelete(ctx, "t-1")
	if err != nil || step != todo.DeleteArmed {
		t.Fatalf("step=%s err=%v", step, err)
	}
	ok, err := list.CancelDelete(ctx, "t-1")
	if err != nil || !ok {
		t.Fatalf("cancel ok=%v err=%v", ok, err)
	}
	if step, _ := list.RequestDelete(ctx, "t-1"); step != todo.DeleteArmed {
		t.Fatalf("expected re-arm after cancel, got %s", step)
	}
}

func TestListPersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	list, doc := newList(t, widget.WithStore(store, "k"), widget.WithSeed("a"))

	stored := func() todo.State {
		t.Helper()
		state, found, err := storage.Load(ctx, store, "k", nil)
		if err != nil || !found {
			t.Fatalf("load: found=%v err=%v", found, err)
		}
		return state
	}

	typeAndAdd(doc, "b")
	if diff := cmp.Diff(list.State(), stored()); diff != "" {
		t.Fatalf("after add (-want +got):\n%s", diff)
	}

	if _, err := list.ToggleByName(ctx, "a"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !stored().Items[0].Completed {
		t.Fatalf("toggle not persisted")
	}

	if _, err := list.DeleteByName(ctx, "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if stored().Len() != 1 {
		t.Fatalf("delete not persisted")
	}

	reloaded, err := widget.New(ctx, widget.WithStore(store, "k"))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if diff := cmp.Diff(list.State(), reloaded.State()); diff != "" {
		t.Fatalf("reload mismatch (-want +got):\n%s", diff)
	}
}

func TestListRejectsCorruptStore(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	_ = store.SetItem(ctx, storage.DefaultKey, `{"items":"nope"}`)

	_, err := widget.New(ctx, widget.WithStore(store, ""))
	if !errors.Is(err, storage.ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState, got %v", err)
	}
}

func TestListStoredRepeatedIDsToggleSeparately(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	_ = store.SetItem(ctx, storage.DefaultKey, `{"items":[{"id":"x","name":"a"},{"id":"x","name":"b"}]}`)

	for _, keyed := range []bool{false, true} {
		list, doc := newList(t, widget.WithStore(store, ""), widget.WithKeyedRows(keyed))

		second := list.State().Items[1]
		if second.ID == "x" {
			t.Fatalf("keyed=%v: repeated id kept on second row", keyed)
		}
		doc.ElementByID(widget.ToggleID(second.ID)).Dispatch(&dom.Event{Type: dom.EventChange, Checked: true})

		got := list.State()
		if got.Items[0].Completed || !got.Items[1].Completed {
			t.Fatalf("keyed=%v: unexpected completion flags: %+v", keyed, got.Items)
		}
		_ = store.SetItem(ctx, storage.DefaultKey, `{"items":[{"id":"x","name":"a"},{"id":"x","name":"b"}]}`)
	}
}

type failingStore struct{ storage.LocalStore }

func (failingStore) SetItem(context.Context, string, string) error {
	return errors.New("disk full")
}

func TestListWriteFailureStillAdvances(t *testing.T) {
	list, _ := newList(t, widget.WithStore(failingStore{storage.NewMemory()}, ""))

	ok, err := list.Toggle(context.Background(), "t-1")
	if !ok || err == nil {
		t.Fatalf("expected toggle with write error, ok=%v err=%v", ok, err)
	}
	if !list.State().Items[0].Completed {
		t.Fatalf("state should advance despite write failure")
	}
	if _, exists := query(t, list.Node()).Find("#" + widget.ToggleID("t-1")).Attr("checked"); !exists {
		t.Fatalf("render should reflect the toggle")
	}
}

func TestListKeyedRowsReuseUnchangedRows(t *testing.T) {
	list, doc := newList(t, widget.WithKeyedRows(true))
	first := doc.ElementByID(widget.ToggleID("t-1")).Parent()
	second := doc.ElementByID(widget.ToggleID("t-2")).Parent()

	if _, err := list.Toggle(context.Background(), "t-2"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if doc.ElementByID(widget.ToggleID("t-1")).Parent() != first {
		t.Fatalf("unchanged row should be reused")
	}
	if doc.ElementByID(widget.ToggleID("t-2")).Parent() == second {
		t.Fatalf("changed row should be rebuilt")
	}
}

func TestListCustomLabels(t *testing.T) {
	list, _ := newList(t,
		widget.WithHeading("Chores"),
		widget.WithPlaceholder("Task"),
		widget.WithLabels("Add", "x"),
		widget.WithSeed("one"),
	)
	q := query(t, list.Node())
	if q.Find("h1").Text() != "Chores" || q.Find("#add-btn").Text() != "Add" || q.Find(".todo-delete").Text() != "x" {
		t.Fatalf("labels not applied")
	}
}

func TestListWithStateKeepsArmedDelete(t *testing.T) {
	state := todo.Seed(todo.SequentialIDs("s"), "one", "two")
	state, _ = state.RequestDelete("s-1")

	store := storage.NewMemory()
	list, _ := newList(t, widget.WithState(state), widget.WithStore(store, ""), widget.WithConfirmDelete(true))

	if !query(t, list.Node()).Find("#" + widget.DeleteID("s-1")).HasClass(widget.ClassArmed) {
		t.Fatalf("armed flag from WithState should render")
	}
	if store.Len() != 0 {
		t.Fatalf("store should not be read or written on construction")
	}

	step, err := list.RequestDelete(context.Background(), "s-1")
	if err != nil || step != todo.DeleteRemoved {
		t.Fatalf("second click: step=%v err=%v", step, err)
	}
}
