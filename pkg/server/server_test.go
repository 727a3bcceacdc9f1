package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-todolist/pkg/server"
	"github.com/goliatone/go-todolist/pkg/storage"
	"github.com/goliatone/go-todolist/pkg/testsupport"
	"github.com/goliatone/go-todolist/pkg/todo"
	"github.com/goliatone/go-todolist/pkg/widget"
)

func newServer(t *testing.T, opts ...widget.Option) (*server.Server, *server.Session) {
	t.Helper()
	base := []widget.Option{widget.WithIDGenerator(todo.SequentialIDs("t"))}
	list, err := widget.New(context.Background(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("new list: %v", err)
	}
	session := server.NewSession(list)
	srv, err := server.New(context.Background(), session)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv, session
}

func do(t *testing.T, h http.Handler, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postEvent(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, h, http.MethodPost, "/api/events", body, nil)
}

func TestPageServesWidgetAndRuntime(t *testing.T) {
	srv, _ := newServer(t)

	rec := do(t, srv, http.MethodGet, "/", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}

	doc := testsupport.MustQuery(t, rec.Body.String())
	if got := doc.Find("div.todo-list").Length(); got != 1 {
		t.Fatalf("expected one widget root, got %d", got)
	}
	if diff := cmp.Diff(widget.DefaultSeed(), testsupport.Texts(doc, "ul#todos li label")); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
	src, _ := doc.Find("script[src]").Attr("src")
	if src != "/runtime/todolist-runtime.js" {
		t.Fatalf("runtime script src = %q", src)
	}
	if !strings.Contains(rec.Body.String(), "--todo-delete-confirm-color") {
		t.Fatalf("expected theme variables in page")
	}
}

func TestUnknownPathIsNotFound(t *testing.T) {
	srv, _ := newServer(t)
	if rec := do(t, srv, http.MethodGet, "/missing", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestInputThenAddReturnsFragment(t *testing.T) {
	srv, session := newServer(t)

	rec := postEvent(t, srv, `{"target":"new-todo","type":"input","value":"Купить хлеб"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("input status = %d, body %s", rec.Code, rec.Body.String())
	}
	rec = postEvent(t, srv, `{"target":"add-btn","type":"click"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add status = %d, body %s", rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	if strings.Contains(body, "<html") {
		t.Fatalf("expected a fragment, got a page")
	}
	doc := testsupport.MustQuery(t, body)
	want := append(widget.DefaultSeed(), "Купить хлеб")
	if diff := cmp.Diff(want, testsupport.Texts(doc, "ul#todos li label")); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
	if got := session.List().State().PendingInput; got != "" {
		t.Fatalf("pending input = %q, want empty", got)
	}
}

func TestToggleByCheckboxIDAndDataID(t *testing.T) {
	srv, session := newServer(t)

	if rec := postEvent(t, srv, `{"target":"toggle-t-1","type":"change","checked":true}`); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !session.List().State().Items[0].Completed {
		t.Fatalf("expected first item completed")
	}

	if rec := postEvent(t, srv, `{"target":"t-2","tag":"input","type":"change","checked":true}`); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !session.List().State().Items[1].Completed {
		t.Fatalf("expected second item completed")
	}
}

func TestDeleteByDataIDWithButtonTag(t *testing.T) {
	srv, session := newServer(t)

	rec := postEvent(t, srv, `{"target":"t-3","tag":"button","type":"click"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := session.List().State().Len(); got != 2 {
		t.Fatalf("items = %d, want 2", got)
	}
}

func TestConfirmDeleteNeedsTwoClicks(t *testing.T) {
	srv, session := newServer(t, widget.WithConfirmDelete(true))

	rec := postEvent(t, srv, `{"target":"delete-t-1","type":"click"}`)
	doc := testsupport.MustQuery(t, rec.Body.String())
	if !doc.Find("#delete-t-1").HasClass("armed") {
		t.Fatalf("expected armed delete button, got %s", rec.Body.String())
	}
	if got := session.List().State().Len(); got != 3 {
		t.Fatalf("items = %d after first click", got)
	}

	postEvent(t, srv, `{"target":"delete-t-1","type":"click"}`)
	if got := session.List().State().Len(); got != 2 {
		t.Fatalf("items = %d after second click", got)
	}
}

func TestEventAcceptingJSON(t *testing.T) {
	srv, _ := newServer(t)

	rec := do(t, srv, http.MethodPost, "/api/events", `{"target":"toggle-t-2","type":"change","checked":true}`,
		map[string]string{"Accept": "application/json"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var result server.EventResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(result.HTML, `class="todo-list"`) {
		t.Fatalf("html = %q", result.HTML)
	}
	var completed []bool
	for _, item := range result.State.Items {
		completed = append(completed, item.Completed)
	}
	if diff := cmp.Diff([]bool{false, true, false}, completed); diff != "" {
		t.Fatalf("completed mismatch (-want +got):\n%s", diff)
	}
}

func TestEventValidation(t *testing.T) {
	srv, _ := newServer(t)

	cases := []struct {
		name   string
		body   string
		status int
	}{
		{name: "unknown type", body: `{"target":"add-btn","type":"dblclick"}`, status: http.StatusBadRequest},
		{name: "missing target", body: `{"type":"click"}`, status: http.StatusBadRequest},
		{name: "empty target", body: `{"target":"","type":"click"}`, status: http.StatusBadRequest},
		{name: "extra field", body: `{"target":"add-btn","type":"click","x":1}`, status: http.StatusBadRequest},
		{name: "no such element", body: `{"target":"nope","type":"click"}`, status: http.StatusNotFound},
		{name: "tag mismatch", body: `{"target":"t-1","tag":"label","type":"click"}`, status: http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postEvent(t, srv, tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tc.status, rec.Body.String())
			}
			var body struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error == "" {
				t.Fatalf("expected JSON error body, got %q", rec.Body.String())
			}
		})
	}
}

func TestStateEndpointPersistsThroughStore(t *testing.T) {
	store := storage.NewMemory()
	srv, _ := newServer(t, widget.WithStore(store, storage.DefaultKey))

	postEvent(t, srv, `{"target":"toggle-t-1","type":"change","checked":true}`)

	rec := do(t, srv, http.MethodGet, "/api/state", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var state todo.State
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(state.Items) != 3 || !state.Items[0].Completed {
		t.Fatalf("unexpected state %+v", state)
	}

	stored, found, err := storage.Load(context.Background(), store, storage.DefaultKey, todo.SequentialIDs("x"))
	if err != nil || !found {
		t.Fatalf("load stored: found=%v err=%v", found, err)
	}
	if !stored.Items[0].Completed {
		t.Fatalf("stored state not updated: %+v", stored)
	}
}

func TestStaticRoutes(t *testing.T) {
	srv, _ := newServer(t)

	for _, tc := range []struct {
		path     string
		contains string
	}{
		{path: "/healthz", contains: "ok"},
		{path: "/openapi.yaml", contains: "/api/events"},
		{path: "/runtime/todolist-runtime.js", contains: "/api/events"},
		{path: "/fragment", contains: `class="todo-list"`},
	} {
		rec := do(t, srv, http.MethodGet, tc.path, "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", tc.path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), tc.contains) {
			t.Fatalf("%s: body missing %q", tc.path, tc.contains)
		}
	}
}

func TestContractListsOperations(t *testing.T) {
	contract, err := server.LoadContract(context.Background())
	if err != nil {
		t.Fatalf("load contract: %v", err)
	}
	ops := strings.Join(contract.Operations(), "\n")
	for _, want := range []string{"POST /api/events", "GET /api/state", "GET /healthz"} {
		if !strings.Contains(ops, want) {
			t.Fatalf("missing operation %q in %s", want, ops)
		}
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	srv, _ := newServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.ListenAndServe(ctx, "127.0.0.1:0", srv, time.Second, nil)
	}()
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("listen and serve: %v", err)
	}
}
