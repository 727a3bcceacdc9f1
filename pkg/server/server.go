package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-todolist/internal/logging"
	"github.com/goliatone/go-todolist/pkg/dom"
	"github.com/goliatone/go-todolist/pkg/render"
	htmlrenderer "github.com/goliatone/go-todolist/pkg/renderers/html"
	"github.com/goliatone/go-todolist/pkg/runtime"
	"github.com/goliatone/go-todolist/pkg/todo"
)

// Route prefixes for static files.
const (
	RuntimePrefix = "/runtime/"
	AssetsPrefix  = "/assets/"
)

const maxEventBody = 64 << 10

// Option customises a Server.
type Option func(*Server)

// WithRenderer overrides the page renderer. Defaults to the html renderer.
func WithRenderer(renderer render.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRuntimeFS serves the browser runtime from files instead of the
// embedded bundle.
func WithRuntimeFS(files fs.FS) Option {
	return func(s *Server) {
		if files != nil {
			s.runtimeFS = files
		}
	}
}

// WithTitle sets the page title. Defaults to the widget heading.
func WithTitle(title string) Option {
	return func(s *Server) {
		s.title = title
	}
}

// WithUnsafeMarkup disables sanitising of the served markup.
func WithUnsafeMarkup(enabled bool) Option {
	return func(s *Server) {
		s.unsafe = enabled
	}
}

// Server serves one widget session.
type Server struct {
	session   *Session
	contract  *Contract
	renderer  render.Renderer
	logger    *log.Logger
	runtimeFS fs.FS
	title     string
	unsafe    bool
	handler   http.Handler
}

// New builds the HTTP handler tree for session.
func New(ctx context.Context, session *Session, opts ...Option) (*Server, error) {
	if session == nil {
		return nil, errors.New("server: nil session")
	}
	s := &Server{
		session:   session,
		runtimeFS: runtime.AssetsFS(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.logger = logging.OrDiscard(s.logger)
	if s.renderer == nil {
		renderer, err := htmlrenderer.New()
		if err != nil {
			return nil, fmt.Errorf("server: html renderer: %w", err)
		}
		s.renderer = renderer
	}
	contract, err := LoadContract(ctx)
	if err != nil {
		return nil, err
	}
	s.contract = contract
	s.handler = s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /fragment", s.handleFragment)
	mux.Handle("POST /api/events", s.contract.Middleware(http.HandlerFunc(s.handleEvent)))
	mux.Handle("GET /api/state", s.contract.Middleware(http.HandlerFunc(s.handleState)))
	mux.HandleFunc("GET /openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(contractYAML)
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle(RuntimePrefix, http.StripPrefix(RuntimePrefix, http.FileServerFS(s.runtimeFS)))
	mux.Handle(AssetsPrefix, http.StripPrefix(AssetsPrefix, http.FileServerFS(htmlrenderer.AssetsFS())))
	return s.logRequests(mux)
}

func (s *Server) renderOptions(fragment bool) render.RenderOptions {
	return render.RenderOptions{
		Title:    s.title,
		Fragment: fragment,
		CSSVars:  s.session.List().Theme().CSSVars(),
		Scripts:  []string{path.Join(RuntimePrefix, runtime.ScriptName)},
		Unsafe:   s.unsafe,
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.writeTree(w, r, false)
}

func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	s.writeTree(w, r, true)
}

func (s *Server) writeTree(w http.ResponseWriter, r *http.Request, fragment bool) {
	var out []byte
	err := s.session.Snapshot(func(root *dom.Node, _ todo.State) error {
		var err error
		out, err = s.renderer.Render(r.Context(), root, s.renderOptions(fragment))
		return err
	})
	if err != nil {
		s.logger.Error("render page", "err", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	_, _ = w.Write(out)
}

// EventResult is the JSON answer to an event when the client accepts JSON.
type EventResult struct {
	HTML  string     `json:"html"`
	State todo.State `json:"state"`
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "decode event: "+err.Error())
		return
	}

	var (
		markup string
		state  todo.State
	)
	err = s.session.Dispatch(r.Context(), req, func(root *dom.Node, st todo.State) error {
		out, err := s.renderer.Render(r.Context(), root, s.renderOptions(true))
		if err != nil {
			return err
		}
		markup, state = string(out), st
		return nil
	})
	switch {
	case errors.Is(err, ErrTargetNotFound):
		writeError(w, http.StatusNotFound, fmt.Sprintf("no element matches %q", req.Target))
		return
	case err != nil:
		s.logger.Error("dispatch event", "target", req.Target, "type", req.Type, "err", err)
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}
	s.logger.Debug("event dispatched", "target", req.Target, "type", req.Type)

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, EventResult{HTML: markup, State: state})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, markup)
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	var state todo.State
	_ = s.session.Snapshot(func(_ *dom.Node, st todo.State) error {
		state = st
		return nil
	})
	if state.Items == nil {
		state.Items = []todo.Item{}
	}
	writeJSON(w, http.StatusOK, state)
}

func wantsJSON(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mediaType {
		case "application/json":
			return true
		case "text/html":
			return false
		}
	}
	return false
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "took", time.Since(start))
	})
}

// ListenAndServe serves handler on addr until ctx is cancelled, then shuts
// down, giving in-flight requests up to grace to finish.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, grace time.Duration, logger *log.Logger) error {
	logger = logging.OrDiscard(logger)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err, ok := <-errChan:
		if ok {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "grace", grace)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
