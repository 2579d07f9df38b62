package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/calcgame/internal/logging"
	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/calcgame/pkg/formula"
	"github.com/aretw0/calcgame/pkg/history"
	"github.com/aretw0/calcgame/pkg/input"
	"github.com/aretw0/calcgame/pkg/ports"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server serves the game API over a ports.GameService.
type Server struct {
	Service ports.GameService
	Streams *StreamManager

	spec    *openapi3.T
	version string
	metrics http.Handler
	logger  *slog.Logger

	mu    sync.Mutex
	views map[string]domain.View
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts h (usually promhttp.Handler()) on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithVersion sets the application version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = strings.TrimSpace(v)
	}
}

// NewHandler creates the HTTP handler for service.
func NewHandler(service ports.GameService, opts ...Option) (http.Handler, error) {
	spec, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}

	s := &Server{
		Service: service,
		spec:    spec,
		version: "unknown",
		logger:  logging.NewNop(),
		views:   make(map[string]domain.View),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)

	return s.Routes(), nil
}

// Routes builds the chi router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/catalog", s.GetCatalog)
	r.Post("/evaluate", s.Evaluate)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/press", s.Press)
			r.Post("/clear", s.step(s.Service.Clear))
			r.Post("/calculate", s.step(s.Service.Calculate))
			r.Post("/undo", s.step(s.Service.Undo))
			r.Post("/redo", s.step(s.Service.Redo))
			r.Get("/events", s.SubscribeEvents)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>calcgame API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string       `json:"error"`
	Offset *int         `json:"offset,omitempty"`
	View   *domain.View `json:"view,omitempty"`
}

// SessionView is returned when a session is created.
type SessionView struct {
	ID   string      `json:"id"`
	View domain.View `json:"view"`
}

// EvaluateRequest is the body of POST /evaluate.
type EvaluateRequest struct {
	Source string                   `json:"source"`
	Vars   map[string]domain.Number `json:"vars,omitempty"`
}

// PressRequest is the body of POST /sessions/{id}/press.
type PressRequest struct {
	Text string `json:"text"`
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "calcgame-http",
		"version":     s.version,
		"api_version": apiVersion,
	})
}

// GetCatalog handles GET /catalog.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Service.Catalog())
}

// Evaluate handles POST /evaluate.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	var body EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err), nil)
		return
	}
	source, err := input.Sanitize(body.Source)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err, nil)
		return
	}

	ev, err := s.Service.Evaluate(r.Context(), source, body.Vars)
	if err != nil {
		s.fail(w, statusOf(err), err, nil)
		return
	}
	s.writeJSON(w, http.StatusOK, ev)
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Service.List(r.Context())
	if err != nil {
		s.fail(w, statusOf(err), err, nil)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, view, err := s.Service.Create(r.Context())
	if err != nil {
		s.fail(w, statusOf(err), err, nil)
		return
	}
	s.publish(id, view)
	s.writeJSON(w, http.StatusCreated, SessionView{ID: id, View: view})
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.Service.View(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, statusOf(err), err, nil)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Service.Delete(r.Context(), id); err != nil {
		s.fail(w, statusOf(err), err, nil)
		return
	}
	s.mu.Lock()
	delete(s.views, id)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// Press handles POST /sessions/{id}/press.
func (s *Server) Press(w http.ResponseWriter, r *http.Request) {
	var body PressRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err), nil)
		return
	}
	text, err := input.Sanitize(body.Text)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err, nil)
		return
	}
	s.respond(r.Context(), w, chi.URLParam(r, "id"), func(ctx context.Context, id string) (domain.View, error) {
		return s.Service.Press(ctx, id, text)
	})
}

// step adapts a body-less session operation into a handler.
func (s *Server) step(op func(context.Context, string) (domain.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respond(r.Context(), w, chi.URLParam(r, "id"), op)
	}
}

// respond runs op, broadcasts the resulting diff and writes the view. An
// operation that failed but still produced a view (formula error, nothing
// to undo) is reported with that view.
func (s *Server) respond(ctx context.Context, w http.ResponseWriter, id string, op func(context.Context, string) (domain.View, error)) {
	view, err := op(ctx, id)
	if err != nil {
		status := statusOf(err)
		if status == http.StatusNotFound || status == http.StatusInternalServerError {
			s.fail(w, status, err, nil)
			return
		}
		s.publish(id, view)
		s.fail(w, status, err, &view)
		return
	}
	s.publish(id, view)
	s.writeJSON(w, http.StatusOK, view)
}

// publish records view as the latest for id and streams the change.
func (s *Server) publish(id string, view domain.View) {
	s.mu.Lock()
	old, seen := s.views[id]
	s.views[id] = view
	s.mu.Unlock()

	var prev *domain.View
	if seen {
		prev = &old
	}
	diff := domain.Diff(id, prev, view)
	if diff == nil {
		return
	}
	data, err := json.Marshal(diff)
	if err != nil {
		s.logger.Error("failed to encode view diff", "session_id", id, "err", err)
		return
	}
	s.Streams.Broadcast(id, data)
}

// SubscribeEvents handles GET /sessions/{id}/events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.fail(w, http.StatusInternalServerError, errors.New("streaming not supported"), nil)
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := s.Service.View(r.Context(), id); err != nil {
		s.fail(w, statusOf(err), err, nil)
		return
	}

	var watch []string
	if q := r.URL.Query().Get("watch"); q != "" {
		for _, field := range strings.Split(q, ",") {
			watch = append(watch, strings.TrimSpace(field))
		}
	}

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Info("SSE: client subscribed", "session_id", id)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: client disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watch) > 0 && !watched(msg, watch) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func watched(msg []byte, fields []string) bool {
	var diff domain.ViewDiff
	if err := json.Unmarshal(msg, &diff); err != nil {
		return true
	}
	for _, field := range fields {
		if diff.Touches(field) {
			return true
		}
	}
	return false
}

func statusOf(err error) int {
	var perr *formula.ParseError
	var eerr *formula.EvalError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidSessionID):
		return http.StatusBadRequest
	case errors.As(err, &perr), errors.As(err, &eerr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, history.ErrNothingToUndo),
		errors.Is(err, history.ErrNotUndoable),
		errors.Is(err, history.ErrNothingToRedo):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, status int, err error, view *domain.View) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	} else {
		s.logger.Debug("request rejected", "status", status, "err", err)
	}
	resp := ErrorResponse{Error: err.Error(), View: view}
	var perr *formula.ParseError
	if errors.As(err, &perr) {
		resp.Offset = &perr.Offset
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
