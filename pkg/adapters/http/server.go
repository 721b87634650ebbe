// Package http exposes the form catalog over a stateless JSON API.
// Clients hold the session; every request carries the answers collected so far.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/internal/presentation/graph"
	"github.com/aretw0/formflow/pkg/catalog"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/materialize"
)

// MaterializerFactory builds the materializer of a form.
type MaterializerFactory func(form catalog.Form) (*materialize.Materializer, error)

// Server serves the form API.
type Server struct {
	Catalog *catalog.Registry

	materializers map[string]*materialize.Materializer
	metrics       http.Handler
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics mounts a metrics handler at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLifecycleHooks registers callbacks fired for every computed transition.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Server) {
		s.hooks = hooks
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer prepares a materializer for every registered form.
func NewServer(reg *catalog.Registry, factory MaterializerFactory, opts ...Option) (*Server, error) {
	s := &Server{
		Catalog:       reg,
		materializers: make(map[string]*materialize.Materializer),
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, f := range reg.List() {
		m, err := factory(f)
		if err != nil {
			return nil, fmt.Errorf("form %s: %w", f.ID, err)
		}
		s.materializers[f.ID] = m
	}
	return s, nil
}

// NewHandler creates a new HTTP handler for the catalog.
func NewHandler(reg *catalog.Registry, factory MaterializerFactory, opts ...Option) (http.Handler, error) {
	s, err := NewServer(reg, factory, opts...)
	if err != nil {
		return nil, err
	}
	return s.Routes(), nil
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/forms", s.ListForms)
	r.Route("/forms/{form}", func(r chi.Router) {
		r.Get("/", s.GetForm)
		r.Get("/graph", s.GetGraph)
		r.Post("/transition", s.Transition)
		r.Post("/materialize", s.Materialize)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FormSummary describes a form in listings.
type FormSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Initial string `json:"initial"`
}

// FormDetail is a form with its full node list.
type FormDetail struct {
	FormSummary
	Nodes []domain.Node `json:"nodes"`
}

// TransitionRequest asks where a session goes from Current given Answers.
type TransitionRequest struct {
	Current string         `json:"current"`
	Answers domain.Answers `json:"answers"`
}

// MaterializeRequest asks for the filled document of Answers.
type MaterializeRequest struct {
	Answers domain.Answers `json:"answers"`
}

// MaterializeResponse names the written document.
type MaterializeResponse struct {
	Filename string `json:"filename"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ListForms handles GET /forms.
func (s *Server) ListForms(w http.ResponseWriter, r *http.Request) {
	forms := s.Catalog.List()
	out := make([]FormSummary, 0, len(forms))
	for _, f := range forms {
		out = append(out, summary(f))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetForm handles GET /forms/{form}.
func (s *Server) GetForm(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, FormDetail{FormSummary: summary(f), Nodes: f.Schema.Nodes()})
}

// GetGraph handles GET /forms/{form}/graph.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(f.Schema.Nodes(), nil)))
}

// Transition handles POST /forms/{form}/transition.
func (s *Server) Transition(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var body TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if body.Answers == nil {
		body.Answers = domain.Answers{}
	}

	step, err := f.Schema.Transition(r.Context(), body.Current, body.Answers)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	if s.hooks.OnTransition != nil {
		s.hooks.OnTransition(r.Context(), &domain.TransitionEvent{
			EventBase: domain.EventBase{
				Timestamp: time.Now(),
				Type:      domain.EventTransition,
				SessionID: middleware.GetReqID(r.Context()),
				Form:      f.ID,
			},
			Step: step,
		})
	}
	s.writeJSON(w, http.StatusOK, step)
}

// Materialize handles POST /forms/{form}/materialize.
func (s *Server) Materialize(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var body MaterializeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	requestID := middleware.GetReqID(r.Context())
	if requestID == "" {
		requestID = uuid.NewString()
	}
	m, ok := s.materializers[f.ID]
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("form %s has no template configured", f.ID))
		return
	}
	start := time.Now()
	name, err := m.Write(r.Context(), body.Answers)
	if err != nil {
		s.logger.Error("materialize failed", "form", f.ID, "request", requestID, "error", err)
		s.writeError(w, statusFor(err), err)
		return
	}
	s.logger.Info("document written", "form", f.ID, "request", requestID, "filename", name, "duration", time.Since(start))
	s.writeJSON(w, http.StatusCreated, MaterializeResponse{Filename: name})
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (catalog.Form, bool) {
	f, err := s.Catalog.Get(chi.URLParam(r, "form"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return catalog.Form{}, false
	}
	return f, true
}

func summary(f catalog.Form) FormSummary {
	return FormSummary{ID: f.ID, Title: f.Title, Initial: f.Schema.Initial()}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrTypeMismatch), errors.Is(err, domain.ErrInvalidAnswer):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNamespaceExhausted):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
	} else {
		s.logger.Warn("request rejected", "status", status, "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
