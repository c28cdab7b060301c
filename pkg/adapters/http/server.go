// Package http exposes scenario execution over HTTP: submit a scenario
// document, run it, and fetch stored results.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/sieve"
	"github.com/aretw0/sieve/pkg/component"
	"github.com/aretw0/sieve/pkg/ports"
)

// Server runs scenario documents submitted over HTTP and persists their
// results in a ResultStore.
type Server struct {
	runner   *sieve.Runner
	store    ports.ResultStore
	registry *component.Registry
	logger   *slog.Logger
	metrics  http.Handler
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithRegistry resolves scenario component kinds against reg instead of the
// process default registry.
func WithRegistry(reg *component.Registry) ServerOption {
	return func(s *Server) {
		s.registry = reg
	}
}

// WithServerLogger sets the server's structured logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler serves the given handler at GET /metrics. Pass
// promhttp.HandlerFor(...) to expose a custom registry.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewServer creates a server around a runner and a result store.
func NewServer(runner *sieve.Runner, store ports.ResultStore, opts ...ServerOption) *Server {
	s := &Server{
		runner:   runner,
		store:    store,
		registry: component.Default(),
		logger:   slog.Default(),
		metrics:  promhttp.Handler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes:
//
//	POST /runs           run a scenario document, store and return the result
//	GET  /runs           list stored run IDs
//	GET  /runs/{runID}   fetch one stored result
//	GET  /healthz        liveness probe
//	GET  /metrics        Prometheus metrics
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Post("/runs", s.handleRun)
	r.Get("/runs", s.handleList)
	r.Get("/runs/{runID}", s.handleGet)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", s.metrics)

	return r
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var doc map[string]any
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	sc, err := sieve.ScenarioFromDocument(doc, s.registry)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	result, err := s.runner.Run(r.Context(), sc)
	if err != nil {
		// Generation faults still carry a partial result worth returning.
		var runErr *sieve.RunError
		if errors.As(err, &runErr) {
			s.logger.Warn("scenario aborted", "scenario", sc.Name, "err", err)
			s.persist(r, runErr.Partial)
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":   err.Error(),
				"partial": runErr.Partial.Document(),
			})
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.persist(r, result)
	writeJSON(w, http.StatusOK, result.Document())
}

func (s *Server) persist(r *http.Request, result *sieve.Result) {
	data, err := json.Marshal(result.Document())
	if err != nil {
		s.logger.Error("failed to encode result", "run_id", result.RunID, "err", err)
		return
	}
	err = s.store.Save(r.Context(), ports.StoredResult{
		RunID:    result.RunID,
		Scenario: result.Scenario,
		Document: data,
	})
	if err != nil {
		s.logger.Error("failed to store result", "run_id", result.RunID, "err", err)
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": ids})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	stored, err := s.store.Load(r.Context(), runID)
	if err != nil {
		if errors.Is(err, ports.ErrResultNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(stored.Document)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}
