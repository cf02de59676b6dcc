/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

// Package api exposes the planner over HTTP.
package api

import (
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Nick-Sullivan/house-planner/datastore"
	"github.com/Nick-Sullivan/house-planner/errors"
	"github.com/Nick-Sullivan/house-planner/planner"
)

const maxBodyBytes = 1 << 20

// Server handles planner HTTP requests.
type Server struct {
	planner  *planner.Service
	store    datastore.DataStore
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// NewServer wires the planner handlers into a router and exposes health and
// metrics endpoints. A nil gatherer serves the default prometheus registry.
func NewServer(svc *planner.Service, store datastore.DataStore, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{planner: svc, store: store, gatherer: gatherer, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Post("/requirements", s.scoreRequirement)
	r.Post("/map", s.aggregate)
	r.Get("/houses", s.listHouses)

	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to encode response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsValidationError(err), errors.IsDecodeError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into v. Malformed bodies are validation errors.
func decode(r *http.Request, w http.ResponseWriter, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return errors.NewValidationError("body", "request body too large")
		}
		return errors.NewValidationError("body", err.Error())
	}
	return nil
}
