// Package server exposes the digest pipeline over HTTP: an invocation
// endpoint for external schedulers plus health and metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aer-digest/internal/logger"
	"aer-digest/internal/reportdate"
	"aer-digest/internal/store"
	"aer-digest/internal/types"
)

// Runner executes one digest invocation. Satisfied by pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, req types.Request) (types.Result, error)
}

// Server serves the invocation API.
type Server struct {
	runner Runner
	http   *http.Server
}

// New builds the server with its routes mounted.
func New(cfg *store.Config, runner Runner) *Server {
	s := &Server{runner: runner}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /invoke", s.handleInvoke)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.http = &http.Server{
		Addr:              cfg.Serve.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	logger.Info(context.Background(), "HTTP server listening", "addr", s.http.Addr)
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	var req types.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	result, err := s.runner.Run(r.Context(), req)
	if err != nil {
		logger.ErrorWithErr(r.Context(), "Invocation failed", err, "dataset", req.Dataset)
		writeJSON(w, statusForError(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusForError maps caller mistakes to 400 and everything else, including
// upstream failures, to 502.
func statusForError(err error) int {
	if errors.Is(err, types.ErrUnknownDataset) || errors.Is(err, reportdate.ErrBadOverride) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error(context.Background(), "Failed to encode response", "error", err)
	}
}
