// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Sagargupta16/LeetCode-Rating-Predictor/internal/domain/inference"
	"github.com/Sagargupta16/LeetCode-Rating-Predictor/internal/domain/types"
)

// Dependencies required by the HTTP handlers. An interface bundle keeps the
// handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Predict(ctx context.Context, username string, contests []types.ContestRequest) ([]types.PredictionResult, error)
	LatestContests(ctx context.Context) ([]string, error)
	Ready() bool
}

// Server wires HTTP routes for the business API.
type Server struct {
	predictHandler  *PredictHandler
	contestsHandler *ContestsHandler
	healthHandler   *HealthHandler
	cors            *corsPolicy
}

// NewServer creates a new API server with all handlers. allowedOrigins
// feeds the CORS policy applied to every route.
func NewServer(deps Dependencies, allowedOrigins []string) *Server {
	return &Server{
		predictHandler:  NewPredictHandler(deps),
		contestsHandler: NewContestsHandler(deps),
		healthHandler:   NewHealthHandler(deps),
		cors:            newCORSPolicy(allowedOrigins),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/api", s.wrap(s.healthHandler.HandleRoot, "root"))
	mux.HandleFunc("/api/health", s.wrap(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("/api/predict", s.wrap(s.predictHandler.HandlePredict, "predict"))
	mux.HandleFunc("/api/contestData", s.wrap(s.contestsHandler.HandleContestData, "contest_data"))
	mux.Handle("/metrics", MetricsEndpoint())
}

func (s *Server) wrap(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return RequestIDMiddleware(s.cors.middleware(MetricsMiddleware(next, endpoint)))
}

// predictRequest mirrors the inbound JSON schema for POST /api/predict.
type predictRequest struct {
	Username string                 `json:"username"`
	Contests []types.ContestRequest `json:"contests"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure translates the shared failure taxonomy to a status code
// while keeping the kind distinguishable in the body.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_failed", err)
	case errors.Is(err, types.ErrNotFound):
		writeError(w, http.StatusBadRequest, "not_found", err)
	case errors.Is(err, types.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	case errors.Is(err, types.ErrModelUnavailable), errors.Is(err, inference.ErrNotLoaded):
		writeError(w, http.StatusInternalServerError, "model_unavailable", err)
	case errors.Is(err, types.ErrPredictionFailed),
		errors.Is(err, inference.ErrNumericFailure),
		errors.Is(err, inference.ErrShapeMismatch):
		writeError(w, http.StatusInternalServerError, "prediction_failed", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", ErrInternal)
	}
}
