// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/Sagargupta16/LeetCode-Rating-Predictor/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler handles liveness and readiness requests.
type HealthHandler struct {
	deps Dependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps Dependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

type rootResponse struct {
	Message string `json:"message"`
}

type healthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	ClientReady bool   `json:"client_ready"`
}

// HandleRoot handles GET /api requests.
func (h *HealthHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	writeJSON(w, http.StatusOK, rootResponse{Message: "LeetCode Rating Predictor API is running"})
}

// HandleHealth handles GET /api/health requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	ready := h.deps.Ready()
	status := "healthy"
	if !ready {
		status = "starting"
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      status,
		ModelLoaded: ready,
		ClientReady: ready,
	})
}

// MetricsEndpoint serves the Prometheus registry.
func MetricsEndpoint() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
