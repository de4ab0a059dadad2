package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/onnwee/themecontrast/internal/color"
)

// HealthHandlers provides the liveness endpoint.
type HealthHandlers struct {
	engine         *color.Engine
	metricsEnabled bool
	version        string
}

// HealthHandlersConfig configures the health check handlers.
type HealthHandlersConfig struct {
	Engine         *color.Engine
	MetricsEnabled bool
	Version        string
}

// NewHealthHandlers creates a new health check handler.
func NewHealthHandlers(config HealthHandlersConfig) *HealthHandlers {
	return &HealthHandlers{
		engine:         config.Engine,
		metricsEnabled: config.MetricsEnabled,
		version:        config.Version,
	}
}

// HealthResponse represents the JSON response for health checks.
type HealthResponse struct {
	Status     string            `json:"status"`
	Version    string            `json:"version,omitempty"`
	Checks     map[string]string `json:"checks"`
	CacheSizes map[string]int    `json:"cache_sizes,omitempty"`
	Timestamp  string            `json:"timestamp"`
}

// Health handles GET /health (liveness probe).
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	response := HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Checks:    map[string]string{"runtime": "ok"},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if h.metricsEnabled {
		response.Checks["metrics"] = "ok"
	} else {
		response.Checks["metrics"] = "disabled"
	}
	if h.engine != nil {
		response.CacheSizes = h.engine.CacheSizes()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("failed to encode health response", "error", err)
	}
}
