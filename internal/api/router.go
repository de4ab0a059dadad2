package api

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/onnwee/themecontrast/internal/audit"
	"github.com/onnwee/themecontrast/internal/color"
	"github.com/onnwee/themecontrast/internal/middleware"
)

// RouterConfig wires the server dependencies.
type RouterConfig struct {
	Engine  *color.Engine
	Auditor *audit.Auditor

	// HTTPMetrics and Gatherer enable request metrics and GET /metrics.
	// Either may be nil to disable them.
	HTTPMetrics *middleware.Metrics
	Gatherer    prometheus.Gatherer

	CORSOrigins []string
	Profiling   middleware.ProfilingConfig

	ServiceName string
	Version     string
	Logger      *slog.Logger
}

// ServiceInfo is returned by GET /.
type ServiceInfo struct {
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
}

// NewRouter builds the HTTP handler with the middleware chain
// RequestID -> Tracing -> Logging -> HTTPMetrics -> CORS -> Profiling.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "themecontrast"
	}

	handlers := NewAuditHandlers(cfg.Engine, cfg.Auditor)
	health := NewHealthHandlers(HealthHandlersConfig{
		Engine:         cfg.Engine,
		MetricsEnabled: cfg.Gatherer != nil,
		Version:        cfg.Version,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/health", health.Health)
	mux.HandleFunc("/audit", handlers.Audit)
	mux.HandleFunc("/contrast", handlers.Contrast)
	mux.HandleFunc("/suggest", handlers.Suggest)
	mux.Handle("/ws/audit", NewAuditWebSocket(handlers, cfg.HTTPMetrics, cfg.CORSOrigins))
	if cfg.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			WriteError(w, r.Context(), http.StatusNotFound, ErrCodeNotFound, "The requested resource was not found")
			return
		}
		if !requireMethod(w, r, http.MethodGet) {
			return
		}
		writeJSON(w, r.Context(), ServiceInfo{Service: serviceName, Version: cfg.Version})
	})

	var handler http.Handler = mux
	handler = middleware.Profiling(cfg.Profiling)(handler)
	handler = middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.CORSOrigins,
		MaxAge:         middleware.DefaultCORSMaxAge,
	})(handler)
	if cfg.HTTPMetrics != nil {
		handler = middleware.HTTPMetrics(cfg.HTTPMetrics)(handler)
	}
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Tracing(serviceName)(handler)
	return middleware.RequestID(handler)
}
