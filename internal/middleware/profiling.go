package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"strings"
)

// ProfilingPrefix is the path prefix served by Profiling.
const ProfilingPrefix = "/debug/pprof"

// ProfilingConfig configures the profiling middleware.
type ProfilingConfig struct {
	// Enabled exposes pprof endpoints. Ignored in production.
	Enabled bool

	// Environment is the deployment environment from config.
	Environment string
}

// Active reports whether profiling endpoints will be served.
func (c ProfilingConfig) Active() bool {
	return c.Enabled && c.Environment != "production" && c.Environment != "prod"
}

// Profiling returns middleware that serves pprof under /debug/pprof/ when
// the config is active. Requests outside the prefix pass through.
func Profiling(config ProfilingConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !config.Enabled {
			return next
		}
		if !config.Active() {
			slog.Error("profiling cannot be enabled in production environment",
				"environment", config.Environment,
			)
			return next
		}

		slog.Warn("profiling endpoints enabled",
			"environment", config.Environment,
			"endpoints", ProfilingPrefix+"/*",
		)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, ProfilingPrefix) {
				next.ServeHTTP(w, r)
				return
			}
			switch r.URL.Path {
			case ProfilingPrefix + "/cmdline":
				pprof.Cmdline(w, r)
			case ProfilingPrefix + "/profile":
				pprof.Profile(w, r)
			case ProfilingPrefix + "/symbol":
				pprof.Symbol(w, r)
			case ProfilingPrefix + "/trace":
				pprof.Trace(w, r)
			default:
				pprof.Index(w, r)
			}
		})
	}
}

type profilingStatus struct {
	Enabled     bool   `json:"profiling_enabled"`
	Environment string `json:"environment"`
	Status      string `json:"status"`
}

// ProfilingStatus returns a handler that reports whether profiling is served.
func ProfilingStatus(config ProfilingConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := profilingStatus{
			Enabled:     config.Active(),
			Environment: config.Environment,
			Status:      "disabled",
		}
		if status.Enabled {
			status.Status = "enabled"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(status); err != nil {
			slog.Error("failed to write profiling status response", "error", err)
		}
	}
}
