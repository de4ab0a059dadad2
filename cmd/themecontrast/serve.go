package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/onnwee/themecontrast/internal/api"
	"github.com/onnwee/themecontrast/internal/middleware"
	"github.com/onnwee/themecontrast/internal/tracing"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket audit API",
		Long: `Serve the audit API:

  POST /audit      audit a color map
  POST /contrast   ratio and level of one pair
  POST /suggest    adjusted foreground for one pair
  GET  /ws/audit   audit color maps over a websocket
  GET  /health     liveness and cache sizes
  GET  /metrics    Prometheus metrics (when metrics_enabled)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
			if a.cfg.Port < 1 || a.cfg.Port > 65535 {
				return fmt.Errorf("--port must be between 1 and 65535, got %d", a.cfg.Port)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config, 8080)")
	return cmd
}

// newHandler builds the router and, when metrics are enabled, a registry
// holding runtime, color, audit and HTTP metrics.
func (a *app) newHandler() (http.Handler, error) {
	cfg := api.RouterConfig{
		Engine:      a.engine,
		Auditor:     a.auditor,
		CORSOrigins: a.cfg.CORSOrigins,
		Profiling: middleware.ProfilingConfig{
			Enabled:     a.cfg.ProfilingEnabled,
			Environment: a.cfg.Env,
		},
		ServiceName: tracing.DefaultServiceName,
		Version:     version,
		Logger:      a.logger,
	}

	if a.cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		httpMetrics := middleware.NewMetrics()
		registrations := []struct {
			name     string
			register func(prometheus.Registerer) error
		}{
			{"http", httpMetrics.Register},
			{"color", a.colorMetrics.Register},
			{"audit", a.auditMetrics.Register},
		}
		for _, r := range registrations {
			if err := r.register(reg); err != nil {
				return nil, fmt.Errorf("failed to register %s metrics: %w", r.name, err)
			}
		}
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		cfg.HTTPMetrics = httpMetrics
		cfg.Gatherer = reg
	}

	return api.NewRouter(cfg), nil
}

// serve runs the server until ctx is canceled, then drains connections and
// flushes traces.
func (a *app) serve(ctx context.Context) error {
	provider, err := tracing.NewProvider(a.cfg.TracingConfig(version))
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	handler, err := a.newHandler()
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(a.cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("starting server", "port", a.cfg.Port, "version", version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server forced to shutdown: %w", err))
	}
	if err := provider.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	a.logger.Info("server stopped")
	return nil
}
