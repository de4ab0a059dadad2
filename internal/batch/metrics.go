package batch

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/onnwee/themecontrast/internal/audit"
	"github.com/onnwee/themecontrast/internal/color"
)

// Metrics names as constants for consistency.
const (
	MetricBatchJobsTotal      = "theme_batch_jobs_total"
	MetricBatchJobsDuration   = "theme_batch_jobs_duration_seconds"
	MetricBatchJobErrorsTotal = "theme_batch_job_errors_total"
)

// Job type constants for labeling.
const (
	JobTypeAudit   = "audit"
	JobTypeSuggest = "suggest"
)

// Status constants for job completion.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Error type labels.
const (
	ErrorTypeMissingColor = "missing_color"
	ErrorTypeInvalidColor = "invalid_color"
	ErrorTypeCanceled     = "canceled"
	ErrorTypeOther        = "other"
)

// Metrics contains Prometheus metrics for batch audit jobs.
// All operations are thread-safe.
type Metrics struct {
	jobsTotal    *prometheus.CounterVec
	jobsDuration *prometheus.HistogramVec
	jobErrors    *prometheus.CounterVec
}

// NewMetrics creates and returns a new Metrics instance with all collectors initialized.
// The metrics are not registered; call Register to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		jobsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricBatchJobsTotal,
				Help: "Total number of per-theme batch jobs by type and status",
			},
			[]string{"job_type", "status"},
		),
		jobsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricBatchJobsDuration,
				Help:    "Histogram of per-theme batch job duration in seconds by job type",
				Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1.0},
			},
			[]string{"job_type"},
		),
		jobErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricBatchJobErrorsTotal,
				Help: "Total number of batch job errors by type and error type",
			},
			[]string{"job_type", "error_type"},
		),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncJobsTotal increments the jobs total counter. A nil *Metrics is a no-op.
func (m *Metrics) IncJobsTotal(jobType, status string) {
	if m == nil {
		return
	}
	m.jobsTotal.WithLabelValues(jobType, status).Inc()
}

// ObserveJobDuration records a job duration sample. A nil *Metrics is a no-op.
func (m *Metrics) ObserveJobDuration(jobType string, seconds float64) {
	if m == nil {
		return
	}
	m.jobsDuration.WithLabelValues(jobType).Observe(seconds)
}

// IncJobErrors increments the job errors counter. A nil *Metrics is a no-op.
func (m *Metrics) IncJobErrors(jobType, errorType string) {
	if m == nil {
		return
	}
	m.jobErrors.WithLabelValues(jobType, errorType).Inc()
}

// Collectors returns all Prometheus collectors for testing.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.jobsTotal,
		m.jobsDuration,
		m.jobErrors,
	}
}

// errorType maps an error to a bounded label.
func errorType(err error) string {
	switch {
	case errors.Is(err, audit.ErrMissingColor):
		return ErrorTypeMissingColor
	case errors.Is(err, color.ErrInvalidColorFormat), errors.Is(err, color.ErrInvalidComponentRange):
		return ErrorTypeInvalidColor
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeCanceled
	default:
		return ErrorTypeOther
	}
}
