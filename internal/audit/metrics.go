package audit

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics names as constants for consistency.
const (
	MetricAuditsTotal       = "theme_audits_total"
	MetricFailedChecksTotal = "theme_audit_failed_checks_total"
)

// Outcome labels for MetricAuditsTotal.
const (
	OutcomePass  = "pass"
	OutcomeFail  = "fail"
	OutcomeError = "error"
)

// Metrics contains Prometheus metrics for theme audits.
// All operations are thread-safe, and a nil *Metrics records nothing.
type Metrics struct {
	auditsTotal  *prometheus.CounterVec
	failedChecks *prometheus.CounterVec
}

// NewMetrics creates and returns a new Metrics instance with all collectors initialized.
// The metrics are not registered; call Register to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		auditsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricAuditsTotal,
				Help: "Total number of theme audits by outcome",
			},
			[]string{"outcome"},
		),
		failedChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricFailedChecksTotal,
				Help: "Total number of failing contrast checks by category",
			},
			[]string{"category"},
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

// Collectors returns all Prometheus collectors for testing.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.auditsTotal,
		m.failedChecks,
	}
}

func (m *Metrics) recordAudit(outcome string) {
	if m == nil {
		return
	}
	m.auditsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) recordFailedCheck(c Category) {
	if m == nil {
		return
	}
	m.failedChecks.WithLabelValues(c.String()).Inc()
}
