// Package batch audits many themes in parallel with a bounded worker pool.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/onnwee/themecontrast/internal/audit"
	"github.com/onnwee/themecontrast/internal/report"
	"github.com/onnwee/themecontrast/internal/theme"
	"github.com/onnwee/themecontrast/internal/tracing"
)

// DefaultWorkers is used when no positive worker count is configured.
const DefaultWorkers = 4

// Runner audits themes concurrently.
type Runner struct {
	auditor *audit.Auditor
	workers int
	suggest bool
	metrics *Metrics
	logger  *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers bounds the number of themes audited at once. Values below 1
// are ignored.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithSuggest enables fix suggestions for failing checks.
func WithSuggest(enabled bool) Option {
	return func(r *Runner) {
		r.suggest = enabled
	}
}

// WithMetrics records per-theme job metrics on m.
func WithMetrics(m *Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// NewRunner creates a Runner around auditor.
func NewRunner(auditor *audit.Auditor, opts ...Option) *Runner {
	r := &Runner{
		auditor: auditor,
		workers: DefaultWorkers,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run audits every theme and returns one entry per theme in input order.
// The first failing theme cancels the remaining work and its error is
// returned together with a nil slice.
func (r *Runner) Run(ctx context.Context, themes []theme.Theme) ([]report.Entry, error) {
	runID := uuid.NewString()
	start := time.Now()

	ctx, endSpan := tracing.StartSpan(ctx, "batch_audit",
		tracing.AttrBatchRunID.String(runID),
		tracing.AttrBatchThemes.Int(len(themes)),
		tracing.AttrBatchWorkers.Int(r.workers),
	)

	entries := make([]report.Entry, len(themes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i := range themes {
		t := themes[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry, err := r.runOne(gctx, t)
			if err != nil {
				return fmt.Errorf("theme %q (%s): %w", t.Name, t.Source, err)
			}
			entries[i] = entry
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		endSpan(err)
		r.logger.Error("batch audit failed",
			"run_id", runID,
			"themes", len(themes),
			"error", err,
		)
		return nil, err
	}

	summary := report.Summarize(entries)
	tracing.SetAttributes(ctx, tracing.AttrAuditFailed.Int(summary.FailedChecks))
	endSpan(nil)

	r.logger.Info("batch audit completed",
		"run_id", runID,
		"themes", summary.Themes,
		"failed", summary.Failed,
		"fixes", summary.Fixes,
		"duration_seconds", time.Since(start).Seconds(),
	)
	return entries, nil
}

func (r *Runner) runOne(ctx context.Context, t theme.Theme) (report.Entry, error) {
	ctx, endSpan := tracing.StartSpan(ctx, "audit_theme",
		tracing.AttrThemeName.String(t.Name),
		tracing.AttrThemeSource.String(t.Source),
	)

	start := time.Now()
	result, err := r.auditor.Audit(t.Name, t.Source, t.Colors)
	r.metrics.ObserveJobDuration(JobTypeAudit, time.Since(start).Seconds())
	if err != nil {
		r.fail(JobTypeAudit, err)
		endSpan(err)
		return report.Entry{}, err
	}
	r.metrics.IncJobsTotal(JobTypeAudit, StatusSuccess)

	entry := report.Entry{Result: result}
	if r.suggest && !result.OverallPass {
		start = time.Now()
		entry.Fixes, err = r.auditor.Suggest(result)
		r.metrics.ObserveJobDuration(JobTypeSuggest, time.Since(start).Seconds())
		if err != nil {
			r.fail(JobTypeSuggest, err)
			endSpan(err)
			return report.Entry{}, err
		}
		r.metrics.IncJobsTotal(JobTypeSuggest, StatusSuccess)
	}

	tracing.RecordAudit(ctx, result.OverallPass, len(result.Checks), result.FailureCount, len(entry.Fixes))
	endSpan(nil)

	r.logger.Debug("theme audited",
		"theme", t.Name,
		"source", t.Source,
		"pass", result.OverallPass,
		"failed_checks", result.FailureCount,
		"fixes", len(entry.Fixes),
	)
	return entry, nil
}

func (r *Runner) fail(jobType string, err error) {
	r.metrics.IncJobsTotal(jobType, StatusFailure)
	r.metrics.IncJobErrors(jobType, errorType(err))
}
