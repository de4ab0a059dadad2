package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/onnwee/themecontrast/internal/audit"
	"github.com/onnwee/themecontrast/internal/color"
	"github.com/onnwee/themecontrast/internal/theme"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func passingTheme(name string) theme.Theme {
	return theme.Theme{
		Name:   name,
		Source: name + ".yaml",
		Colors: map[string]string{"foreground": "#ffffff", "background": "#000000"},
	}
}

func failingTheme(name string) theme.Theme {
	return theme.Theme{
		Name:   name,
		Source: name + ".yaml",
		Colors: map[string]string{"foreground": "#bbbbbb", "background": "#ffffff"},
	}
}

func newRunner(opts ...Option) *Runner {
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return NewRunner(audit.NewAuditor(color.NewEngine()), opts...)
}

func TestRun_PreservesOrder(t *testing.T) {
	var themes []theme.Theme
	for i := 0; i < 40; i++ {
		if i%3 == 0 {
			themes = append(themes, failingTheme(fmt.Sprintf("theme-%02d", i)))
		} else {
			themes = append(themes, passingTheme(fmt.Sprintf("theme-%02d", i)))
		}
	}

	entries, err := newRunner(WithWorkers(7)).Run(context.Background(), themes)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(entries) != len(themes) {
		t.Fatalf("len(entries) = %d, want %d", len(entries), len(themes))
	}
	for i, e := range entries {
		if e.Result.ThemeName != themes[i].Name {
			t.Errorf("entries[%d] = %q, want %q", i, e.Result.ThemeName, themes[i].Name)
		}
		if want := i%3 != 0; e.Result.OverallPass != want {
			t.Errorf("entries[%d].OverallPass = %v, want %v", i, e.Result.OverallPass, want)
		}
	}
}

func TestRun_Suggest(t *testing.T) {
	themes := []theme.Theme{passingTheme("dark"), failingTheme("washed")}

	t.Run("disabled", func(t *testing.T) {
		entries, err := newRunner().Run(context.Background(), themes)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		for _, e := range entries {
			if len(e.Fixes) != 0 {
				t.Errorf("%s: expected no fixes without suggest, got %d", e.Result.ThemeName, len(e.Fixes))
			}
		}
	})

	t.Run("enabled", func(t *testing.T) {
		entries, err := newRunner(WithSuggest(true)).Run(context.Background(), themes)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(entries[0].Fixes) != 0 {
			t.Errorf("passing theme should have no fixes, got %d", len(entries[0].Fixes))
		}
		failed := entries[1]
		if len(failed.Fixes) != failed.Result.FailureCount {
			t.Errorf("fixes = %d, want one per failing check (%d)", len(failed.Fixes), failed.Result.FailureCount)
		}
		for _, f := range failed.Fixes {
			if !f.Suggestion.MeetsTarget(f.Check.Required) {
				t.Errorf("fix for %s reaches %.2f, want >= %.1f", f.Check.Description, f.Suggestion.NewRatio, f.Check.Required)
			}
		}
	})
}

func TestRun_Error(t *testing.T) {
	broken := theme.Theme{
		Name:   "broken",
		Source: "broken.yaml",
		Colors: map[string]string{"foreground": "#ffffff"},
	}

	entries, err := newRunner(WithWorkers(1)).Run(context.Background(),
		[]theme.Theme{passingTheme("ok"), broken, passingTheme("later")})
	if !errors.Is(err, audit.ErrMissingColor) {
		t.Fatalf("Run() error = %v, want ErrMissingColor", err)
	}
	if entries != nil {
		t.Errorf("expected nil entries on error, got %d", len(entries))
	}
	if !strings.Contains(err.Error(), `theme "broken" (broken.yaml)`) {
		t.Errorf("error %q should name the theme and source", err)
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner().Run(ctx, []theme.Theme{passingTheme("a"), passingTheme("b")})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRun_Empty(t *testing.T) {
	entries, err := newRunner().Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestRun_Logging(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := newRunner(WithLogger(logger)).Run(context.Background(), []theme.Theme{failingTheme("washed")})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"theme audited", "theme=washed", "batch audit completed", "themes=1", "failed=1", "run_id="} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_Spans(t *testing.T) {
	spanRecorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spanRecorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})

	themes := []theme.Theme{passingTheme("a"), failingTheme("b"), passingTheme("c")}
	if _, err := newRunner(WithSuggest(true)).Run(context.Background(), themes); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	spans := spanRecorder.Ended()
	if len(spans) != len(themes)+1 {
		t.Fatalf("expected %d spans, got %d", len(themes)+1, len(spans))
	}

	var root sdktrace.ReadOnlySpan
	for _, s := range spans {
		if s.Name() == "batch_audit" {
			root = s
		}
	}
	if root == nil {
		t.Fatal("missing batch_audit span")
	}

	children := 0
	for _, s := range spans {
		if s.Name() != "audit_theme" {
			continue
		}
		children++
		if s.Parent().SpanID() != root.SpanContext().SpanID() {
			t.Errorf("audit_theme span is not a child of batch_audit")
		}
	}
	if children != len(themes) {
		t.Errorf("expected %d audit_theme spans, got %d", len(themes), children)
	}
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matches(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matches(m *dto.Metric, labels map[string]string) bool {
	found := 0
	for _, lp := range m.GetLabel() {
		if v, ok := labels[lp.GetName()]; ok && v == lp.GetValue() {
			found++
		}
	}
	return found == len(labels)
}

func TestRun_Metrics(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	runner := newRunner(WithMetrics(m), WithSuggest(true))
	if _, err := runner.Run(context.Background(), []theme.Theme{passingTheme("a"), failingTheme("b")}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	bad := theme.Theme{Name: "bad", Colors: map[string]string{"foreground": "#12345", "background": "#000000"}}
	if _, err := runner.Run(context.Background(), []theme.Theme{bad}); err == nil {
		t.Fatal("expected error for malformed color")
	}

	tests := []struct {
		name   string
		metric string
		labels map[string]string
		want   float64
	}{
		{"audit success", MetricBatchJobsTotal, map[string]string{"job_type": JobTypeAudit, "status": StatusSuccess}, 2},
		{"audit failure", MetricBatchJobsTotal, map[string]string{"job_type": JobTypeAudit, "status": StatusFailure}, 1},
		{"suggest success", MetricBatchJobsTotal, map[string]string{"job_type": JobTypeSuggest, "status": StatusSuccess}, 1},
		{"invalid color error", MetricBatchJobErrorsTotal, map[string]string{"job_type": JobTypeAudit, "error_type": ErrorTypeInvalidColor}, 1},
	}
	for _, tt := range tests {
		if got := counterValue(t, reg, tt.metric, tt.labels); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestErrorType(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("background: %w", audit.ErrMissingColor), ErrorTypeMissingColor},
		{fmt.Errorf("x: %w", color.ErrInvalidColorFormat), ErrorTypeInvalidColor},
		{fmt.Errorf("x: %w", color.ErrInvalidComponentRange), ErrorTypeInvalidColor},
		{context.Canceled, ErrorTypeCanceled},
		{context.DeadlineExceeded, ErrorTypeCanceled},
		{errors.New("boom"), ErrorTypeOther},
	}
	for _, tt := range tests {
		if got := errorType(tt.err); got != tt.want {
			t.Errorf("errorType(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.IncJobsTotal(JobTypeAudit, StatusSuccess)
	m.ObserveJobDuration(JobTypeAudit, 0.1)
	m.IncJobErrors(JobTypeAudit, ErrorTypeOther)

	if got := len(NewMetrics().Collectors()); got != 3 {
		t.Errorf("expected 3 collectors, got %d", got)
	}
}
