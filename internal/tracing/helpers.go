package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of spans started by this package.
const TracerName = "themecontrast"

// Span attribute keys for audit spans.
const (
	AttrThemeName    = attribute.Key("theme.name")
	AttrThemeSource  = attribute.Key("theme.source")
	AttrAuditPass    = attribute.Key("audit.pass")
	AttrAuditChecks  = attribute.Key("audit.checks")
	AttrAuditFailed  = attribute.Key("audit.failed_checks")
	AttrAuditFixes   = attribute.Key("audit.fixes")
	AttrBatchRunID   = attribute.Key("batch.run_id")
	AttrBatchThemes  = attribute.Key("batch.themes")
	AttrBatchWorkers = attribute.Key("batch.workers")
)

// StartSpan creates a new span for a general operation.
// Returns the new context and a function to end the span.
//
// Example usage:
//
//	ctx, endSpan := tracing.StartSpan(ctx, "audit_theme", tracing.AttrThemeName.String(name))
//	defer endSpan(err)
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	tracer := otel.Tracer(TracerName)

	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// RecordAudit annotates the current span with an audit outcome.
func RecordAudit(ctx context.Context, pass bool, checks, failed, fixes int) {
	SetAttributes(ctx,
		AttrAuditPass.Bool(pass),
		AttrAuditChecks.Int(checks),
		AttrAuditFailed.Int(failed),
		AttrAuditFixes.Int(fixes),
	)
}

// AddEvent adds an event to the current span.
func AddEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// SetAttributes sets attributes on the current span.
func SetAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attrs...)
}
