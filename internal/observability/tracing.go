package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps an OpenTelemetry tracer with pipeline-specific span creation
// methods.
type Tracer struct {
	tracer      trace.Tracer
	serviceName string
}

// NewTracer creates a new Tracer using the given TracerProvider.
func NewTracer(tp trace.TracerProvider, serviceName string) *Tracer {
	return &Tracer{
		tracer:      tp.Tracer(TracerName),
		serviceName: serviceName,
	}
}

// StartSpan starts a new span with the given name and attributes.
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartRun starts the span covering one filter run over an input source.
func (t *Tracer) StartRun(ctx context.Context, runID, source, patternKind string, whereCount int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "mgrep.run", trace.WithAttributes(
		RunIDAttr(runID),
		SourceAttr(source),
		PatternKindAttr(patternKind),
		WhereCountAttr(whereCount),
	))
}

// EndRun records the run totals on the span and ends it.
func EndRun(span trace.Span, scanned, matched, emitted int64, err error) {
	span.SetAttributes(
		attribute.Int64(AttrLinesScanned, scanned),
		attribute.Int64(AttrLinesMatched, matched),
		attribute.Int64(AttrLinesEmitted, emitted),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
