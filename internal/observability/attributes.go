// Package observability provides OpenTelemetry-based instrumentation for the
// filter pipeline.
//
// It supports tracing of whole runs and metrics for line throughput and
// evaluation failures.
//
// All observability features are opt-in. When not configured, no-op
// implementations are used with zero performance overhead.
package observability

import "go.opentelemetry.io/otel/attribute"

// Instrumentation identity constants
const (
	// TracerName is the instrumentation name for tracing.
	TracerName = "github.com/bsce/mgrep"
	// MeterName is the instrumentation name for metrics.
	MeterName = "github.com/bsce/mgrep"
)

// Semantic attribute keys following OpenTelemetry conventions.
const (
	// Run attributes
	AttrRunID       = "mgrep.run.id"
	AttrSource      = "mgrep.source"
	AttrPatternKind = "mgrep.pattern.kind"
	AttrWhereCount  = "mgrep.where.count"

	// Result attributes
	AttrLinesScanned = "mgrep.lines.scanned"
	AttrLinesMatched = "mgrep.lines.matched"
	AttrLinesEmitted = "mgrep.lines.emitted"

	// Error attributes
	AttrErrorKind = "mgrep.error.kind"
)

// Log field keys for structured logging with trace context.
const (
	LogFieldRunID    = "run_id"
	LogFieldSource   = "source"
	LogFieldDuration = "duration_ms"
	LogFieldScanned  = "scanned"
	LogFieldMatched  = "matched"
	LogFieldEmitted  = "emitted"
	LogFieldError    = "error"
)

// RunIDAttr creates an attribute for the run identifier.
func RunIDAttr(id string) attribute.KeyValue {
	return attribute.String(AttrRunID, id)
}

// SourceAttr creates an attribute for the input source name.
func SourceAttr(name string) attribute.KeyValue {
	return attribute.String(AttrSource, name)
}

// PatternKindAttr creates an attribute for the pattern kind (literal/regex).
func PatternKindAttr(kind string) attribute.KeyValue {
	return attribute.String(AttrPatternKind, kind)
}

// WhereCountAttr creates an attribute for the number of where clauses.
func WhereCountAttr(count int) attribute.KeyValue {
	return attribute.Int(AttrWhereCount, count)
}

// ErrorKindAttr creates an attribute for the error classification.
func ErrorKindAttr(kind string) attribute.KeyValue {
	return attribute.String(AttrErrorKind, kind)
}
