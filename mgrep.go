// Package mgrep filters lines of input against a literal-or-regex pattern
// and narrows the match set with where-clause predicates written in a small,
// safe expression language.
//
// An Engine is built once per invocation: the pattern is compiled and every
// where clause is parsed before any input is read, so malformed arguments
// fail fast without producing partial output. Run then drives a single
// sequential pass over the input, holding only the current line in memory.
package mgrep

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/bsce/mgrep/internal/expr"
	"github.com/bsce/mgrep/internal/observability"
	"github.com/bsce/mgrep/internal/pattern"
	"github.com/bsce/mgrep/internal/source"
)

// Config describes one filter invocation.
type Config struct {
	// Pattern is the match argument: literal text, or /regex/ with optional
	// named capture groups.
	Pattern string
	// Case overrides the per-kind case-sensitivity default when set.
	Case pattern.CaseOverride
	// Where lists the filter expressions, in command-line order. All of
	// them must evaluate to true for a line to be emitted.
	Where []string
	// LineNumbers prefixes emitted lines with "N:".
	LineNumbers bool
}

// Engine is a fully compiled filter invocation, ready to run over any number
// of input streams. It is immutable after construction.
type Engine struct {
	// pattern is the compiled match pattern
	pattern *pattern.CompiledPattern
	// programs holds the compiled where clauses in command-line order
	programs []*expr.Program
	// logger is used for structured logging throughout the run
	logger *slog.Logger
	// obs provides tracing and metrics instrumentation
	obs *observability.Config
	// lineNumbers enables the "N:" output prefix
	lineNumbers bool
}

// Option configures optional Engine collaborators.
type Option func(*Engine)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithObservability attaches an initialized observability configuration.
// Without it, no-op tracing and metrics are used.
func WithObservability(cfg *observability.Config) Option {
	return func(e *Engine) {
		e.obs = cfg
	}
}

// New compiles the pattern and every where clause. Any compile or parse
// failure is returned before a single line of input has been read.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if cfg.Pattern == "" {
		return nil, ErrMissingPattern
	}

	compiled, err := pattern.Compile(cfg.Pattern, cfg.Case)
	if err != nil {
		return nil, err
	}

	programs := make([]*expr.Program, 0, len(cfg.Where))
	for _, clause := range cfg.Where {
		prog, err := expr.CachedCompile(clause)
		if err != nil {
			return nil, err
		}
		programs = append(programs, prog)
	}

	e := &Engine{
		pattern:     compiled,
		programs:    programs,
		logger:      slog.Default(),
		lineNumbers: cfg.LineNumbers,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.logger.Debug("engine ready",
		slog.String("pattern_kind", compiled.Kind().String()),
		slog.Bool("case_sensitive", compiled.CaseSensitive()),
		slog.Int("where_count", len(programs)),
	)
	return e, nil
}

// RunStats reports what one pass over the input did.
type RunStats struct {
	// Scanned counts every input line read.
	Scanned int64
	// Matched counts lines that matched the pattern.
	Matched int64
	// Emitted counts lines that also passed every where clause.
	Emitted int64
}

// Run drives one pass over the input: match each line, evaluate the where
// clauses in order with AND combination, and write accepted lines to output
// in arrival order.
//
// The first evaluation failure aborts the run and is returned; it is never
// silently treated as a false predicate. A downstream consumer closing the
// output (broken pipe) stops the pass cleanly and is not an error.
// Cancellation of ctx stops the pass between lines.
func (e *Engine) Run(ctx context.Context, input io.Reader, sourceName string, output io.Writer) (RunStats, error) {
	runID := uuid.NewString()
	started := time.Now()

	tracer := e.obs.Tracer()
	metrics := e.obs.Metrics()
	ctx, span := tracer.StartRun(ctx, runID, sourceName, e.pattern.Kind().String(), len(e.programs))

	var stats RunStats
	var runErr error
	defer func() {
		metrics.RecordScanned(ctx, stats.Scanned)
		metrics.RecordMatched(ctx, stats.Matched)
		metrics.RecordEmitted(ctx, stats.Emitted)
		metrics.RecordRun(ctx, e.pattern.Kind().String(), time.Since(started))
		observability.EndRun(span, stats.Scanned, stats.Matched, stats.Emitted, runErr)
		attrs := []any{
			slog.String(observability.LogFieldRunID, runID),
			slog.String(observability.LogFieldSource, sourceName),
			slog.Int64(observability.LogFieldScanned, stats.Scanned),
			slog.Int64(observability.LogFieldMatched, stats.Matched),
			slog.Int64(observability.LogFieldEmitted, stats.Emitted),
			slog.Int64(observability.LogFieldDuration, time.Since(started).Milliseconds()),
		}
		if runErr != nil {
			attrs = append(attrs, slog.String(observability.LogFieldError, runErr.Error()))
		}
		e.logger.Debug("run complete", attrs...)
	}()

	writer := bufio.NewWriter(output)
	scanner := source.NewScanner(sourceName, input)

	for {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
			return stats, runErr
		default:
		}

		line, ok := scanner.Next()
		if !ok {
			break
		}
		stats.Scanned++

		matchCtx, matched := e.pattern.Match(line)
		if !matched {
			continue
		}
		stats.Matched++

		accepted, err := e.evaluate(ctx, matchCtx, metrics)
		if err != nil {
			runErr = err
			return stats, runErr
		}
		if !accepted {
			continue
		}

		if err := e.emit(writer, line); err != nil {
			if isBrokenPipe(err) {
				e.logger.Debug("output closed by consumer",
					slog.String(observability.LogFieldRunID, runID))
				return stats, nil
			}
			runErr = fmt.Errorf("writing output: %w", err)
			return stats, runErr
		}
		stats.Emitted++
	}

	if err := scanner.Err(); err != nil {
		runErr = err
		return stats, runErr
	}
	if err := writer.Flush(); err != nil && !isBrokenPipe(err) {
		runErr = fmt.Errorf("writing output: %w", err)
		return stats, runErr
	}
	return stats, nil
}

// evaluate applies every where clause to one matched line, AND-combined and
// short-circuiting on the first false result.
func (e *Engine) evaluate(ctx context.Context, matchCtx pattern.MatchContext, metrics *observability.Metrics) (bool, error) {
	for _, prog := range e.programs {
		pass, err := prog.EvaluateBool(matchCtx)
		if err != nil {
			metrics.RecordEvalError(ctx, evalErrorKind(err))
			return false, err
		}
		if !pass {
			return false, nil
		}
	}
	return true, nil
}

// emit writes one accepted line followed by a newline, flushing immediately
// so a downstream consumer sees matches as they happen on unbounded input.
func (e *Engine) emit(w *bufio.Writer, line pattern.Line) error {
	if e.lineNumbers {
		if _, err := w.WriteString(strconv.Itoa(line.Number)); err != nil {
			return err
		}
		if err := w.WriteByte(':'); err != nil {
			return err
		}
	}
	if _, err := w.WriteString(line.Content); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	return w.Flush()
}

// evalErrorKind classifies an evaluation failure for metrics.
func evalErrorKind(err error) string {
	var evalErr *expr.EvalError
	if errors.As(err, &evalErr) {
		return evalErr.Kind.String()
	}
	return "EvalError"
}
