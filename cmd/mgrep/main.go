// Package main provides the mgrep command-line interface.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/bsce/mgrep"
	"github.com/bsce/mgrep/internal/config"
	"github.com/bsce/mgrep/internal/observability"
	"github.com/bsce/mgrep/internal/pattern"
	"github.com/bsce/mgrep/internal/source"
)

const version = "1.0.0"

func main() {
	// With SIGPIPE ignored, a write to a closed stdout returns EPIPE as an
	// ordinary error instead of killing the process. The pipeline treats
	// that error as a clean stop (think `mgrep ... | head`).
	signal.Ignore(syscall.SIGPIPE)

	app := &cli.App{
		Name:      "mgrep",
		Usage:     "Filter lines by pattern and semantic where-clause expressions",
		Version:   version,
		ArgsUsage: "[SOURCE]",
		Description: `Reads lines from SOURCE (a file path) or from piped stdin, keeps the
lines matching --match, and narrows them further with --where expressions
evaluated against line properties and named capture groups.

Patterns of the form /.../ are regular expressions; anything else is a
literal substring. Literal matching is case-insensitive and regex matching
case-sensitive unless --case says otherwise.

Examples:
  mgrep --match ERROR app.log
  tail -f app.log | mgrep --match '/status=(?<code>\d+)/' --where 'group("code") >= 500'
  mgrep --match WARN --where 'line.length > 120 and line.number % 2 == 0' app.log`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "match",
				Aliases:  []string{"m"},
				Usage:    "Pattern to match: literal text or /regex/",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "case",
				Usage: "Case sensitivity override: sensitive or insensitive",
			},
			&cli.StringSliceFlag{
				Name:    "where",
				Aliases: []string{"w"},
				Usage:   "Filter expression; repeatable, all must hold",
			},
			&cli.BoolFlag{
				Name:    "line-numbers",
				Aliases: []string{"n"},
				Usage:   "Prefix emitted lines with their line number",
			},
			&cli.BoolFlag{
				Name:  "stats",
				Usage: "Print run statistics to stderr after the run",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
				Value: "warn",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format: text or json",
				Value: "text",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Config file path (default ~/.config/mgrep/config.yaml)",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		// Library errors already carry the "mgrep:" prefix.
		fmt.Fprintf(os.Stderr, "mgrep: %s\n", strings.TrimPrefix(err.Error(), "mgrep: "))
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	fileCfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	logger, err := buildLogger(c, fileCfg)
	if err != nil {
		return err
	}

	caseArg := c.String("case")
	if caseArg == "" {
		caseArg = fileCfg.Case
	}
	override, err := pattern.ParseCaseOverride(caseArg)
	if err != nil {
		return err
	}

	lineNumbers := c.Bool("line-numbers") || fileCfg.LineNumbers

	input, name, closeInput, err := openInput(c)
	if err != nil {
		return err
	}
	defer closeInput()

	engineOpts := []mgrep.Option{mgrep.WithLogger(logger)}

	var reader *sdkmetric.ManualReader
	if c.Bool("stats") {
		reader = sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		defer provider.Shutdown(context.Background()) //nolint:errcheck

		obs := observability.NewConfig(
			observability.WithMeterProvider(provider),
			observability.WithServiceName("mgrep"),
			observability.WithServiceVersion(version),
		)
		if err := obs.Initialize(); err != nil {
			return fmt.Errorf("initializing metrics: %w", err)
		}
		engineOpts = append(engineOpts, mgrep.WithObservability(obs))
	}

	engine, err := mgrep.New(mgrep.Config{
		Pattern:     c.String("match"),
		Case:        override,
		Where:       c.StringSlice("where"),
		LineNumbers: lineNumbers,
	}, engineOpts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	stats, err := engine.Run(ctx, input, name, os.Stdout)
	if err != nil {
		return err
	}

	if c.Bool("stats") {
		printStats(stats, time.Since(started), reader)
	}
	return nil
}

// loadConfig reads the config file named by --config, or the conventional
// default location when the flag is absent. A missing default file is fine.
func loadConfig(c *cli.Context) (*config.File, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path, true)
	}
	return config.Load(config.DefaultPath(), false)
}

// buildLogger constructs the slog logger from flags, falling back to config
// file values for flags left at their defaults.
func buildLogger(c *cli.Context, fileCfg *config.File) (*slog.Logger, error) {
	levelArg := c.String("log-level")
	if !c.IsSet("log-level") && fileCfg.Log.Level != "" {
		levelArg = fileCfg.Log.Level
	}
	formatArg := c.String("log-format")
	if !c.IsSet("log-format") && fileCfg.Log.Format != "" {
		formatArg = fileCfg.Log.Format
	}

	var level slog.Level
	switch strings.ToLower(levelArg) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", levelArg)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(formatArg) {
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", formatArg)
	}
}

// openInput resolves the input source: an explicit file path argument, or
// piped stdin. Running with neither is a usage error, not an invitation to
// block on an interactive terminal.
func openInput(c *cli.Context) (*os.File, string, func(), error) {
	if c.NArg() > 1 {
		return nil, "", nil, fmt.Errorf("expected at most one SOURCE argument, got %d", c.NArg())
	}
	if c.NArg() == 1 {
		path := c.Args().First()
		f, err := source.Open(path)
		if err != nil {
			return nil, "", nil, err
		}
		return f, path, func() { f.Close() }, nil
	}
	if !source.IsPipe(os.Stdin) {
		return nil, "", nil, mgrep.ErrNoInput
	}
	return os.Stdin, "stdin", func() {}, nil
}

// printStats writes the run summary to stderr, including any evaluation
// error counts collected by the metrics reader.
func printStats(stats mgrep.RunStats, elapsed time.Duration, reader *sdkmetric.ManualReader) {
	fmt.Fprintf(os.Stderr, "scanned: %d\nmatched: %d\nemitted: %d\nelapsed: %s\n",
		stats.Scanned, stats.Matched, stats.Emitted, elapsed.Round(time.Millisecond))

	if reader == nil {
		return
	}
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		return
	}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "mgrep.eval.errors" {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				var total int64
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
				fmt.Fprintf(os.Stderr, "eval errors: %d\n", total)
			}
		}
	}
}
