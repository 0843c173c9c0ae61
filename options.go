package seqgo

import (
	"io"
	"log/slog"
	"os"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	progress         io.Writer
}

// Option configures a Registry.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for field reads,
// block applies and index builds.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &seqgo.BasicMetricsCollector{}
//	reg := seqgo.NewRegistry(seqgo.WithMetricsCollector(metrics))
//	// ... use reg ...
//	stats := metrics.GetStats()
//	fmt.Printf("Reads: %d, Avg latency: %dns\n", stats.GetFieldCount, stats.GetFieldAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := seqgo.NewJSONLogger(slog.LevelDebug)
//	reg := seqgo.NewRegistry(seqgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithProgressWriter sets where verbose applies print their progress bar.
// Defaults to os.Stdout.
func WithProgressWriter(w io.Writer) Option {
	return func(o *options) {
		if w == nil {
			w = io.Discard
		}
		o.progress = w
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		progress:         os.Stdout,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

type applyConfig struct {
	verbose bool
	args    []any
}

// ApplyOption configures a single ApplyOverVariantBlocks or ApplyOverVariants
// call.
type ApplyOption func(*applyConfig)

// WithVerbose prints a progress bar to the registry's progress writer.
func WithVerbose(v bool) ApplyOption {
	return func(c *applyConfig) {
		c.verbose = v
	}
}

// WithArgs appends extra arguments after the decoded fields on every call of
// the transform.
func WithArgs(args ...any) ApplyOption {
	return func(c *applyConfig) {
		c.args = append(c.args, args...)
	}
}

func applyApplyOptions(optFns []ApplyOption) applyConfig {
	var c applyConfig
	for _, fn := range optFns {
		if fn != nil {
			fn(&c)
		}
	}
	return c
}
