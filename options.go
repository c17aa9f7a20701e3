package slotmap

import (
	"log/slog"

	"github.com/hupe1980/slotmap/internal/container"
)

// DefaultPageSize is the number of values per dense page.
const DefaultPageSize = container.DefaultPageSize

type options struct {
	pageSize         int
	name             string
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a SlotMap, Generator or SparseStorage.
type Option func(*options)

// WithPageSize sets the number of values per dense page.
//
// The size is rounded up to the next power of two (and capped at 1M) so that
// page and offset can be derived with a shift and a mask. Values <= 0 select
// DefaultPageSize. The Generator ignores this option; its table always grows
// by SlotsPerPage.
func WithPageSize(n int) Option {
	return func(o *options) {
		o.pageSize = n
	}
}

// WithName sets the container name used in log records and metric calls.
// Defaults to "slotmap", "generator" or "sparse" depending on the container.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &slotmap.BasicMetricsCollector{}
//	m := slotmap.New[int](slotmap.WithMetricsCollector(metrics))
//	// ... use m ...
//	stats := metrics.GetStats()
//	fmt.Printf("live: %d, grows: %d\n", stats.LiveCount, stats.GrowCount)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := slotmap.NewJSONLogger(slog.LevelDebug)
//	m := slotmap.New[int](slotmap.WithLogger(logger))
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

func applyOptions(kind string, optFns []Option) options {
	o := options{
		pageSize:         DefaultPageSize,
		name:             kind,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.name == "" {
		o.name = kind
	}
	return o
}
