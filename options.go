package manseg

import (
	"log/slog"

	"github.com/hupe1980/manseg/resource"
)

type options struct {
	logger      *Logger
	metrics     MetricsCollector
	controller  *resource.Controller
	fillWorkers int
}

// Option configures Array construction.
type Option func(*options)

// WithLogger configures structured logging for allocation, mirror
// build and release operations. Pass nil to keep the no-op default.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLogLevel creates a text logger with the specified level and sets
// it. Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithResourceController attaches a shared resource controller.
// Storage and mirror allocations reserve memory from it (a refused
// reservation surfaces as ErrAllocationFailure), background mirror
// builds occupy its build slots, and mirror fills honor its throughput
// limit. Multiple Arrays may share one controller.
func WithResourceController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithFillWorkers sets the number of goroutines partitioning the
// mirror fill. Values <= 0 select runtime.GOMAXPROCS(0).
func WithFillWorkers(n int) Option {
	return func(o *options) {
		o.fillWorkers = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
