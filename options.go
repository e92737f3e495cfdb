package execmem

import (
	"log/slog"

	"github.com/hupe1980/execmem/resource"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	controller       *resource.Controller
}

// Option configures region construction.
type Option func(*options)

// WithMetricsCollector configures metrics collection for reserve/release.
// Pass nil to disable metrics.
//
// Example with basic metrics:
//
//	metrics := &execmem.BasicMetricsCollector{}
//	r, _ := execmem.New(64, execmem.WithMetricsCollector(metrics))
//	defer r.Close()
//	stats := metrics.GetStats()
//	fmt.Printf("Reserved: %d bytes\n", stats.BytesReserved)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for reserve/release.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := execmem.NewJSONLogger(slog.LevelDebug)
//	r, _ := execmem.New(64, execmem.WithLogger(logger))
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

// WithController charges every region against c. A reservation that would
// exceed c's limits fails with ErrBudgetExceeded instead of waiting.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
