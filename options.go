package pagedseq

// MemoryAcquirer reserves and returns memory for page allocations.
//
// *resource.Controller satisfies this interface.
type MemoryAcquirer interface {
	AcquireMemory(bytes int64) error
	ReleaseMemory(bytes int64)
}

type options struct {
	logger   *Logger
	metrics  MetricsCollector
	acquirer MemoryAcquirer
}

func defaultOptions() options {
	return options{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
}

// Option configures a Sequence at construction time.
//
// The page size is not an option: it is a required argument of New and is
// fixed for the lifetime of the sequence.
type Option func(*options)

// WithLogger sets the logger used for page lifecycle events.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for page lifecycle events.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &pagedseq.BasicMetricsCollector{}
//	seq, _ := pagedseq.New[int](512, pagedseq.WithMetricsCollector(metrics))
//	// ...
//	stats := metrics.GetStats()
//	fmt.Printf("Live pages: %d\n", stats.LivePages)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithMemoryAcquirer charges every page against a memory budget.
//
// Each page reserves pageSize * sizeof(T) bytes before it is allocated and
// returns them when it is released. With an acquirer configured, Push panics
// if the budget is exhausted; use TryPush to handle that case.
//
// Example:
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 64 << 20})
//	seq, _ := pagedseq.New[float64](4096, pagedseq.WithMemoryAcquirer(rc))
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(o *options) {
		o.acquirer = acquirer
	}
}
