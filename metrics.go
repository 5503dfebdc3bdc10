package pagedseq

import "sync/atomic"

// MetricsCollector defines an interface for collecting page lifecycle metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Calls happen synchronously on the goroutine that owns the sequence.
type MetricsCollector interface {
	// RecordPageAlloc is called after a page was appended to the chain.
	RecordPageAlloc(pageSize int)

	// RecordPageRelease is called after a trailing page was dropped.
	RecordPageRelease(pageSize int)

	// RecordRemove is called after each successful Remove.
	// crossPage is true when the swapped elements lived on different pages.
	RecordRemove(crossPage bool)

	// RecordBudgetRejection is called when a MemoryAcquirer refused a page.
	RecordBudgetRejection()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordPageAlloc(int)    {}
func (NoopMetricsCollector) RecordPageRelease(int)  {}
func (NoopMetricsCollector) RecordRemove(bool)      {}
func (NoopMetricsCollector) RecordBudgetRejection() {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// It is safe to read from other goroutines while the sequence is in use.
type BasicMetricsCollector struct {
	PagesAllocated   atomic.Int64
	PagesReleased    atomic.Int64
	SlotsAllocated   atomic.Int64
	Removes          atomic.Int64
	CrossPageRemoves atomic.Int64
	BudgetRejections atomic.Int64
}

// RecordPageAlloc implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPageAlloc(pageSize int) {
	b.PagesAllocated.Add(1)
	b.SlotsAllocated.Add(int64(pageSize))
}

// RecordPageRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPageRelease(pageSize int) {
	b.PagesReleased.Add(1)
	b.SlotsAllocated.Add(-int64(pageSize))
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(crossPage bool) {
	b.Removes.Add(1)
	if crossPage {
		b.CrossPageRemoves.Add(1)
	}
}

// RecordBudgetRejection implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBudgetRejection() {
	b.BudgetRejections.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		PagesAllocated:   b.PagesAllocated.Load(),
		PagesReleased:    b.PagesReleased.Load(),
		LivePages:        b.PagesAllocated.Load() - b.PagesReleased.Load(),
		SlotsAllocated:   b.SlotsAllocated.Load(),
		Removes:          b.Removes.Load(),
		CrossPageRemoves: b.CrossPageRemoves.Load(),
		BudgetRejections: b.BudgetRejections.Load(),
	}
}

// BasicMetricsStats is a point-in-time copy of BasicMetricsCollector.
type BasicMetricsStats struct {
	PagesAllocated   int64
	PagesReleased    int64
	LivePages        int64
	SlotsAllocated   int64
	Removes          int64
	CrossPageRemoves int64
	BudgetRejections int64
}
