package slotmap

import "sync/atomic"

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus
// (see examples/observability).
//
// Containers call the collector synchronously from the goroutine that owns
// them. A collector shared by containers on different goroutines must be safe
// for concurrent use.
type MetricsCollector interface {
	// RecordAllocate is called after a slot became live
	// (Allocate, Acquire or Assign).
	RecordAllocate(container string)

	// RecordErase is called after a slot was retired
	// (Erase or Release).
	RecordErase(container string)

	// RecordGrow is called after a page was appended.
	// pages and capacity describe the container after growth.
	RecordGrow(container string, pages, capacity int)

	// RecordViolation is called right before a contract violation panics.
	RecordViolation(container, op string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAllocate(string)          {}
func (NoopMetricsCollector) RecordErase(string)             {}
func (NoopMetricsCollector) RecordGrow(string, int, int)    {}
func (NoopMetricsCollector) RecordViolation(string, string) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
// Counts are aggregated over every container it is attached to.
type BasicMetricsCollector struct {
	AllocateCount  atomic.Int64
	EraseCount     atomic.Int64
	GrowCount      atomic.Int64
	ViolationCount atomic.Int64
	Capacity       atomic.Int64 // last reported capacity
}

// RecordAllocate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAllocate(string) {
	b.AllocateCount.Add(1)
}

// RecordErase implements MetricsCollector.
func (b *BasicMetricsCollector) RecordErase(string) {
	b.EraseCount.Add(1)
}

// RecordGrow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGrow(_ string, _ int, capacity int) {
	b.GrowCount.Add(1)
	b.Capacity.Store(int64(capacity))
}

// RecordViolation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordViolation(string, string) {
	b.ViolationCount.Add(1)
}

// MetricsStats is a snapshot of BasicMetricsCollector.
type MetricsStats struct {
	AllocateCount  int64
	EraseCount     int64
	LiveCount      int64
	GrowCount      int64
	ViolationCount int64
	Capacity       int64
}

// GetStats returns a snapshot of the collected counters.
func (b *BasicMetricsCollector) GetStats() MetricsStats {
	allocs := b.AllocateCount.Load()
	erases := b.EraseCount.Load()
	return MetricsStats{
		AllocateCount:  allocs,
		EraseCount:     erases,
		LiveCount:      allocs - erases,
		GrowCount:      b.GrowCount.Load(),
		ViolationCount: b.ViolationCount.Load(),
		Capacity:       b.Capacity.Load(),
	}
}
