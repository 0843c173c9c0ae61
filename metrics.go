package seqgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    reads  *prometheus.CounterVec
//	    blocks prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordGetField(name string, d time.Duration, err error) {
//	    p.reads.WithLabelValues(name).Inc()
//	}
type MetricsCollector interface {
	// RecordGetField is called after each GetField call.
	// err is nil if successful.
	RecordGetField(name string, duration time.Duration, err error)

	// RecordBlock is called after each transform invocation of a block or
	// per-variant apply.
	RecordBlock(duration time.Duration, err error)

	// RecordIndexBuild is called when a run-length, genotype or chromosome
	// index is built lazily.
	RecordIndexBuild(name string, runs int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordGetField(string, time.Duration, error) {}
func (NoopMetricsCollector) RecordBlock(time.Duration, error)            {}
func (NoopMetricsCollector) RecordIndexBuild(string, int, time.Duration) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	GetFieldCount      atomic.Int64
	GetFieldErrors     atomic.Int64
	GetFieldTotalNanos atomic.Int64
	BlockCount         atomic.Int64
	BlockErrors        atomic.Int64
	BlockTotalNanos    atomic.Int64
	IndexBuildCount    atomic.Int64
	IndexRuns          atomic.Int64
	IndexTotalNanos    atomic.Int64
}

// RecordGetField implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGetField(_ string, duration time.Duration, err error) {
	b.GetFieldCount.Add(1)
	b.GetFieldTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.GetFieldErrors.Add(1)
	}
}

// RecordBlock implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBlock(duration time.Duration, err error) {
	b.BlockCount.Add(1)
	b.BlockTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BlockErrors.Add(1)
	}
}

// RecordIndexBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIndexBuild(_ string, runs int, duration time.Duration) {
	b.IndexBuildCount.Add(1)
	b.IndexRuns.Add(int64(runs))
	b.IndexTotalNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		GetFieldCount:     b.GetFieldCount.Load(),
		GetFieldErrors:    b.GetFieldErrors.Load(),
		GetFieldAvgNanos:  avg(b.GetFieldTotalNanos.Load(), b.GetFieldCount.Load()),
		BlockCount:        b.BlockCount.Load(),
		BlockErrors:       b.BlockErrors.Load(),
		BlockAvgNanos:     avg(b.BlockTotalNanos.Load(), b.BlockCount.Load()),
		IndexBuildCount:   b.IndexBuildCount.Load(),
		IndexRuns:         b.IndexRuns.Load(),
		IndexBuildAvgNano: avg(b.IndexTotalNanos.Load(), b.IndexBuildCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	GetFieldCount     int64
	GetFieldErrors    int64
	GetFieldAvgNanos  int64
	BlockCount        int64
	BlockErrors       int64
	BlockAvgNanos     int64
	IndexBuildCount   int64
	IndexRuns         int64
	IndexBuildAvgNano int64
}
