package manseg

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordAlloc is called after each storage allocation attempt.
	// length is the requested element count, err is nil if successful.
	RecordAlloc(length int, duration time.Duration, err error)

	// RecordMirrorBuild is called after each mirror build attempt.
	// length is the element count, duration is the total fill time.
	RecordMirrorBuild(length int, duration time.Duration, err error)

	// RecordRelease is called after each storage or mirror release
	// attempt, including rejected double releases.
	RecordRelease(err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAlloc(int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordMirrorBuild(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordRelease(error)                         {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AllocCount            atomic.Int64
	AllocErrors           atomic.Int64
	AllocElements         atomic.Int64
	MirrorBuildCount      atomic.Int64
	MirrorBuildErrors     atomic.Int64
	MirrorBuildTotalNanos atomic.Int64
	ReleaseCount          atomic.Int64
	ReleaseErrors         atomic.Int64
}

// RecordAlloc implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAlloc(length int, duration time.Duration, err error) {
	b.AllocCount.Add(1)
	if err != nil {
		b.AllocErrors.Add(1)
		return
	}
	b.AllocElements.Add(int64(length))
}

// RecordMirrorBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMirrorBuild(length int, duration time.Duration, err error) {
	b.MirrorBuildCount.Add(1)
	b.MirrorBuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.MirrorBuildErrors.Add(1)
	}
}

// RecordRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelease(err error) {
	b.ReleaseCount.Add(1)
	if err != nil {
		b.ReleaseErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AllocCount:          b.AllocCount.Load(),
		AllocErrors:         b.AllocErrors.Load(),
		AllocElements:       b.AllocElements.Load(),
		MirrorBuildCount:    b.MirrorBuildCount.Load(),
		MirrorBuildErrors:   b.MirrorBuildErrors.Load(),
		MirrorBuildAvgNanos: b.getAvgMirrorBuildNanos(),
		ReleaseCount:        b.ReleaseCount.Load(),
		ReleaseErrors:       b.ReleaseErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgMirrorBuildNanos() int64 {
	count := b.MirrorBuildCount.Load()
	if count == 0 {
		return 0
	}
	return b.MirrorBuildTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AllocCount          int64
	AllocErrors         int64
	AllocElements       int64
	MirrorBuildCount    int64
	MirrorBuildErrors   int64
	MirrorBuildAvgNanos int64
	ReleaseCount        int64
	ReleaseErrors       int64
}
