package rankselect

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives operation timings. Implement it to feed an
// external monitoring system.
type MetricsCollector interface {
	// RecordBuild is called after an index is constructed.
	RecordBuild(kind Kind, bits int, duration time.Duration, err error)

	// RecordRebuild is called after an in-place rebuild.
	RecordRebuild(kind Kind, bits int, duration time.Duration, err error)

	// RecordRank is called after each rank query. ok is false when the
	// position was out of range.
	RecordRank(duration time.Duration, ok bool)

	// RecordSelect is called after each select query. ok is false when no
	// such set bit existed.
	RecordSelect(duration time.Duration, ok bool)
}

// NoopMetricsCollector discards everything. Queries skip timing entirely
// when it is configured.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(Kind, int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordRebuild(Kind, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordRank(time.Duration, bool)                {}
func (NoopMetricsCollector) RecordSelect(time.Duration, bool)              {}

// BasicMetricsCollector keeps in-memory counters.
type BasicMetricsCollector struct {
	BuildCount       atomic.Int64
	BuildErrors      atomic.Int64
	BuildTotalNanos  atomic.Int64
	RebuildCount     atomic.Int64
	RebuildErrors    atomic.Int64
	RankCount        atomic.Int64
	RankMisses       atomic.Int64
	RankTotalNanos   atomic.Int64
	SelectCount      atomic.Int64
	SelectMisses     atomic.Int64
	SelectTotalNanos atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(_ Kind, _ int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// RecordRebuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRebuild(_ Kind, _ int, _ time.Duration, err error) {
	b.RebuildCount.Add(1)
	if err != nil {
		b.RebuildErrors.Add(1)
	}
}

// RecordRank implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRank(duration time.Duration, ok bool) {
	b.RankCount.Add(1)
	b.RankTotalNanos.Add(duration.Nanoseconds())
	if !ok {
		b.RankMisses.Add(1)
	}
}

// RecordSelect implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSelect(duration time.Duration, ok bool) {
	b.SelectCount.Add(1)
	b.SelectTotalNanos.Add(duration.Nanoseconds())
	if !ok {
		b.SelectMisses.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:     b.BuildCount.Load(),
		BuildErrors:    b.BuildErrors.Load(),
		BuildAvgNanos:  avg(b.BuildTotalNanos.Load(), b.BuildCount.Load()),
		RebuildCount:   b.RebuildCount.Load(),
		RebuildErrors:  b.RebuildErrors.Load(),
		RankCount:      b.RankCount.Load(),
		RankMisses:     b.RankMisses.Load(),
		RankAvgNanos:   avg(b.RankTotalNanos.Load(), b.RankCount.Load()),
		SelectCount:    b.SelectCount.Load(),
		SelectMisses:   b.SelectMisses.Load(),
		SelectAvgNanos: avg(b.SelectTotalNanos.Load(), b.SelectCount.Load()),
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
	BuildCount     int64
	BuildErrors    int64
	BuildAvgNanos  int64
	RebuildCount   int64
	RebuildErrors  int64
	RankCount      int64
	RankMisses     int64
	RankAvgNanos   int64
	SelectCount    int64
	SelectMisses   int64
	SelectAvgNanos int64
}
