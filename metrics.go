package structidx

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/structidx/model"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// prommetrics package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordBuild is called after each index build.
	// units is the document length in code units, err is nil if successful.
	RecordBuild(units int, duration time.Duration, err error)

	// RecordLookup is called after each path lookup.
	// speculative reports whether a cached pattern produced the result.
	RecordLookup(outcome model.Outcome, speculative bool, duration time.Duration)

	// RecordPatternInvalidation is called when a cached pattern fails to
	// replay and the lookup falls back to a full search.
	RecordPatternInvalidation()

	// RecordPoolWait is called after each pooled buffer lease.
	RecordPoolWait(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, time.Duration, error)           {}
func (NoopMetricsCollector) RecordLookup(model.Outcome, bool, time.Duration) {}
func (NoopMetricsCollector) RecordPatternInvalidation()                      {}
func (NoopMetricsCollector) RecordPoolWait(time.Duration, error)             {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount       atomic.Int64
	BuildErrors      atomic.Int64
	BuildUnits       atomic.Int64
	BuildTotalNanos  atomic.Int64
	LookupCount      atomic.Int64
	LookupFound      atomic.Int64
	LookupTotalNanos atomic.Int64
	SpeculativeHits  atomic.Int64
	Invalidations    atomic.Int64
	PoolWaits        atomic.Int64
	PoolErrors       atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(units int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildUnits.Add(int64(units))
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// RecordLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLookup(outcome model.Outcome, speculative bool, duration time.Duration) {
	b.LookupCount.Add(1)
	b.LookupTotalNanos.Add(duration.Nanoseconds())
	if outcome == model.OutcomeFound {
		b.LookupFound.Add(1)
	}
	if speculative {
		b.SpeculativeHits.Add(1)
	}
}

// RecordPatternInvalidation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPatternInvalidation() {
	b.Invalidations.Add(1)
}

// RecordPoolWait implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPoolWait(_ time.Duration, err error) {
	b.PoolWaits.Add(1)
	if err != nil {
		b.PoolErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:      b.BuildCount.Load(),
		BuildErrors:     b.BuildErrors.Load(),
		BuildUnits:      b.BuildUnits.Load(),
		BuildAvgNanos:   avg(b.BuildTotalNanos.Load(), b.BuildCount.Load()),
		LookupCount:     b.LookupCount.Load(),
		LookupFound:     b.LookupFound.Load(),
		LookupAvgNanos:  avg(b.LookupTotalNanos.Load(), b.LookupCount.Load()),
		SpeculativeHits: b.SpeculativeHits.Load(),
		Invalidations:   b.Invalidations.Load(),
		PoolWaits:       b.PoolWaits.Load(),
		PoolErrors:      b.PoolErrors.Load(),
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
	BuildCount      int64
	BuildErrors     int64
	BuildUnits      int64
	BuildAvgNanos   int64
	LookupCount     int64
	LookupFound     int64
	LookupAvgNanos  int64
	SpeculativeHits int64
	Invalidations   int64
	PoolWaits       int64
	PoolErrors      int64
}
