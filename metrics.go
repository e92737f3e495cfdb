package execmem

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
//	    reserveCounter  prometheus.Counter
//	    reservedBytes   prometheus.Gauge
//	}
//
//	func (p *PrometheusCollector) RecordReserve(requested, reserved int, d time.Duration, err error) {
//	    p.reserveCounter.Inc()
//	    p.reservedBytes.Add(float64(reserved))
//	}
type MetricsCollector interface {
	// RecordReserve is called after each reservation attempt.
	// reserved is the page-rounded length (0 if rounding failed),
	// err is nil if successful.
	RecordReserve(requested, reserved int, duration time.Duration, err error)

	// RecordRelease is called after each successful release.
	// automatic is true when the release ran from a GC cleanup.
	RecordRelease(length int, automatic bool, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordReserve(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordRelease(int, bool, time.Duration)       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ReserveCount      atomic.Int64
	ReserveErrors     atomic.Int64
	ReserveTotalNanos atomic.Int64
	BytesRequested    atomic.Int64
	BytesReserved     atomic.Int64
	ReleaseCount      atomic.Int64
	AutoReleaseCount  atomic.Int64
	BytesReleased     atomic.Int64
	ReleaseTotalNanos atomic.Int64
}

// RecordReserve implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReserve(requested, reserved int, duration time.Duration, err error) {
	b.ReserveCount.Add(1)
	b.ReserveTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ReserveErrors.Add(1)
		return
	}
	b.BytesRequested.Add(int64(requested))
	b.BytesReserved.Add(int64(reserved))
}

// RecordRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelease(length int, automatic bool, duration time.Duration) {
	b.ReleaseCount.Add(1)
	if automatic {
		b.AutoReleaseCount.Add(1)
	}
	b.BytesReleased.Add(int64(length))
	b.ReleaseTotalNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ReserveCount:     b.ReserveCount.Load(),
		ReserveErrors:    b.ReserveErrors.Load(),
		ReserveAvgNanos:  avg(b.ReserveTotalNanos.Load(), b.ReserveCount.Load()),
		BytesRequested:   b.BytesRequested.Load(),
		BytesReserved:    b.BytesReserved.Load(),
		ReleaseCount:     b.ReleaseCount.Load(),
		AutoReleaseCount: b.AutoReleaseCount.Load(),
		BytesReleased:    b.BytesReleased.Load(),
		ReleaseAvgNanos:  avg(b.ReleaseTotalNanos.Load(), b.ReleaseCount.Load()),
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
	ReserveCount     int64
	ReserveErrors    int64
	ReserveAvgNanos  int64
	BytesRequested   int64
	BytesReserved    int64
	ReleaseCount     int64
	AutoReleaseCount int64
	BytesReleased    int64
	ReleaseAvgNanos  int64
}

// LiveBytes returns reserved minus released bytes.
func (s BasicMetricsStats) LiveBytes() int64 {
	return s.BytesReserved - s.BytesReleased
}
