// interfaces.go: public interfaces for atomcell
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package atomcell

import "github.com/agilira/go-timecache"

// Destroyer is implemented by values whose destruction must run a side
// effect (closing a file, releasing a pooled buffer) when a Domain
// reclaims them. Since Go is garbage collected, reclaiming a retired
// value ordinarily just means dropping the last Go-level reference so
// the GC can do its job, but a value that needs a deliberate side effect
// at that moment implements Destroyer and the Domain calls it before
// letting go.
type Destroyer interface {
	Destroy()
}

// Logger defines a minimal logging interface with zero overhead.
// Implementations should use structured logging and be allocation-free.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keyvals ...interface{})

	// Info logs an info message with optional key-value pairs.
	Info(msg string, keyvals ...interface{})

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keyvals ...interface{})

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keyvals ...interface{})
}

// NoOpLogger is a logger that does nothing. Used as default to avoid nil checks.
type NoOpLogger struct{}

func (NoOpLogger) Debug(msg string, keyvals ...interface{}) {}
func (NoOpLogger) Info(msg string, keyvals ...interface{})  {}
func (NoOpLogger) Warn(msg string, keyvals ...interface{})  {}
func (NoOpLogger) Error(msg string, keyvals ...interface{}) {}

// TimeProvider provides current time with caching for performance.
// This interface allows injecting optimized time implementations; it
// backs TimedCappedPolicy's next-sync deadline math.
type TimeProvider interface {
	// Now returns the current time in nanoseconds since epoch.
	// This method must be very fast and allocation-free.
	Now() int64
}

// systemTimeProvider is the default time provider, using go-timecache for
// an allocation-free cached clock read instead of time.Now() on every
// retire.
type systemTimeProvider struct{}

func (systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}

// MetricsCollector collects operation metrics for a Domain (latencies,
// reclaim yields, hazard-slot churn). Implementations must be safe for
// concurrent use and should add negligible overhead when not wired to a
// real backend — see NoOpMetricsCollector.
type MetricsCollector interface {
	// RecordRetire is called once per Domain.retire call with the
	// retire-list length observed immediately after the push.
	RecordRetire(retireListLen int64)

	// RecordReclaim is called once per bulk_reclaim pass that drained a
	// non-empty retire list, with the number of entries freed, the number
	// of survivors re-queued, and the wall time the pass took in
	// nanoseconds. A pass over an empty retire list records nothing.
	RecordReclaim(freed, survivors int, durationNs int64)

	// RecordHazardAcquire is called once per acquireSlot with whether an
	// existing released slot was reused or a new one was allocated.
	RecordHazardAcquire(reused bool)

	// RecordLoadRetry is called once per AtomCell.Load with the number
	// of protect/validate retries the load needed before committing.
	RecordLoadRetry(attempts int)
}

// NoOpMetricsCollector is the default MetricsCollector: all methods are
// no-ops, so a Domain constructed without one pays nothing.
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) RecordRetire(int64)            {}
func (NoOpMetricsCollector) RecordReclaim(int, int, int64) {}
func (NoOpMetricsCollector) RecordHazardAcquire(bool)      {}
func (NoOpMetricsCollector) RecordLoadRetry(int)           {}
