// policy.go: reclamation policies for a Domain
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package atomcell

import (
	"sync/atomic"
	"time"
)

// Defaults for TimedCappedPolicy.
const (
	DefaultRetiredThreshold = 1000
	DefaultHazardMultiplier = 2
	DefaultSyncPeriod       = 2 * time.Second
)

// ReclaimPolicy decides when a retire() call should trigger a synchronous
// bulk_reclaim. Implementations are queried with the current (approximate)
// hazard-slot count and retire-list length.
type ReclaimPolicy interface {
	shouldReclaim(now TimeProvider, hazardCount, retireCount int64) bool
}

// EagerPolicy triggers bulk_reclaim on every retire.
type EagerPolicy struct{}

func (EagerPolicy) shouldReclaim(TimeProvider, int64, int64) bool { return true }

// ManualPolicy never triggers automatic reclamation; retirement only
// enqueues. Reclamation fires exclusively via Domain.Reclaim.
type ManualPolicy struct{}

func (ManualPolicy) shouldReclaim(TimeProvider, int64, int64) bool { return false }

// TimedCappedPolicy fires a reclamation when either the retired count has
// crossed both an absolute and a hazard-relative threshold, or a periodic
// timer has elapsed and this caller wins the CAS that advances it.
//
// The thresholds are held in atomic.Int64 fields rather than plain ints:
// shouldReclaim is read from every AtomCell.Swap/Store's retire() path
// while SetThresholds/SetPeriod may be called concurrently from a
// DomainReload watcher goroutine, so every field access goes through
// Load/Store/CompareAndSwap.
//
// The next-sync timestamp uses TimeProvider's cached monotonic-ish
// nanosecond clock; the CAS advancing it only picks which caller runs the
// periodic pass, because correctness depends only on the retire/hazard
// full fences in retire.go, never on which thread wins the timer race.
type TimedCappedPolicy struct {
	retiredThreshold atomic.Int64
	hazardMultiplier atomic.Int64
	periodNs         atomic.Int64

	nextSync atomic.Int64
}

// NewTimedCappedPolicy builds a TimedCappedPolicy with the given
// thresholds, applying package defaults for zero values.
func NewTimedCappedPolicy(retiredThreshold, hazardMultiplier int64, period time.Duration) *TimedCappedPolicy {
	if retiredThreshold <= 0 {
		retiredThreshold = DefaultRetiredThreshold
	}
	if hazardMultiplier <= 0 {
		hazardMultiplier = DefaultHazardMultiplier
	}
	if period <= 0 {
		period = DefaultSyncPeriod
	}
	p := &TimedCappedPolicy{}
	p.retiredThreshold.Store(retiredThreshold)
	p.hazardMultiplier.Store(hazardMultiplier)
	p.periodNs.Store(period.Nanoseconds())
	return p
}

// DefaultTimedCappedPolicy returns a TimedCappedPolicy with R=1000, M=2,
// P=2s.
func DefaultTimedCappedPolicy() *TimedCappedPolicy {
	return NewTimedCappedPolicy(DefaultRetiredThreshold, DefaultHazardMultiplier, DefaultSyncPeriod)
}

// RetiredThreshold returns the current absolute retire-count threshold.
func (p *TimedCappedPolicy) RetiredThreshold() int64 { return p.retiredThreshold.Load() }

// HazardMultiplier returns the current hazard-relative multiplier.
func (p *TimedCappedPolicy) HazardMultiplier() int64 { return p.hazardMultiplier.Load() }

// Period returns the current periodic-sync interval.
func (p *TimedCappedPolicy) Period() time.Duration { return time.Duration(p.periodNs.Load()) }

func (p *TimedCappedPolicy) shouldReclaim(tp TimeProvider, hazardCount, retireCount int64) bool {
	threshold := p.retiredThreshold.Load()
	multiplier := p.hazardMultiplier.Load()
	if retireCount >= threshold && retireCount >= hazardCount*multiplier {
		return true
	}

	period := p.periodNs.Load()
	now := tp.Now()
	next := p.nextSync.Load()
	if next == 0 {
		// Lazily seed the first deadline rather than firing immediately.
		p.nextSync.CompareAndSwap(0, now+period)
		return false
	}
	if now < next {
		return false
	}
	return p.nextSync.CompareAndSwap(next, next+period)
}

// SetThresholds atomically updates the retired-count and hazard-multiplier
// thresholds. Used by DomainReload to live-tune a running Domain without
// reconstructing it. Safe to call concurrently with shouldReclaim.
func (p *TimedCappedPolicy) SetThresholds(retiredThreshold, hazardMultiplier int64) {
	if retiredThreshold > 0 {
		p.retiredThreshold.Store(retiredThreshold)
	}
	if hazardMultiplier > 0 {
		p.hazardMultiplier.Store(hazardMultiplier)
	}
}

// SetPeriod atomically updates the periodic-sync interval. Safe to call
// concurrently with shouldReclaim.
func (p *TimedCappedPolicy) SetPeriod(period time.Duration) {
	if period > 0 {
		p.periodNs.Store(period.Nanoseconds())
	}
}
