// domain.go: hazard-pointer domain
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package atomcell

import (
	"sync"
	"unsafe"
)

// Domain owns one hazard list, one retire list, and one ReclaimPolicy. It
// is the SMR context every AtomCell bound to it shares; domain identity
// is realized here as pointer identity (*Domain), the natural runtime
// fallback in a language without const generics.
//
// A Domain is Sync-equivalent: safe to share by reference across
// goroutines without external locking.
type Domain struct {
	hazards *hazardList
	retired *retireList
	policy  ReclaimPolicy

	logger  Logger
	metrics MetricsCollector
	clock   TimeProvider

	reclaiming sync.Mutex // serializes bulk_reclaim passes, not the read path
}

// defaultDomain is the process-global Domain referenced by AtomCell.New
// and Default(). It is lazily constructed on first use so that its
// TimedCappedPolicy's timer starts counting from first real use rather
// than package init.
var (
	defaultDomainOnce sync.Once
	defaultDomainPtr  *Domain
)

// Default returns the process-global default Domain. It uses the
// default TimedCappedPolicy.
func Default() *Domain {
	defaultDomainOnce.Do(func() {
		defaultDomainPtr = NewDomain(DefaultTimedCappedPolicy())
	})
	return defaultDomainPtr
}

// NewDomain constructs a Domain with the given reclamation policy and
// options. Panics if policy is nil: an SMR domain with no reclamation
// policy is a construction-time programmer error, not a recoverable one.
func NewDomain(policy ReclaimPolicy, opts ...DomainOption) *Domain {
	if policy == nil {
		panic(NewErrInvalidPolicy())
	}

	cfg := DefaultDomainConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	_ = cfg.Validate()

	return &Domain{
		hazards: &hazardList{},
		retired: &retireList{},
		policy:  policy,
		logger:  cfg.Logger,
		metrics: cfg.MetricsCollector,
		clock:   cfg.TimeProvider,
	}
}

// acquireSlot returns an active hazard slot, reusing a released one if
// available, else allocating a new one.
func (d *Domain) acquireSlot() *hazardSlot {
	slot, reused := d.hazards.acquireOrAllocate()
	d.metrics.RecordHazardAcquire(reused)
	return slot
}

// releaseSlot nulls the slot's protected field then clears its active
// flag, in that order, so a concurrent reclaimer never observes a stale
// protected pointer on an inactive slot.
func (d *Domain) releaseSlot(slot *hazardSlot) {
	slot.release()
}

// retire hands a no-longer-reachable pointer to the Domain. If the
// configured policy decides the moment is right, a synchronous
// bulk_reclaim runs inline on the calling goroutine.
func (d *Domain) retire(address unsafe.Pointer, dropper func(unsafe.Pointer)) {
	entry := &retireEntry{address: address, dropper: dropper}
	d.retired.push(entry)

	retireCount := d.retired.size()
	d.metrics.RecordRetire(retireCount)

	// The hazard-list live count is passed as the first argument, not
	// the retire count again.
	if d.policy.shouldReclaim(d.clock, d.hazards.size(), retireCount) {
		d.Reclaim()
	}
}

// Reclaim forces a synchronous bulk reclamation pass and returns the
// number of entries freed. Safe to call concurrently; passes are
// serialized so two goroutines never double-drain the same chain, though
// that serialization is not itself part of any lock-freedom guarantee —
// only AtomCell.Load is required to be lock-free.
func (d *Domain) Reclaim() int {
	d.reclaiming.Lock()
	defer d.reclaiming.Unlock()
	return d.bulkReclaim()
}

// bulkReclaim drains the retire list, fences, collects the currently
// guarded addresses, partitions the drained chain into freed vs.
// survivors, and re-pushes survivors.
func (d *Domain) bulkReclaim() int {
	start := d.clock.Now()

	head, n := d.retired.drain()
	if head == nil {
		return 0
	}
	_ = n

	guarded := d.hazards.guardedSet()

	var survivorHead, survivorTail *retireEntry
	var survivorCount int64
	freed := 0

	for e := head; e != nil; {
		next := e.next.Load()

		if _, stillGuarded := guarded[e.address]; stillGuarded {
			e.next.Store(survivorHead)
			survivorHead = e
			if survivorTail == nil {
				survivorTail = e
			}
			survivorCount++
		} else {
			if e.dropper != nil {
				e.dropper(e.address)
			}
			freed++
		}

		e = next
	}

	if survivorHead != nil {
		d.retired.pushSurvivors(survivorHead, survivorTail, survivorCount)
	}

	durationNs := d.clock.Now() - start
	d.metrics.RecordReclaim(freed, int(survivorCount), durationNs)
	d.logger.Debug("atomcell: bulk_reclaim", "freed", freed, "survivors", survivorCount, "duration_ns", durationNs)

	return freed
}
