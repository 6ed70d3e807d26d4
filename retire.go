// retire.go: lock-free retire list
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package atomcell

import (
	"sync/atomic"
	"unsafe"
)

// retireEntry records one pointer awaiting reclamation: the raw address
// handed to retire (used solely for equality comparison against live
// hazards) plus a type-erased destructor trampoline captured at retire
// time.
type retireEntry struct {
	address unsafe.Pointer
	dropper func(unsafe.Pointer)
	next    atomic.Pointer[retireEntry]
}

// retireList is a lock-free head-push singly linked list of retireEntry
// plus a counter, supporting an atomic drain that yields exclusive
// ownership of the whole chain to the draining thread.
type retireList struct {
	head  atomic.Pointer[retireEntry]
	count atomic.Int64
}

// push splices a single entry at the head via CAS loop.
func (l *retireList) push(e *retireEntry) {
	fullFence()
	for {
		head := l.head.Load()
		e.next.Store(head)
		if l.head.CompareAndSwap(head, e) {
			l.count.Add(1)
			return
		}
	}
}

// drain atomically swaps head to nil and resets the counter, returning
// the old chain (and its length) for exclusive processing by the caller.
func (l *retireList) drain() (*retireEntry, int64) {
	head := l.head.Swap(nil)
	n := l.count.Swap(0)
	fullFence()
	return head, n
}

// pushSurvivors splices a prebuilt sub-chain (headNode..tailNode, tailNode
// already terminated) back at the list head, incrementing the counter by
// n. Used to re-queue entries that were still guarded at reclaim time.
func (l *retireList) pushSurvivors(headNode, tailNode *retireEntry, n int64) {
	fullFence()
	for {
		cur := l.head.Load()
		tailNode.next.Store(cur)
		if l.head.CompareAndSwap(cur, headNode) {
			l.count.Add(n)
			return
		}
	}
}

// size returns the current approximate retire-list length.
func (l *retireList) size() int64 {
	return l.count.Load()
}

// fenceCounter backs fullFence: a CAS-retry round-trip gives us a
// sequentially-consistent barrier; sync/atomic has no standalone SeqCst
// fence primitive.
var fenceCounter atomic.Uint64

// fullFence issues a sequentially-consistent barrier. It is invoked (a)
// immediately before push when retiring, (b) immediately after the drain
// swap, and (c) immediately before re-pushing survivors, closing the race
// where a reader publishes a hazard after the reclaimer has sampled
// hazards, or the reclaimer samples the retire list before a pending
// retire is visible.
func fullFence() {
	for {
		old := fenceCounter.Load()
		if fenceCounter.CompareAndSwap(old, old+1) {
			return
		}
	}
}
