// cell.go: AtomCell, the user-visible atomic pointer cell
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package atomcell

import (
	"sync/atomic"
	"unsafe"
)

// AtomCell is an atomic owning container for a heap-allocated value of
// type T. Load is lock-free; Swap is wait-free; CompareExchange is
// lock-free. Every operation is wired to a single Domain, which performs
// safe, deferred reclamation of replaced values.
type AtomCell[T any] struct {
	target atomic.Pointer[T]
	domain *Domain
}

// New constructs an AtomCell bound to the process-global default Domain.
func New[T any](v T) *AtomCell[T] {
	return NewWithDomain(v, Default())
}

// NewWithDomain constructs an AtomCell bound to the given Domain.
func NewWithDomain[T any](v T, d *Domain) *AtomCell[T] {
	c := &AtomCell[T]{domain: d}
	val := v
	c.target.Store(&val)
	return c
}

// requireSameDomain panics with a CrossDomainMismatch diagnostic if tok
// was minted by a different Domain than c is bound to. This is the
// natural runtime fallback in a language without const-generic domain
// parameters.
func (c *AtomCell[T]) requireSameDomain(operation string, tokenDomain *Domain) {
	if tokenDomain != c.domain {
		panic(newErrCrossDomainMismatch(operation, c.domain, tokenDomain))
	}
}

// Load performs the protect/validate loop: publish the candidate pointer
// as a hazard, fence, re-read the source atomic, and retry if it changed.
// Lock-free: it may retry O(concurrent writers) times but never blocks.
func (c *AtomCell[T]) Load() *LoadToken[T] {
	slot := c.domain.acquireSlot()

	p := c.target.Load()
	attempts := 0
	for {
		slot.protect(unsafe.Pointer(p))
		fullFence()
		q := c.target.Load()
		if q == p {
			break
		}
		attempts++
		p = q
	}
	c.domain.metrics.RecordLoadRetry(attempts)

	return &LoadToken[T]{domain: c.domain, slot: slot, ptr: p}
}

// Store installs v, equivalent to dropping the StoreToken Swap returns.
func (c *AtomCell[T]) Store(v T) {
	c.Swap(v).Drop()
}

// StoreFromToken installs the value owned by tok, equivalent to dropping
// the StoreToken SwapFromToken returns. Panics on cross-domain mismatch.
func (c *AtomCell[T]) StoreFromToken(tok *StoreToken[T]) {
	c.SwapFromToken(tok).Drop()
}

// Swap allocates a heap cell for v, atomically exchanges it into the
// cell, and wraps the previous pointer in a StoreToken bound to the same
// Domain. Wait-free.
func (c *AtomCell[T]) Swap(v T) *StoreToken[T] {
	val := v
	old := c.target.Swap(&val)
	return &StoreToken[T]{domain: c.domain, ptr: old}
}

// SwapFromToken transfers ownership of tok's value into the cell without
// allocating a new cell. Panics if tok's Domain differs from c's.
func (c *AtomCell[T]) SwapFromToken(tok *StoreToken[T]) *StoreToken[T] {
	if tok == nil {
		panic(newErrNilToken("SwapFromToken"))
	}
	c.requireSameDomain("SwapFromToken", tok.domain)
	tok.dropped.Store(true) // ownership transferred, original token is spent

	old := c.target.Swap(tok.ptr)
	return &StoreToken[T]{domain: c.domain, ptr: old}
}

// CompareExchange performs a strong CAS: if the cell still holds
// expected's pointer, v is published and the previous value is returned
// as a StoreToken. On failure, the allocation made for v is freed
// immediately (never retired — it was never visible to any reader) and a
// LoadToken observing the current pointer is returned with no hazard slot
// attached; the caller must re-Load if it needs protection.
func (c *AtomCell[T]) CompareExchange(expected *LoadToken[T], v T) (*StoreToken[T], *LoadToken[T], bool) {
	return c.compareExchange(expected, v)
}

// CompareExchangeWeak is identical to CompareExchange: Go's
// atomic.Pointer.CompareAndSwap is a strong CAS on every architecture Go
// supports, so there is no spurious-failure mode to reproduce.
func (c *AtomCell[T]) CompareExchangeWeak(expected *LoadToken[T], v T) (*StoreToken[T], *LoadToken[T], bool) {
	return c.compareExchange(expected, v)
}

func (c *AtomCell[T]) compareExchange(expected *LoadToken[T], v T) (*StoreToken[T], *LoadToken[T], bool) {
	if expected == nil {
		panic(newErrNilToken("CompareExchange"))
	}

	val := v
	newPtr := &val
	if c.target.CompareAndSwap(expected.ptr, newPtr) {
		return &StoreToken[T]{domain: c.domain, ptr: expected.ptr}, nil, true
	}

	discard := &StoreToken[T]{domain: c.domain, ptr: newPtr}
	discard.discard()

	current := c.target.Load()
	return nil, &LoadToken[T]{domain: c.domain, slot: nil, ptr: current}, false
}

// CompareExchangeFromToken is CompareExchange with the new value supplied
// via a StoreToken instead of a bare value. On success, the incoming
// token is consumed (its pointer is now installed) and the previous value
// is returned as a fresh StoreToken. On failure, the incoming token's
// value is returned unharmed (not discarded, since the caller still owns
// it and may retry) alongside a LoadToken observing the current pointer.
// Panics if the incoming token's Domain differs from c's.
func (c *AtomCell[T]) CompareExchangeFromToken(expected *LoadToken[T], v *StoreToken[T]) (*StoreToken[T], *LoadToken[T], *StoreToken[T], bool) {
	return c.compareExchangeFromToken(expected, v)
}

// CompareExchangeWeakFromToken is the spurious-failure counterpart of
// CompareExchangeFromToken; see CompareExchangeWeak for why it behaves
// identically under Go's strong-CAS primitives.
func (c *AtomCell[T]) CompareExchangeWeakFromToken(expected *LoadToken[T], v *StoreToken[T]) (*StoreToken[T], *LoadToken[T], *StoreToken[T], bool) {
	return c.compareExchangeFromToken(expected, v)
}

func (c *AtomCell[T]) compareExchangeFromToken(expected *LoadToken[T], v *StoreToken[T]) (*StoreToken[T], *LoadToken[T], *StoreToken[T], bool) {
	if expected == nil || v == nil {
		panic(newErrNilToken("CompareExchangeFromToken"))
	}
	c.requireSameDomain("CompareExchangeFromToken", v.domain)

	if c.target.CompareAndSwap(expected.ptr, v.ptr) {
		v.dropped.Store(true) // ownership transferred
		return &StoreToken[T]{domain: c.domain, ptr: expected.ptr}, nil, nil, true
	}

	current := c.target.Load()
	return nil, &LoadToken[T]{domain: c.domain, slot: nil, ptr: current}, v, false
}
