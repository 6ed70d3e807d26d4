// tokens.go: LoadToken / StoreToken proxies returned by AtomCell
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package atomcell

import (
	"sync/atomic"
	"unsafe"
)

// LoadToken borrows a hazard slot from a Domain and holds a validated,
// stable pointer. Go has no destructors, so — unlike an RAII guard — the
// caller must call Drop explicitly (typically via defer) when done
// dereferencing; failing to do so permanently pins one hazard slot and
// one retired value, a resource leak but not unsafety.
//
// A LoadToken returned from a failed CompareExchange carries no hazard
// slot (slot is nil): it merely observes the current pointer so the
// caller can decide whether to retry, and Drop on it is a no-op.
type LoadToken[T any] struct {
	domain  *Domain
	slot    *hazardSlot
	ptr     *T
	dropped atomic.Bool
}

// Deref returns the protected value. Safe to call any number of times
// before Drop.
func (t *LoadToken[T]) Deref() *T {
	return t.ptr
}

// Domain returns the Domain this token was minted from.
func (t *LoadToken[T]) Domain() *Domain {
	return t.domain
}

// Drop releases the underlying hazard slot, if any. Idempotent: calling
// Drop twice is safe and the second call is a no-op.
func (t *LoadToken[T]) Drop() {
	if !t.dropped.CompareAndSwap(false, true) {
		return
	}
	if t.slot != nil {
		t.domain.releaseSlot(t.slot)
	}
}

// StoreToken owns a raw pointer that was previously installed in a
// same-domain AtomCell (or is about to be). On Drop, it hands the pointer
// to its Domain's retire list, from which bulk_reclaim will eventually
// free it once no hazard still protects it.
//
// Like LoadToken, Go's lack of destructors means Drop must be called
// explicitly; forgetting it leaks the retirement (the value is simply
// never reclaimed, it is not unsafe to forget).
type StoreToken[T any] struct {
	domain  *Domain
	ptr     *T
	dropped atomic.Bool
}

// Deref returns the owned value. Valid until Drop is called.
func (t *StoreToken[T]) Deref() *T {
	return t.ptr
}

// Domain returns the Domain this token is bound to.
func (t *StoreToken[T]) Domain() *Domain {
	return t.domain
}

// Drop retires the owned pointer into its Domain. Idempotent.
func (t *StoreToken[T]) Drop() {
	if !t.dropped.CompareAndSwap(false, true) {
		return
	}
	ptr := t.ptr
	t.domain.retire(unsafe.Pointer(ptr), func(unsafe.Pointer) {
		if d, ok := any(ptr).(Destroyer); ok {
			d.Destroy()
		}
	})
}

// discard frees a StoreToken's value without ever retiring it: used only
// for the allocation made for a value that lost a CompareExchange race
// and was never published to any reader. A failed-CAS allocation must
// not be retired.
func (t *StoreToken[T]) discard() {
	t.dropped.Store(true)
	if d, ok := any(t.ptr).(Destroyer); ok {
		d.Destroy()
	}
}
