// Package atomcell provides a lock-free atomic owning container backed by
// a hazard-pointer safe memory reclamation domain.
//
// AtomCell[T] lets concurrent goroutines Load, Store, Swap, and
// CompareExchange heap-allocated values without a mutex and without the
// ABA hazards of naive atomic.Pointer use: every replaced value is
// retired into its Domain and only freed once no in-flight Load still
// protects it.
//
// Example usage:
//
//	cell := atomcell.New(42)
//
//	tok := cell.Load()
//	fmt.Println(*tok.Deref())
//	tok.Drop()
//
//	cell.Store(43)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package atomcell

// Version of the atomcell library.
const Version = "v0.1.0-dev"
