// Package atomcell provides AtomCell[T], a lock-free atomic owning
// container for heap-allocated values, backed by a hazard-pointer Domain
// that performs safe, deferred memory reclamation.
//
// # Overview
//
// atomcell is designed for concurrent data structures that need to
// publish and replace whole values — not just scalars — without a
// mutex and without leaking or use-after-freeing the values readers may
// still be observing:
//   - Lock-free Load: readers never block a writer and vice versa
//   - Wait-free Swap, lock-free CompareExchange
//   - Deferred reclamation: a replaced value is only freed once no
//     concurrent Load still protects it
//   - Generic API: AtomCell[T any], no interface{} or reflection
//   - Observability: MetricsCollector interface, optional OpenTelemetry
//     integration (separate otel subpackage)
//
// # Quick Start
//
//	import "github.com/agilira/atomcell"
//
//	type Config struct {
//	    Limit int
//	}
//
//	cell := atomcell.New(&Config{Limit: 10})
//
//	tok := cell.Load()
//	cfg := tok.Deref()
//	fmt.Println((*cfg).Limit)
//	tok.Drop()
//
//	cell.Store(&Config{Limit: 20})
//
// # Domains
//
// Every AtomCell is bound to a Domain, the shared hazard-pointer context
// that tracks which pointers are currently protected and decides when to
// reclaim retired ones. New binds to the process-global default
// Domain; NewWithDomain binds to one you construct yourself with
// NewDomain, typically to isolate an unusually large or bursty cell from
// the rest of the process's reclamation traffic.
//
//	domain := atomcell.NewDomain(atomcell.DefaultTimedCappedPolicy())
//	cell := atomcell.NewWithDomain(&Config{Limit: 10}, domain)
//
// Mixing tokens minted by one Domain into an AtomCell bound to another
// is a programmer error and panics immediately (CrossDomainMismatch) —
// Go has no const generics to catch this at compile time, so the check
// happens at the first operation that would otherwise corrupt the wrong
// domain's hazard/retire bookkeeping.
//
// # Reclamation policy
//
// A Domain's ReclaimPolicy decides, on every retire, whether to run a
// synchronous bulk_reclaim pass inline on the retiring goroutine.
// EagerPolicy always reclaims; ManualPolicy never does (the caller must
// call Domain.Reclaim explicitly); TimedCappedPolicy — the default —
// reclaims once the retired count reaches both an absolute threshold and
// a multiple of the hazard-slot count, or once a sync period has
// elapsed, whichever comes first. TimedCappedPolicy's thresholds can be hot-reloaded from a
// config file via DomainReload.
//
// # Tokens
//
// Load returns a LoadToken, Swap and CompareExchange return a
// StoreToken. Go has no destructors, so unlike the RAII guards the
// underlying algorithm describes, both token types require an explicit
// Drop call (typically via defer) to release their hazard slot or
// retire their owned value. Forgetting Drop leaks a resource; it is
// never unsafe.
//
// # Errors
//
// atomcell uses github.com/agilira/go-errors for its structured error
// values (NewErrInvalidPolicy, NewErrInvalidConfigPath, and friends);
// programmer errors that indicate a broken invariant (nil tokens,
// cross-domain mismatches, a nil ReclaimPolicy) panic rather than
// return an error, since there is no sensible way to continue running
// with a corrupted hazard/retire domain.
package atomcell
