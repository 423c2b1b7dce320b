// Package manseg stores arrays of float64 values as two independently
// addressable 32-bit segments per element, so memory-bound iterative
// algorithms can run their early iterations on a reduced-precision
// view and escalate to full precision later without duplicating
// storage up front.
//
// Each element's "head" segment holds the sign, the full 11-bit
// exponent and the upper 20 mantissa bits; the "tail" holds the lower
// 32 mantissa bits. Reading the head alone gives roughly 6 decimal
// digits (relative error bounded by MaxSingleSegmentPrecision) over
// the full double exponent range. Reading both segments is bit-exact.
//
// # Quick Start
//
//	arr, _ := manseg.New(n)
//	heads := arr.Heads()
//
//	// Early iterations: reduced precision, half the memory traffic.
//	for i := 0; i < n; i++ {
//	    _ = heads.Set(i, b[i])
//	}
//	v, _ := heads.Read(0)
//
//	// Escalate in place: same storage, both segments per read.
//	pairs := heads.Escalate()
//	v, _ = pairs.Read(0)
//
//	// Or build a mirror for fastest full-precision access.
//	_ = arr.BuildMirror(ctx)
//	mirror, _ := arr.Mirror()
//	v = mirror[0]
//
//	_ = arr.ReleaseMirror()
//	_ = arr.ReleaseStorage()
//
// # Precision Escalation
//
// Two escalation paths exist. Escalate() returns a full-precision view
// aliasing the same backing arrays: no copy, but every read combines
// two segments. BuildMirror() copies into an independently owned
// []float64: extra memory, plain-double read speed afterwards. A
// caller iterating to convergence typically switches when its residual
// drops below AdaptivePrecisionBound.
//
// # Concurrency
//
// The library owns no implicit concurrency except the mirror bulk
// fill, which partitions the index range across worker goroutines and
// blocks until all are done. All other operations are caller
// sequenced. Concurrent writes to the same element through any
// accessor are a data race and out of contract; operations on disjoint
// elements are safe.
//
// # Lifetime
//
// The segmented storage has one owner regardless of how many views
// alias it: ReleaseStorage (or Release on either view) frees it
// exactly once, and any later use reports an error instead of touching
// freed memory. The mirror is a second, independent owner released via
// ReleaseMirror.
package manseg
