package manseg

import (
	"fmt"
	"time"

	"github.com/hupe1980/manseg/resource"
	"github.com/hupe1980/manseg/segment"
)

// Precision bounds re-exported for callers that only import the root
// package. See the segment package for details.
const (
	MaxSingleSegmentPrecision = segment.MaxSingleSegmentPrecision
	AdaptivePrecisionBound    = segment.AdaptivePrecisionBound
)

const cellBytes = 8 // two uint32 cells per element

// Array bundles the reduced-precision view, its aliased full-precision
// view and an optional mirror over one owned segmented storage.
//
// The intended flow for an iterative caller: write and read through
// Heads() while convergence is coarse, then either switch reads to
// Pairs() in place (no extra memory) or call BuildMirror and read the
// mirror (extra memory, fastest access).
//
// Array is not safe for concurrent mutation of the same element; see
// the package documentation for the concurrency contract.
type Array struct {
	buf   *buffer
	heads *HeadArray
	pairs *PairArray

	mirror         []float64
	mirrorReleased bool

	length      int
	storageMem  int64
	mirrorMem   int64
	fillWorkers int

	logger     *Logger
	metrics    MetricsCollector
	controller *resource.Controller
}

// New allocates segmented storage for length elements and derives both
// views. Tails are zero-initialized, so a full-precision read of any
// untouched element equals its head-only decode. The mirror is absent
// until BuildMirror is called.
func New(length int, optFns ...Option) (*Array, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}

	o := applyOptions(optFns)

	storageMem := int64(length) * cellBytes
	if !o.controller.TryAcquireMemory(storageMem) {
		err := fmt.Errorf("%w: segment storage for %d elements exceeds memory limit", ErrAllocationFailure, length)
		o.metrics.RecordAlloc(length, 0, err)
		return nil, err
	}

	start := time.Now()
	buf := newBuffer(length)

	a := &Array{
		buf:         buf,
		heads:       &HeadArray{buf: buf},
		pairs:       &PairArray{buf: buf},
		length:      length,
		storageMem:  storageMem,
		fillWorkers: o.fillWorkers,
		logger:      o.logger,
		metrics:     o.metrics,
		controller:  o.controller,
	}

	a.metrics.RecordAlloc(length, time.Since(start), nil)
	a.logger.LogAlloc(length, nil)

	return a, nil
}

// Len returns the number of elements.
func (a *Array) Len() int { return a.length }

// Heads returns the reduced-precision view.
func (a *Array) Heads() *HeadArray { return a.heads }

// Pairs returns the full-precision view aliasing the same storage.
func (a *Array) Pairs() *PairArray { return a.pairs }

// IsAllocated reports whether the segmented storage is still live.
func (a *Array) IsAllocated() bool { return !a.buf.released.Load() }

// Read decodes element i through the reduced-precision view.
func (a *Array) Read(i int) (float64, error) { return a.heads.Read(i) }

// ReadFull decodes element i through the full-precision view.
func (a *Array) ReadFull(i int) (float64, error) { return a.pairs.Read(i) }

// Set stores v at element i, head segment only.
func (a *Array) Set(i int, v float64) error { return a.heads.Set(i, v) }

// SetFull stores v at element i with full precision.
func (a *Array) SetFull(i int, v float64) error { return a.heads.SetFull(i, v) }

// Mirror returns the mirror slice. The slice is owned by the Array but
// shares no storage with the segmented arrays: mutating it never
// affects them, and vice versa.
func (a *Array) Mirror() ([]float64, error) {
	if a.mirror == nil {
		if a.mirrorReleased {
			return nil, ErrReleased
		}
		return nil, ErrNoMirror
	}
	return a.mirror, nil
}

// HasMirror reports whether a mirror is currently built.
func (a *Array) HasMirror() bool { return a.mirror != nil }

// ReleaseStorage frees the segmented heads/tails arrays. Exactly one
// release is permitted across the Array and every view derived from
// it; a second call returns ErrDoubleRelease. A built mirror stays
// valid and must be released separately.
func (a *Array) ReleaseStorage() error {
	if err := a.buf.release(); err != nil {
		a.metrics.RecordRelease(err)
		return err
	}
	a.controller.ReleaseMemory(a.storageMem)
	a.metrics.RecordRelease(nil)
	a.logger.LogRelease("storage", a.length, nil)
	return nil
}

// ReleaseMirror frees the mirror. Independent of storage release;
// calling it twice returns ErrDoubleRelease, calling it before
// BuildMirror returns ErrNoMirror. After a release the mirror may be
// rebuilt.
func (a *Array) ReleaseMirror() error {
	if a.mirror == nil {
		if a.mirrorReleased {
			a.metrics.RecordRelease(ErrDoubleRelease)
			return ErrDoubleRelease
		}
		return ErrNoMirror
	}
	a.mirror = nil
	a.mirrorReleased = true
	a.controller.ReleaseMemory(a.mirrorMem)
	a.mirrorMem = 0
	a.metrics.RecordRelease(nil)
	a.logger.LogRelease("mirror", a.length, nil)
	return nil
}
