package manseg

import (
	"sync/atomic"

	"github.com/hupe1980/manseg/segment"
)

// buffer is the single owner of the segmented backing storage. Every
// view and accessor borrows it by handle and carries no release
// responsibility of its own; the liveness flag turns use-after-release
// and double-release into reported errors.
type buffer struct {
	heads    []uint32
	tails    []uint32
	released atomic.Bool
}

func newBuffer(length int) *buffer {
	return &buffer{
		heads: make([]uint32, length),
		tails: make([]uint32, length), // zero tails by construction
	}
}

func (b *buffer) len() int { return len(b.heads) }

// check validates liveness and index range before any cell access.
func (b *buffer) check(i int) error {
	if b.released.Load() {
		return ErrReleased
	}
	if i < 0 || i >= len(b.heads) {
		return &ErrIndexOutOfRange{Index: i, Length: len(b.heads)}
	}
	return nil
}

// release marks the buffer dead. Exactly one caller wins; everyone
// else gets ErrDoubleRelease, no matter through which view they came.
func (b *buffer) release() error {
	if !b.released.CompareAndSwap(false, true) {
		return ErrDoubleRelease
	}
	b.heads = nil
	b.tails = nil
	return nil
}

// HeadArray is the reduced-precision view over segmented storage.
// Reads and writes touch only the head segment of each element; tails
// keep whatever a previous SetFull stored (zero after allocation).
type HeadArray struct {
	buf *buffer
}

// Len returns the number of elements.
func (a *HeadArray) Len() int { return a.buf.len() }

// At returns a Head accessor bound to element i.
func (a *HeadArray) At(i int) (Head, error) {
	if err := a.buf.check(i); err != nil {
		return Head{}, err
	}
	return Head{buf: a.buf, idx: i}, nil
}

// Read decodes element i from its head segment only.
func (a *HeadArray) Read(i int) (float64, error) {
	if err := a.buf.check(i); err != nil {
		return 0, err
	}
	return segment.DecodeHead(a.buf.heads[i]), nil
}

// Set stores v at element i, writing only the head segment. The tail
// cell is left untouched.
func (a *HeadArray) Set(i int, v float64) error {
	if err := a.buf.check(i); err != nil {
		return err
	}
	a.buf.heads[i] = segment.EncodeHead(v)
	return nil
}

// SetFull stores v at element i with full precision, writing both
// cells. This pre-seeds the tail for later full-precision reads while
// the caller keeps working through the reduced view.
func (a *HeadArray) SetFull(i int, v float64) error {
	if err := a.buf.check(i); err != nil {
		return err
	}
	head, tail := segment.EncodeFull(v)
	a.buf.heads[i] = head
	a.buf.tails[i] = tail
	return nil
}

// Escalate returns the full-precision view over the same backing
// storage. No data is copied: writes through either view are visible
// through the other. The returned view is a borrow and does not gain
// an independent release.
func (a *HeadArray) Escalate() *PairArray {
	return &PairArray{buf: a.buf}
}

// IsAllocated reports whether the backing storage is still live.
func (a *HeadArray) IsAllocated() bool { return !a.buf.released.Load() }

// Release frees the shared backing storage. It must be called at most
// once across all views of the same storage; further calls return
// ErrDoubleRelease.
func (a *HeadArray) Release() error { return a.buf.release() }

// PairArray is the full-precision view over segmented storage. Every
// access decodes or encodes both segments of an element.
type PairArray struct {
	buf *buffer
}

// Len returns the number of elements.
func (a *PairArray) Len() int { return a.buf.len() }

// At returns a Pair accessor bound to element i.
func (a *PairArray) At(i int) (Pair, error) {
	if err := a.buf.check(i); err != nil {
		return Pair{}, err
	}
	return Pair{buf: a.buf, idx: i}, nil
}

// Read decodes element i from both segments.
func (a *PairArray) Read(i int) (float64, error) {
	if err := a.buf.check(i); err != nil {
		return 0, err
	}
	return segment.DecodeFull(a.buf.heads[i], a.buf.tails[i]), nil
}

// Set stores v at element i with full precision, writing both cells.
func (a *PairArray) Set(i int, v float64) error {
	if err := a.buf.check(i); err != nil {
		return err
	}
	head, tail := segment.EncodeFull(v)
	a.buf.heads[i] = head
	a.buf.tails[i] = tail
	return nil
}

// IsAllocated reports whether the backing storage is still live.
func (a *PairArray) IsAllocated() bool { return !a.buf.released.Load() }

// Release frees the shared backing storage. Same contract as
// HeadArray.Release: exactly once across all views.
func (a *PairArray) Release() error { return a.buf.release() }
