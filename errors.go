package manseg

import (
	"errors"
	"fmt"
)

var (
	// ErrDoubleRelease is returned when segmented storage or a mirror
	// is released more than once.
	ErrDoubleRelease = errors.New("already released")

	// ErrReleased is returned when an accessor, view or mirror is used
	// after its backing storage has been released.
	ErrReleased = errors.New("use after release")

	// ErrMirrorExists is returned by BuildMirror when a mirror is
	// already present. Rebuilding would silently leak the previous
	// mirror's reservation; release it first.
	ErrMirrorExists = errors.New("mirror already built")

	// ErrNoMirror is returned when the mirror is accessed or released
	// before it has been built.
	ErrNoMirror = errors.New("mirror not built")

	// ErrAllocationFailure is returned when storage or mirror memory
	// cannot be reserved (resource controller limit exceeded).
	ErrAllocationFailure = errors.New("allocation failed")

	// ErrInvalidLength is returned when a non-positive array length is
	// requested.
	ErrInvalidLength = errors.New("length must be positive")
)

// ErrIndexOutOfRange indicates an element index outside [0, Length).
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrIndexOutOfRange struct {
	Index  int
	Length int
	cause  error
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("index out of range: %d (length %d)", e.Index, e.Length)
}

func (e *ErrIndexOutOfRange) Unwrap() error { return e.cause }
