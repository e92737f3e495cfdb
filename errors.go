package execmem

import (
	"errors"
	"fmt"

	"github.com/hupe1980/execmem/internal/mmap"
)

var (
	// ErrAllocationFailed is matched by every *AllocationError.
	ErrAllocationFailed = errors.New("executable memory allocation failed")
	// ErrOutOfBounds is matched by every *BoundsError.
	ErrOutOfBounds = errors.New("index out of bounds")
	// ErrReleaseFailed is matched by every *ReleaseError.
	ErrReleaseFailed = errors.New("executable memory release failed")
	// ErrClosed is returned when using a region after Close.
	ErrClosed = errors.New("region is closed")
	// ErrNotFunc is returned by UnsafeFunc when the type argument is not a func type.
	ErrNotFunc = errors.New("type argument is not a func type")
	// ErrBudgetExceeded is returned when a resource.Controller refuses a reservation.
	ErrBudgetExceeded = errors.New("executable memory budget exceeded")
	// ErrInvalidSize is returned for negative sizes or sizes that overflow when
	// rounded up to the page size.
	ErrInvalidSize = mmap.ErrInvalidSize
	// ErrUnsupported is returned on platforms without an executable-memory backend.
	ErrUnsupported = mmap.ErrUnsupported
)

// AllocationError reports that a region could not be reserved. No region
// exists when this error is returned.
//
// The underlying cause (OS error, ErrInvalidSize, ErrBudgetExceeded) can be
// matched with errors.Is / errors.As.
type AllocationError struct {
	Requested int
	// Reserved is the page-rounded length that was asked of the OS, or 0 if
	// rounding itself failed.
	Reserved int
	cause    error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("%v: requested %d bytes (reserved %d): %v", ErrAllocationFailed, e.Requested, e.Reserved, e.cause)
}

func (e *AllocationError) Unwrap() []error { return []error{ErrAllocationFailed, e.cause} }

// BoundsError reports an access outside the reserved length of a region.
type BoundsError struct {
	Index  int
	Length int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%v: index %d with length %d", ErrOutOfBounds, e.Index, e.Length)
}

func (e *BoundsError) Unwrap() error { return ErrOutOfBounds }

// ReleaseError reports that the OS refused to release a mapping. It is
// always raised as a panic: a mapping that cannot be released means the
// handle is corrupt or was already freed.
type ReleaseError struct {
	Addr   uintptr
	Length int
	cause  error
}

func (e *ReleaseError) Error() string {
	return fmt.Sprintf("%v: addr=%#x len=%d: %v", ErrReleaseFailed, e.Addr, e.Length, e.cause)
}

func (e *ReleaseError) Unwrap() []error { return []error{ErrReleaseFailed, e.cause} }
