package mmap

import (
	"errors"
	"fmt"

	"github.com/hupe1980/execmem/internal/conv"
)

var (
	// ErrInvalidSize is returned when a size is negative or cannot be rounded
	// up to a page multiple without overflowing int.
	ErrInvalidSize = errors.New("mmap: invalid size")
	// ErrUnsupported is returned on targets without an executable-memory backend.
	ErrUnsupported = errors.New("mmap: executable memory unsupported on this platform")
)

// PageSize returns the mapping granularity of the platform.
//
// On Windows this is the allocation granularity rather than the hardware
// page size, since VirtualAlloc places reservations on that boundary.
func PageSize() int {
	return pageSize
}

// RoundUp returns the smallest positive multiple of PageSize that is >= n.
// A zero n yields one page.
func RoundUp(n int) (int, error) {
	if n == 0 {
		return pageSize, nil
	}
	size, err := conv.RoundUp(n, pageSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidSize, err)
	}
	return size, nil
}

// Reserve maps at least n bytes of read-write-execute memory and returns the
// whole mapping. The slice length is the reserved (page-rounded) length.
//
// See https://man7.org/linux/man-pages/man2/mmap.2.html and
// https://learn.microsoft.com/en-us/windows/win32/api/memoryapi/nf-memoryapi-virtualalloc
func Reserve(n int) ([]byte, error) {
	size, err := RoundUp(n)
	if err != nil {
		return nil, err
	}
	return reserve(size)
}

// Release unmaps a slice previously returned by Reserve. It must be the exact
// slice, not a sub-slice.
func Release(b []byte) error {
	if len(b) == 0 {
		panic(errors.New("BUG: Release with zero length"))
	}
	return release(b)
}
