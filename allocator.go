package execmem

import (
	"errors"
	"sync"
	"unsafe"
)

// Allocator is a low-level byte allocator. Allocate returns a slice of
// exactly size bytes, Reallocate resizes a slice previously returned by the
// same allocator (possibly moving it), and Free gives it back.
//
// Allocator methods have no error results; implementations panic when they
// cannot satisfy a request.
type Allocator interface {
	Allocate(size int) []byte
	Reallocate(size int, b []byte) []byte
	Free(b []byte)
}

var _ Allocator = (*ExecAllocator)(nil)

// ExecAllocator is an Allocator whose every allocation is its own executable
// Region. It lets dynamically sized containers such as Buffer keep their
// contents in executable memory.
//
// Slices handed out have len == size and cap == the region's reserved
// length. Reallocate and Free must be given a slice that starts at the first
// byte of a live allocation; re-slicing the tail is fine, re-slicing the head
// is not.
//
// ExecAllocator is safe for concurrent use.
type ExecAllocator struct {
	opts []Option

	mu      sync.Mutex
	regions map[uintptr]*Region
}

// NewExecAllocator creates an allocator that builds regions with opts.
func NewExecAllocator(opts ...Option) *ExecAllocator {
	return &ExecAllocator{
		opts:    opts,
		regions: make(map[uintptr]*Region),
	}
}

// Allocate reserves a new region and returns its first size bytes.
// It panics with an *AllocationError if the region cannot be reserved.
func (a *ExecAllocator) Allocate(size int) []byte {
	r, err := New(size, a.opts...)
	if err != nil {
		panic(err)
	}

	a.mu.Lock()
	a.regions[r.Addr()] = r
	a.mu.Unlock()

	return r.Bytes()[:size:r.Len()]
}

// Reallocate returns a slice of size bytes holding the first min(len(b), size)
// bytes of b. It stays in place when the region already has room.
func (a *ExecAllocator) Reallocate(size int, b []byte) []byte {
	r := a.lookup(b)
	if size >= 0 && size <= r.Len() {
		return r.Bytes()[:size:r.Len()]
	}

	nb := a.Allocate(size)
	copy(nb, b)
	a.Free(b)
	return nb
}

// Free releases the region backing b.
func (a *ExecAllocator) Free(b []byte) {
	addr := sliceAddr(b)

	a.mu.Lock()
	r, ok := a.regions[addr]
	delete(a.regions, addr)
	a.mu.Unlock()

	if !ok {
		panic(errors.New("BUG: Free of memory not owned by this ExecAllocator"))
	}
	_ = r.Close()
}

// Region returns the region backing b, or nil if b is not a live allocation.
func (a *ExecAllocator) Region(b []byte) *Region {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.regions[sliceAddr(b)]
}

// Live returns the number of outstanding allocations.
func (a *ExecAllocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.regions)
}

// Close frees every outstanding allocation.
func (a *ExecAllocator) Close() error {
	a.mu.Lock()
	regions := a.regions
	a.regions = make(map[uintptr]*Region)
	a.mu.Unlock()

	for _, r := range regions {
		_ = r.Close()
	}
	return nil
}

func (a *ExecAllocator) lookup(b []byte) *Region {
	r := a.Region(b)
	if r == nil {
		panic(errors.New("BUG: Reallocate of memory not owned by this ExecAllocator"))
	}
	return r
}

func sliceAddr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}
