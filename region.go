package execmem

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/hupe1980/execmem/internal/ledger"
	"github.com/hupe1980/execmem/internal/mmap"
	"github.com/hupe1980/execmem/resource"
)

// live holds every page currently owned by a region in this process.
var live = ledger.New(mmap.PageSize())

// PageSize returns the granularity regions are rounded up to.
func PageSize() int {
	return mmap.PageSize()
}

// IsMapped reports whether addr lies inside a live region.
func IsMapped(addr uintptr) bool {
	return live.Contains(addr)
}

// LiveBytes returns the total reserved length of all live regions.
func LiveBytes() uint64 {
	return live.Bytes()
}

// Region is a page-aligned block of memory that is readable, writable and
// executable. It exclusively owns its mapping until Close, or until the
// garbage collector finds the Region unreachable, whichever comes first.
//
// A Region is not safe for concurrent use. Publishing code written by one
// goroutine to another that calls it requires external synchronization.
type Region struct {
	// entry must stay the first field. UnsafeFunc hands out a pointer to the
	// Region as a Go func value, and the first word of a func value's target
	// is the code address.
	entry     uintptr
	m         *mapping
	requested int
	cleanup   runtime.Cleanup
}

// mapping is the part of a Region reachable from its GC cleanup. It must
// never point back at the Region.
type mapping struct {
	data     []byte
	released atomic.Bool

	controller *resource.Controller
	logger     *Logger
	metrics    MetricsCollector
}

// New reserves a region of at least size bytes. A size of 0 reserves one page.
//
// On failure the returned error is an *AllocationError and no memory is held.
func New(size int, opts ...Option) (*Region, error) {
	return newRegion(size, applyOptions(opts))
}

// NewPage reserves the smallest possible region: exactly one page.
func NewPage(opts ...Option) (*Region, error) {
	return New(0, opts...)
}

// NewWithCode reserves a region large enough for code and copies code into it.
func NewWithCode(code []byte, opts ...Option) (*Region, error) {
	r, err := New(len(code), opts...)
	if err != nil {
		return nil, err
	}
	copy(r.m.data, code)
	return r, nil
}

// MustNew is like New but panics if the region cannot be reserved.
func MustNew(size int, opts ...Option) *Region {
	r, err := New(size, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func newRegion(size int, o options) (*Region, error) {
	ctx := context.Background()
	start := time.Now()

	r, reserved, err := reserve(size, o)

	o.metricsCollector.RecordReserve(size, reserved, time.Since(start), err)
	if err != nil {
		o.logger.LogReserve(ctx, size, reserved, 0, err)
		return nil, err
	}
	o.logger.LogReserve(ctx, size, reserved, r.entry, nil)
	return r, nil
}

func reserve(size int, o options) (*Region, int, error) {
	reserved, err := mmap.RoundUp(size)
	if err != nil {
		return nil, 0, &AllocationError{Requested: size, cause: err}
	}

	if !o.controller.TryAcquireMemory(int64(reserved)) {
		return nil, reserved, &AllocationError{Requested: size, Reserved: reserved, cause: ErrBudgetExceeded}
	}

	data, err := mmap.Reserve(reserved)
	if err != nil {
		o.controller.ReleaseMemory(int64(reserved))
		return nil, reserved, &AllocationError{Requested: size, Reserved: reserved, cause: err}
	}

	base := uintptr(unsafe.Pointer(unsafe.SliceData(data)))
	if err := live.Add(base, len(data)); err != nil {
		// The OS handed out pages we believe another region still owns.
		panic(fmt.Errorf("BUG: fresh mapping collides with a live region: %w", err))
	}

	r := &Region{
		entry:     base,
		requested: size,
		m: &mapping{
			data:       data,
			controller: o.controller,
			logger:     o.logger,
			metrics:    o.metricsCollector,
		},
	}
	r.cleanup = runtime.AddCleanup(r, func(m *mapping) { m.release(true) }, r.m)
	return r, len(data), nil
}

// release unmaps the memory the first time it is called and is a no-op after.
func (m *mapping) release(automatic bool) {
	if m.released.Swap(true) {
		return
	}

	start := time.Now()
	length := len(m.data)
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(m.data)))

	// Clear the ledger before unmapping: once munmap returns, the OS may hand
	// the same pages to another region.
	err := live.Remove(addr, length)
	if err == nil {
		err = mmap.Release(m.data)
	}
	m.data = nil

	if err != nil {
		m.logger.LogRelease(context.Background(), addr, length, automatic, err)
		panic(&ReleaseError{Addr: addr, Length: length, cause: err})
	}

	m.controller.ReleaseMemory(int64(length))
	m.metrics.RecordRelease(length, automatic, time.Since(start))
	m.logger.LogRelease(context.Background(), addr, length, automatic, nil)
}

// Close releases the mapping. It is idempotent: only the first call unmaps,
// later calls return nil. After Close every other method reports ErrClosed
// (or returns a zero value), and slices or funcs obtained earlier must not be
// used.
//
// Close panics with a *ReleaseError if the OS refuses to unmap the region.
func (r *Region) Close() error {
	if r.m.released.Load() {
		return nil
	}
	r.cleanup.Stop()
	r.entry = 0
	r.m.release(false)
	return nil
}

// Closed reports whether the region has been released.
func (r *Region) Closed() bool {
	return r.m.released.Load()
}

// Len returns the reserved length: a positive multiple of PageSize that is at
// least the requested size. It is 0 after Close.
func (r *Region) Len() int {
	return len(r.m.data)
}

// Requested returns the size passed to the constructor.
func (r *Region) Requested() int {
	return r.requested
}

// Addr returns the base address of the mapping, or 0 after Close.
func (r *Region) Addr() uintptr {
	return r.entry
}

// Bytes returns the whole mapping as a slice. The slice aliases the region
// and must not be used after Close. Returns nil after Close.
//
// The slice does not keep the region alive: if the Region itself becomes
// unreachable the mapping is released under the slice. Hold the Region (or
// call runtime.KeepAlive on it) for as long as the slice is used.
func (r *Region) Bytes() []byte {
	if r.m.released.Load() {
		return nil
	}
	return r.m.data
}

// At returns the byte at index i.
func (r *Region) At(i int) (byte, error) {
	if r.m.released.Load() {
		return 0, ErrClosed
	}
	if i < 0 || i >= len(r.m.data) {
		return 0, &BoundsError{Index: i, Length: len(r.m.data)}
	}
	return r.m.data[i], nil
}

// Set writes b at index i.
func (r *Region) Set(i int, b byte) error {
	if r.m.released.Load() {
		return ErrClosed
	}
	if i < 0 || i >= len(r.m.data) {
		return &BoundsError{Index: i, Length: len(r.m.data)}
	}
	r.m.data[i] = b
	return nil
}

// Slice returns a view of [from, to). The view aliases the region, is capped
// at to, and must not be used after Close.
func (r *Region) Slice(from, to int) ([]byte, error) {
	if r.m.released.Load() {
		return nil, ErrClosed
	}
	n := len(r.m.data)
	switch {
	case from < 0 || from > n:
		return nil, &BoundsError{Index: from, Length: n}
	case to < from || to > n:
		return nil, &BoundsError{Index: to, Length: n}
	}
	return r.m.data[from:to:to], nil
}

// ReadAt implements io.ReaderAt.
func (r *Region) ReadAt(p []byte, off int64) (int, error) {
	if r.m.released.Load() {
		return 0, ErrClosed
	}
	n := int64(len(r.m.data))
	if off < 0 || off > n {
		return 0, &BoundsError{Index: int(off), Length: int(n)}
	}
	c := copy(p, r.m.data[off:])
	if c < len(p) {
		return c, io.EOF
	}
	return c, nil
}

// WriteAt implements io.WriterAt. A write that does not fit entirely inside
// the region writes nothing and returns a *BoundsError.
func (r *Region) WriteAt(p []byte, off int64) (int, error) {
	if r.m.released.Load() {
		return 0, ErrClosed
	}
	n := int64(len(r.m.data))
	if off < 0 || off > n {
		return 0, &BoundsError{Index: int(off), Length: int(n)}
	}
	if end := off + int64(len(p)); end > n {
		return 0, &BoundsError{Index: int(end - 1), Length: int(n)}
	}
	return copy(r.m.data[off:], p), nil
}

func (r *Region) String() string {
	if r.m.released.Load() {
		return "execmem.Region{closed}"
	}
	return fmt.Sprintf("execmem.Region{addr=%#x, len=%d, requested=%d}", r.entry, len(r.m.data), r.requested)
}
