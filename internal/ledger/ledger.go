// Package ledger records which pages of the address space are currently held
// by live executable-memory regions.
//
// Every reservation marks its pages and every release clears them. A
// reservation that overlaps live pages, or a release of pages that are not
// live, means the region bookkeeping is corrupt and is reported as an error.
package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/execmem/internal/conv"
)

var (
	// ErrOverlap is returned when a range overlaps pages that are already live.
	ErrOverlap = errors.New("ledger: range overlaps live pages")
	// ErrNotLive is returned when releasing pages that are not all live.
	ErrNotLive = errors.New("ledger: range is not live")
	// ErrUnaligned is returned for ranges that do not start and end on page boundaries.
	ErrUnaligned = errors.New("ledger: range is not page aligned")
)

// Ledger is a page-granular set of live ranges. It is safe for concurrent use.
type Ledger struct {
	pageSize uint64

	mu    sync.Mutex
	pages *roaring64.Bitmap
}

// New creates an empty ledger for the given page size.
func New(pageSize int) *Ledger {
	ps, err := conv.IntToUint64(pageSize)
	if err != nil || ps == 0 {
		panic(fmt.Errorf("BUG: ledger page size %d", pageSize))
	}
	return &Ledger{
		pageSize: ps,
		pages:    roaring64.New(),
	}
}

func (l *Ledger) span(addr uintptr, length int) (uint64, uint64, error) {
	n, err := conv.IntToUint64(length)
	if err != nil {
		return 0, 0, err
	}
	start := uint64(addr)
	if n == 0 || start%l.pageSize != 0 || n%l.pageSize != 0 {
		return 0, 0, fmt.Errorf("%w: addr=%#x len=%d", ErrUnaligned, addr, length)
	}
	return start / l.pageSize, (start + n) / l.pageSize, nil
}

// liveIn counts live pages in [first, last). Caller holds mu.
func (l *Ledger) liveIn(first, last uint64) uint64 {
	n := l.pages.Rank(last - 1)
	if first > 0 {
		n -= l.pages.Rank(first - 1)
	}
	return n
}

// Add marks [addr, addr+length) as live.
func (l *Ledger) Add(addr uintptr, length int) error {
	first, last, err := l.span(addr, length)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.liveIn(first, last) != 0 {
		return fmt.Errorf("%w: addr=%#x len=%d", ErrOverlap, addr, length)
	}
	l.pages.AddRange(first, last)
	return nil
}

// Remove clears [addr, addr+length). Every page in the range must be live.
func (l *Ledger) Remove(addr uintptr, length int) error {
	first, last, err := l.span(addr, length)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.liveIn(first, last) != last-first {
		return fmt.Errorf("%w: addr=%#x len=%d", ErrNotLive, addr, length)
	}
	l.pages.RemoveRange(first, last)
	return nil
}

// Contains reports whether the page holding addr is live.
func (l *Ledger) Contains(addr uintptr) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pages.Contains(uint64(addr) / l.pageSize)
}

// Bytes returns the number of live bytes.
func (l *Ledger) Bytes() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pages.GetCardinality() * l.pageSize
}
