package execmem

import (
	"io"
	"unsafe"
)

// Buffer is a growable byte container backed by an Allocator. With an
// ExecAllocator it is an append-only code buffer that can be called into.
//
// Unlike a Region, a Buffer moves when it grows past its capacity: Entry and
// any slice from Bytes change. Funcs from UnsafeBufferFunc follow the move.
//
// A Buffer is not safe for concurrent use.
type Buffer struct {
	// entry must stay the first field, see UnsafeBufferFunc.
	entry uintptr
	alloc Allocator
	buf   []byte
}

var _ io.Writer = (*Buffer)(nil)

// NewBuffer creates an empty buffer with room for at least capacity bytes.
func NewBuffer(alloc Allocator, capacity int) *Buffer {
	b := &Buffer{alloc: alloc}
	b.setBuf(alloc.Allocate(capacity)[:0])
	return b
}

func (b *Buffer) setBuf(buf []byte) {
	b.buf = buf
	b.entry = sliceAddr(buf)
}

// Len returns the number of bytes written.
func (b *Buffer) Len() int { return len(b.buf) }

// Cap returns the number of bytes the buffer holds before it must move.
func (b *Buffer) Cap() int { return cap(b.buf) }

// Bytes returns the written bytes. The slice is valid until the next write
// that moves the buffer.
func (b *Buffer) Bytes() []byte { return b.buf }

// Entry returns the address of the first byte, or 0 after Close.
func (b *Buffer) Entry() uintptr { return b.entry }

// Grow makes room for at least n more bytes without another move.
func (b *Buffer) Grow(n int) error {
	if b.alloc == nil {
		return ErrClosed
	}
	if n < 0 {
		return ErrInvalidSize
	}
	if cap(b.buf)-len(b.buf) >= n {
		return nil
	}

	newCap := max(2*cap(b.buf), len(b.buf)+n)
	nb := b.alloc.Reallocate(newCap, b.buf)
	b.setBuf(nb[:len(b.buf)])
	return nil
}

// Write appends p. It implements io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.Grow(len(p)); err != nil {
		return 0, err
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// WriteByte appends c.
func (b *Buffer) WriteByte(c byte) error {
	if err := b.Grow(1); err != nil {
		return err
	}
	b.buf = append(b.buf, c)
	return nil
}

// Reset empties the buffer but keeps its memory.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
}

// Close frees the memory. It is idempotent.
func (b *Buffer) Close() error {
	if b.alloc == nil {
		return nil
	}
	b.alloc.Free(b.buf)
	b.alloc = nil
	b.buf = nil
	b.entry = 0
	return nil
}

// UnsafeBufferFunc reinterprets the start of b as a Go function of type F.
// It carries every precondition of UnsafeFunc; in addition b must be backed
// by executable memory (an ExecAllocator).
//
// The func reads b's current entry on every call, so it stays valid across
// growth, and keeps b reachable.
func UnsafeBufferFunc[F any](b *Buffer) (F, error) {
	var fn F
	if err := checkFunc[F](); err != nil {
		return fn, err
	}
	if b.alloc == nil {
		return fn, ErrClosed
	}
	return asFunc[F](unsafe.Pointer(b)), nil
}
