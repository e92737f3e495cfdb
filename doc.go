// Package execmem provides process memory that is readable, writable and
// executable at the same time: the building block of a JIT code emitter.
//
// A Region is one page-aligned RWX mapping. Callers write machine code into it
// byte by byte or through slices, then call it as a native function. The
// package does not assemble or validate code; callers supply raw bytes.
//
// # Quick Start
//
//	r, err := execmem.New(6)
//	if err != nil { ... }
//	defer r.Close()
//
//	// amd64: mov eax, 0xffffffff; ret
//	copy(r.Bytes(), []byte{0xB8, 0xFF, 0xFF, 0xFF, 0xFF, 0xC3})
//
//	f, _ := execmem.UnsafeFunc[func() uint32](r)
//	fmt.Println(f()) // 4294967295
//
// # Sizing
//
// Every region is rounded up to a whole number of pages (PageSize). Len
// reports the rounded length; Requested reports what the caller asked for.
// NewPage reserves exactly one page.
//
// # Lifetime
//
// A region is Live from construction until it is released, then Closed for
// good. Release happens exactly once: on the first Close, or when the garbage
// collector finds the Region unreachable. Further Close calls are no-ops.
// Slices from Bytes and Slice do not keep a region alive; funcs from
// UnsafeFunc do.
//
// # Errors
//
//   - *AllocationError (ErrAllocationFailed): the OS or a resource.Controller
//     refused the mapping; no region exists
//   - *BoundsError (ErrOutOfBounds): an index outside [0, Len)
//   - *ReleaseError (ErrReleaseFailed): the OS refused to unmap; always a panic
//   - ErrClosed: use after Close
//
// # Allocator Integration
//
// ExecAllocator implements the low-level Allocator interface on top of
// regions, and Buffer is a growable code buffer over any Allocator.
//
// # Platform Support
//
// POSIX systems use mmap/munmap, Windows uses VirtualAlloc/VirtualFree; the
// backend is chosen at build time. Systems that forbid RWX anonymous memory
// (for example macOS on Apple silicon) fail every reservation with an
// *AllocationError. Architectures with incoherent instruction caches (arm64)
// need a cache flush after writing code, which this package does not do.
package execmem
