// Package mmap reserves and releases anonymous read-write-execute memory.
//
// # Overview
//
// Reserve turns a byte length into a page-aligned mapping that is readable,
// writable and executable at the same time. Release returns the mapping to the
// operating system. Neither call keeps any state: the slice returned by
// Reserve carries both the base address and the reserved length, and the same
// slice must be handed back to Release.
//
// # Usage
//
//	code, err := mmap.Reserve(6)
//	if err != nil { ... }
//	copy(code, []byte{0xB8, 0xFF, 0xFF, 0xFF, 0xFF, 0xC3})
//	...
//	if err := mmap.Release(code); err != nil { ... }
//
// # Platform Support
//
// The backend is selected at build time:
//
//   - Unix (Linux, macOS, BSD): mmap(2) with PROT_READ|PROT_WRITE|PROT_EXEC
//     and MAP_ANON|MAP_PRIVATE, released with munmap(2)
//   - Windows: VirtualAlloc with MEM_RESERVE|MEM_COMMIT and
//     PAGE_EXECUTE_READWRITE, released with VirtualFree(MEM_RELEASE)
//   - Everything else: Reserve and Release return ErrUnsupported
//
// Platforms that enforce W^X for anonymous memory (macOS on Apple silicon,
// hardened kernels) refuse the mapping and Reserve reports the OS error.
//
// # Thread Safety
//
// Reserve and Release are safe for concurrent use. A given mapping must be
// released exactly once; the caller owns that invariant.
package mmap
