//go:build unix

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

var pageSize = unix.Getpagesize()

func reserve(size int) ([]byte, error) {
	// The region must be RWX: RW for writing native code, X for executing it.
	// Anonymous as this is not an actual file, private as this is in-process memory.
	b, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC,
		unix.MAP_ANON|unix.MAP_PRIVATE,
	)
	if err != nil {
		return nil, os.NewSyscallError("mmap", err)
	}
	return b, nil
}

func release(b []byte) error {
	if err := unix.Munmap(b); err != nil {
		return os.NewSyscallError("munmap", err)
	}
	return nil
}
