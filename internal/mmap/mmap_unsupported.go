//go:build !(unix || windows)

package mmap

import "os"

var pageSize = os.Getpagesize()

func reserve(int) ([]byte, error) {
	return nil, ErrUnsupported
}

func release([]byte) error {
	return ErrUnsupported
}
