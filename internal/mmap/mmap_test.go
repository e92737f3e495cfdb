//go:build unix || windows

package mmap

import (
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundUp(t *testing.T) {
	ps := PageSize()
	require.Positive(t, ps)
	require.Zero(t, ps&(ps-1), "page size must be a power of two")

	tests := []struct {
		name string
		n    int
		want int
	}{
		{"zero is one page", 0, ps},
		{"one byte", 1, ps},
		{"just below a page", ps - 1, ps},
		{"exactly a page", ps, ps},
		{"just above a page", ps + 1, 2 * ps},
		{"several pages", 3*ps + 7, 4 * ps},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RoundUp(tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("negative", func(t *testing.T) {
		_, err := RoundUp(-1)
		assert.ErrorIs(t, err, ErrInvalidSize)
	})

	t.Run("overflow", func(t *testing.T) {
		_, err := RoundUp(math.MaxInt)
		assert.ErrorIs(t, err, ErrInvalidSize)
	})
}

func TestReserve(t *testing.T) {
	b, err := Reserve(6)
	require.NoError(t, err)
	defer func() { require.NoError(t, Release(b)) }()

	assert.Len(t, b, PageSize())
	assert.Equal(t, PageSize(), cap(b))

	addr := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	assert.Zero(t, addr%uintptr(PageSize()), "mapping must be page aligned")

	// Fresh anonymous memory is zeroed.
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d is %#x, want 0", i, v)
		}
	}

	// Every byte of the reservation is writable.
	for i := range b {
		b[i] = byte(i)
	}
	assert.Equal(t, byte(0xff), b[255])
	assert.Equal(t, byte((len(b)-1)&0xff), b[len(b)-1])
}

func TestReserve_InvalidSize(t *testing.T) {
	b, err := Reserve(-1)
	assert.ErrorIs(t, err, ErrInvalidSize)
	assert.Nil(t, b)
}

func TestReserve_Distinct(t *testing.T) {
	a, err := Reserve(1)
	require.NoError(t, err)
	defer func() { require.NoError(t, Release(a)) }()

	b, err := Reserve(1)
	require.NoError(t, err)
	defer func() { require.NoError(t, Release(b)) }()

	a[0], b[0] = 1, 2
	assert.Equal(t, byte(1), a[0])
	assert.Equal(t, byte(2), b[0])
	assert.NotEqual(t, unsafe.SliceData(a), unsafe.SliceData(b))
}

func TestRelease(t *testing.T) {
	b, err := Reserve(PageSize() * 2)
	require.NoError(t, err)
	// First release should succeed.
	require.NoError(t, Release(b))
	// Double release should fail.
	require.Error(t, Release(b))

	t.Run("panic on zero length", func(t *testing.T) {
		assert.PanicsWithError(t, "BUG: Release with zero length", func() {
			_ = Release(make([]byte, 0))
		})
	})
}
