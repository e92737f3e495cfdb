package execmem

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/hupe1980/execmem/internal/procmaps"
)

func TestRegion_KernelView(t *testing.T) {
	r, err := New(3 * PageSize())
	require.NoError(t, err)
	addr := r.Addr()

	maps, err := procmaps.Read()
	require.NoError(t, err)

	m, ok := procmaps.Find(maps, addr)
	require.True(t, ok, "live region must appear in /proc/self/maps")
	assert.True(t, m.RWX())
	assert.True(t, m.Private)
	assert.True(t, m.Contains(addr+uintptr(r.Len()-1)))

	// The kernel refuses a non-replacing fixed mapping over live pages.
	_, err = unix.MmapPtr(-1, 0, unsafe.Pointer(addr), uintptr(PageSize()),
		unix.PROT_READ, unix.MAP_ANON|unix.MAP_PRIVATE|unix.MAP_FIXED_NOREPLACE)
	assert.ErrorIs(t, err, unix.EEXIST)

	require.NoError(t, r.Close())

	maps, err = procmaps.Read()
	require.NoError(t, err)
	if m, ok := procmaps.Find(maps, addr); ok {
		assert.False(t, m.RWX(), "released pages must not stay executable")
	}
}
