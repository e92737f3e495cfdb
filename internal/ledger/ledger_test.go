package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = 4096

func TestLedger_AddRemove(t *testing.T) {
	l := New(page)
	assert.Zero(t, l.Bytes())

	require.NoError(t, l.Add(0x10000, 2*page))
	assert.Equal(t, uint64(2*page), l.Bytes())
	assert.True(t, l.Contains(0x10000))
	assert.True(t, l.Contains(0x10000+2*page-1))
	assert.False(t, l.Contains(0x10000+2*page))
	assert.False(t, l.Contains(0x10000-1))

	require.NoError(t, l.Remove(0x10000, 2*page))
	assert.Zero(t, l.Bytes())
	assert.False(t, l.Contains(0x10000))
}

func TestLedger_Overlap(t *testing.T) {
	l := New(page)
	require.NoError(t, l.Add(0x10000, 2*page))

	assert.ErrorIs(t, l.Add(0x10000+page, page), ErrOverlap)
	assert.ErrorIs(t, l.Add(0x10000-page, 2*page), ErrOverlap)

	// Adjacent ranges do not overlap.
	require.NoError(t, l.Add(0x10000+2*page, page))
	require.NoError(t, l.Add(0x10000-page, page))
	assert.Equal(t, uint64(4*page), l.Bytes())
}

func TestLedger_DoubleRemove(t *testing.T) {
	l := New(page)
	require.NoError(t, l.Add(page, page))
	require.NoError(t, l.Remove(page, page))
	assert.ErrorIs(t, l.Remove(page, page), ErrNotLive)
}

func TestLedger_PartialRemove(t *testing.T) {
	l := New(page)
	require.NoError(t, l.Add(0x20000, page))
	assert.ErrorIs(t, l.Remove(0x20000, 2*page), ErrNotLive)
	// A failed remove leaves the ledger untouched.
	assert.True(t, l.Contains(0x20000))
}

func TestLedger_Unaligned(t *testing.T) {
	l := New(page)
	assert.ErrorIs(t, l.Add(0x10001, page), ErrUnaligned)
	assert.ErrorIs(t, l.Add(0x10000, page+1), ErrUnaligned)
	assert.ErrorIs(t, l.Add(0x10000, 0), ErrUnaligned)
	assert.Error(t, l.Add(0x10000, -page))
}

func TestNew_InvalidPageSize(t *testing.T) {
	assert.Panics(t, func() { New(0) })
	assert.Panics(t, func() { New(-1) })
}
