package execmem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/execmem/testutil"
)

func TestUnsafeFunc_ReturnConstant(t *testing.T) {
	testutil.RequireAMD64(t)

	r := mustRegion(t, len(testutil.MaxUint32))
	for i, b := range testutil.MaxUint32 {
		require.NoError(t, r.Set(i, b))
	}

	f, err := UnsafeFunc[func() uint32](r)
	require.NoError(t, err)
	assert.Equal(t, uint32(4294967295), f())

	// The same region can be called repeatedly.
	assert.Equal(t, uint32(4294967295), f())
}

func TestUnsafeFunc_Arguments(t *testing.T) {
	testutil.RequireAMD64(t)

	t.Run("identity", func(t *testing.T) {
		r, err := NewWithCode(testutil.Identity)
		require.NoError(t, err)
		defer r.Close()

		id, err := UnsafeFunc[func(uint64) uint64](r)
		require.NoError(t, err)
		for _, v := range []uint64{0, 1, 42, 1 << 63} {
			assert.Equal(t, v, id(v))
		}
	})

	t.Run("add", func(t *testing.T) {
		r, err := NewWithCode(testutil.AddUint64)
		require.NoError(t, err)
		defer r.Close()

		add, err := UnsafeFunc[func(a, b uint64) uint64](r)
		require.NoError(t, err)
		assert.Equal(t, uint64(5), add(2, 3))
		assert.Equal(t, uint64(0), add(1<<63, 1<<63))
	})
}

func TestUnsafeFunc_Rewrite(t *testing.T) {
	testutil.RequireAMD64(t)

	r, err := NewWithCode(testutil.ReturnUint32(1))
	require.NoError(t, err)
	defer r.Close()

	f, err := UnsafeFunc[func() uint32](r)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), f())

	_, err = r.WriteAt(testutil.ReturnUint32(7), 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), f())
}

func TestUnsafeFunc_NotFunc(t *testing.T) {
	r := mustRegion(t, 1)

	_, err := UnsafeFunc[int](r)
	assert.ErrorIs(t, err, ErrNotFunc)

	_, err = UnsafeFunc[*func()](r)
	assert.ErrorIs(t, err, ErrNotFunc)
}

func TestUnsafeFunc_Closed(t *testing.T) {
	r, err := New(1)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	f, err := UnsafeFunc[func()](r)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Nil(t, f)
}

func BenchmarkCall(b *testing.B) {
	testutil.RequireAMD64(b)

	r, err := NewWithCode(testutil.AddUint64)
	require.NoError(b, err)
	defer r.Close()

	jit, err := UnsafeFunc[func(a, b uint64) uint64](r)
	require.NoError(b, err)

	native := func(a, b uint64) uint64 { return a + b }

	b.Run("jit", func(b *testing.B) {
		var sum uint64
		for i := 0; i < b.N; i++ {
			sum = jit(sum, 1)
		}
		_ = sum
	})
	b.Run("native", func(b *testing.B) {
		var sum uint64
		for i := 0; i < b.N; i++ {
			sum = native(sum, 1)
		}
		_ = sum
	})
}
