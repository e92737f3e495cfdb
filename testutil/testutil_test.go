package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(4711).Bytes(64)
	b := NewRNG(4711).Bytes(64)
	assert.Equal(t, a, b)

	rng := NewRNG(4711)
	first := rng.Bytes(64)
	rng.Reset()
	assert.Equal(t, first, rng.Bytes(64))
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestRNG_Intn(t *testing.T) {
	rng := NewRNG(1)
	for i := 0; i < 100; i++ {
		v := rng.Intn(10)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 10)
	}
}

func TestReturnUint32(t *testing.T) {
	assert.Equal(t, MaxUint32, ReturnUint32(0xFFFFFFFF))
	assert.Equal(t, []byte{0xB8, 0x2A, 0x00, 0x00, 0x00, 0xC3}, ReturnUint32(42))
}
