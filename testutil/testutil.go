package testutil

import (
	"encoding/binary"
	"math/rand"
	"runtime"
	"sync"
	"testing"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint32 returns a pseudo-random uint32.
func (r *RNG) Uint32() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint32()
}

// FillBytes fills dst with pseudo-random bytes.
// Locks only once per call (preferred over calling Intn in a loop).
func (r *RNG) FillBytes(dst []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = r.rand.Read(dst)
}

// Bytes returns n pseudo-random bytes.
func (r *RNG) Bytes(n int) []byte {
	b := make([]byte, n)
	r.FillBytes(b)
	return b
}

// RequireAMD64 skips the test unless it runs on amd64, the only architecture
// the canned machine code below is encoded for.
func RequireAMD64(t testing.TB) {
	t.Helper()
	if runtime.GOARCH != "amd64" {
		t.Skipf("machine code fixtures are amd64 only, running on %s", runtime.GOARCH)
	}
}

// ReturnUint32 encodes "mov eax, v; ret": a func() uint32 returning v.
func ReturnUint32(v uint32) []byte {
	code := []byte{0xB8, 0, 0, 0, 0, 0xC3}
	binary.LittleEndian.PutUint32(code[1:5], v)
	return code
}

// MaxUint32 is ReturnUint32(0xFFFFFFFF).
var MaxUint32 = []byte{0xB8, 0xFF, 0xFF, 0xFF, 0xFF, 0xC3}

// Identity encodes "ret": a func(uint64) uint64 returning its argument,
// since the first argument and first result share AX.
var Identity = []byte{0xC3}

// AddUint64 encodes "add rax, rbx; ret": a func(a, b uint64) uint64.
var AddUint64 = []byte{0x48, 0x01, 0xD8, 0xC3}
