package conv

import (
	"fmt"
	"math"
)

// IntToUint64 converts int to uint64 safely.
func IntToUint64(v int) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint64 (negative)", v)
	}
	return uint64(v), nil
}

// Uint64ToInt converts uint64 to int safely.
func Uint64ToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int (too large)", v)
	}
	return int(v), nil
}

// RoundUp rounds v up to the next multiple of m. Both must be non-negative and
// m must be positive.
func RoundUp(v, m int) (int, error) {
	if v < 0 {
		return 0, fmt.Errorf("integer overflow: cannot round negative value %d", v)
	}
	if m <= 0 {
		return 0, fmt.Errorf("invalid multiple: %d", m)
	}
	rem := v % m
	if rem == 0 {
		return v, nil
	}
	if v > math.MaxInt-(m-rem) {
		return 0, fmt.Errorf("integer overflow: %d rounded up to a multiple of %d exceeds int", v, m)
	}
	return v + m - rem, nil
}
