// Package conv provides safe integer type conversion utilities.
//
// These functions perform bounds checking to prevent integer overflow/underflow
// when converting between signed/unsigned types or rounding sizes to page
// multiples.
//
// Use cases:
//   - Rounding caller-supplied lengths up to the mapping granularity
//   - Converting between Go's int (platform-dependent) and the uint64 page
//     numbers kept in bitmaps
//
// For conversions that are provably safe by domain constraints (e.g., loop
// indices, bounded counters), use direct type casts instead to avoid overhead.
package conv
