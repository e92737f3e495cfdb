// Package testutil provides testing utilities for execmem.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Bytes
//
//	rng := testutil.NewRNG(seed)
//	payload := rng.Bytes(4096)
//
// # Machine Code Fixtures
//
// Fixtures are amd64 encodings that follow Go's internal register ABI, so
// they can be called through execmem.UnsafeFunc. Gate tests that execute
// them with RequireAMD64.
//
//	r, _ := execmem.NewWithCode(testutil.ReturnUint32(42))
//	f, _ := execmem.UnsafeFunc[func() uint32](r)
package testutil
