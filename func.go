package execmem

import (
	"reflect"
	"unsafe"
)

// UnsafeFunc reinterprets the start of r as a Go function of type F.
//
// Nothing about the call is checked. The caller alone guarantees that:
//
//   - the bytes at the start of r are a complete native function for the
//     current GOARCH
//   - that function follows Go's internal register ABI for signature F
//     (on amd64: integer arguments in AX, BX, CX, DI, SI, R8-R11 and integer
//     results in the same registers, in order; R14 and X15 must be preserved,
//     the stack below the return address must not be touched, and the
//     function returns with RET)
//   - r is not closed while any call through the result is in flight
//   - no goroutine writes to r while another calls into it
//
// Getting any of these wrong crashes the process or corrupts it silently.
// There is no way to detect it beforehand.
//
// The returned func refers to r itself, so r is not released by the garbage
// collector while the func is reachable. Close still releases it.
//
// UnsafeFunc returns ErrNotFunc if F is not a func type and ErrClosed if r
// has been closed.
func UnsafeFunc[F any](r *Region) (F, error) {
	var fn F
	if err := checkFunc[F](); err != nil {
		return fn, err
	}
	if r.Closed() {
		return fn, ErrClosed
	}
	return asFunc[F](unsafe.Pointer(r)), nil
}

func checkFunc[F any]() error {
	if reflect.TypeFor[F]().Kind() != reflect.Func {
		return ErrNotFunc
	}
	return nil
}

// asFunc builds a func value whose closure pointer is p. The first word at p
// must hold the code address.
func asFunc[F any](p unsafe.Pointer) F {
	return *(*F)(unsafe.Pointer(&p))
}
