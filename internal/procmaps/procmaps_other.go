//go:build !linux

package procmaps

// Read returns ErrUnsupported.
func Read() ([]Mapping, error) {
	return nil, ErrUnsupported
}
