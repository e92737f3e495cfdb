package procmaps

import (
	"fmt"
	"os"
)

// Read returns the current memory map of this process.
func Read() ([]Mapping, error) {
	f, err := os.Open("/proc/self/maps")
	if err != nil {
		return nil, fmt.Errorf("procmaps: %w", err)
	}
	defer f.Close()
	return Parse(f)
}
