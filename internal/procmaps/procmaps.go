// Package procmaps reads the memory map of the current process.
//
// Only Linux exposes /proc/self/maps in the format parsed here; Read returns
// ErrUnsupported elsewhere. Parse works on any platform.
package procmaps

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrUnsupported is returned by Read on platforms without /proc/self/maps.
var ErrUnsupported = errors.New("procmaps: unsupported platform")

// Mapping is one line of /proc/[pid]/maps.
type Mapping struct {
	Start   uintptr
	End     uintptr
	Read    bool
	Write   bool
	Exec    bool
	Shared  bool
	Private bool
	Offset  uint64
	Dev     string
	Inode   uint64
	Path    string
}

// Contains reports whether addr falls inside the mapping.
func (m Mapping) Contains(addr uintptr) bool {
	return addr >= m.Start && addr < m.End
}

// RWX reports whether the mapping is readable, writable and executable.
func (m Mapping) RWX() bool {
	return m.Read && m.Write && m.Exec
}

// Find returns the mapping containing addr.
func Find(mappings []Mapping, addr uintptr) (Mapping, bool) {
	for _, m := range mappings {
		if m.Contains(addr) {
			return m, true
		}
	}
	return Mapping{}, false
}

// Parse reads mappings in the format of https://man7.org/linux/man-pages/man5/proc.5.html
func Parse(r io.Reader) ([]Mapping, error) {
	var mappings []Mapping
	sc := bufio.NewScanner(r)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := sc.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 5 {
			return nil, fmt.Errorf("procmaps: got %d fields on line %d (expected at least 5): %s", len(fields), lineNo, line)
		}
		m, err := parseLine(fields)
		if err != nil {
			return nil, fmt.Errorf("procmaps: line %d: %w (line: %s)", lineNo, err, line)
		}
		mappings = append(mappings, m)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("procmaps: %w", err)
	}
	return mappings, nil
}

func parseLine(fields []string) (Mapping, error) {
	var m Mapping

	start, end, ok := strings.Cut(fields[0], "-")
	if !ok {
		return m, fmt.Errorf("malformed address range %q", fields[0])
	}
	s, err := strconv.ParseUint(start, 16, 64)
	if err != nil {
		return m, fmt.Errorf("failed to parse start address %q: %w", start, err)
	}
	e, err := strconv.ParseUint(end, 16, 64)
	if err != nil {
		return m, fmt.Errorf("failed to parse end address %q: %w", end, err)
	}
	m.Start, m.End = uintptr(s), uintptr(e)

	for _, c := range fields[1] {
		switch c {
		case 'r':
			m.Read = true
		case 'w':
			m.Write = true
		case 'x':
			m.Exec = true
		case 's':
			m.Shared = true
		case 'p':
			m.Private = true
		case '-':
		default:
			return m, fmt.Errorf("unexpected permission bit %q in %q", c, fields[1])
		}
	}

	if m.Offset, err = strconv.ParseUint(fields[2], 16, 64); err != nil {
		return m, fmt.Errorf("failed to parse offset %q: %w", fields[2], err)
	}
	m.Dev = fields[3]
	if m.Inode, err = strconv.ParseUint(fields[4], 10, 64); err != nil {
		return m, fmt.Errorf("failed to parse inode %q: %w", fields[4], err)
	}
	if len(fields) > 5 {
		m.Path = strings.Join(fields[5:], " ")
	}
	return m, nil
}
