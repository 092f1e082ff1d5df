// Package loader provides loading of raw 8086 machine-code files.
package loader

import (
	"fmt"
	"os"
)

// MaxProgramSize is the size of the 8086 real-mode address space (1MB).
const MaxProgramSize = 1 << 20

// Program represents a loaded machine-code image.
type Program struct {
	// Path is the file the program was read from.
	Path string
	// Data holds the raw bytes, decoded from offset 0.
	Data []byte
}

// Size returns the number of bytes in the program.
func (p *Program) Size() int {
	return len(p.Data)
}

// Load reads a headerless 8086 binary.
func Load(path string) (*Program, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program file: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("program path %s is a directory", path)
	}

	if info.Size() > MaxProgramSize {
		return nil, fmt.Errorf("program %s is %d bytes, larger than the %d byte address space",
			path, info.Size(), MaxProgramSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program file: %w", err)
	}

	return &Program{Path: path, Data: data}, nil
}
