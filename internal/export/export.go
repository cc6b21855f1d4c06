// Package export writes the current scene out as PNG, SVG or PDF.
package export

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
)

// Fixed output names, one per export type.
const (
	RasterFileName    = "canvas.png"
	VectorFileName    = "canvas.svg"
	DocumentFileName  = "canvas.pdf"
	GeneratedFileName = "handwriting.svg"
)

// Images gives access to both the decoded pixels and original bytes of
// image elements.
type Images interface {
	Image(handle string) (image.Image, bool)
	Source(handle string) ([]byte, string, bool)
}

// WriteFile creates dir/name and streams the export into it.
func WriteFile(dir, name string, write func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return path, nil
}
