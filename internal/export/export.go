// Package export writes particle fields to SVG, JSON and PLY.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/san-kum/galaxy/internal/galaxy"
)

// Formats lists the accepted format names.
var Formats = []string{"svg", "json", "ply"}

// Write encodes f in format to w.
func Write(w io.Writer, format string, f *galaxy.Field, metrics map[string]float64) error {
	switch strings.ToLower(format) {
	case "svg":
		return FieldToSVG(w, f, SVGOptions{})
	case "json":
		return JSON(w, f, metrics)
	case "ply":
		return PLY(w, f)
	}
	return fmt.Errorf("unknown export format %q (available: %v)", format, Formats)
}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// WriteFile encodes f to path, picking the format from the extension when
// format is empty.
func WriteFile(path, format string, f *galaxy.Field, metrics map[string]float64) error {
	if format == "" {
		format = FormatFromPath(path)
	}
	if !slices.Contains(Formats, strings.ToLower(format)) {
		return fmt.Errorf("unknown export format %q (available: %v)", format, Formats)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := Write(file, format, f, metrics); err != nil {
		return err
	}
	return file.Close()
}
