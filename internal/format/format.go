// Package format names the output kinds qrit can produce.
package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an output kind: one of the image encodings or the terminal rendering.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
	BMP  Format = "bmp"
	SVG  Format = "svg"
	Term Format = "term"
)

var ErrUnknown = errors.New("unknown format")

var all = []Format{PNG, JPEG, GIF, BMP, SVG, Term}

// All returns every format in declaration order.
func All() []Format {
	out := make([]Format, len(all))
	copy(out, all)
	return out
}

// Names returns the canonical names of All.
func Names() []string {
	names := make([]string, len(all))
	for i, f := range all {
		names[i] = f.String()
	}
	return names
}

// Parse accepts only the canonical lowercase names.
func Parse(name string) (Format, error) {
	for _, f := range all {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (must be one of %s)", ErrUnknown, name, strings.Join(Names(), ", "))
}

func (f Format) String() string {
	return string(f)
}

func (f Format) IsImage() bool {
	switch f {
	case PNG, JPEG, GIF, BMP, SVG:
		return true
	default:
		return false
	}
}

// FromPath infers a format from the extension of path's final element.
// Matching is case-insensitive; an unknown or missing extension yields PNG.
func FromPath(path string) Format {
	switch strings.ToLower(extension(path)) {
	case "png":
		return PNG
	case "jpg", "jpeg":
		return JPEG
	case "gif":
		return GIF
	case "bmp":
		return BMP
	case "svg":
		return SVG
	default:
		return PNG
	}
}

// extension returns the extension without its dot. A leading dot on the
// file name does not start an extension, so ".png" has none.
func extension(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == base {
		return ""
	}
	return strings.TrimPrefix(ext, ".")
}
