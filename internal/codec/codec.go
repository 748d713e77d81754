// Package codec converts diagrams to and from portable snapshots and
// encodes snapshots as JSON, YAML or TOML.
package codec

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for formats no codec handles.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrInvalidSnapshot is wrapped by every snapshot validation failure.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// Importer interface for reading snapshots from various formats
type Importer interface {
	Parse(r io.Reader) (*Snapshot, error)
	Format() string
}

// Exporter interface for writing snapshots to various formats
type Exporter interface {
	Export(s *Snapshot, w io.Writer) error
	Format() string
}

// Codec reads and writes one format.
type Codec interface {
	Importer
	Exporter
}

// Formats lists the supported format names.
func Formats() []string {
	return []string{"json", "yaml", "toml"}
}

// ForFormat returns the codec for a format name. "yml" is accepted for YAML.
func ForFormat(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	case "toml":
		return NewTOMLCodec(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// ForPath picks a codec from the file extension.
func ForPath(path string) (Codec, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil, fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return ForFormat(ext)
}
