// Package loader reads and writes diagram files. The format follows the file
// extension.
package loader

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"flowcanvas/internal/codec"
)

// LoadFile reads a snapshot from a .json, .yaml, .yml or .toml file
func LoadFile(path string) (*codec.Snapshot, error) {
	c, err := codec.ForPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	s, err := c.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadInto reads path and restores it into b, replacing what b holds
func LoadInto(path string, b codec.Builder) (*codec.Snapshot, error) {
	s, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := codec.Restore(s, b); err != nil {
		return nil, fmt.Errorf("failed to restore %s: %w", path, err)
	}
	return s, nil
}

// SaveFile writes s to path in the format of its extension. The file is
// replaced atomically so a watcher never sees it half written.
func SaveFile(path string, s *codec.Snapshot) error {
	c, err := codec.ForPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := c.Export(s, &buf); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}
