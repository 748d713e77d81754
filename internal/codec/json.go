package codec

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse reads a snapshot from JSON
func (c *JSONCodec) Parse(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return &s, nil
}

// Export writes a snapshot as indented JSON
func (c *JSONCodec) Export(s *Snapshot, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(s); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
