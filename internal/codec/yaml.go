package codec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse reads a snapshot from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &s, nil
}

// Export writes a snapshot as YAML
func (c *YAMLCodec) Export(s *Snapshot, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(s); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
