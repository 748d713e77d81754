package codec

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// TOMLCodec handles TOML import/export
type TOMLCodec struct{}

// NewTOMLCodec creates a new TOML codec
func NewTOMLCodec() *TOMLCodec {
	return &TOMLCodec{}
}

// Format returns the codec format identifier
func (c *TOMLCodec) Format() string {
	return "toml"
}

// Parse reads a snapshot from TOML. Keys the snapshot does not know are
// rejected.
func (c *TOMLCodec) Parse(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("failed to parse TOML: unknown key %s", undecoded[0])
	}

	return &s, nil
}

// Export writes a snapshot as TOML
func (c *TOMLCodec) Export(s *Snapshot, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("failed to encode TOML: %w", err)
	}

	return nil
}
