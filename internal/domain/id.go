package domain

import "github.com/google/uuid"

// ID identifies an entity for its whole lifetime.
type ID string

// NewID returns a random UUID based identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

// String implements fmt.Stringer.
func (id ID) String() string { return string(id) }

// IsZero reports whether the ID is empty.
func (id ID) IsZero() bool { return id == "" }
