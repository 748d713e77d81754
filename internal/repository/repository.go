package repository

import (
	"context"
	"errors"
	"time"

	"flowcanvas/internal/codec"
)

var (
	// ErrNotFound is returned when no snapshot has the requested name.
	ErrNotFound = errors.New("snapshot not found")
	// ErrInvalidName is returned for an empty snapshot name.
	ErrInvalidName = errors.New("invalid snapshot name")
)

// SaveResult tells what SaveSnapshot did.
type SaveResult string

const (
	SaveCreated   SaveResult = "created"
	SaveUpdated   SaveResult = "updated"
	SaveUnchanged SaveResult = "unchanged"
)

// SnapshotInfo describes a stored snapshot without its content.
type SnapshotInfo struct {
	Name      string      `json:"name"`
	Digest    string      `json:"digest"`
	Revision  int         `json:"revision"`
	Stats     codec.Stats `json:"stats"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Repository defines the interface for snapshot persistence
type Repository interface {
	SaveSnapshot(ctx context.Context, name string, s *codec.Snapshot) (SaveResult, error)
	LoadSnapshot(ctx context.Context, name string) (*codec.Snapshot, error)
	GetSnapshotInfo(ctx context.Context, name string) (*SnapshotInfo, error)
	ListSnapshots(ctx context.Context) ([]SnapshotInfo, error)
	DeleteSnapshot(ctx context.Context, name string) error

	// Close releases resources
	Close() error
}
