package sqlite

import (
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"

	"flowcanvas/internal/codec"
	"flowcanvas/internal/repository"
)

// digest returns the hex BLAKE2b-256 sum of an encoded snapshot
func digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ============================================================================
// Time Conversion Helpers
// ============================================================================

// Timestamps are stored as unix milliseconds.

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// ============================================================================
// Snapshot Row Scanner
// ============================================================================

// infoColumns lists the columns scanned by infoRow, in scan order
const infoColumns = `name, digest, revision, layers, groups_count, nodes, ports, links, created_at, updated_at`

// infoRow holds the metadata columns of a snapshot row
type infoRow struct {
	Name      string
	Digest    string
	Revision  int
	Layers    int
	Groups    int
	Nodes     int
	Ports     int
	Links     int
	CreatedAt int64
	UpdatedAt int64
}

// scanArgs returns pointers in infoColumns order
func (r *infoRow) scanArgs() []any {
	return []any{
		&r.Name, &r.Digest, &r.Revision,
		&r.Layers, &r.Groups, &r.Nodes, &r.Ports, &r.Links,
		&r.CreatedAt, &r.UpdatedAt,
	}
}

func (r *infoRow) toInfo() repository.SnapshotInfo {
	return repository.SnapshotInfo{
		Name:     r.Name,
		Digest:   r.Digest,
		Revision: r.Revision,
		Stats: codec.Stats{
			Layers: r.Layers,
			Groups: r.Groups,
			Nodes:  r.Nodes,
			Ports:  r.Ports,
			Links:  r.Links,
		},
		CreatedAt: fromMillis(r.CreatedAt),
		UpdatedAt: fromMillis(r.UpdatedAt),
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInfo(s scanner) (repository.SnapshotInfo, error) {
	var row infoRow
	if err := s.Scan(row.scanArgs()...); err != nil {
		return repository.SnapshotInfo{}, err
	}
	return row.toInfo(), nil
}
