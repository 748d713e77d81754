// Package sqlite stores diagram snapshots in SQLite.
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"flowcanvas/internal/codec"
	"flowcanvas/internal/repository"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db    *sql.DB
	codec codec.Codec
	now   func() time.Time
}

var _ repository.Repository = (*Repository)(nil)

// New creates a new SQLite repository. ":memory:" opens a private in-memory
// database.
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn = "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection would get its own empty database otherwise.
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db, codec: codec.NewJSONCodec(), now: time.Now}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		name TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		digest TEXT NOT NULL,
		revision INTEGER NOT NULL DEFAULT 1,
		layers INTEGER NOT NULL DEFAULT 0,
		groups_count INTEGER NOT NULL DEFAULT 0,
		nodes INTEGER NOT NULL DEFAULT 0,
		ports INTEGER NOT NULL DEFAULT 0,
		links INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_updated ON snapshots(updated_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

// SaveSnapshot stores s under name. Content identical to the stored one is
// not written again.
func (r *Repository) SaveSnapshot(ctx context.Context, name string, s *codec.Snapshot) (repository.SaveResult, error) {
	if name == "" {
		return "", repository.ErrInvalidName
	}
	var buf bytes.Buffer
	if err := r.codec.Export(s, &buf); err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	data := buf.Bytes()
	sum := digest(data)
	st := s.Stats()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx, `SELECT digest FROM snapshots WHERE name = ?`, name).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return "", fmt.Errorf("failed to query snapshot: %w", err)
	case existing == sum:
		return repository.SaveUnchanged, nil
	}

	now := toMillis(r.now())
	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (name, data, digest, layers, groups_count, nodes, ports, links, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			data = excluded.data,
			digest = excluded.digest,
			revision = snapshots.revision + 1,
			layers = excluded.layers,
			groups_count = excluded.groups_count,
			nodes = excluded.nodes,
			ports = excluded.ports,
			links = excluded.links,
			updated_at = excluded.updated_at
	`, name, data, sum, st.Layers, st.Groups, st.Nodes, st.Ports, st.Links, now, now)
	if err != nil {
		return "", fmt.Errorf("failed to save snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit snapshot: %w", err)
	}
	if existing == "" {
		return repository.SaveCreated, nil
	}
	return repository.SaveUpdated, nil
}

// LoadSnapshot decodes the snapshot stored under name
func (r *Repository) LoadSnapshot(ctx context.Context, name string) (*codec.Snapshot, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", repository.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	s, err := r.codec.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", name, err)
	}
	return s, nil
}

// GetSnapshotInfo returns the metadata of one snapshot
func (r *Repository) GetSnapshotInfo(ctx context.Context, name string) (*repository.SnapshotInfo, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+infoColumns+` FROM snapshots WHERE name = ?`, name)
	info, err := scanInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", repository.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}
	return &info, nil
}

// ListSnapshots returns every snapshot, most recently updated first
func (r *Repository) ListSnapshots(ctx context.Context) ([]repository.SnapshotInfo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+infoColumns+` FROM snapshots ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var infos []repository.SnapshotInfo
	for rows.Next() {
		info, err := scanInfo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return infos, nil
}

// DeleteSnapshot removes the snapshot stored under name
func (r *Repository) DeleteSnapshot(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", repository.ErrNotFound, name)
	}
	return nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
