// Package store provides the shared dataset store that planning modules
// persist their outputs to. Dependency policies consult it when a dataset
// is not produced inside the current workflow run.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/utils"
)

// ErrDatasetNotFound is returned when a named dataset is absent.
var ErrDatasetNotFound = errors.New("dataset not found")

// Dataset is one named record in the store.
type Dataset struct {
	Name      string
	Payload   []byte
	Meta      string
	UpdatedAt time.Time
}

// DatasetInfo describes a stored dataset without its payload.
type DatasetInfo struct {
	Name      string
	Bytes     int64
	UpdatedAt time.Time
}

// Store is a SQLite-backed dataset store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the store at the given path and initializes
// the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store path cannot be empty")
	}

	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", path, err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			utils.LogWarning("Failed to close store after schema error: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize store schema: %w", err)
	}

	return s, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS datasets (
			name TEXT PRIMARY KEY,
			payload BLOB,
			meta TEXT,
			updated_at INTEGER NOT NULL
		);`,
	)
	return err
}

// Put writes a dataset, replacing any previous record under the same name.
func (s *Store) Put(name string, payload []byte, meta string) error {
	if name == "" {
		return fmt.Errorf("dataset name cannot be empty")
	}

	_, err := s.db.Exec(`
		INSERT INTO datasets (name, payload, meta, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			payload = excluded.payload,
			meta = excluded.meta,
			updated_at = excluded.updated_at`,
		name,
		payload,
		meta,
		s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to store dataset %s: %w", name, err)
	}

	return nil
}

// Get reads a dataset by name. Returns ErrDatasetNotFound when absent.
func (s *Store) Get(name string) (Dataset, error) {
	row := s.db.QueryRow(`
		SELECT name, payload, meta, updated_at
		FROM datasets
		WHERE name = ?`,
		name,
	)

	var ds Dataset
	var updatedAt int64
	var meta sql.NullString

	if err := row.Scan(&ds.Name, &ds.Payload, &meta, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Dataset{}, ErrDatasetNotFound
		}
		return Dataset{}, fmt.Errorf("failed to read dataset %s: %w", name, err)
	}

	ds.Meta = meta.String
	ds.UpdatedAt = time.Unix(updatedAt, 0)

	return ds, nil
}

// HasDataset reports whether a dataset exists and when it was last written.
// Dependency policies use this to decide store-sourced resolution and
// staleness.
func (s *Store) HasDataset(name string) (bool, time.Time, error) {
	row := s.db.QueryRow(`SELECT updated_at FROM datasets WHERE name = ?`, name)

	var updatedAt int64
	if err := row.Scan(&updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, time.Time{}, nil
		}
		return false, time.Time{}, fmt.Errorf("failed to probe dataset %s: %w", name, err)
	}

	return true, time.Unix(updatedAt, 0), nil
}

// List enumerates stored datasets ordered by name.
func (s *Store) List() ([]DatasetInfo, error) {
	rows, err := s.db.Query(`
		SELECT name, length(payload), updated_at
		FROM datasets
		ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			utils.LogWarning("Failed to close dataset rows: %v", err)
		}
	}()

	var infos []DatasetInfo
	for rows.Next() {
		var info DatasetInfo
		var size sql.NullInt64
		var updatedAt int64

		if err := rows.Scan(&info.Name, &size, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dataset row: %w", err)
		}

		info.Bytes = size.Int64
		info.UpdatedAt = time.Unix(updatedAt, 0)
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate datasets: %w", err)
	}

	return infos, nil
}

// PruneOlderThan deletes datasets last written before the cutoff and
// returns how many were removed.
func (s *Store) PruneOlderThan(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM datasets WHERE updated_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune datasets: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned datasets: %w", err)
	}

	return removed, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
