// Package sqlite keeps the role preference in a local SQLite file, the
// server-side stand-in for browser local storage.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/egannguyen/go-car-showroom/internal/entity"
	"github.com/egannguyen/go-car-showroom/internal/repository"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const defaultPath = "showroom.db"

// PreferenceStore persists preference keys in a single key/value table.
type PreferenceStore struct {
	db   *sql.DB
	path string
}

var _ repository.PreferenceStore = (*PreferenceStore)(nil)

// NewPreferenceStore opens (or creates) the SQLite file at path.
func NewPreferenceStore(path string) (*PreferenceStore, error) {
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create preferences table: %w", err)
	}
	return &PreferenceStore{db: db, path: path}, nil
}

func (s *PreferenceStore) Load(ctx context.Context) (entity.Preference, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM preferences`)
	if err != nil {
		return entity.Preference{}, fmt.Errorf("select preferences: %w", err)
	}
	defer func() { _ = rows.Close() }()

	kv := make(map[string]string, 2)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return entity.Preference{}, fmt.Errorf("scan: %w", err)
		}
		kv[k] = v
	}
	if err := rows.Err(); err != nil {
		return entity.Preference{}, fmt.Errorf("iterate preferences: %w", err)
	}
	return repository.DecodePreference(kv), nil
}

func (s *PreferenceStore) Save(ctx context.Context, p entity.Preference) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for k, v := range repository.EncodePreference(p) {
		if _, err := tx.ExecContext(ctx, `INSERT INTO preferences(key,value) VALUES(?,?) ON CONFLICT(key) DO UPDATE SET value=excluded.value`, k, v); err != nil {
			return fmt.Errorf("upsert %s: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *PreferenceStore) Close() error { return s.db.Close() }

// Path returns the configured database path.
func (s *PreferenceStore) Path() string { return s.path }
