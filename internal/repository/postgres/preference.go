package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/egannguyen/go-car-showroom/internal/entity"
	"github.com/egannguyen/go-car-showroom/internal/repository"
)

type preferenceStore struct {
	db *sql.DB
}

// NewPreferenceStore creates a PreferenceStore backed by Postgres. The store
// owns db and closes it on Close.
func NewPreferenceStore(db *sql.DB) repository.PreferenceStore {
	return &preferenceStore{db: db}
}

func (s *preferenceStore) Load(ctx context.Context) (entity.Preference, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM preferences WHERE key IN ($1, $2)",
		repository.KeyRole, repository.KeyRoleSet,
	)
	if err != nil {
		return entity.Preference{}, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer rows.Close()

	kv := make(map[string]string, 2)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return entity.Preference{}, fmt.Errorf("failed to scan preference: %w", err)
		}
		kv[k] = v
	}
	if err := rows.Err(); err != nil {
		return entity.Preference{}, fmt.Errorf("error iterating preference rows: %w", err)
	}
	return repository.DecodePreference(kv), nil
}

func (s *preferenceStore) Save(ctx context.Context, p entity.Preference) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for k, v := range repository.EncodePreference(p) {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO preferences (key, value, updated_at) VALUES ($1, $2, $3) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at",
			k, v, now,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert preference %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *preferenceStore) Close() error {
	return s.db.Close()
}
