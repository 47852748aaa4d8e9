package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/egannguyen/go-car-showroom/internal/entity"
	"github.com/egannguyen/go-car-showroom/internal/repository"
)

type preferenceStore struct {
	client *goredis.Client
	prefix string
}

// NewPreferenceStore creates a PreferenceStore backed by Redis. Keys are
// stored as "<prefix>role" and "<prefix>roleSet".
func NewPreferenceStore(ctx context.Context, addr, password string, db int, prefix string) (repository.PreferenceStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &preferenceStore{client: client, prefix: prefix}, nil
}

func (s *preferenceStore) Load(ctx context.Context) (entity.Preference, error) {
	kv := make(map[string]string, 2)
	for _, k := range []string{repository.KeyRole, repository.KeyRoleSet} {
		v, err := s.client.Get(ctx, s.prefix+k).Result()
		if errors.Is(err, goredis.Nil) {
			continue
		}
		if err != nil {
			return entity.Preference{}, fmt.Errorf("failed to get %s: %w", k, err)
		}
		kv[k] = v
	}
	return repository.DecodePreference(kv), nil
}

func (s *preferenceStore) Save(ctx context.Context, p entity.Preference) error {
	pipe := s.client.TxPipeline()
	for k, v := range repository.EncodePreference(p) {
		pipe.Set(ctx, s.prefix+k, v, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save preference: %w", err)
	}
	return nil
}

func (s *preferenceStore) Close() error {
	return s.client.Close()
}
