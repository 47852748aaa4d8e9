package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/egannguyen/go-car-showroom/internal/config"
	"github.com/egannguyen/go-car-showroom/internal/repository"
	"github.com/egannguyen/go-car-showroom/internal/repository/memory"
	"github.com/egannguyen/go-car-showroom/internal/repository/postgres"
	"github.com/egannguyen/go-car-showroom/internal/repository/redis"
	"github.com/egannguyen/go-car-showroom/internal/repository/sqlite"
)

// openPreferenceStore connects the configured preference backend.
func openPreferenceStore(ctx context.Context, cfg config.PreferenceConfig) (repository.PreferenceStore, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.NewPreferenceStore(), nil
	case config.BackendSQLite:
		store, err := sqlite.NewPreferenceStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		slog.Info("Preferences stored in SQLite", "path", store.Path())
		return store, nil
	case config.BackendRedis:
		return redis.NewPreferenceStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
	case config.BackendPostgres:
		db, err := postgres.InitDB(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return postgres.NewPreferenceStore(db), nil
	}
	return nil, fmt.Errorf("unknown preferences backend %q", cfg.Backend)
}
