package config

import (
	"context"
	"fmt"

	"github.com/claude/workoutapi/internal/storage"
)

// OpenPersister opens the configured storage backend. For postgres the
// migrations in migrationsPath are applied first.
func (c *Config) OpenPersister(ctx context.Context, migrationsPath string) (storage.Persister, error) {
	switch c.Storage.Backend {
	case BackendJSON:
		return storage.NewJSONFile(c.Storage.Path), nil
	case BackendSQLite:
		return storage.OpenSQLite(c.Storage.Path)
	case BackendBadger:
		return storage.OpenBadger(c.Storage.Path)
	case BackendPostgres:
		dsn := c.Database.DSN()
		if err := storage.RunMigrations(dsn, migrationsPath); err != nil {
			return nil, err
		}
		return storage.OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
}
