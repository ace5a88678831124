package storage

import (
	"context"
	"fmt"

	"github.com/angelmondragon/tablepos/pkg/config"
	"github.com/angelmondragon/tablepos/pkg/db"
	"github.com/angelmondragon/tablepos/pkg/logger"
	"github.com/angelmondragon/tablepos/pkg/migrate"
	"github.com/angelmondragon/tablepos/pkg/redis"
)

// CloseFunc releases the resources behind an opened Store.
type CloseFunc func() error

// Open builds the Store selected by the storage driver. SQL backends are
// migrated when auto-migrate is enabled.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (Store, CloseFunc, error) {
	noop := func() error { return nil }

	ctx = logg.WithField(ctx, "storage_driver", cfg.Storage.Driver)

	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		logg.Warn(ctx, "using in-memory storage; carts will not survive restarts")
		return NewMemory(), noop, nil

	case config.StorageDriverSQLite, config.StorageDriverPostgres:
		dbCfg := cfg.DB
		dbCfg.Driver = cfg.Storage.Driver
		client, err := db.New(ctx, dbCfg, logg)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sql storage: %w", err)
		}
		if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return NewSQL(client.DB()), client.Close, nil

	case config.StorageDriverRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, nil, fmt.Errorf("opening redis storage: %w", err)
		}
		return NewRedis(client), client.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
