package static

import (
	"context"
	"fmt"

	"github.com/corriander/eve-telemetrics/internal/config"
	"github.com/corriander/eve-telemetrics/internal/database"
)

// Open connects to the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StaticConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := database.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return NewPGStore(pool), nil
	case config.DriverSQLite:
		db, err := database.OpenSQLite(cfg.SQLite.Path, true)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(db), nil
	default:
		return nil, fmt.Errorf("unknown static driver %q", cfg.Driver)
	}
}
