package bootstrap

import (
	"context"
	"log/slog"

	"room-contention/internal/infra/db"
	"room-contention/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// ConfigModule loads and validates the environment once per process.
var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
)

// NewDB opens the pool used by the postgres store driver and closes it on stop.
func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}
	slog.Info("database pool ready", "host", cfg.DB.Host, "db", cfg.DB.DBName, "max_conns", cfg.DB.MaxConns)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})
	return pool, nil
}
