package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"

	"room-contention/internal/infra/lock"
	"room-contention/internal/pkg/config"
	"room-contention/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var LockModule = fx.Module("lock",
	fx.Provide(
		NewRoomLocker,
	),
)

func NewRoomLocker(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.RoomLocker, error) {
	switch cfg.Lock.Driver {
	case "local":
		return lock.NewLocalRegistry(), nil
	case "redis":
		rdb := NewRedisClient(cfg.Redis)
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := rdb.Ping(ctx).Err(); err != nil {
					return fmt.Errorf("failed to ping redis: %w", err)
				}
				return nil
			},
			OnStop: func(_ context.Context) error {
				return rdb.Close()
			},
		})
		return lock.NewRedisRegistry(rdb, cfg.Lock.Prefix, cfg.Lock.TTL, logger), nil
	default:
		return nil, fmt.Errorf("unknown LOCK_DRIVER %q", cfg.Lock.Driver)
	}
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return redis.NewClient(opts)
}
