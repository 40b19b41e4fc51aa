package lock

import (
	"context"
	"log/slog"
	"time"

	"room-contention/internal/pkg/errs"
	"room-contention/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultPollInterval = 25 * time.Millisecond
	releaseTimeout      = 2 * time.Second
)

var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// RedisRegistry serializes a room across service instances with SET NX PX.
// The TTL bounds how long a crashed holder can keep the room locked.
type RedisRegistry struct {
	rdb          redis.UniversalClient
	prefix       string
	ttl          time.Duration
	pollInterval time.Duration
	logger       *slog.Logger
}

func NewRedisRegistry(rdb redis.UniversalClient, prefix string, ttl time.Duration, logger *slog.Logger) *RedisRegistry {
	return &RedisRegistry{
		rdb:          rdb,
		prefix:       prefix,
		ttl:          ttl,
		pollInterval: defaultPollInterval,
		logger:       logger,
	}
}

func (r *RedisRegistry) key(roomID uuid.UUID) string {
	return r.prefix + roomID.String()
}

func (r *RedisRegistry) Acquire(ctx context.Context, roomID uuid.UUID) (func(), error) {
	key := r.key(roomID)
	token := uuid.NewString()

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		ok, err := r.rdb.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, shared.ErrLockNotAcquired
			}
			return nil, errs.Wrap(err, "redis lock acquire")
		}
		if ok {
			return r.releaser(key, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, shared.ErrLockNotAcquired
		case <-ticker.C:
		}
	}
}

func (r *RedisRegistry) releaser(key, token string) func() {
	released := false
	return func() {
		if released {
			return
		}
		released = true
		// Release must succeed even when the request context is already cancelled.
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		if err := releaseScript.Run(ctx, r.rdb, []string{key}, token).Err(); err != nil {
			r.logger.Warn("failed to release room lock", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
}
