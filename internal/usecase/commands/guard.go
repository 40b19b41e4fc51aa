package commands

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"room-contention/internal/pkg/config"
	"room-contention/internal/pkg/errs"
	"room-contention/internal/usecase/shared"

	"github.com/google/uuid"
)

// RoomGuard runs fn while holding the room's exclusion lock. Acquisition is
// bounded by the configured timeout and retried with exponential backoff.
type RoomGuard struct {
	locker  shared.RoomLocker
	timeout time.Duration
	retries int
	backoff time.Duration
}

func NewRoomGuard(locker shared.RoomLocker, cfg config.LockConfig) *RoomGuard {
	return &RoomGuard{
		locker:  locker,
		timeout: cfg.Timeout,
		retries: cfg.Retries,
		backoff: cfg.Backoff,
	}
}

func (g *RoomGuard) Do(ctx context.Context, roomID uuid.UUID, fn func(ctx context.Context) error) error {
	for attempt := 0; attempt <= g.retries; attempt++ {
		release, err := g.acquire(ctx, roomID)
		if err == nil {
			return runHeld(ctx, release, fn)
		}
		if !errors.Is(err, shared.ErrLockNotAcquired) {
			return errs.Wrap(err, "acquire room lock")
		}
		if ctx.Err() != nil {
			return errs.WrapKind(ctx.Err(), errs.KindLockTimeout, "room lock wait cancelled").WithRoom(roomID)
		}
		if attempt == g.retries {
			break
		}

		wait := g.backoffFor(attempt)
		slog.Debug("room lock busy, retrying",
			slog.String("room_id", roomID.String()),
			slog.Int("attempt", attempt+1),
			slog.Int64("wait_ms", wait.Milliseconds()))

		select {
		case <-ctx.Done():
			return errs.WrapKind(ctx.Err(), errs.KindLockTimeout, "room lock wait cancelled").WithRoom(roomID)
		case <-time.After(wait):
		}
	}

	slog.Warn("room lock not acquired",
		slog.String("room_id", roomID.String()),
		slog.Int("attempts", g.retries+1))
	return errs.E(errs.KindLockTimeout, "room is busy, retry later").WithRoom(roomID)
}

func (g *RoomGuard) acquire(ctx context.Context, roomID uuid.UUID) (func(), error) {
	actx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.locker.Acquire(actx, roomID)
}

func runHeld(ctx context.Context, release func(), fn func(ctx context.Context) error) error {
	defer release()
	return fn(ctx)
}

func (g *RoomGuard) backoffFor(attempt int) time.Duration {
	wait := time.Duration(1<<attempt) * g.backoff
	if jitter := int64(wait / 5); jitter > 0 {
		wait += time.Duration(rand.Int64N(jitter))
	}
	return wait
}
