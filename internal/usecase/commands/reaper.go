package commands

import (
	"context"
	"log/slog"

	"room-contention/internal/domain/stay"
	"room-contention/internal/domain/waitlist"
	"room-contention/internal/pkg/clock"
	"room-contention/internal/pkg/config"
	"room-contention/internal/usecase/shared"
)

// ExpiryReaper retires NOTIFIED holds whose grace period has passed and hands
// the freed window to the next entry in line. It also cancels WAITING entries
// whose check-in day is already behind us; WAITING never becomes EXPIRED.
type ExpiryReaper struct {
	uow       shared.UnitOfWork
	guard     *RoomGuard
	scheduler *NotificationScheduler
	clock     clock.Clock
	batchSize int
}

func NewExpiryReaper(uow shared.UnitOfWork, guard *RoomGuard, scheduler *NotificationScheduler, clk clock.Clock, cfg config.WaitlistConfig) *ExpiryReaper {
	return &ExpiryReaper{
		uow:       uow,
		guard:     guard,
		scheduler: scheduler,
		clock:     clk,
		batchSize: cfg.SweepBatchSize,
	}
}

func (r *ExpiryReaper) Sweep(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	now := r.clock.Now()

	var overdue, stale []*waitlist.Entry
	err := r.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		if overdue, err = tx.WaitingList().FindExpiredNotified(ctx, now, r.batchSize); err != nil {
			return err
		}
		stale, err = tx.WaitingList().FindStaleWaiting(ctx, stay.Day(now), r.batchSize)
		return err
	})
	if err != nil {
		return res, err
	}

	for _, e := range overdue {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		r.expire(ctx, e, &res)
	}
	for _, e := range stale {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		r.cancelStale(ctx, e, &res)
	}

	if !res.IsZero() {
		slog.Info("expiry sweep finished",
			slog.Int("expired", res.Expired),
			slog.Int("promoted", res.Promoted),
			slog.Int("cancelled", res.Cancelled),
			slog.Int("skipped", res.Skipped))
	}
	return res, nil
}

// expire applies the conditional NOTIFIED → EXPIRED write and, when it wins,
// offers the freed range within the same lock scope. A concurrent confirm that
// got there first simply makes the write miss.
func (r *ExpiryReaper) expire(ctx context.Context, e *waitlist.Entry, res *SweepResult) {
	var promoted *waitlist.Entry
	var expired bool
	err := r.guard.Do(ctx, e.RoomID(), func(ctx context.Context) error {
		return r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			now := r.clock.Now()
			promoted, expired = nil, false
			cur, err := tx.WaitingList().FindByID(ctx, e.ID())
			if err != nil {
				return err
			}
			if err := cur.Expire(now); err != nil {
				return nil
			}
			ok, err := tx.WaitingList().Expire(ctx, cur, now)
			if err != nil || !ok {
				return err
			}
			expired = true
			promoted, err = r.scheduler.offer(ctx, tx, cur.RoomID(), cur.Stay(), now)
			return err
		})
	})
	if err != nil {
		res.Skipped++
		slog.Warn("expiry skipped entry",
			slog.String("entry_id", e.ID().String()),
			slog.String("error", err.Error()))
		return
	}
	if !expired {
		return
	}

	res.Expired++
	slog.Info("waiting list entry expired",
		slog.String("entry_id", e.ID().String()),
		slog.String("room_id", e.RoomID().String()))
	if promoted != nil {
		res.Promoted++
		r.scheduler.notify(ctx, promoted)
	}
}

func (r *ExpiryReaper) cancelStale(ctx context.Context, e *waitlist.Entry, res *SweepResult) {
	var cancelled bool
	err := r.guard.Do(ctx, e.RoomID(), func(ctx context.Context) error {
		return r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			cancelled = false
			cur, err := tx.WaitingList().FindByID(ctx, e.ID())
			if err != nil {
				return err
			}
			if cur.Status() != waitlist.StatusWaiting || !cur.Cancel(r.clock.Now()) {
				return nil
			}
			ok, err := tx.WaitingList().Cancel(ctx, cur, waitlist.StatusWaiting)
			cancelled = ok
			return err
		})
	})
	if err != nil {
		res.Skipped++
		slog.Warn("stale cancellation skipped entry",
			slog.String("entry_id", e.ID().String()),
			slog.String("error", err.Error()))
		return
	}
	if cancelled {
		res.Cancelled++
	}
}
