package commands

import (
	"context"
	"log/slog"
	"time"

	"room-contention/internal/domain/stay"
	"room-contention/internal/domain/waitlist"
	"room-contention/internal/pkg/clock"
	"room-contention/internal/pkg/config"
	"room-contention/internal/pkg/errs"
	"room-contention/internal/usecase/shared"

	"github.com/google/uuid"
)

// NotificationScheduler promotes queued entries into NOTIFIED holds when a
// window frees up, either on an event or from the periodic sweep.
type NotificationScheduler struct {
	uow             shared.UnitOfWork
	guard           *RoomGuard
	dispatcher      shared.Dispatcher
	clock           clock.Clock
	grace           time.Duration
	candidates      int
	batchSize       int
	dispatchTimeout time.Duration
}

func NewNotificationScheduler(
	uow shared.UnitOfWork,
	guard *RoomGuard,
	dispatcher shared.Dispatcher,
	clk clock.Clock,
	wcfg config.WaitlistConfig,
	ncfg config.NotifyConfig,
) *NotificationScheduler {
	return &NotificationScheduler{
		uow:             uow,
		guard:           guard,
		dispatcher:      dispatcher,
		clock:           clk,
		grace:           wcfg.GracePeriod,
		candidates:      wcfg.CandidateWindow,
		batchSize:       wcfg.SweepBatchSize,
		dispatchTimeout: ncfg.Timeout,
	}
}

// OfferFreedWindow promotes at most one queued entry whose range fits inside freed.
func (s *NotificationScheduler) OfferFreedWindow(ctx context.Context, roomID uuid.UUID, freed stay.DateRange) (*waitlist.Entry, error) {
	res, err := s.ReleaseRoom(ctx, ReleaseRequest{RoomID: roomID, Stay: freed})
	if err != nil {
		return nil, err
	}
	return res.Promoted, nil
}

// ReleaseRoom handles a room-freed event raised by the order system after it
// cancelled or checked out the occupying order. Orders are only read here.
func (s *NotificationScheduler) ReleaseRoom(ctx context.Context, req ReleaseRequest) (*ReleaseResult, error) {
	var result *ReleaseResult
	err := s.guard.Do(ctx, req.RoomID, func(ctx context.Context) error {
		return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			exists, err := tx.Rooms().Exists(ctx, req.RoomID)
			if err != nil {
				return err
			}
			if !exists {
				return errs.E(errs.KindResourceNotFound, "room not found").WithRoom(req.RoomID)
			}

			promoted, err := s.offer(ctx, tx, req.RoomID, req.Stay, s.clock.Now())
			if err != nil {
				return err
			}
			result = &ReleaseResult{Promoted: promoted}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, result.Promoted)
	return result, nil
}

// Sweep promotes every queued entry whose range is currently free, room by
// room in queue order. Running it twice in a row changes nothing the second time.
func (s *NotificationScheduler) Sweep(ctx context.Context) (SweepResult, error) {
	var res SweepResult

	var rooms []uuid.UUID
	err := s.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		rooms, err = tx.WaitingList().RoomsWithWaiting(ctx, s.batchSize)
		return err
	})
	if err != nil {
		return res, err
	}

	for _, roomID := range rooms {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		var promoted []*waitlist.Entry
		err := s.guard.Do(ctx, roomID, func(ctx context.Context) error {
			return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
				var err error
				promoted, err = s.promoteAll(ctx, tx, roomID, s.clock.Now())
				return err
			})
		})
		if err != nil {
			res.Skipped++
			slog.Warn("promotion sweep skipped room",
				slog.String("room_id", roomID.String()),
				slog.String("error", err.Error()))
			continue
		}

		res.Rooms++
		res.Promoted += len(promoted)
		s.notify(ctx, promoted...)
	}

	if !res.IsZero() {
		slog.Info("promotion sweep finished",
			slog.Int("rooms", res.Rooms),
			slog.Int("promoted", res.Promoted),
			slog.Int("skipped", res.Skipped))
	}
	return res, nil
}

// offer requires the room guard to be held by the caller.
func (s *NotificationScheduler) offer(ctx context.Context, tx shared.Tx, roomID uuid.UUID, freed stay.DateRange, now time.Time) (*waitlist.Entry, error) {
	candidates, err := tx.WaitingList().NextInLine(ctx, roomID, s.candidates)
	if err != nil {
		return nil, err
	}

	for _, e := range candidates {
		if !freed.Contains(e.Stay()) {
			continue
		}
		free, err := isFree(ctx, tx, e, now)
		if err != nil {
			return nil, err
		}
		if !free {
			continue
		}
		ok, err := s.promote(ctx, tx, e, now)
		if err != nil {
			return nil, err
		}
		if ok {
			return e, nil
		}
	}
	return nil, nil
}

// promoteAll requires the room guard to be held by the caller. Each promotion
// is visible to the free check of the entries behind it.
func (s *NotificationScheduler) promoteAll(ctx context.Context, tx shared.Tx, roomID uuid.UUID, now time.Time) ([]*waitlist.Entry, error) {
	candidates, err := tx.WaitingList().NextInLine(ctx, roomID, s.candidates)
	if err != nil {
		return nil, err
	}

	var promoted []*waitlist.Entry
	for _, e := range candidates {
		free, err := isFree(ctx, tx, e, now)
		if err != nil {
			return nil, err
		}
		if !free {
			continue
		}
		ok, err := s.promote(ctx, tx, e, now)
		if err != nil {
			return nil, err
		}
		if ok {
			promoted = append(promoted, e)
		}
	}
	return promoted, nil
}

func (s *NotificationScheduler) promote(ctx context.Context, tx shared.Tx, e *waitlist.Entry, now time.Time) (bool, error) {
	if err := e.Promote(now, s.grace); err != nil {
		return false, nil
	}
	ok, err := tx.WaitingList().Promote(ctx, e)
	if err != nil {
		return false, err
	}
	if ok {
		slog.Info("waiting list entry promoted",
			slog.String("entry_id", e.ID().String()),
			slog.String("room_id", e.RoomID().String()),
			slog.Time("expires_at", *e.ExpiresAt()))
	}
	return ok, nil
}

// notify runs after commit and outside the room lock. A failed dispatch is
// logged and never undoes the promotion.
func (s *NotificationScheduler) notify(ctx context.Context, entries ...*waitlist.Entry) {
	for _, e := range entries {
		if e == nil {
			continue
		}
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.dispatchTimeout)
		err := s.dispatcher.Dispatch(dctx, e.UserID(), shared.NewSlotAvailableMessage(e))
		cancel()
		if err != nil {
			failure := errs.WrapKind(err, errs.KindNotificationDispatchFailure, "slot available notification not delivered").
				WithEntry(e.ID()).WithRoom(e.RoomID())
			slog.Error("notification dispatch failed",
				slog.String("kind", string(failure.Kind)),
				slog.String("user_id", e.UserID().String()),
				slog.String("error", failure.Error()))
		}
	}
}

// isFree reports whether nothing else occupies or holds e's range right now.
func isFree(ctx context.Context, tx shared.Tx, e *waitlist.Entry, now time.Time) (bool, error) {
	orders, err := tx.Orders().FindOverlapping(ctx, e.RoomID(), e.Stay())
	if err != nil {
		return false, err
	}
	if len(orders) > 0 {
		return false, nil
	}
	held, err := heldByOther(ctx, tx, e.RoomID(), e.UserID(), e.Stay(), now)
	if err != nil {
		return false, err
	}
	return !held, nil
}

func heldByOther(ctx context.Context, tx shared.Tx, roomID, userID uuid.UUID, r stay.DateRange, now time.Time) (bool, error) {
	holds, err := tx.WaitingList().FindHolds(ctx, roomID, r, now)
	if err != nil {
		return false, err
	}
	for _, h := range holds {
		if h.UserID() != userID {
			return true, nil
		}
	}
	return false, nil
}
