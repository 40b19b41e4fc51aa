package commands

import (
	"context"
	"log/slog"
	"time"

	"room-contention/internal/domain/conflict"
	"room-contention/internal/domain/waitlist"
	"room-contention/internal/infra"
	"room-contention/internal/pkg/clock"
	"room-contention/internal/pkg/errs"
	"room-contention/internal/usecase/shared"

	"github.com/google/uuid"
)

type WaitingListManager struct {
	uow       shared.UnitOfWork
	guard     *RoomGuard
	tiers     shared.TierLookup
	scheduler *NotificationScheduler
	clock     clock.Clock
}

func NewWaitingListManager(
	uow shared.UnitOfWork,
	guard *RoomGuard,
	tiers shared.TierLookup,
	scheduler *NotificationScheduler,
	clk clock.Clock,
) *WaitingListManager {
	return &WaitingListManager{
		uow:       uow,
		guard:     guard,
		tiers:     tiers,
		scheduler: scheduler,
		clock:     clk,
	}
}

func (m *WaitingListManager) Join(ctx context.Context, req JoinRequest) (*JoinResult, error) {
	if req.GuestCount <= 0 {
		return nil, validationErr(waitlist.ErrInvalidGuestCount)
	}

	tier, err := m.tierOf(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	var result *JoinResult
	err = m.guard.Do(ctx, req.RoomID, func(ctx context.Context) error {
		return m.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			res, err := m.joinInTx(ctx, tx, req, tier)
			if err != nil {
				return err
			}
			result = res
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	slog.Info("waiting list joined",
		slog.String("entry_id", result.Entry.ID().String()),
		slog.String("room_id", req.RoomID.String()),
		slog.Int("priority", result.Entry.Priority()),
		slog.Int("position", result.Position))
	return result, nil
}

func (m *WaitingListManager) joinInTx(ctx context.Context, tx shared.Tx, req JoinRequest, tier waitlist.Tier) (*JoinResult, error) {
	exists, err := tx.Rooms().Exists(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.E(errs.KindResourceNotFound, "room not found").WithRoom(req.RoomID)
	}

	active, err := tx.WaitingList().FindActive(ctx, req.RoomID, req.UserID)
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return nil, err
	}
	if active != nil {
		return nil, duplicateEntry(req.RoomID, active.ID(), nil)
	}

	now := m.clock.Now()
	entry, err := waitlist.NewEntry(req.RoomID, req.UserID, req.Stay, req.GuestCount, tier, req.ConflictID, now)
	if err != nil {
		return nil, validationErr(err)
	}
	if err := tx.WaitingList().Create(ctx, entry); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, duplicateEntry(req.RoomID, uuid.Nil, err)
		}
		return nil, err
	}

	if req.ConflictID != nil {
		if err := m.linkConflict(ctx, tx, *req.ConflictID, req, now); err != nil {
			return nil, err
		}
	}

	ahead, err := tx.WaitingList().CountAhead(ctx, entry)
	if err != nil {
		return nil, err
	}
	return &JoinResult{Entry: entry, Position: ahead + 1}, nil
}

func (m *WaitingListManager) linkConflict(ctx context.Context, tx shared.Tx, conflictID uuid.UUID, req JoinRequest, now time.Time) error {
	c, err := tx.Conflicts().FindByID(ctx, conflictID)
	if err != nil {
		return notFound(err, "conflict not found")
	}
	if c.RoomID() != req.RoomID || c.UserID() != req.UserID {
		return errs.E(errs.KindValidation, "conflict belongs to another room or user").WithRoom(req.RoomID)
	}
	from := c.Status()
	if err := c.MoveTo(conflict.StatusWaitingList, "requester joined waiting list", now); err != nil {
		return errs.WrapKind(err, errs.KindInvalidTransition, "conflict is already "+string(from))
	}
	ok, err := tx.Conflicts().UpdateStatus(ctx, c, from)
	if err != nil {
		return err
	}
	if !ok {
		return errs.E(errs.KindInvalidTransition, "conflict changed concurrently")
	}
	return nil
}

// Position is 1-based among WAITING entries of the room; 0 for any other status.
func (m *WaitingListManager) Position(ctx context.Context, entryID uuid.UUID) (int, error) {
	var pos int
	err := m.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		e, err := tx.WaitingList().FindByID(ctx, entryID)
		if err != nil {
			return notFound(err, "waiting list entry not found")
		}
		if e.Status() != waitlist.StatusWaiting {
			pos = 0
			return nil
		}
		ahead, err := tx.WaitingList().CountAhead(ctx, e)
		if err != nil {
			return err
		}
		pos = ahead + 1
		return nil
	})
	return pos, err
}

func (m *WaitingListManager) NextInLine(ctx context.Context, roomID uuid.UUID, limit int) ([]*waitlist.Entry, error) {
	var entries []*waitlist.Entry
	err := m.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		entries, err = tx.WaitingList().NextInLine(ctx, roomID, limit)
		return err
	})
	return entries, err
}

// Cancel is idempotent. Cancelling a NOTIFIED entry releases its hold and the
// window is offered to the next entry under the same lock.
func (m *WaitingListManager) Cancel(ctx context.Context, entryID uuid.UUID) (*CancelResult, error) {
	roomID, err := m.roomOf(ctx, entryID)
	if err != nil {
		return nil, err
	}

	var result *CancelResult
	err = m.guard.Do(ctx, roomID, func(ctx context.Context) error {
		return m.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			e, err := tx.WaitingList().FindByID(ctx, entryID)
			if err != nil {
				return notFound(err, "waiting list entry not found")
			}

			res := &CancelResult{Entry: e}
			result = res
			wasNotified := e.Status() == waitlist.StatusNotified
			now := m.clock.Now()
			if !e.Cancel(now) {
				return nil
			}
			ok, err := tx.WaitingList().Cancel(ctx, e, waitlist.StatusWaiting, waitlist.StatusNotified)
			if err != nil {
				return err
			}
			if !ok {
				// Lost to a concurrent transition; report the stored state.
				cur, err := tx.WaitingList().FindByID(ctx, entryID)
				if err != nil {
					return err
				}
				res.Entry = cur
				return nil
			}
			res.Changed = true

			if wasNotified {
				promoted, err := m.scheduler.offer(ctx, tx, e.RoomID(), e.Stay(), now)
				if err != nil {
					return err
				}
				res.Promoted = promoted
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if result.Changed {
		slog.Info("waiting list entry cancelled",
			slog.String("entry_id", entryID.String()),
			slog.String("room_id", roomID.String()))
	}
	m.scheduler.notify(ctx, result.Promoted)
	return result, nil
}

func (m *WaitingListManager) roomOf(ctx context.Context, entryID uuid.UUID) (uuid.UUID, error) {
	var roomID uuid.UUID
	err := m.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		e, err := tx.WaitingList().FindByID(ctx, entryID)
		if err != nil {
			return notFound(err, "waiting list entry not found")
		}
		roomID = e.RoomID()
		return nil
	})
	return roomID, err
}

// tierOf treats users unknown to the tier source as STANDARD.
func (m *WaitingListManager) tierOf(ctx context.Context, userID uuid.UUID) (waitlist.Tier, error) {
	tier, err := m.tiers.TierOf(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return waitlist.TierStandard, nil
		}
		return "", errs.Wrap(err, "tier lookup")
	}
	return tier, nil
}

func duplicateEntry(roomID, entryID uuid.UUID, cause error) error {
	var e *errs.Error
	if cause != nil {
		e = errs.WrapKind(cause, errs.KindDuplicateWaitingListEntry, "user already has an active waiting list entry for this room")
	} else {
		e = errs.E(errs.KindDuplicateWaitingListEntry, "user already has an active waiting list entry for this room")
	}
	return e.WithRoom(roomID).WithEntry(entryID)
}
