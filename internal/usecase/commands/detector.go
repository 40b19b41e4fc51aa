package commands

import (
	"context"
	"log/slog"
	"time"

	"room-contention/internal/domain/conflict"
	"room-contention/internal/domain/order"
	"room-contention/internal/domain/waitlist"
	"room-contention/internal/infra"
	"room-contention/internal/pkg/clock"
	"room-contention/internal/pkg/errs"
	"room-contention/internal/usecase/shared"

	"github.com/google/uuid"
)

// ConflictDetector decides whether a booking request may proceed and, when it
// may not, records why.
type ConflictDetector struct {
	uow   shared.UnitOfWork
	guard *RoomGuard
	clock clock.Clock
}

func NewConflictDetector(uow shared.UnitOfWork, guard *RoomGuard, clk clock.Clock) *ConflictDetector {
	return &ConflictDetector{uow: uow, guard: guard, clock: clk}
}

func (d *ConflictDetector) Detect(ctx context.Context, req DetectRequest) (*ConflictResult, error) {
	// Captured before waiting on the lock: an order that lands while we wait
	// is a concurrent request, not a pre-existing booking.
	attemptStart := d.clock.Now()

	if req.GuestCount <= 0 {
		return nil, validationErr(order.ErrInvalidGuestCount)
	}

	var result *ConflictResult
	err := d.guard.Do(ctx, req.RoomID, func(ctx context.Context) error {
		return d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			res, err := d.detectInTx(ctx, tx, req, attemptStart)
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

	if result.HasConflict() {
		slog.Info("booking conflict detected",
			slog.String("room_id", req.RoomID.String()),
			slog.String("user_id", req.UserID.String()),
			slog.String("type", string(result.Type)),
			slog.String("range", req.Stay.String()))
	}
	return result, nil
}

func (d *ConflictDetector) detectInTx(ctx context.Context, tx shared.Tx, req DetectRequest, attemptStart time.Time) (*ConflictResult, error) {
	exists, err := tx.Rooms().Exists(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.E(errs.KindResourceNotFound, "room not found").WithRoom(req.RoomID)
	}

	overlapping, err := tx.Orders().FindOverlapping(ctx, req.RoomID, req.Stay)
	if err != nil {
		return nil, err
	}

	now := d.clock.Now()
	kind, blocking := Classify(req.UserID, attemptStart, overlapping)
	if kind == conflict.TypeNone {
		held, err := heldByOther(ctx, tx, req.RoomID, req.UserID, req.Stay, now)
		if err != nil {
			return nil, err
		}
		if held {
			kind = conflict.TypeTimeOverlap
		}
	}

	result := &ConflictResult{Type: kind, DetectedAt: now}

	if kind.IsConflict() {
		var conflictingOrderID *uuid.UUID
		if blocking != nil {
			id := blocking.ID()
			conflictingOrderID = &id
		}
		c, err := conflict.NewBookingConflict(req.RoomID, req.UserID, req.Stay, conflictingOrderID, kind, now)
		if err != nil {
			return nil, err
		}
		if err := tx.Conflicts().Create(ctx, c); err != nil {
			return nil, err
		}
		id := c.ID()
		result.ConflictID = &id
		result.ConflictingOrderID = conflictingOrderID
		return result, nil
	}

	if req.DryRun {
		return result, nil
	}

	o, err := order.NewConfirmedOrder(req.RoomID, req.UserID, req.Stay, req.GuestCount, req.Note, now)
	if err != nil {
		return nil, validationErr(err)
	}
	if err := tx.Orders().Create(ctx, o); err != nil {
		if infra.IsKind(err, infra.KindExclusionViolated) {
			return nil, errs.WrapKind(err, errs.KindConcurrentConflict, "room was booked concurrently").WithRoom(req.RoomID)
		}
		return nil, err
	}
	id := o.ID()
	result.OrderID = &id

	resolved, err := tx.Conflicts().ResolveRelated(ctx, req.RoomID, req.UserID, req.Stay, "booked directly", now)
	if err != nil {
		return nil, err
	}
	result.ResolvedConflicts = resolved

	settled, err := settleOwnHold(ctx, tx, req, id, now)
	if err != nil {
		return nil, err
	}
	result.SettledHoldID = settled
	return result, nil
}

// settleOwnHold closes the requester's live hold overlapping the booking so it
// neither lingers until the reaper nor counts as expired. A hold for exactly
// the booked stay is confirmed with the new order; any other overlapping hold
// is cancelled.
func settleOwnHold(ctx context.Context, tx shared.Tx, req DetectRequest, orderID uuid.UUID, now time.Time) (*uuid.UUID, error) {
	holds, err := tx.WaitingList().FindHolds(ctx, req.RoomID, req.Stay, now)
	if err != nil {
		return nil, err
	}
	for _, h := range holds {
		if h.UserID() != req.UserID {
			continue
		}
		var ok bool
		if h.Stay().Equal(req.Stay) {
			if err := h.Confirm(orderID, now); err != nil {
				continue
			}
			ok, err = tx.WaitingList().Confirm(ctx, h, now)
		} else {
			h.Cancel(now)
			ok, err = tx.WaitingList().Cancel(ctx, h, waitlist.StatusNotified)
		}
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		slog.Info("own hold settled by direct booking",
			slog.String("entry_id", h.ID().String()),
			slog.String("status", h.Status().String()),
			slog.String("order_id", orderID.String()))
		id := h.ID()
		return &id, nil
	}
	return nil, nil
}

// Classify picks the conflict type for userID against the occupying orders
// overlapping its request, oldest first. An order of the same user wins; else
// the oldest foreign order decides between a plain overlap and one that was
// created after the request started.
func Classify(userID uuid.UUID, attemptStart time.Time, overlapping []*order.Order) (conflict.Type, *order.Order) {
	var foreign *order.Order
	for _, o := range overlapping {
		if !o.Occupies() {
			continue
		}
		if o.UserID() == userID {
			return conflict.TypeDoubleBooking, o
		}
		if foreign == nil {
			foreign = o
		}
	}
	if foreign == nil {
		return conflict.TypeNone, nil
	}
	if foreign.CreatedAt().After(attemptStart) {
		return conflict.TypeConcurrentRequest, foreign
	}
	return conflict.TypeTimeOverlap, foreign
}
