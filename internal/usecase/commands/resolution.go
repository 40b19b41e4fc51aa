package commands

import (
	"context"
	"log/slog"

	"room-contention/internal/domain/order"
	"room-contention/internal/domain/waitlist"
	"room-contention/internal/infra"
	"room-contention/internal/pkg/clock"
	"room-contention/internal/pkg/errs"
	"room-contention/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=resolution.go -destination=../../../tests/mock/commands/mock_resolution.go -package=commandsmock

type ResolutionCommands interface {
	DetectConflict(ctx context.Context, req DetectRequest) (*ConflictResult, error)
	JoinWaitingList(ctx context.Context, req JoinRequest) (*JoinResult, error)
	ConfirmWaitingListEntry(ctx context.Context, entryID uuid.UUID, req ConfirmRequest) (*ConfirmResult, error)
	CancelWaitingListEntry(ctx context.Context, entryID uuid.UUID) (*CancelResult, error)
	ReleaseRoom(ctx context.Context, req ReleaseRequest) (*ReleaseResult, error)
}

type resolutionServiceImpl struct {
	uow       shared.UnitOfWork
	guard     *RoomGuard
	detector  *ConflictDetector
	waitlist  *WaitingListManager
	scheduler *NotificationScheduler
	clock     clock.Clock
}

func NewResolutionService(
	uow shared.UnitOfWork,
	guard *RoomGuard,
	detector *ConflictDetector,
	waitlist *WaitingListManager,
	scheduler *NotificationScheduler,
	clk clock.Clock,
) ResolutionCommands {
	return &resolutionServiceImpl{
		uow:       uow,
		guard:     guard,
		detector:  detector,
		waitlist:  waitlist,
		scheduler: scheduler,
		clock:     clk,
	}
}

func (s *resolutionServiceImpl) DetectConflict(ctx context.Context, req DetectRequest) (*ConflictResult, error) {
	return s.detector.Detect(ctx, req)
}

func (s *resolutionServiceImpl) JoinWaitingList(ctx context.Context, req JoinRequest) (*JoinResult, error) {
	return s.waitlist.Join(ctx, req)
}

func (s *resolutionServiceImpl) CancelWaitingListEntry(ctx context.Context, entryID uuid.UUID) (*CancelResult, error) {
	return s.waitlist.Cancel(ctx, entryID)
}

func (s *resolutionServiceImpl) ReleaseRoom(ctx context.Context, req ReleaseRequest) (*ReleaseResult, error) {
	return s.scheduler.ReleaseRoom(ctx, req)
}

// ConfirmWaitingListEntry turns a live NOTIFIED hold into an order. Order
// creation, the entry transition and resolution of the requester's open
// conflicts commit together or not at all.
func (s *resolutionServiceImpl) ConfirmWaitingListEntry(ctx context.Context, entryID uuid.UUID, req ConfirmRequest) (*ConfirmResult, error) {
	roomID, err := s.waitlist.roomOf(ctx, entryID)
	if err != nil {
		return nil, err
	}

	var result *ConfirmResult
	err = s.guard.Do(ctx, roomID, func(ctx context.Context) error {
		return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			res, err := s.confirmInTx(ctx, tx, entryID, req)
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

	slog.Info("waiting list entry confirmed",
		slog.String("entry_id", entryID.String()),
		slog.String("order_id", result.OrderID.String()),
		slog.Int("resolved_conflicts", result.ResolvedConflicts))
	return result, nil
}

func (s *resolutionServiceImpl) confirmInTx(ctx context.Context, tx shared.Tx, entryID uuid.UUID, req ConfirmRequest) (*ConfirmResult, error) {
	e, err := tx.WaitingList().FindByID(ctx, entryID)
	if err != nil {
		return nil, notFound(err, "waiting list entry not found")
	}

	now := s.clock.Now()
	if e.Status() != waitlist.StatusNotified || e.IsOverdue(now) {
		return nil, confirmRejection(e, now)
	}

	overlapping, err := tx.Orders().FindOverlapping(ctx, e.RoomID(), e.Stay())
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, errs.E(errs.KindConcurrentConflict, "window is no longer free").
			WithRoom(e.RoomID()).WithEntry(e.ID())
	}

	guests := e.GuestCount()
	if req.GuestCount > 0 {
		guests = req.GuestCount
	}
	o, err := order.NewConfirmedOrder(e.RoomID(), e.UserID(), e.Stay(), guests, req.Note, now)
	if err != nil {
		return nil, validationErr(err)
	}
	if err := tx.Orders().Create(ctx, o); err != nil {
		if infra.IsKind(err, infra.KindExclusionViolated) {
			return nil, errs.WrapKind(err, errs.KindConcurrentConflict, "window was booked concurrently").
				WithRoom(e.RoomID()).WithEntry(e.ID())
		}
		return nil, err
	}

	if err := e.Confirm(o.ID(), now); err != nil {
		return nil, confirmRejection(e, now)
	}
	ok, err := tx.WaitingList().Confirm(ctx, e, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		cur, err := tx.WaitingList().FindByID(ctx, entryID)
		if err != nil {
			return nil, err
		}
		return nil, confirmRejection(cur, now)
	}

	resolved, err := tx.Conflicts().ResolveRelated(ctx, e.RoomID(), e.UserID(), e.Stay(), "confirmed from waiting list", now)
	if err != nil {
		return nil, err
	}

	return &ConfirmResult{Entry: e, OrderID: o.ID(), ResolvedConflicts: resolved}, nil
}
