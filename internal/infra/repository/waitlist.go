package repository

import (
	"context"
	"time"

	"room-contention/internal/domain/stay"
	"room-contention/internal/domain/waitlist"
	"room-contention/internal/infra"
	"room-contention/internal/infra/db"
	"room-contention/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type WaitingListRepository struct {
	db db.DBTX
}

func NewWaitingListRepository(dbtx db.DBTX) *WaitingListRepository {
	return &WaitingListRepository{db: dbtx}
}

func (r *WaitingListRepository) Create(ctx context.Context, e *waitlist.Entry) error {
	var seq int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO waiting_list (id, room_id, user_id, check_in, check_out, guest_count, priority,
			status, conflict_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING seq`,
		e.ID(), e.RoomID(), e.UserID(),
		pgconv.DateToPgtype(e.Stay().CheckIn()), pgconv.DateToPgtype(e.Stay().CheckOut()),
		e.GuestCount(), e.Priority(), e.Status().String(),
		pgconv.UUIDPtrToPgtype(e.ConflictID()),
		pgconv.TimeToPgtype(e.CreatedAt()), pgconv.TimeToPgtype(e.UpdatedAt()),
	).Scan(&seq)
	if err != nil {
		switch {
		case pgconv.IsUniqueViolation(err):
			return infra.WrapRepoErr("active waiting list entry exists", err, infra.KindDuplicateKey)
		case pgconv.IsForeignKeyViolation(err):
			return infra.WrapRepoErr("waiting list entry references unknown row", err, infra.KindForeignKeyViolated)
		default:
			return infra.WrapRepoErr("failed to create waiting list entry", err)
		}
	}
	e.AssignSeq(seq)
	return nil
}

func (r *WaitingListRepository) findOne(ctx context.Context, msg, query string, args ...any) (*waitlist.Entry, error) {
	e, err := scanEntry(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(msg+" not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find "+msg, err)
	}
	return e, nil
}

func (r *WaitingListRepository) findMany(ctx context.Context, msg, query string, args ...any) ([]*waitlist.Entry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query "+msg, err)
	}
	entries, err := collect(rows, scanEntry)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan "+msg, err)
	}
	return entries, nil
}

func (r *WaitingListRepository) FindByID(ctx context.Context, id uuid.UUID) (*waitlist.Entry, error) {
	return r.findOne(ctx, "waiting list entry",
		`SELECT `+waitingListColumns+` FROM waiting_list WHERE id = $1`, id)
}

func (r *WaitingListRepository) FindActive(ctx context.Context, roomID, userID uuid.UUID) (*waitlist.Entry, error) {
	return r.findOne(ctx, "active waiting list entry", `
		SELECT `+waitingListColumns+` FROM waiting_list
		WHERE room_id = $1 AND user_id = $2 AND status IN ('WAITING', 'NOTIFIED')`,
		roomID, userID)
}

func (r *WaitingListRepository) CountAhead(ctx context.Context, e *waitlist.Entry) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT count(*) FROM waiting_list
		WHERE room_id = $1 AND status = 'WAITING' AND id <> $2
		  AND (priority > $3
		    OR (priority = $3 AND created_at < $4)
		    OR (priority = $3 AND created_at = $4 AND seq < $5))`,
		e.RoomID(), e.ID(), e.Priority(), pgconv.TimeToPgtype(e.CreatedAt()), e.Seq()).Scan(&n)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count entries ahead", err)
	}
	return n, nil
}

func (r *WaitingListRepository) NextInLine(ctx context.Context, roomID uuid.UUID, limit int) ([]*waitlist.Entry, error) {
	return r.findMany(ctx, "next in line", `
		SELECT `+waitingListColumns+` FROM waiting_list
		WHERE room_id = $1 AND status = 'WAITING'
		ORDER BY priority DESC, created_at, seq
		LIMIT NULLIF($2::int, 0)`,
		roomID, limit)
}

func (r *WaitingListRepository) FindHolds(ctx context.Context, roomID uuid.UUID, rng stay.DateRange, now time.Time) ([]*waitlist.Entry, error) {
	return r.findMany(ctx, "holds", `
		SELECT `+waitingListColumns+` FROM waiting_list
		WHERE room_id = $1 AND status = 'NOTIFIED' AND expires_at >= $4
		  AND check_in < $3 AND check_out > $2
		ORDER BY priority DESC, created_at, seq`,
		roomID, pgconv.DateToPgtype(rng.CheckIn()), pgconv.DateToPgtype(rng.CheckOut()), pgconv.TimeToPgtype(now))
}

// transition writes e's lifecycle columns when the row still satisfies cond.
// cond may reference $9 onwards through extra.
func (r *WaitingListRepository) transition(ctx context.Context, e *waitlist.Entry, cond string, extra ...any) (bool, error) {
	args := append([]any{
		e.ID(),
		e.Status().String(),
		pgconv.TimePtrToPgtype(e.NotifiedAt()),
		pgconv.TimePtrToPgtype(e.ExpiresAt()),
		pgconv.UUIDPtrToPgtype(e.ConfirmedOrderID()),
		pgconv.TimePtrToPgtype(e.ConfirmedAt()),
		pgconv.TimePtrToPgtype(e.CancelledAt()),
		pgconv.TimeToPgtype(e.UpdatedAt()),
	}, extra...)
	tag, err := r.db.Exec(ctx, `
		UPDATE waiting_list
		SET status = $2, notified_at = $3, expires_at = $4, confirmed_order_id = $5,
		    confirmed_at = $6, cancelled_at = $7, updated_at = $8
		WHERE id = $1 AND `+cond, args...)
	if err != nil {
		return false, infra.WrapRepoErr("failed to move waiting list entry to "+e.Status().String(), err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *WaitingListRepository) Promote(ctx context.Context, e *waitlist.Entry) (bool, error) {
	return r.transition(ctx, e, `status = 'WAITING'`)
}

func (r *WaitingListRepository) Expire(ctx context.Context, e *waitlist.Entry, now time.Time) (bool, error) {
	return r.transition(ctx, e, `status = 'NOTIFIED' AND expires_at < $9`, pgconv.TimeToPgtype(now))
}

func (r *WaitingListRepository) Confirm(ctx context.Context, e *waitlist.Entry, now time.Time) (bool, error) {
	return r.transition(ctx, e, `status = 'NOTIFIED' AND expires_at >= $9`, pgconv.TimeToPgtype(now))
}

func (r *WaitingListRepository) Cancel(ctx context.Context, e *waitlist.Entry, from ...waitlist.Status) (bool, error) {
	statuses := make([]string, len(from))
	for i, s := range from {
		statuses[i] = s.String()
	}
	return r.transition(ctx, e, `status = ANY($9::text[])`, statuses)
}

func (r *WaitingListRepository) FindExpiredNotified(ctx context.Context, now time.Time, limit int) ([]*waitlist.Entry, error) {
	return r.findMany(ctx, "expired notifications", `
		SELECT `+waitingListColumns+` FROM waiting_list
		WHERE status = 'NOTIFIED' AND expires_at < $1
		ORDER BY expires_at
		LIMIT NULLIF($2::int, 0)`,
		pgconv.TimeToPgtype(now), limit)
}

func (r *WaitingListRepository) FindStaleWaiting(ctx context.Context, today time.Time, limit int) ([]*waitlist.Entry, error) {
	return r.findMany(ctx, "stale requests", `
		SELECT `+waitingListColumns+` FROM waiting_list
		WHERE status = 'WAITING' AND check_in < $1
		ORDER BY created_at
		LIMIT NULLIF($2::int, 0)`,
		pgconv.DateToPgtype(today), limit)
}

func (r *WaitingListRepository) RoomsWithWaiting(ctx context.Context, limit int) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
		SELECT room_id FROM waiting_list
		WHERE status = 'WAITING'
		GROUP BY room_id
		ORDER BY min(seq)
		LIMIT NULLIF($1::int, 0)`, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list rooms with waiting entries", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan rooms with waiting entries", err)
	}
	return ids, nil
}
