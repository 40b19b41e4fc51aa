package readstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"room-contention/internal/domain/stay"
	"room-contention/internal/infra"
	"room-contention/internal/infra/db"
	"room-contention/internal/pkg/pgconv"
	"room-contention/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Position counts WAITING rows of the same room ranked ahead of w.
const waitingListViewColumns = `w.id, w.room_id, w.user_id, w.check_in, w.check_out, w.guest_count,
	w.priority, w.status, w.conflict_id, w.notified_at, w.expires_at, w.confirmed_order_id,
	w.confirmed_at, w.cancelled_at, w.created_at, w.updated_at,
	CASE WHEN w.status = 'WAITING' THEN 1 + (
		SELECT count(*) FROM waiting_list o
		WHERE o.room_id = w.room_id AND o.status = 'WAITING' AND o.id <> w.id
		  AND (o.priority > w.priority
		    OR (o.priority = w.priority AND o.created_at < w.created_at)
		    OR (o.priority = w.priority AND o.created_at = w.created_at AND o.seq < w.seq))
	) ELSE 0 END AS position`

type WaitingListReadStore struct {
	db db.DBTX
}

func NewWaitingListReadStore(dbtx db.DBTX) *WaitingListReadStore {
	return &WaitingListReadStore{db: dbtx}
}

func (r *WaitingListReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.WaitingListView, error) {
	row := r.db.QueryRow(ctx, `SELECT `+waitingListViewColumns+` FROM waiting_list w WHERE w.id = $1`, id)
	v, err := scanView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("waiting list entry not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find waiting list entry by ID", err)
	}
	return v, nil
}

func (r *WaitingListReadStore) FindFirstPage(ctx context.Context, filter queries.WaitingListFilter, limit int32) ([]*queries.WaitingListView, error) {
	where, args := filterClause(filter)
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT %s FROM waiting_list w %s
		ORDER BY w.created_at DESC, w.id DESC
		LIMIT $%d`, waitingListViewColumns, where, len(args))
	return r.list(ctx, "first page", query, args)
}

func (r *WaitingListReadStore) FindKeyset(ctx context.Context, filter queries.WaitingListFilter, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.WaitingListView, error) {
	where, args := filterClause(filter)
	args = append(args, pgconv.TimeToPgtype(lastCreatedAt), lastID, limit)
	n := len(args)
	keyset := fmt.Sprintf("(w.created_at, w.id) < ($%d, $%d)", n-2, n-1)
	if where == "" {
		where = "WHERE " + keyset
	} else {
		where += " AND " + keyset
	}
	query := fmt.Sprintf(`SELECT %s FROM waiting_list w %s
		ORDER BY w.created_at DESC, w.id DESC
		LIMIT $%d`, waitingListViewColumns, where, n)
	return r.list(ctx, "keyset page", query, args)
}

func (r *WaitingListReadStore) list(ctx context.Context, what, query string, args []any) ([]*queries.WaitingListView, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find waiting list "+what, err)
	}
	defer rows.Close()

	var out []*queries.WaitingListView
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan waiting list "+what, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate waiting list "+what, err)
	}
	return out, nil
}

func filterClause(f queries.WaitingListFilter) (string, []any) {
	var conds []string
	var args []any
	if f.RoomID != nil {
		args = append(args, *f.RoomID)
		conds = append(conds, fmt.Sprintf("w.room_id = $%d", len(args)))
	}
	if f.UserID != nil {
		args = append(args, *f.UserID)
		conds = append(conds, fmt.Sprintf("w.user_id = $%d", len(args)))
	}
	if len(f.Statuses) > 0 {
		args = append(args, f.Statuses)
		conds = append(conds, fmt.Sprintf("w.status = ANY($%d::text[])", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func scanView(row pgx.Row) (*queries.WaitingListView, error) {
	var (
		v                          queries.WaitingListView
		in, out                    pgtype.Date
		guestCount, priority       int32
		conflictID, confirmedOrder pgtype.UUID
		notifiedAt, expiresAt      pgtype.Timestamptz
		confirmedAt, cancelledAt   pgtype.Timestamptz
		createdAt, updatedAt       pgtype.Timestamptz
		position                   int64
	)
	err := row.Scan(&v.ID, &v.RoomID, &v.UserID, &in, &out, &guestCount,
		&priority, &v.Status, &conflictID, &notifiedAt, &expiresAt, &confirmedOrder,
		&confirmedAt, &cancelledAt, &createdAt, &updatedAt, &position)
	if err != nil {
		return nil, err
	}
	v.CheckIn = pgconv.DateFromPgtype(in).Format(stay.DateLayout)
	v.CheckOut = pgconv.DateFromPgtype(out).Format(stay.DateLayout)
	v.GuestCount = int(guestCount)
	v.Priority = int(priority)
	v.Position = int(position)
	v.ConflictID = pgconv.UUIDPtrFromPgtype(conflictID)
	v.NotifiedAt = pgconv.TimePtrFromPgtype(notifiedAt)
	v.ExpiresAt = pgconv.TimePtrFromPgtype(expiresAt)
	v.ConfirmedOrderID = pgconv.UUIDPtrFromPgtype(confirmedOrder)
	v.ConfirmedAt = pgconv.TimePtrFromPgtype(confirmedAt)
	v.CancelledAt = pgconv.TimePtrFromPgtype(cancelledAt)
	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &v, nil
}
