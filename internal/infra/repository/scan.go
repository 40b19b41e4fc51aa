package repository

import (
	"room-contention/internal/domain/conflict"
	"room-contention/internal/domain/order"
	"room-contention/internal/domain/stay"
	"room-contention/internal/domain/waitlist"
	"room-contention/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, room_id, user_id, check_in, check_out, guest_count, status, note, created_at`

const conflictColumns = `id, room_id, user_id, check_in, check_out, conflicting_order_id,
	conflict_type, status, resolved_at, resolution_notes, created_at`

const waitingListColumns = `id, seq, room_id, user_id, check_in, check_out, guest_count, priority,
	status, conflict_id, notified_at, expires_at, confirmed_order_id, confirmed_at, cancelled_at,
	created_at, updated_at`

func stayFromPgtype(in, out pgtype.Date) (stay.DateRange, error) {
	return stay.NewDateRange(pgconv.DateFromPgtype(in), pgconv.DateFromPgtype(out))
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var (
		id, roomID, userID uuid.UUID
		in, out            pgtype.Date
		guestCount         int32
		status, note       string
		createdAt          pgtype.Timestamptz
	)
	if err := row.Scan(&id, &roomID, &userID, &in, &out, &guestCount, &status, &note, &createdAt); err != nil {
		return nil, err
	}
	r, err := stayFromPgtype(in, out)
	if err != nil {
		return nil, err
	}
	return order.ReconstructOrder(id, roomID, userID, r, int(guestCount), order.Status(status), note,
		pgconv.TimeFromPgtype(createdAt)), nil
}

func scanConflict(row pgx.Row) (*conflict.BookingConflict, error) {
	var (
		id, roomID, userID  uuid.UUID
		in, out             pgtype.Date
		conflictingOrderID  pgtype.UUID
		conflictType, state string
		resolvedAt          pgtype.Timestamptz
		notes               string
		createdAt           pgtype.Timestamptz
	)
	err := row.Scan(&id, &roomID, &userID, &in, &out, &conflictingOrderID,
		&conflictType, &state, &resolvedAt, &notes, &createdAt)
	if err != nil {
		return nil, err
	}
	r, err := stayFromPgtype(in, out)
	if err != nil {
		return nil, err
	}
	return conflict.ReconstructBookingConflict(
		id, roomID, userID, r,
		pgconv.UUIDPtrFromPgtype(conflictingOrderID),
		conflict.Type(conflictType),
		conflict.Status(state),
		pgconv.TimePtrFromPgtype(resolvedAt),
		notes,
		pgconv.TimeFromPgtype(createdAt),
	), nil
}

// ScanEntrySnapshot reads one waiting_list row selected with waitingListColumns order.
func ScanEntrySnapshot(row pgx.Row) (waitlist.Snapshot, error) {
	var (
		s                          waitlist.Snapshot
		in, out                    pgtype.Date
		guestCount, priority       int32
		status                     string
		conflictID, confirmedOrder pgtype.UUID
		notifiedAt, expiresAt      pgtype.Timestamptz
		confirmedAt, cancelledAt   pgtype.Timestamptz
		createdAt, updatedAt       pgtype.Timestamptz
	)
	err := row.Scan(&s.ID, &s.Seq, &s.RoomID, &s.UserID, &in, &out, &guestCount, &priority,
		&status, &conflictID, &notifiedAt, &expiresAt, &confirmedOrder, &confirmedAt, &cancelledAt,
		&createdAt, &updatedAt)
	if err != nil {
		return s, err
	}
	if s.Stay, err = stayFromPgtype(in, out); err != nil {
		return s, err
	}
	s.GuestCount = int(guestCount)
	s.Priority = int(priority)
	s.Status = waitlist.Status(status)
	s.ConflictID = pgconv.UUIDPtrFromPgtype(conflictID)
	s.NotifiedAt = pgconv.TimePtrFromPgtype(notifiedAt)
	s.ExpiresAt = pgconv.TimePtrFromPgtype(expiresAt)
	s.ConfirmedOrderID = pgconv.UUIDPtrFromPgtype(confirmedOrder)
	s.ConfirmedAt = pgconv.TimePtrFromPgtype(confirmedAt)
	s.CancelledAt = pgconv.TimePtrFromPgtype(cancelledAt)
	s.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	s.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return s, nil
}

func scanEntry(row pgx.Row) (*waitlist.Entry, error) {
	s, err := ScanEntrySnapshot(row)
	if err != nil {
		return nil, err
	}
	return waitlist.Reconstruct(s)
}

func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
