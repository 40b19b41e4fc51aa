package shared

import (
	"context"
	"time"

	"room-contention/internal/domain/conflict"
	"room-contention/internal/domain/order"
	"room-contention/internal/domain/stay"
	"room-contention/internal/domain/waitlist"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Rooms() RoomRepository
	Orders() OrderRepository
	Conflicts() ConflictRepository
	WaitingList() WaitingListRepository
}

type RoomRepository interface {
	Exists(ctx context.Context, roomID uuid.UUID) (bool, error)
}

type OrderRepository interface {
	// FindOverlapping returns PENDING/CONFIRMED orders of the room overlapping r, oldest first.
	FindOverlapping(ctx context.Context, roomID uuid.UUID, r stay.DateRange) ([]*order.Order, error)
	Create(ctx context.Context, o *order.Order) error
}

type ConflictRepository interface {
	Create(ctx context.Context, c *conflict.BookingConflict) error
	FindByID(ctx context.Context, id uuid.UUID) (*conflict.BookingConflict, error)
	// UpdateStatus persists c's status fields when the stored status still equals from.
	UpdateStatus(ctx context.Context, c *conflict.BookingConflict, from conflict.Status) (bool, error)
	// ResolveRelated resolves every open conflict of the user on the room overlapping r.
	ResolveRelated(ctx context.Context, roomID, userID uuid.UUID, r stay.DateRange, notes string, at time.Time) (int, error)
}

// WaitingListRepository transitions are conditional writes: the bool result
// reports whether the stored row still matched the expected prior state.
type WaitingListRepository interface {
	// Create assigns the insertion sequence; an existing active entry of the
	// same (room, user) yields a DUPLICATE_KEY repository error.
	Create(ctx context.Context, e *waitlist.Entry) error
	FindByID(ctx context.Context, id uuid.UUID) (*waitlist.Entry, error)
	FindActive(ctx context.Context, roomID, userID uuid.UUID) (*waitlist.Entry, error)
	CountAhead(ctx context.Context, e *waitlist.Entry) (int, error)
	NextInLine(ctx context.Context, roomID uuid.UUID, limit int) ([]*waitlist.Entry, error)
	// FindHolds returns NOTIFIED entries of the room overlapping r with expiresAt >= now.
	FindHolds(ctx context.Context, roomID uuid.UUID, r stay.DateRange, now time.Time) ([]*waitlist.Entry, error)

	Promote(ctx context.Context, e *waitlist.Entry) (bool, error)
	Expire(ctx context.Context, e *waitlist.Entry, now time.Time) (bool, error)
	Confirm(ctx context.Context, e *waitlist.Entry, now time.Time) (bool, error)
	Cancel(ctx context.Context, e *waitlist.Entry, from ...waitlist.Status) (bool, error)

	FindExpiredNotified(ctx context.Context, now time.Time, limit int) ([]*waitlist.Entry, error)
	// FindStaleWaiting returns WAITING entries whose check-in day is before today.
	FindStaleWaiting(ctx context.Context, today time.Time, limit int) ([]*waitlist.Entry, error)
	RoomsWithWaiting(ctx context.Context, limit int) ([]uuid.UUID, error)
}
