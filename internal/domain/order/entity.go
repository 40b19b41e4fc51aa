package order

import (
	"errors"
	"time"

	"room-contention/internal/domain/stay"

	"github.com/google/uuid"
)

var ErrInvalidGuestCount = errors.New("guest count must be positive")

// Order is the slice of the external booking record this service consumes.
type Order struct {
	id         uuid.UUID
	roomID     uuid.UUID
	userID     uuid.UUID
	stay       stay.DateRange
	guestCount int
	status     Status
	note       string
	createdAt  time.Time
}

func NewConfirmedOrder(roomID, userID uuid.UUID, r stay.DateRange, guestCount int, note string, now time.Time) (*Order, error) {
	if guestCount <= 0 {
		return nil, ErrInvalidGuestCount
	}
	return &Order{
		id:         uuid.New(),
		roomID:     roomID,
		userID:     userID,
		stay:       r,
		guestCount: guestCount,
		status:     StatusConfirmed,
		note:       note,
		createdAt:  now,
	}, nil
}

func ReconstructOrder(
	id, roomID, userID uuid.UUID,
	r stay.DateRange,
	guestCount int,
	status Status,
	note string,
	createdAt time.Time,
) *Order {
	return &Order{
		id:         id,
		roomID:     roomID,
		userID:     userID,
		stay:       r,
		guestCount: guestCount,
		status:     status,
		note:       note,
		createdAt:  createdAt,
	}
}

func (o *Order) ID() uuid.UUID        { return o.id }
func (o *Order) RoomID() uuid.UUID    { return o.roomID }
func (o *Order) UserID() uuid.UUID    { return o.userID }
func (o *Order) Stay() stay.DateRange { return o.stay }
func (o *Order) GuestCount() int      { return o.guestCount }
func (o *Order) Status() Status       { return o.status }
func (o *Order) Note() string         { return o.note }
func (o *Order) CreatedAt() time.Time { return o.createdAt }
func (o *Order) Occupies() bool       { return o.status.Occupies() }
