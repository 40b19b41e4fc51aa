package conflict

import (
	"errors"
	"time"

	"room-contention/internal/domain/stay"

	"github.com/google/uuid"
)

var (
	ErrNotAConflict      = errors.New("outcome is not a conflict")
	ErrInvalidTransition = errors.New("invalid booking conflict transition")
)

// BookingConflict is immutable apart from its status and resolution fields.
type BookingConflict struct {
	id                 uuid.UUID
	roomID             uuid.UUID
	userID             uuid.UUID
	stay               stay.DateRange
	conflictingOrderID *uuid.UUID
	conflictType       Type
	status             Status
	resolvedAt         *time.Time
	resolutionNotes    string
	createdAt          time.Time
}

func NewBookingConflict(
	roomID, userID uuid.UUID,
	r stay.DateRange,
	conflictingOrderID *uuid.UUID,
	t Type,
	now time.Time,
) (*BookingConflict, error) {
	if !t.IsConflict() {
		return nil, ErrNotAConflict
	}
	return &BookingConflict{
		id:                 uuid.New(),
		roomID:             roomID,
		userID:             userID,
		stay:               r,
		conflictingOrderID: conflictingOrderID,
		conflictType:       t,
		status:             StatusDetected,
		createdAt:          now,
	}, nil
}

func ReconstructBookingConflict(
	id, roomID, userID uuid.UUID,
	r stay.DateRange,
	conflictingOrderID *uuid.UUID,
	t Type,
	status Status,
	resolvedAt *time.Time,
	resolutionNotes string,
	createdAt time.Time,
) *BookingConflict {
	return &BookingConflict{
		id:                 id,
		roomID:             roomID,
		userID:             userID,
		stay:               r,
		conflictingOrderID: conflictingOrderID,
		conflictType:       t,
		status:             status,
		resolvedAt:         resolvedAt,
		resolutionNotes:    resolutionNotes,
		createdAt:          createdAt,
	}
}

// CanMoveTo encodes DETECTED → RESOLVED | WAITING_LIST and WAITING_LIST → RESOLVED.
func (c *BookingConflict) CanMoveTo(next Status) bool {
	switch c.status {
	case StatusDetected:
		return next == StatusResolved || next == StatusWaitingList
	case StatusWaitingList:
		return next == StatusResolved
	default:
		return false
	}
}

func (c *BookingConflict) MoveTo(next Status, notes string, now time.Time) error {
	if !c.CanMoveTo(next) {
		return ErrInvalidTransition
	}
	c.status = next
	c.resolutionNotes = notes
	if next == StatusResolved {
		at := now
		c.resolvedAt = &at
	}
	return nil
}

func (c *BookingConflict) ID() uuid.UUID                  { return c.id }
func (c *BookingConflict) RoomID() uuid.UUID              { return c.roomID }
func (c *BookingConflict) UserID() uuid.UUID              { return c.userID }
func (c *BookingConflict) Stay() stay.DateRange           { return c.stay }
func (c *BookingConflict) ConflictingOrderID() *uuid.UUID { return c.conflictingOrderID }
func (c *BookingConflict) Type() Type                     { return c.conflictType }
func (c *BookingConflict) Status() Status                 { return c.status }
func (c *BookingConflict) ResolvedAt() *time.Time         { return c.resolvedAt }
func (c *BookingConflict) ResolutionNotes() string        { return c.resolutionNotes }
func (c *BookingConflict) CreatedAt() time.Time           { return c.createdAt }
