package waitlist

import (
	"errors"
	"time"

	"room-contention/internal/domain/stay"

	"github.com/google/uuid"
)

var (
	ErrInvalidGuestCount = errors.New("guest count must be positive")
	ErrInvalidPriority   = errors.New("priority must be between 0 and 100")
	ErrInvalidTransition = errors.New("invalid waiting list transition")
	ErrNotificationDue   = errors.New("notification expired")
	ErrMissingExpiry     = errors.New("notified entry requires expiry")
)

type Entry struct {
	id               uuid.UUID
	roomID           uuid.UUID
	userID           uuid.UUID
	stay             stay.DateRange
	guestCount       int
	priority         int
	status           Status
	conflictID       *uuid.UUID
	notifiedAt       *time.Time
	expiresAt        *time.Time
	confirmedOrderID *uuid.UUID
	confirmedAt      *time.Time
	cancelledAt      *time.Time
	seq              int64
	createdAt        time.Time
	updatedAt        time.Time
}

func NewEntry(
	roomID, userID uuid.UUID,
	r stay.DateRange,
	guestCount int,
	tier Tier,
	conflictID *uuid.UUID,
	now time.Time,
) (*Entry, error) {
	if guestCount <= 0 {
		return nil, ErrInvalidGuestCount
	}
	return &Entry{
		id:         uuid.New(),
		roomID:     roomID,
		userID:     userID,
		stay:       r,
		guestCount: guestCount,
		priority:   tier.Priority(),
		status:     StatusWaiting,
		conflictID: conflictID,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

type Snapshot struct {
	ID               uuid.UUID
	RoomID           uuid.UUID
	UserID           uuid.UUID
	Stay             stay.DateRange
	GuestCount       int
	Priority         int
	Status           Status
	ConflictID       *uuid.UUID
	NotifiedAt       *time.Time
	ExpiresAt        *time.Time
	ConfirmedOrderID *uuid.UUID
	ConfirmedAt      *time.Time
	CancelledAt      *time.Time
	Seq              int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func Reconstruct(s Snapshot) (*Entry, error) {
	if s.Priority < MinPriority || s.Priority > MaxPriority {
		return nil, ErrInvalidPriority
	}
	if s.Status == StatusNotified && s.ExpiresAt == nil {
		return nil, ErrMissingExpiry
	}
	return &Entry{
		id:               s.ID,
		roomID:           s.RoomID,
		userID:           s.UserID,
		stay:             s.Stay,
		guestCount:       s.GuestCount,
		priority:         s.Priority,
		status:           s.Status,
		conflictID:       s.ConflictID,
		notifiedAt:       s.NotifiedAt,
		expiresAt:        s.ExpiresAt,
		confirmedOrderID: s.ConfirmedOrderID,
		confirmedAt:      s.ConfirmedAt,
		cancelledAt:      s.CancelledAt,
		seq:              s.Seq,
		createdAt:        s.CreatedAt,
		updatedAt:        s.UpdatedAt,
	}, nil
}

func (e *Entry) Snapshot() Snapshot {
	return Snapshot{
		ID:               e.id,
		RoomID:           e.roomID,
		UserID:           e.userID,
		Stay:             e.stay,
		GuestCount:       e.guestCount,
		Priority:         e.priority,
		Status:           e.status,
		ConflictID:       e.conflictID,
		NotifiedAt:       e.notifiedAt,
		ExpiresAt:        e.expiresAt,
		ConfirmedOrderID: e.confirmedOrderID,
		ConfirmedAt:      e.confirmedAt,
		CancelledAt:      e.cancelledAt,
		Seq:              e.seq,
		CreatedAt:        e.createdAt,
		UpdatedAt:        e.updatedAt,
	}
}

// Promote moves WAITING → NOTIFIED and starts the grace period.
func (e *Entry) Promote(now time.Time, grace time.Duration) error {
	if e.status != StatusWaiting {
		return ErrInvalidTransition
	}
	notifiedAt := now
	expiresAt := now.Add(grace)
	e.status = StatusNotified
	e.notifiedAt = &notifiedAt
	e.expiresAt = &expiresAt
	e.updatedAt = now
	return nil
}

// Confirm requires a NOTIFIED entry whose expiry has not passed (expiresAt >= now).
func (e *Entry) Confirm(orderID uuid.UUID, now time.Time) error {
	if e.status != StatusNotified {
		return ErrInvalidTransition
	}
	if e.IsOverdue(now) {
		return ErrNotificationDue
	}
	confirmedAt := now
	e.status = StatusConfirmed
	e.confirmedOrderID = &orderID
	e.confirmedAt = &confirmedAt
	e.updatedAt = now
	return nil
}

// Expire requires a NOTIFIED entry whose expiry is strictly in the past.
func (e *Entry) Expire(now time.Time) error {
	if e.status != StatusNotified || !e.IsOverdue(now) {
		return ErrInvalidTransition
	}
	e.status = StatusExpired
	e.updatedAt = now
	return nil
}

// Cancel reports false when the entry is already terminal; cancelling twice is a no-op.
func (e *Entry) Cancel(now time.Time) bool {
	if !e.status.IsActive() {
		return false
	}
	cancelledAt := now
	e.status = StatusCancelled
	e.cancelledAt = &cancelledAt
	e.updatedAt = now
	return true
}

func (e *Entry) IsOverdue(now time.Time) bool {
	return e.expiresAt != nil && e.expiresAt.Before(now)
}

// HoldsSlot reports whether the entry currently reserves its window for its owner.
func (e *Entry) HoldsSlot(now time.Time) bool {
	return e.status == StatusNotified && !e.IsOverdue(now)
}

func (e *Entry) AssignSeq(seq int64) { e.seq = seq }

func (e *Entry) ID() uuid.UUID                { return e.id }
func (e *Entry) RoomID() uuid.UUID            { return e.roomID }
func (e *Entry) UserID() uuid.UUID            { return e.userID }
func (e *Entry) Stay() stay.DateRange         { return e.stay }
func (e *Entry) GuestCount() int              { return e.guestCount }
func (e *Entry) Priority() int                { return e.priority }
func (e *Entry) Status() Status               { return e.status }
func (e *Entry) ConflictID() *uuid.UUID       { return e.conflictID }
func (e *Entry) NotifiedAt() *time.Time       { return e.notifiedAt }
func (e *Entry) ExpiresAt() *time.Time        { return e.expiresAt }
func (e *Entry) ConfirmedOrderID() *uuid.UUID { return e.confirmedOrderID }
func (e *Entry) ConfirmedAt() *time.Time      { return e.confirmedAt }
func (e *Entry) CancelledAt() *time.Time      { return e.cancelledAt }
func (e *Entry) Seq() int64                   { return e.seq }
func (e *Entry) CreatedAt() time.Time         { return e.createdAt }
func (e *Entry) UpdatedAt() time.Time         { return e.updatedAt }
