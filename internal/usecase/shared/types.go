package shared

import (
	"context"
	"errors"
	"time"

	"room-contention/internal/domain/stay"
	"room-contention/internal/domain/waitlist"

	"github.com/google/uuid"
)

// RoomLocker serializes decisions on a single room.
type RoomLocker interface {
	// Acquire blocks until the room lock is held or ctx ends; release must be called once.
	Acquire(ctx context.Context, roomID uuid.UUID) (release func(), err error)
}

type TierLookup interface {
	TierOf(ctx context.Context, userID uuid.UUID) (waitlist.Tier, error)
}

type MessageKind string

const (
	MessageSlotAvailable MessageKind = "SLOT_AVAILABLE"
)

type Message struct {
	Kind      MessageKind    `json:"kind"`
	EntryID   uuid.UUID      `json:"entry_id"`
	RoomID    uuid.UUID      `json:"room_id"`
	UserID    uuid.UUID      `json:"user_id"`
	Stay      stay.DateRange `json:"-"`
	CheckIn   string         `json:"check_in"`
	CheckOut  string         `json:"check_out"`
	ExpiresAt time.Time      `json:"expires_at"`
}

func NewSlotAvailableMessage(e *waitlist.Entry) Message {
	m := Message{
		Kind:     MessageSlotAvailable,
		EntryID:  e.ID(),
		RoomID:   e.RoomID(),
		UserID:   e.UserID(),
		Stay:     e.Stay(),
		CheckIn:  e.Stay().CheckIn().Format(stay.DateLayout),
		CheckOut: e.Stay().CheckOut().Format(stay.DateLayout),
	}
	if e.ExpiresAt() != nil {
		m.ExpiresAt = *e.ExpiresAt()
	}
	return m
}

type Dispatcher interface {
	Dispatch(ctx context.Context, userID uuid.UUID, msg Message) error
}

// ErrLockNotAcquired is returned by a RoomLocker when ctx ends before the lock is held.
var ErrLockNotAcquired = errors.New("room lock not acquired")
