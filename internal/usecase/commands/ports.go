package commands

import (
	"time"

	"room-contention/internal/domain/conflict"
	"room-contention/internal/domain/stay"
	"room-contention/internal/domain/waitlist"

	"github.com/google/uuid"
)

type DetectRequest struct {
	RoomID     uuid.UUID
	UserID     uuid.UUID
	Stay       stay.DateRange
	GuestCount int
	// DryRun classifies without reserving the room on a NONE outcome.
	DryRun bool
	Note   string
}

// ConflictResult is a typed outcome; a conflict is not an error.
type ConflictResult struct {
	Type               conflict.Type
	ConflictID         *uuid.UUID
	OrderID            *uuid.UUID
	ConflictingOrderID *uuid.UUID
	DetectedAt         time.Time
	// ResolvedConflicts counts earlier open conflicts a direct booking closed.
	ResolvedConflicts int
	// SettledHoldID is the requester's own hold that the booking confirmed or cancelled.
	SettledHoldID *uuid.UUID
}

func (r *ConflictResult) HasConflict() bool {
	return r.Type.IsConflict()
}

type JoinRequest struct {
	RoomID     uuid.UUID
	UserID     uuid.UUID
	Stay       stay.DateRange
	GuestCount int
	ConflictID *uuid.UUID
}

type JoinResult struct {
	Entry    *waitlist.Entry
	Position int
}

type ConfirmRequest struct {
	// GuestCount overrides the count recorded on the entry when positive.
	GuestCount int
	Note       string
}

type ConfirmResult struct {
	Entry             *waitlist.Entry
	OrderID           uuid.UUID
	ResolvedConflicts int
}

type CancelResult struct {
	Entry *waitlist.Entry
	// Changed is false when the entry was already terminal.
	Changed  bool
	Promoted *waitlist.Entry
}

// ReleaseRequest reports a window the order system has already freed.
type ReleaseRequest struct {
	RoomID uuid.UUID
	Stay   stay.DateRange
}

type ReleaseResult struct {
	Promoted *waitlist.Entry
}

type SweepResult struct {
	Rooms     int `json:"rooms"`
	Expired   int `json:"expired"`
	Promoted  int `json:"promoted"`
	Cancelled int `json:"cancelled"`
	Skipped   int `json:"skipped"`
}

func (r SweepResult) IsZero() bool {
	return r == SweepResult{}
}
