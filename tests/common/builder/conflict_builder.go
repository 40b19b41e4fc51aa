//go:build unit || e2e

package builder

import (
	"time"

	"room-contention/internal/domain/conflict"
	"room-contention/internal/domain/stay"
	reqdto "room-contention/internal/handler/dto/request"
	"room-contention/internal/usecase/commands"

	"github.com/google/uuid"
)

type ConflictBuilder struct {
	RoomID             uuid.UUID
	UserID             uuid.UUID
	CheckIn            string
	CheckOut           string
	GuestCount         int
	DryRun             bool
	Note               string
	Type               conflict.Type
	ConflictingOrderID *uuid.UUID
	DetectedAt         time.Time
}

func NewConflictBuilder() *ConflictBuilder {
	return &ConflictBuilder{
		RoomID:     uuid.New(),
		UserID:     uuid.New(),
		CheckIn:    "2030-06-10",
		CheckOut:   "2030-06-13",
		GuestCount: 2,
		Type:       conflict.TypeNone,
		DetectedAt: time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (b *ConflictBuilder) With(mutate func(*ConflictBuilder)) *ConflictBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *ConflictBuilder) BuildDetectRequestDTO() reqdto.DetectConflictRequest {
	return reqdto.DetectConflictRequest{
		RoomID:     b.RoomID,
		UserID:     b.UserID,
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		GuestCount: b.GuestCount,
		DryRun:     b.DryRun,
		Note:       b.Note,
	}
}

func (b *ConflictBuilder) BuildCommand() commands.DetectRequest {
	return commands.DetectRequest{
		RoomID:     b.RoomID,
		UserID:     b.UserID,
		Stay:       stay.MustDateRange(b.CheckIn, b.CheckOut),
		GuestCount: b.GuestCount,
		DryRun:     b.DryRun,
		Note:       b.Note,
	}
}

// BuildResult mirrors what detection returns for b.Type.
func (b *ConflictBuilder) BuildResult() *commands.ConflictResult {
	res := &commands.ConflictResult{Type: b.Type, DetectedAt: b.DetectedAt}
	if b.Type.IsConflict() {
		id := uuid.New()
		res.ConflictID = &id
		res.ConflictingOrderID = b.ConflictingOrderID
		return res
	}
	if !b.DryRun {
		id := uuid.New()
		res.OrderID = &id
	}
	return res
}

// Fluent builder methods
func (b *ConflictBuilder) WithRoomID(roomID uuid.UUID) *ConflictBuilder {
	b.RoomID = roomID
	return b
}

func (b *ConflictBuilder) WithUserID(userID uuid.UUID) *ConflictBuilder {
	b.UserID = userID
	return b
}

func (b *ConflictBuilder) WithStay(checkIn, checkOut string) *ConflictBuilder {
	b.CheckIn = checkIn
	b.CheckOut = checkOut
	return b
}

func (b *ConflictBuilder) AsDryRun() *ConflictBuilder {
	b.DryRun = true
	return b
}

func (b *ConflictBuilder) AsConflict(t conflict.Type, orderID uuid.UUID) *ConflictBuilder {
	b.Type = t
	b.ConflictingOrderID = &orderID
	return b
}
