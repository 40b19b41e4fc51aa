//go:build unit || e2e

package builder

import (
	"time"

	"room-contention/internal/domain/stay"
	"room-contention/internal/domain/waitlist"
	reqdto "room-contention/internal/handler/dto/request"
	"room-contention/internal/usecase/queries"

	"github.com/google/uuid"
)

type WaitingListBuilder struct {
	ID         uuid.UUID
	RoomID     uuid.UUID
	UserID     uuid.UUID
	CheckIn    string
	CheckOut   string
	GuestCount int
	Tier       waitlist.Tier
	Status     waitlist.Status
	ConflictID *uuid.UUID
	Seq        int64
	NotifiedAt *time.Time
	ExpiresAt  *time.Time
	CreatedAt  time.Time
}

func NewWaitingListBuilder() *WaitingListBuilder {
	now := time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC)
	return &WaitingListBuilder{
		ID:         uuid.New(),
		RoomID:     uuid.New(),
		UserID:     uuid.New(),
		CheckIn:    "2030-06-10",
		CheckOut:   "2030-06-13",
		GuestCount: 2,
		Tier:       waitlist.TierStandard,
		Status:     waitlist.StatusWaiting,
		Seq:        1,
		CreatedAt:  now,
	}
}

func (b *WaitingListBuilder) With(mutate func(*WaitingListBuilder)) *WaitingListBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *WaitingListBuilder) Stay() stay.DateRange {
	return stay.MustDateRange(b.CheckIn, b.CheckOut)
}

func (b *WaitingListBuilder) BuildDomain() *waitlist.Entry {
	e, err := waitlist.Reconstruct(waitlist.Snapshot{
		ID:         b.ID,
		RoomID:     b.RoomID,
		UserID:     b.UserID,
		Stay:       b.Stay(),
		GuestCount: b.GuestCount,
		Priority:   b.Tier.Priority(),
		Status:     b.Status,
		ConflictID: b.ConflictID,
		NotifiedAt: b.NotifiedAt,
		ExpiresAt:  b.ExpiresAt,
		Seq:        b.Seq,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.CreatedAt,
	})
	if err != nil {
		panic(err)
	}
	return e
}

func (b *WaitingListBuilder) BuildJoinRequestDTO() reqdto.JoinWaitingListRequest {
	return reqdto.JoinWaitingListRequest{
		RoomID:     b.RoomID,
		UserID:     b.UserID,
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		GuestCount: b.GuestCount,
		ConflictID: b.ConflictID,
	}
}

func (b *WaitingListBuilder) BuildView(position int) *queries.WaitingListView {
	return &queries.WaitingListView{
		ID:         b.ID,
		RoomID:     b.RoomID,
		UserID:     b.UserID,
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		GuestCount: b.GuestCount,
		Priority:   b.Tier.Priority(),
		Status:     b.Status.String(),
		Position:   position,
		ConflictID: b.ConflictID,
		NotifiedAt: b.NotifiedAt,
		ExpiresAt:  b.ExpiresAt,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.CreatedAt,
	}
}

// Fluent builder methods
func (b *WaitingListBuilder) WithRoomID(roomID uuid.UUID) *WaitingListBuilder {
	b.RoomID = roomID
	return b
}

func (b *WaitingListBuilder) WithUserID(userID uuid.UUID) *WaitingListBuilder {
	b.UserID = userID
	return b
}

func (b *WaitingListBuilder) WithStay(checkIn, checkOut string) *WaitingListBuilder {
	b.CheckIn = checkIn
	b.CheckOut = checkOut
	return b
}

func (b *WaitingListBuilder) WithConflictID(conflictID uuid.UUID) *WaitingListBuilder {
	b.ConflictID = &conflictID
	return b
}

func (b *WaitingListBuilder) AsVIP() *WaitingListBuilder {
	b.Tier = waitlist.TierVIP
	return b
}

// AsNotified gives the entry a hold that ends grace after CreatedAt.
func (b *WaitingListBuilder) AsNotified(grace time.Duration) *WaitingListBuilder {
	notifiedAt := b.CreatedAt
	expiresAt := notifiedAt.Add(grace)
	b.Status = waitlist.StatusNotified
	b.NotifiedAt = &notifiedAt
	b.ExpiresAt = &expiresAt
	return b
}

func (b *WaitingListBuilder) AsCancelled() *WaitingListBuilder {
	b.Status = waitlist.StatusCancelled
	return b
}

// ShiftDays moves the stay by n days keeping its length.
func (b *WaitingListBuilder) ShiftDays(n int) *WaitingListBuilder {
	r := b.Stay()
	b.CheckIn = r.CheckIn().AddDate(0, 0, n).Format(stay.DateLayout)
	b.CheckOut = r.CheckOut().AddDate(0, 0, n).Format(stay.DateLayout)
	return b
}
