package request

import (
	"strings"

	"room-contention/internal/domain/stay"
	"room-contention/internal/usecase/commands"
	"room-contention/internal/usecase/queries"

	"github.com/google/uuid"
)

type JoinWaitingListRequest struct {
	RoomID     uuid.UUID  `json:"room_id" binding:"required"`
	UserID     uuid.UUID  `json:"user_id" binding:"required"`
	CheckIn    string     `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut   string     `json:"check_out" binding:"required,stayrange=CheckIn"`
	GuestCount int        `json:"guest_count" binding:"required,min=1,max=20"`
	ConflictID *uuid.UUID `json:"conflict_id,omitempty"`
}

func (r *JoinWaitingListRequest) ToCommand() (commands.JoinRequest, error) {
	rng, err := stay.ParseDateRange(r.CheckIn, r.CheckOut)
	if err != nil {
		return commands.JoinRequest{}, err
	}
	return commands.JoinRequest{
		RoomID:     r.RoomID,
		UserID:     r.UserID,
		Stay:       rng,
		GuestCount: r.GuestCount,
		ConflictID: r.ConflictID,
	}, nil
}

type ConfirmWaitingListRequest struct {
	GuestCount int    `json:"guest_count" binding:"omitempty,min=1,max=20"`
	Note       string `json:"note" binding:"max=500"`
}

func (r *ConfirmWaitingListRequest) ToCommand() commands.ConfirmRequest {
	return commands.ConfirmRequest{GuestCount: r.GuestCount, Note: strings.TrimSpace(r.Note)}
}

type ListWaitingListQuery struct {
	RoomID string `form:"room_id" binding:"omitempty,uuid"`
	UserID string `form:"user_id" binding:"omitempty,uuid"`
	// Status is a comma separated list.
	Status string `form:"status"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
	After  string `form:"after"`
}

func (q *ListWaitingListQuery) Filter() queries.WaitingListFilter {
	f := queries.WaitingListFilter{RoomID: optionalUUID(q.RoomID), UserID: optionalUUID(q.UserID)}
	for _, s := range strings.Split(q.Status, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			f.Statuses = append(f.Statuses, s)
		}
	}
	return f
}

func (q *ListWaitingListQuery) Cursor() *queries.Cursor {
	if q.After == "" {
		return nil
	}
	return &queries.Cursor{After: q.After}
}

// optionalUUID expects s to have passed the uuid binding already.
func optionalUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
