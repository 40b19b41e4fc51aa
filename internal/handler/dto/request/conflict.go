package request

import (
	"room-contention/internal/domain/stay"
	"room-contention/internal/usecase/commands"

	"github.com/google/uuid"
)

type DetectConflictRequest struct {
	RoomID     uuid.UUID `json:"room_id" binding:"required"`
	UserID     uuid.UUID `json:"user_id" binding:"required"`
	CheckIn    string    `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut   string    `json:"check_out" binding:"required,stayrange=CheckIn"`
	GuestCount int       `json:"guest_count" binding:"required,min=1,max=20"`
	DryRun     bool      `json:"dry_run"`
	Note       string    `json:"note" binding:"max=500"`
}

func (r *DetectConflictRequest) ToCommand() (commands.DetectRequest, error) {
	rng, err := stay.ParseDateRange(r.CheckIn, r.CheckOut)
	if err != nil {
		return commands.DetectRequest{}, err
	}
	return commands.DetectRequest{
		RoomID:     r.RoomID,
		UserID:     r.UserID,
		Stay:       rng,
		GuestCount: r.GuestCount,
		DryRun:     r.DryRun,
		Note:       r.Note,
	}, nil
}
