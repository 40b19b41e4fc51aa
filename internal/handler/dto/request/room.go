package request

import (
	"time"

	"room-contention/internal/domain/stay"
	"room-contention/internal/usecase/commands"
	"room-contention/internal/usecase/queries"

	"github.com/google/uuid"
)

// ReleaseRoomRequest carries the window the order system freed.
type ReleaseRoomRequest struct {
	CheckIn  string `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut string `json:"check_out" binding:"required,stayrange=CheckIn"`
}

func (r *ReleaseRoomRequest) ToCommand(roomID uuid.UUID) (commands.ReleaseRequest, error) {
	rng, err := stay.ParseDateRange(r.CheckIn, r.CheckOut)
	if err != nil {
		return commands.ReleaseRequest{}, err
	}
	return commands.ReleaseRequest{RoomID: roomID, Stay: rng}, nil
}

// StatisticsQuery bounds are calendar days; To is exclusive.
type StatisticsQuery struct {
	RoomID string `form:"room_id" binding:"omitempty,uuid"`
	From   string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To     string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

func (q *StatisticsQuery) ToScope() (queries.StatisticsScope, error) {
	scope := queries.StatisticsScope{RoomID: optionalUUID(q.RoomID)}
	var err error
	if q.From != "" {
		if scope.From, err = time.Parse(stay.DateLayout, q.From); err != nil {
			return scope, err
		}
	}
	if q.To != "" {
		if scope.To, err = time.Parse(stay.DateLayout, q.To); err != nil {
			return scope, err
		}
	}
	return scope, nil
}
