package response

import (
	"time"

	"room-contention/internal/usecase/commands"

	"github.com/google/uuid"
)

type ConflictResponse struct {
	Type               string     `json:"type"`
	HasConflict        bool       `json:"has_conflict"`
	ConflictID         *uuid.UUID `json:"conflict_id,omitempty"`
	OrderID            *uuid.UUID `json:"order_id,omitempty"`
	ConflictingOrderID *uuid.UUID `json:"conflicting_order_id,omitempty"`
	DetectedAt         time.Time  `json:"detected_at"`
}

func FromConflictResult(r *commands.ConflictResult) *ConflictResponse {
	return &ConflictResponse{
		Type:               r.Type.String(),
		HasConflict:        r.HasConflict(),
		ConflictID:         r.ConflictID,
		OrderID:            r.OrderID,
		ConflictingOrderID: r.ConflictingOrderID,
		DetectedAt:         r.DetectedAt,
	}
}

type ReleaseRoomResponse struct {
	Promoted *WaitingListEntryResponse `json:"promoted,omitempty"`
}

func FromReleaseResult(r *commands.ReleaseResult) *ReleaseRoomResponse {
	resp := &ReleaseRoomResponse{}
	if r.Promoted != nil {
		resp.Promoted = FromEntry(r.Promoted, 0)
	}
	return resp
}
