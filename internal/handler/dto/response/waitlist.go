package response

import (
	"time"

	"room-contention/internal/domain/stay"
	"room-contention/internal/domain/waitlist"
	"room-contention/internal/usecase/commands"
	"room-contention/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type WaitingListEntryResponse struct {
	ID               uuid.UUID  `json:"id"`
	RoomID           uuid.UUID  `json:"room_id"`
	UserID           uuid.UUID  `json:"user_id"`
	CheckIn          string     `json:"check_in"`
	CheckOut         string     `json:"check_out"`
	GuestCount       int        `json:"guest_count"`
	Priority         int        `json:"priority"`
	Status           string     `json:"status"`
	Position         int        `json:"position,omitempty"`
	ConflictID       *uuid.UUID `json:"conflict_id,omitempty"`
	NotifiedAt       *time.Time `json:"notified_at,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	ConfirmedOrderID *uuid.UUID `json:"confirmed_order_id,omitempty"`
	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// FromEntry renders e; position is only shown for WAITING entries.
func FromEntry(e *waitlist.Entry, position int) *WaitingListEntryResponse {
	resp := &WaitingListEntryResponse{
		ID:               e.ID(),
		RoomID:           e.RoomID(),
		UserID:           e.UserID(),
		CheckIn:          e.Stay().CheckIn().Format(stay.DateLayout),
		CheckOut:         e.Stay().CheckOut().Format(stay.DateLayout),
		GuestCount:       e.GuestCount(),
		Priority:         e.Priority(),
		Status:           e.Status().String(),
		ConflictID:       e.ConflictID(),
		NotifiedAt:       e.NotifiedAt(),
		ExpiresAt:        e.ExpiresAt(),
		ConfirmedOrderID: e.ConfirmedOrderID(),
		ConfirmedAt:      e.ConfirmedAt(),
		CancelledAt:      e.CancelledAt(),
		CreatedAt:        e.CreatedAt(),
		UpdatedAt:        e.UpdatedAt(),
	}
	if e.Status() == waitlist.StatusWaiting {
		resp.Position = position
	}
	return resp
}

// FromWaitingListView copies the view field by field; both structs share names and types.
func FromWaitingListView(v *queries.WaitingListView) *WaitingListEntryResponse {
	resp := &WaitingListEntryResponse{}
	if err := copier.Copy(resp, v); err != nil {
		// only reachable if the two structs drift apart
		panic(err)
	}
	return resp
}

func FromWaitingListViews(views []*queries.WaitingListView) []*WaitingListEntryResponse {
	out := make([]*WaitingListEntryResponse, len(views))
	for i, v := range views {
		out[i] = FromWaitingListView(v)
	}
	return out
}

type WaitingListPageResponse struct {
	Entries    []*WaitingListEntryResponse `json:"entries"`
	NextCursor string                      `json:"next_cursor,omitempty"`
}

type ConfirmResponse struct {
	Entry             *WaitingListEntryResponse `json:"entry"`
	OrderID           uuid.UUID                 `json:"order_id"`
	ResolvedConflicts int                       `json:"resolved_conflicts"`
}

func FromConfirmResult(r *commands.ConfirmResult) *ConfirmResponse {
	return &ConfirmResponse{
		Entry:             FromEntry(r.Entry, 0),
		OrderID:           r.OrderID,
		ResolvedConflicts: r.ResolvedConflicts,
	}
}

type CancelResponse struct {
	Entry    *WaitingListEntryResponse `json:"entry"`
	Changed  bool                      `json:"changed"`
	Promoted *WaitingListEntryResponse `json:"promoted,omitempty"`
}

func FromCancelResult(r *commands.CancelResult) *CancelResponse {
	resp := &CancelResponse{Entry: FromEntry(r.Entry, 0), Changed: r.Changed}
	if r.Promoted != nil {
		resp.Promoted = FromEntry(r.Promoted, 0)
	}
	return resp
}
