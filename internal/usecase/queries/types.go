package queries

import (
	"time"

	"github.com/google/uuid"
)

// WaitingListView represents read-optimized waiting list data.
// Position is only set for WAITING entries.
type WaitingListView struct {
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

type WaitingListFilter struct {
	RoomID   *uuid.UUID
	UserID   *uuid.UUID
	Statuses []string
}

// StatisticsScope selects rows created in [From, To), optionally for one room.
type StatisticsScope struct {
	RoomID *uuid.UUID
	From   time.Time
	To     time.Time
}

type ConflictCountRow struct {
	RoomID uuid.UUID
	Type   string
	Day    time.Time
	Count  int
}

type StatusCountRow struct {
	Status string
	Count  int
}

type DailyCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type ConflictStatistics struct {
	Total  int            `json:"total"`
	ByType map[string]int `json:"by_type"`
	ByRoom map[string]int `json:"by_room"`
	ByDay  []DailyCount   `json:"by_day"`
}

type WaitingListStatistics struct {
	Total              int            `json:"total"`
	ByStatus           map[string]int `json:"by_status"`
	ConversionRate     float64        `json:"conversion_rate"`
	AverageWaitSeconds float64        `json:"average_wait_seconds"`
}

type StatisticsView struct {
	RoomID      *uuid.UUID            `json:"room_id,omitempty"`
	From        time.Time             `json:"from"`
	To          time.Time             `json:"to"`
	Conflicts   ConflictStatistics    `json:"conflicts"`
	WaitingList WaitingListStatistics `json:"waiting_list"`
}
