// Package memstore keeps the whole contention state in process. Write
// transactions run on a copy of the state that replaces the original only on
// commit, so a failing operation leaves nothing behind.
package memstore

import (
	"context"
	"sync"
	"time"

	"room-contention/internal/domain/conflict"
	"room-contention/internal/domain/order"
	"room-contention/internal/domain/stay"
	"room-contention/internal/domain/waitlist"
	"room-contention/internal/infra"
	"room-contention/internal/usecase/shared"

	"github.com/google/uuid"
)

type orderRow struct {
	id         uuid.UUID
	roomID     uuid.UUID
	userID     uuid.UUID
	stay       stay.DateRange
	guestCount int
	status     order.Status
	note       string
	createdAt  time.Time
}

func (r orderRow) toDomain() *order.Order {
	return order.ReconstructOrder(r.id, r.roomID, r.userID, r.stay, r.guestCount, r.status, r.note, r.createdAt)
}

type conflictRow struct {
	id                 uuid.UUID
	roomID             uuid.UUID
	userID             uuid.UUID
	stay               stay.DateRange
	conflictingOrderID *uuid.UUID
	conflictType       conflict.Type
	status             conflict.Status
	resolvedAt         *time.Time
	resolutionNotes    string
	createdAt          time.Time
}

func conflictRowOf(c *conflict.BookingConflict) conflictRow {
	return conflictRow{
		id:                 c.ID(),
		roomID:             c.RoomID(),
		userID:             c.UserID(),
		stay:               c.Stay(),
		conflictingOrderID: c.ConflictingOrderID(),
		conflictType:       c.Type(),
		status:             c.Status(),
		resolvedAt:         c.ResolvedAt(),
		resolutionNotes:    c.ResolutionNotes(),
		createdAt:          c.CreatedAt(),
	}
}

func (r conflictRow) toDomain() *conflict.BookingConflict {
	return conflict.ReconstructBookingConflict(
		r.id, r.roomID, r.userID, r.stay, r.conflictingOrderID,
		r.conflictType, r.status, r.resolvedAt, r.resolutionNotes, r.createdAt,
	)
}

type state struct {
	rooms     map[uuid.UUID]struct{}
	tiers     map[uuid.UUID]waitlist.Tier
	orders    map[uuid.UUID]orderRow
	conflicts map[uuid.UUID]conflictRow
	entries   map[uuid.UUID]waitlist.Snapshot
	seq       int64
}

func newState() *state {
	return &state{
		rooms:     make(map[uuid.UUID]struct{}),
		tiers:     make(map[uuid.UUID]waitlist.Tier),
		orders:    make(map[uuid.UUID]orderRow),
		conflicts: make(map[uuid.UUID]conflictRow),
		entries:   make(map[uuid.UUID]waitlist.Snapshot),
	}
}

func (s *state) clone() *state {
	c := &state{
		rooms:     make(map[uuid.UUID]struct{}, len(s.rooms)),
		tiers:     make(map[uuid.UUID]waitlist.Tier, len(s.tiers)),
		orders:    make(map[uuid.UUID]orderRow, len(s.orders)),
		conflicts: make(map[uuid.UUID]conflictRow, len(s.conflicts)),
		entries:   make(map[uuid.UUID]waitlist.Snapshot, len(s.entries)),
		seq:       s.seq,
	}
	for k, v := range s.rooms {
		c.rooms[k] = v
	}
	for k, v := range s.tiers {
		c.tiers[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.conflicts {
		c.conflicts[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	return c
}

type Store struct {
	mu    sync.RWMutex
	state *state
}

func New() *Store {
	return &Store{state: newState()}
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(ctx, &memTx{st: work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(ctx, &memTx{st: s.state, readOnly: true})
}

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

func (s *Store) write(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

func (s *Store) AddRoom(roomID uuid.UUID) {
	s.write(func(st *state) { st.rooms[roomID] = struct{}{} })
}

func (s *Store) SetTier(userID uuid.UUID, tier waitlist.Tier) {
	s.write(func(st *state) { st.tiers[userID] = tier })
}

// InsertOrder seeds an order as an external booking system would.
func (s *Store) InsertOrder(o *order.Order) error {
	return s.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Orders().Create(ctx, o)
	})
}

// CancelOrder frees an occupying order as the order system would on
// cancellation or checkout; false when the order is unknown or already free.
func (s *Store) CancelOrder(orderID uuid.UUID) bool {
	var ok bool
	s.write(func(st *state) {
		row, found := st.orders[orderID]
		if !found || !row.status.Occupies() {
			return
		}
		row.status = order.StatusCancelled
		st.orders[orderID] = row
		ok = true
	})
	return ok
}

func (s *Store) Entry(id uuid.UUID) (waitlist.Snapshot, bool) {
	var snap waitlist.Snapshot
	var ok bool
	s.read(func(st *state) { snap, ok = st.entries[id] })
	return snap, ok
}

func (s *Store) Conflict(id uuid.UUID) (*conflict.BookingConflict, bool) {
	var c *conflict.BookingConflict
	s.read(func(st *state) {
		if row, ok := st.conflicts[id]; ok {
			c = row.toDomain()
		}
	})
	return c, c != nil
}

// OccupyingOrders lists PENDING/CONFIRMED orders of the room, oldest first.
func (s *Store) OccupyingOrders(roomID uuid.UUID) []*order.Order {
	var out []*order.Order
	s.read(func(st *state) {
		for _, row := range sortedOrders(st) {
			if row.roomID == roomID && row.status.Occupies() {
				out = append(out, row.toDomain())
			}
		}
	})
	return out
}

// TierOf satisfies shared.TierLookup.
func (s *Store) TierOf(_ context.Context, userID uuid.UUID) (waitlist.Tier, error) {
	var tier waitlist.Tier
	var ok bool
	s.read(func(st *state) { tier, ok = st.tiers[userID] })
	if !ok {
		return "", infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return tier, nil
}
