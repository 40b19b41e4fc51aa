package memstore

import (
	"bytes"
	"context"
	"slices"
	"sort"
	"time"

	"room-contention/internal/domain/conflict"
	"room-contention/internal/domain/order"
	"room-contention/internal/domain/stay"
	"room-contention/internal/domain/waitlist"
	"room-contention/internal/infra"
	"room-contention/internal/usecase/shared"

	"github.com/google/uuid"
)

type memTx struct {
	st       *state
	readOnly bool
}

func (t *memTx) Rooms() shared.RoomRepository              { return roomRepo{t} }
func (t *memTx) Orders() shared.OrderRepository            { return orderRepo{t} }
func (t *memTx) Conflicts() shared.ConflictRepository      { return conflictRepo{t} }
func (t *memTx) WaitingList() shared.WaitingListRepository { return waitingListRepo{t} }

func (t *memTx) writable() error {
	if t.readOnly {
		return infra.WrapRepoErr("write attempted in read-only transaction", nil)
	}
	return nil
}

type roomRepo struct{ tx *memTx }

func (r roomRepo) Exists(_ context.Context, roomID uuid.UUID) (bool, error) {
	_, ok := r.tx.st.rooms[roomID]
	return ok, nil
}

type orderRepo struct{ tx *memTx }

func sortedOrders(st *state) []orderRow {
	rows := make([]orderRow, 0, len(st.orders))
	for _, row := range st.orders {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].createdAt.Equal(rows[j].createdAt) {
			return rows[i].createdAt.Before(rows[j].createdAt)
		}
		return bytes.Compare(rows[i].id[:], rows[j].id[:]) < 0
	})
	return rows
}

func (r orderRepo) FindOverlapping(_ context.Context, roomID uuid.UUID, rng stay.DateRange) ([]*order.Order, error) {
	var out []*order.Order
	for _, row := range sortedOrders(r.tx.st) {
		if row.roomID == roomID && row.status.Occupies() && row.stay.Overlaps(rng) {
			out = append(out, row.toDomain())
		}
	}
	return out, nil
}

func (r orderRepo) Create(_ context.Context, o *order.Order) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	if o.Occupies() {
		for _, row := range r.tx.st.orders {
			if row.roomID == o.RoomID() && row.status.Occupies() && row.stay.Overlaps(o.Stay()) {
				return infra.WrapRepoErr("order overlaps an occupying order", nil, infra.KindExclusionViolated)
			}
		}
	}
	if _, dup := r.tx.st.orders[o.ID()]; dup {
		return infra.WrapRepoErr("order already exists", nil, infra.KindDuplicateKey)
	}
	r.tx.st.orders[o.ID()] = orderRow{
		id:         o.ID(),
		roomID:     o.RoomID(),
		userID:     o.UserID(),
		stay:       o.Stay(),
		guestCount: o.GuestCount(),
		status:     o.Status(),
		note:       o.Note(),
		createdAt:  o.CreatedAt(),
	}
	return nil
}

type conflictRepo struct{ tx *memTx }

func (r conflictRepo) Create(_ context.Context, c *conflict.BookingConflict) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	r.tx.st.conflicts[c.ID()] = conflictRowOf(c)
	return nil
}

func (r conflictRepo) FindByID(_ context.Context, id uuid.UUID) (*conflict.BookingConflict, error) {
	row, ok := r.tx.st.conflicts[id]
	if !ok {
		return nil, infra.WrapRepoErr("conflict not found", nil, infra.KindNotFound)
	}
	return row.toDomain(), nil
}

func (r conflictRepo) UpdateStatus(_ context.Context, c *conflict.BookingConflict, from conflict.Status) (bool, error) {
	if err := r.tx.writable(); err != nil {
		return false, err
	}
	row, ok := r.tx.st.conflicts[c.ID()]
	if !ok || row.status != from {
		return false, nil
	}
	row.status = c.Status()
	row.resolvedAt = c.ResolvedAt()
	row.resolutionNotes = c.ResolutionNotes()
	r.tx.st.conflicts[c.ID()] = row
	return true, nil
}

func (r conflictRepo) ResolveRelated(_ context.Context, roomID, userID uuid.UUID, rng stay.DateRange, notes string, at time.Time) (int, error) {
	if err := r.tx.writable(); err != nil {
		return 0, err
	}
	n := 0
	for id, row := range r.tx.st.conflicts {
		if row.roomID != roomID || row.userID != userID || !row.status.IsOpen() || !row.stay.Overlaps(rng) {
			continue
		}
		resolvedAt := at
		row.status = conflict.StatusResolved
		row.resolvedAt = &resolvedAt
		row.resolutionNotes = notes
		r.tx.st.conflicts[id] = row
		n++
	}
	return n, nil
}

type waitingListRepo struct{ tx *memTx }

func toEntry(s waitlist.Snapshot) *waitlist.Entry {
	e, err := waitlist.Reconstruct(s)
	if err != nil {
		// Rows are only written from valid entities.
		panic(err)
	}
	return e
}

func (r waitingListRepo) filter(keep func(s waitlist.Snapshot) bool) []*waitlist.Entry {
	var out []*waitlist.Entry
	for _, s := range r.tx.st.entries {
		if keep(s) {
			out = append(out, toEntry(s))
		}
	}
	return out
}

func (r waitingListRepo) Create(_ context.Context, e *waitlist.Entry) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	for _, s := range r.tx.st.entries {
		if s.RoomID == e.RoomID() && s.UserID == e.UserID() && s.Status.IsActive() {
			return infra.WrapRepoErr("active waiting list entry exists", nil, infra.KindDuplicateKey)
		}
	}
	r.tx.st.seq++
	e.AssignSeq(r.tx.st.seq)
	r.tx.st.entries[e.ID()] = e.Snapshot()
	return nil
}

func (r waitingListRepo) FindByID(_ context.Context, id uuid.UUID) (*waitlist.Entry, error) {
	s, ok := r.tx.st.entries[id]
	if !ok {
		return nil, infra.WrapRepoErr("waiting list entry not found", nil, infra.KindNotFound)
	}
	return toEntry(s), nil
}

func (r waitingListRepo) FindActive(_ context.Context, roomID, userID uuid.UUID) (*waitlist.Entry, error) {
	for _, s := range r.tx.st.entries {
		if s.RoomID == roomID && s.UserID == userID && s.Status.IsActive() {
			return toEntry(s), nil
		}
	}
	return nil, infra.WrapRepoErr("active waiting list entry not found", nil, infra.KindNotFound)
}

func (r waitingListRepo) CountAhead(_ context.Context, e *waitlist.Entry) (int, error) {
	key := e.RankKey()
	n := 0
	for _, s := range r.tx.st.entries {
		if s.ID == e.ID() || s.RoomID != e.RoomID() || s.Status != waitlist.StatusWaiting {
			continue
		}
		if waitlist.Ahead(waitlist.RankKey{Priority: s.Priority, CreatedAt: s.CreatedAt, Seq: s.Seq}, key) {
			n++
		}
	}
	return n, nil
}

func (r waitingListRepo) NextInLine(_ context.Context, roomID uuid.UUID, limit int) ([]*waitlist.Entry, error) {
	out := r.filter(func(s waitlist.Snapshot) bool {
		return s.RoomID == roomID && s.Status == waitlist.StatusWaiting
	})
	waitlist.SortByRank(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r waitingListRepo) FindHolds(_ context.Context, roomID uuid.UUID, rng stay.DateRange, now time.Time) ([]*waitlist.Entry, error) {
	out := r.filter(func(s waitlist.Snapshot) bool {
		return s.RoomID == roomID && s.Status == waitlist.StatusNotified &&
			s.ExpiresAt != nil && !s.ExpiresAt.Before(now) && s.Stay.Overlaps(rng)
	})
	waitlist.SortByRank(out)
	return out, nil
}

// cas stores e when the stored row satisfies expect.
func (r waitingListRepo) cas(e *waitlist.Entry, expect func(s waitlist.Snapshot) bool) (bool, error) {
	if err := r.tx.writable(); err != nil {
		return false, err
	}
	stored, ok := r.tx.st.entries[e.ID()]
	if !ok || !expect(stored) {
		return false, nil
	}
	next := e.Snapshot()
	next.Seq = stored.Seq
	r.tx.st.entries[e.ID()] = next
	return true, nil
}

func (r waitingListRepo) Promote(_ context.Context, e *waitlist.Entry) (bool, error) {
	return r.cas(e, func(s waitlist.Snapshot) bool { return s.Status == waitlist.StatusWaiting })
}

func (r waitingListRepo) Expire(_ context.Context, e *waitlist.Entry, now time.Time) (bool, error) {
	return r.cas(e, func(s waitlist.Snapshot) bool {
		return s.Status == waitlist.StatusNotified && s.ExpiresAt != nil && s.ExpiresAt.Before(now)
	})
}

func (r waitingListRepo) Confirm(_ context.Context, e *waitlist.Entry, now time.Time) (bool, error) {
	return r.cas(e, func(s waitlist.Snapshot) bool {
		return s.Status == waitlist.StatusNotified && s.ExpiresAt != nil && !s.ExpiresAt.Before(now)
	})
}

func (r waitingListRepo) Cancel(_ context.Context, e *waitlist.Entry, from ...waitlist.Status) (bool, error) {
	return r.cas(e, func(s waitlist.Snapshot) bool { return slices.Contains(from, s.Status) })
}

func (r waitingListRepo) FindExpiredNotified(_ context.Context, now time.Time, limit int) ([]*waitlist.Entry, error) {
	out := r.filter(func(s waitlist.Snapshot) bool {
		return s.Status == waitlist.StatusNotified && s.ExpiresAt != nil && s.ExpiresAt.Before(now)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt().Before(*out[j].ExpiresAt()) })
	return truncate(out, limit), nil
}

func (r waitingListRepo) FindStaleWaiting(_ context.Context, today time.Time, limit int) ([]*waitlist.Entry, error) {
	out := r.filter(func(s waitlist.Snapshot) bool {
		return s.Status == waitlist.StatusWaiting && s.Stay.StartsBefore(today)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().Before(out[j].CreatedAt()) })
	return truncate(out, limit), nil
}

// RoomsWithWaiting orders rooms by their oldest WAITING entry.
func (r waitingListRepo) RoomsWithWaiting(_ context.Context, limit int) ([]uuid.UUID, error) {
	oldest := make(map[uuid.UUID]waitlist.Snapshot)
	for _, s := range r.tx.st.entries {
		if s.Status != waitlist.StatusWaiting {
			continue
		}
		if cur, ok := oldest[s.RoomID]; !ok || s.Seq < cur.Seq {
			oldest[s.RoomID] = s
		}
	}
	rooms := make([]uuid.UUID, 0, len(oldest))
	for id := range oldest {
		rooms = append(rooms, id)
	}
	sort.Slice(rooms, func(i, j int) bool { return oldest[rooms[i]].Seq < oldest[rooms[j]].Seq })
	return truncate(rooms, limit), nil
}

func truncate[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
