package memstore

import (
	"bytes"
	"context"
	"slices"
	"sort"
	"time"

	"room-contention/internal/domain/stay"
	"room-contention/internal/domain/waitlist"
	"room-contention/internal/infra"
	"room-contention/internal/usecase/queries"

	"github.com/google/uuid"
)

// ReadStore serves the query side from a Store.
type ReadStore struct {
	store *Store
}

func NewReadStore(store *Store) *ReadStore {
	return &ReadStore{store: store}
}

func toView(st *state, s waitlist.Snapshot) *queries.WaitingListView {
	v := &queries.WaitingListView{
		ID:               s.ID,
		RoomID:           s.RoomID,
		UserID:           s.UserID,
		CheckIn:          s.Stay.CheckIn().Format(stay.DateLayout),
		CheckOut:         s.Stay.CheckOut().Format(stay.DateLayout),
		GuestCount:       s.GuestCount,
		Priority:         s.Priority,
		Status:           s.Status.String(),
		ConflictID:       s.ConflictID,
		NotifiedAt:       s.NotifiedAt,
		ExpiresAt:        s.ExpiresAt,
		ConfirmedOrderID: s.ConfirmedOrderID,
		ConfirmedAt:      s.ConfirmedAt,
		CancelledAt:      s.CancelledAt,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
	if s.Status == waitlist.StatusWaiting {
		v.Position = position(st, s)
	}
	return v
}

func position(st *state, target waitlist.Snapshot) int {
	key := waitlist.RankKey{Priority: target.Priority, CreatedAt: target.CreatedAt, Seq: target.Seq}
	pos := 1
	for _, s := range st.entries {
		if s.ID == target.ID || s.RoomID != target.RoomID || s.Status != waitlist.StatusWaiting {
			continue
		}
		if waitlist.Ahead(waitlist.RankKey{Priority: s.Priority, CreatedAt: s.CreatedAt, Seq: s.Seq}, key) {
			pos++
		}
	}
	return pos
}

func (r *ReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.WaitingListView, error) {
	var v *queries.WaitingListView
	r.store.read(func(st *state) {
		if s, ok := st.entries[id]; ok {
			v = toView(st, s)
		}
	})
	if v == nil {
		return nil, infra.WrapRepoErr("waiting list entry not found", nil, infra.KindNotFound)
	}
	return v, nil
}

func matches(f queries.WaitingListFilter, s waitlist.Snapshot) bool {
	if f.RoomID != nil && s.RoomID != *f.RoomID {
		return false
	}
	if f.UserID != nil && s.UserID != *f.UserID {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, s.Status.String()) {
		return false
	}
	return true
}

// newestFirst orders by (created_at desc, id desc).
func newestFirst(a, b waitlist.Snapshot) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) > 0
}

func (r *ReadStore) page(filter queries.WaitingListFilter, after *waitlist.Snapshot, limit int32) []*queries.WaitingListView {
	var out []*queries.WaitingListView
	r.store.read(func(st *state) {
		rows := make([]waitlist.Snapshot, 0, len(st.entries))
		for _, s := range st.entries {
			if !matches(filter, s) {
				continue
			}
			if after != nil && !newestFirst(*after, s) {
				continue
			}
			rows = append(rows, s)
		}
		sort.Slice(rows, func(i, j int) bool { return newestFirst(rows[i], rows[j]) })
		rows = truncate(rows, int(limit))
		out = make([]*queries.WaitingListView, 0, len(rows))
		for _, s := range rows {
			out = append(out, toView(st, s))
		}
	})
	return out
}

func (r *ReadStore) FindFirstPage(_ context.Context, filter queries.WaitingListFilter, limit int32) ([]*queries.WaitingListView, error) {
	return r.page(filter, nil, limit), nil
}

func (r *ReadStore) FindKeyset(_ context.Context, filter queries.WaitingListFilter, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.WaitingListView, error) {
	// Cursor instants carry microsecond precision.
	after := waitlist.Snapshot{CreatedAt: lastCreatedAt, ID: lastID}
	return r.page(filter, &after, limit), nil
}

func inScope(scope queries.StatisticsScope, roomID uuid.UUID, createdAt time.Time) bool {
	if scope.RoomID != nil && *scope.RoomID != roomID {
		return false
	}
	return !createdAt.Before(scope.From) && createdAt.Before(scope.To)
}

func (r *ReadStore) ConflictCounts(_ context.Context, scope queries.StatisticsScope) ([]queries.ConflictCountRow, error) {
	type key struct {
		room uuid.UUID
		typ  string
		day  time.Time
	}
	counts := make(map[key]int)
	r.store.read(func(st *state) {
		for _, c := range st.conflicts {
			if !inScope(scope, c.roomID, c.createdAt) {
				continue
			}
			counts[key{room: c.roomID, typ: string(c.conflictType), day: stay.Day(c.createdAt)}]++
		}
	})

	rows := make([]queries.ConflictCountRow, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, queries.ConflictCountRow{RoomID: k.room, Type: k.typ, Day: k.day, Count: n})
	}
	return rows, nil
}

func (r *ReadStore) WaitingListCounts(_ context.Context, scope queries.StatisticsScope) ([]queries.StatusCountRow, error) {
	counts := make(map[string]int)
	r.store.read(func(st *state) {
		for _, s := range st.entries {
			if inScope(scope, s.RoomID, s.CreatedAt) {
				counts[s.Status.String()]++
			}
		}
	})

	rows := make([]queries.StatusCountRow, 0, len(counts))
	for status, n := range counts {
		rows = append(rows, queries.StatusCountRow{Status: status, Count: n})
	}
	return rows, nil
}

func (r *ReadStore) AverageWait(_ context.Context, scope queries.StatisticsScope) (float64, error) {
	var total time.Duration
	var n int
	r.store.read(func(st *state) {
		for _, s := range st.entries {
			if s.Status != waitlist.StatusConfirmed || s.ConfirmedAt == nil || !inScope(scope, s.RoomID, s.CreatedAt) {
				continue
			}
			total += s.ConfirmedAt.Sub(s.CreatedAt)
			n++
		}
	})
	if n == 0 {
		return 0, nil
	}
	return total.Seconds() / float64(n), nil
}
