//go:build unit

package commands_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"room-contention/internal/domain/conflict"
	"room-contention/internal/domain/waitlist"
	"room-contention/internal/pkg/clock"
	"room-contention/internal/pkg/errs"
	"room-contention/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitingListManager_Join(t *testing.T) {
	ctx := context.Background()
	r := rng("2026-11-10", "2026-11-12")

	t.Run("positions follow join order for equal priority", func(t *testing.T) {
		f := newFixture(t, withClock(clock.NewTickingClock(t0, time.Second)))
		a := f.join(t, uuid.New(), r)
		b := f.join(t, uuid.New(), r)
		c := f.join(t, uuid.New(), r)

		assert.Equal(t, 1, a.Position)
		assert.Equal(t, 2, b.Position)
		assert.Equal(t, 3, c.Position)
		assert.Equal(t, waitlist.DefaultPriority, c.Entry.Priority())
	})

	t.Run("vip jumps ahead of standard entries", func(t *testing.T) {
		f := newFixture(t, withClock(clock.NewTickingClock(t0, time.Second)))
		a := f.join(t, uuid.New(), r)
		vipUser := uuid.New()
		f.store.SetTier(vipUser, waitlist.TierVIP)
		vip := f.join(t, vipUser, r)

		assert.Equal(t, waitlist.VIPPriority, vip.Entry.Priority())
		assert.Equal(t, 1, vip.Position)

		pos, err := f.waitlist.Position(ctx, a.Entry.ID())
		require.NoError(t, err)
		assert.Equal(t, 2, pos)
	})

	t.Run("identical timestamps are ordered by insertion", func(t *testing.T) {
		f := newFixture(t)
		a := f.join(t, uuid.New(), r)
		b := f.join(t, uuid.New(), r)

		assert.Equal(t, a.Entry.CreatedAt(), b.Entry.CreatedAt())
		assert.Less(t, a.Entry.Seq(), b.Entry.Seq())
		assert.Equal(t, 2, b.Position)

		next, err := f.waitlist.NextInLine(ctx, f.roomID, 10)
		require.NoError(t, err)
		require.Len(t, next, 2)
		assert.Equal(t, a.Entry.ID(), next[0].ID())
	})

	t.Run("second active entry for the same room is rejected", func(t *testing.T) {
		f := newFixture(t)
		userID := uuid.New()
		f.join(t, userID, r)

		_, err := f.waitlist.Join(ctx, commands.JoinRequest{RoomID: f.roomID, UserID: userID, Stay: rng("2026-12-01", "2026-12-02"), GuestCount: 1})
		assert.True(t, errs.IsKind(err, errs.KindDuplicateWaitingListEntry))
	})

	t.Run("user may rejoin after cancelling", func(t *testing.T) {
		f := newFixture(t)
		userID := uuid.New()
		first := f.join(t, userID, r)
		_, err := f.waitlist.Cancel(ctx, first.Entry.ID())
		require.NoError(t, err)

		again := f.join(t, userID, r)
		assert.NotEqual(t, first.Entry.ID(), again.Entry.ID())
	})

	t.Run("joining from a conflict links it", func(t *testing.T) {
		f := newFixture(t)
		f.book(t, r)
		userID := uuid.New()
		det, err := f.detector.Detect(ctx, commands.DetectRequest{RoomID: f.roomID, UserID: userID, Stay: r, GuestCount: 2})
		require.NoError(t, err)
		require.NotNil(t, det.ConflictID)

		res, err := f.waitlist.Join(ctx, commands.JoinRequest{RoomID: f.roomID, UserID: userID, Stay: r, GuestCount: 2, ConflictID: det.ConflictID})
		require.NoError(t, err)

		assert.Equal(t, *det.ConflictID, *res.Entry.ConflictID())
		c, ok := f.store.Conflict(*det.ConflictID)
		require.True(t, ok)
		assert.Equal(t, conflict.StatusWaitingList, c.Status())
	})

	t.Run("conflict of another user is rejected and nothing is stored", func(t *testing.T) {
		f := newFixture(t)
		f.book(t, r)
		det, err := f.detector.Detect(ctx, commands.DetectRequest{RoomID: f.roomID, UserID: uuid.New(), Stay: r, GuestCount: 2})
		require.NoError(t, err)

		res, err := f.waitlist.Join(ctx, commands.JoinRequest{RoomID: f.roomID, UserID: uuid.New(), Stay: r, GuestCount: 2, ConflictID: det.ConflictID})
		assert.Nil(t, res)
		assert.True(t, errs.IsKind(err, errs.KindValidation))

		next, err := f.waitlist.NextInLine(ctx, f.roomID, 10)
		require.NoError(t, err)
		assert.Empty(t, next)
	})

	t.Run("unknown room", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.waitlist.Join(ctx, commands.JoinRequest{RoomID: uuid.New(), UserID: uuid.New(), Stay: r, GuestCount: 1})
		assert.True(t, errs.IsKind(err, errs.KindResourceNotFound))
	})
}

func TestWaitingListManager_ConcurrentJoins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	r := rng("2026-11-10", "2026-11-12")
	const n = 25

	positions := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.waitlist.Join(ctx, commands.JoinRequest{RoomID: f.roomID, UserID: uuid.New(), Stay: r, GuestCount: 1})
			if assert.NoError(t, err) {
				positions[i] = res.Position
			}
		}(i)
	}
	wg.Wait()

	sort.Ints(positions)
	for i, p := range positions {
		assert.Equal(t, i+1, p)
	}

	next, err := f.waitlist.NextInLine(ctx, f.roomID, n)
	require.NoError(t, err)
	require.Len(t, next, n)
	for i, e := range next {
		pos, err := f.waitlist.Position(ctx, e.ID())
		require.NoError(t, err)
		assert.Equal(t, i+1, pos)
	}
}

func TestWaitingListManager_Cancel(t *testing.T) {
	ctx := context.Background()
	r := rng("2026-11-10", "2026-11-12")

	t.Run("cancel twice is a no-op the second time", func(t *testing.T) {
		f := newFixture(t)
		e := f.join(t, uuid.New(), r)

		first, err := f.waitlist.Cancel(ctx, e.Entry.ID())
		require.NoError(t, err)
		assert.True(t, first.Changed)
		assert.Equal(t, waitlist.StatusCancelled, first.Entry.Status())

		second, err := f.waitlist.Cancel(ctx, e.Entry.ID())
		require.NoError(t, err)
		assert.False(t, second.Changed)
		assert.Equal(t, waitlist.StatusCancelled, second.Entry.Status())
	})

	t.Run("cancelled entries leave the ranking", func(t *testing.T) {
		f := newFixture(t, withClock(clock.NewTickingClock(t0, time.Second)))
		a := f.join(t, uuid.New(), r)
		b := f.join(t, uuid.New(), r)

		_, err := f.waitlist.Cancel(ctx, a.Entry.ID())
		require.NoError(t, err)

		pos, err := f.waitlist.Position(ctx, b.Entry.ID())
		require.NoError(t, err)
		assert.Equal(t, 1, pos)
		pos, err = f.waitlist.Position(ctx, a.Entry.ID())
		require.NoError(t, err)
		assert.Equal(t, 0, pos)
	})

	t.Run("cancelling a notified entry offers the window to the next entry", func(t *testing.T) {
		f := newFixture(t, withClock(clock.NewTickingClock(t0, time.Second)))
		a := f.join(t, uuid.New(), r)
		b := f.join(t, uuid.New(), r)

		promoted, err := f.scheduler.OfferFreedWindow(ctx, f.roomID, r)
		require.NoError(t, err)
		require.Equal(t, a.Entry.ID(), promoted.ID())

		res, err := f.waitlist.Cancel(ctx, a.Entry.ID())
		require.NoError(t, err)
		require.NotNil(t, res.Promoted)
		assert.Equal(t, b.Entry.ID(), res.Promoted.ID())

		stored, _ := f.store.Entry(b.Entry.ID())
		assert.Equal(t, waitlist.StatusNotified, stored.Status)
		assert.Len(t, f.dispatcher.Sent(), 2)
	})

	t.Run("terminal entries stay terminal", func(t *testing.T) {
		f := newFixture(t)
		a := f.join(t, uuid.New(), r)
		_, err := f.scheduler.OfferFreedWindow(ctx, f.roomID, r)
		require.NoError(t, err)
		_, err = f.service.ConfirmWaitingListEntry(ctx, a.Entry.ID(), commands.ConfirmRequest{})
		require.NoError(t, err)

		res, err := f.waitlist.Cancel(ctx, a.Entry.ID())
		require.NoError(t, err)
		assert.False(t, res.Changed)
		assert.Equal(t, waitlist.StatusConfirmed, res.Entry.Status())
	})

	t.Run("unknown entry", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.waitlist.Cancel(ctx, uuid.New())
		assert.True(t, errs.IsKind(err, errs.KindResourceNotFound))
	})
}
