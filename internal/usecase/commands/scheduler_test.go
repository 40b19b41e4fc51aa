//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"room-contention/internal/domain/waitlist"
	"room-contention/internal/pkg/clock"
	"room-contention/internal/usecase/commands"
	"room-contention/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) Dispatch(ctx context.Context, userID uuid.UUID, msg shared.Message) error {
	args := m.Called(ctx, userID, msg)
	return args.Error(0)
}

func TestNotificationScheduler_OfferFreedWindow(t *testing.T) {
	ctx := context.Background()

	t.Run("promotes only the first fitting entry", func(t *testing.T) {
		f := newFixture(t, withClock(clock.NewTickingClock(t0, time.Second)))
		a := f.join(t, uuid.New(), rng("2026-11-10", "2026-11-12"))
		b := f.join(t, uuid.New(), rng("2026-11-12", "2026-11-13"))

		promoted, err := f.scheduler.OfferFreedWindow(ctx, f.roomID, rng("2026-11-10", "2026-11-13"))
		require.NoError(t, err)
		require.NotNil(t, promoted)
		assert.Equal(t, a.Entry.ID(), promoted.ID())

		stored, _ := f.store.Entry(b.Entry.ID())
		assert.Equal(t, waitlist.StatusWaiting, stored.Status)
	})

	t.Run("entries wider than the freed window are skipped", func(t *testing.T) {
		f := newFixture(t, withClock(clock.NewTickingClock(t0, time.Second)))
		wide := f.join(t, uuid.New(), rng("2026-11-09", "2026-11-12"))
		narrow := f.join(t, uuid.New(), rng("2026-11-10", "2026-11-11"))

		promoted, err := f.scheduler.OfferFreedWindow(ctx, f.roomID, rng("2026-11-10", "2026-11-12"))
		require.NoError(t, err)
		require.NotNil(t, promoted)
		assert.Equal(t, narrow.Entry.ID(), promoted.ID())

		stored, _ := f.store.Entry(wide.Entry.ID())
		assert.Equal(t, waitlist.StatusWaiting, stored.Status)
	})

	t.Run("window still occupied promotes nobody", func(t *testing.T) {
		f := newFixture(t)
		r := rng("2026-11-10", "2026-11-12")
		f.book(t, r)
		f.join(t, uuid.New(), r)

		promoted, err := f.scheduler.OfferFreedWindow(ctx, f.roomID, r)
		require.NoError(t, err)
		assert.Nil(t, promoted)
		assert.Empty(t, f.dispatcher.Sent())
	})

	t.Run("release never touches the occupying order", func(t *testing.T) {
		f := newFixture(t)
		r := rng("2026-11-10", "2026-11-12")
		o := f.book(t, r)
		f.join(t, uuid.New(), r)

		res, err := f.scheduler.ReleaseRoom(ctx, commands.ReleaseRequest{RoomID: f.roomID, Stay: r})
		require.NoError(t, err)
		assert.Nil(t, res.Promoted)
		require.Len(t, f.store.OccupyingOrders(f.roomID), 1)
		assert.Equal(t, o.ID(), f.store.OccupyingOrders(f.roomID)[0].ID())
	})

	t.Run("window freed by the order system is offered", func(t *testing.T) {
		f := newFixture(t)
		r := rng("2026-11-10", "2026-11-12")
		o := f.book(t, r)
		a := f.join(t, uuid.New(), r)
		require.True(t, f.store.CancelOrder(o.ID()))

		res, err := f.scheduler.ReleaseRoom(ctx, commands.ReleaseRequest{RoomID: f.roomID, Stay: r})
		require.NoError(t, err)
		require.NotNil(t, res.Promoted)
		assert.Equal(t, a.Entry.ID(), res.Promoted.ID())
		assert.Equal(t, t0.Add(2*time.Hour), *res.Promoted.ExpiresAt())

		sent := f.dispatcher.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, shared.MessageSlotAvailable, sent[0].Kind)
		assert.Equal(t, a.Entry.ID(), sent[0].EntryID)
		assert.Equal(t, "2026-11-10", sent[0].CheckIn)
	})
}

func TestNotificationScheduler_Sweep(t *testing.T) {
	ctx := context.Background()

	t.Run("promotes every free entry in queue order and is idempotent", func(t *testing.T) {
		f := newFixture(t, withClock(clock.NewTickingClock(t0, time.Second)))
		a := f.join(t, uuid.New(), rng("2026-11-10", "2026-11-12"))
		blocked := f.join(t, uuid.New(), rng("2026-11-11", "2026-11-13"))
		c := f.join(t, uuid.New(), rng("2026-11-20", "2026-11-21"))

		res, err := f.scheduler.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Rooms)
		assert.Equal(t, 2, res.Promoted)

		for id, want := range map[uuid.UUID]waitlist.Status{
			a.Entry.ID():       waitlist.StatusNotified,
			blocked.Entry.ID(): waitlist.StatusWaiting,
			c.Entry.ID():       waitlist.StatusNotified,
		} {
			stored, _ := f.store.Entry(id)
			assert.Equal(t, want, stored.Status)
		}

		again, err := f.scheduler.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, again.Promoted)
		assert.Len(t, f.dispatcher.Sent(), 2)
	})

	t.Run("empty queue is a no-op", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.scheduler.Sweep(ctx)
		require.NoError(t, err)
		assert.True(t, res.IsZero())
	})

	t.Run("busy rooms are skipped", func(t *testing.T) {
		locker := newSwitchLocker()
		f := newFixture(t, withLocker(locker))
		f.join(t, uuid.New(), rng("2026-11-10", "2026-11-12"))

		locker.block()
		res, err := f.scheduler.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Skipped)
		assert.Equal(t, 0, res.Promoted)

		locker.unblock()
		res, err = f.scheduler.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Promoted)
	})
}

func TestNotificationScheduler_DispatchFailureKeepsPromotion(t *testing.T) {
	ctx := context.Background()
	d := &mockDispatcher{}
	d.On("Dispatch", mock.Anything, mock.AnythingOfType("uuid.UUID"), mock.MatchedBy(func(m shared.Message) bool {
		return m.Kind == shared.MessageSlotAvailable
	})).Return(errors.New("broker down")).Once()

	f := newFixture(t, withDispatcher(d))
	r := rng("2026-11-10", "2026-11-12")
	a := f.join(t, uuid.New(), r)

	promoted, err := f.scheduler.OfferFreedWindow(ctx, f.roomID, r)
	require.NoError(t, err)
	require.NotNil(t, promoted)

	stored, _ := f.store.Entry(a.Entry.ID())
	assert.Equal(t, waitlist.StatusNotified, stored.Status)
	d.AssertExpectations(t)
}
