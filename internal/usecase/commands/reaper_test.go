//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"room-contention/internal/domain/waitlist"
	"room-contention/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpiryReaper_Sweep(t *testing.T) {
	ctx := context.Background()
	r := rng("2026-11-10", "2026-11-12")

	t.Run("nothing to do is a no-op", func(t *testing.T) {
		f := newFixture(t)
		f.join(t, uuid.New(), r)

		res, err := f.reaper.Sweep(ctx)
		require.NoError(t, err)
		assert.True(t, res.IsZero())
	})

	t.Run("hold is kept until expiry has strictly passed", func(t *testing.T) {
		f := newFixture(t)
		a := f.join(t, uuid.New(), r)
		_, err := f.scheduler.OfferFreedWindow(ctx, f.roomID, r)
		require.NoError(t, err)

		f.clock.Add(2 * time.Hour)
		res, err := f.reaper.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Expired)

		stored, _ := f.store.Entry(a.Entry.ID())
		assert.Equal(t, waitlist.StatusNotified, stored.Status)
	})

	t.Run("overdue hold expires and cascades to the next entry", func(t *testing.T) {
		f := newFixture(t, withClock(clock.NewMockClock(t0)))
		a := f.join(t, uuid.New(), r)
		f.clock.Add(time.Second)
		b := f.join(t, uuid.New(), r)
		_, err := f.scheduler.OfferFreedWindow(ctx, f.roomID, r)
		require.NoError(t, err)

		f.clock.Add(2*time.Hour + time.Second)
		res, err := f.reaper.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Expired)
		assert.Equal(t, 1, res.Promoted)

		expired, _ := f.store.Entry(a.Entry.ID())
		assert.Equal(t, waitlist.StatusExpired, expired.Status)
		next, _ := f.store.Entry(b.Entry.ID())
		assert.Equal(t, waitlist.StatusNotified, next.Status)

		again, err := f.reaper.Sweep(ctx)
		require.NoError(t, err)
		assert.True(t, again.IsZero())
	})

	t.Run("waiting entries past check-in are cancelled, never expired", func(t *testing.T) {
		f := newFixture(t)
		f.book(t, r)
		stale := f.join(t, uuid.New(), r)
		future := f.join(t, uuid.New(), rng("2026-11-20", "2026-11-22"))
		f.book(t, rng("2026-11-20", "2026-11-22"))

		f.clock.Set(time.Date(2026, 11, 11, 8, 0, 0, 0, time.UTC))
		res, err := f.reaper.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Cancelled)
		assert.Equal(t, 0, res.Expired)

		got, _ := f.store.Entry(stale.Entry.ID())
		assert.Equal(t, waitlist.StatusCancelled, got.Status)
		require.NotNil(t, got.CancelledAt)
		kept, _ := f.store.Entry(future.Entry.ID())
		assert.Equal(t, waitlist.StatusWaiting, kept.Status)
	})

	t.Run("waiting entry checking in today is not stale", func(t *testing.T) {
		f := newFixture(t)
		f.book(t, r)
		e := f.join(t, uuid.New(), r)

		f.clock.Set(time.Date(2026, 11, 10, 23, 0, 0, 0, time.UTC))
		res, err := f.reaper.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Cancelled)
		got, _ := f.store.Entry(e.Entry.ID())
		assert.Equal(t, waitlist.StatusWaiting, got.Status)
	})
}
