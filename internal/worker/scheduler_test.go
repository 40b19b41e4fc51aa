//go:build unit

package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"room-contention/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls  atomic.Int32
	result commands.SweepResult
	err    error
	block  chan struct{}
}

func (s *countingSweeper) Sweep(ctx context.Context) (commands.SweepResult, error) {
	s.calls.Add(1)
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return commands.SweepResult{}, ctx.Err()
		}
	}
	return s.result, s.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSchedulerRegister(t *testing.T) {
	s := NewScheduler(quietLogger())

	err := s.Register(Job{Name: "bad", Interval: 0, Sweeper: &countingSweeper{}})
	assert.Error(t, err)

	err = s.Register(Job{Name: "reaper", Interval: time.Minute, Sweeper: &countingSweeper{}})
	assert.NoError(t, err)
}

func TestSchedulerRunOnce(t *testing.T) {
	s := NewScheduler(quietLogger())

	t.Run("returns sweep result", func(t *testing.T) {
		sw := &countingSweeper{result: commands.SweepResult{Expired: 2, Promoted: 1}}
		res := s.RunOnce(Job{Name: "reaper", Interval: time.Minute, Sweeper: sw})
		assert.Equal(t, 2, res.Expired)
		assert.Equal(t, int32(1), sw.calls.Load())
	})

	t.Run("error is logged not propagated", func(t *testing.T) {
		sw := &countingSweeper{err: errors.New("db down")}
		res := s.RunOnce(Job{Name: "promotion", Interval: time.Minute, Sweeper: sw})
		assert.True(t, res.IsZero())
	})

	t.Run("run is bounded by timeout", func(t *testing.T) {
		sw := &countingSweeper{block: make(chan struct{})}
		start := time.Now()
		s.RunOnce(Job{Name: "slow", Interval: time.Minute, Timeout: 20 * time.Millisecond, Sweeper: sw})
		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestSchedulerFiresAndStops(t *testing.T) {
	s := NewScheduler(quietLogger())
	sw := &countingSweeper{}
	require.NoError(t, s.Register(Job{Name: "tick", Interval: time.Second, Sweeper: sw}))

	s.Start()
	assert.Eventually(t, func() bool { return sw.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

type orderedSweeper struct {
	name string
	log  chan<- string
}

func (s orderedSweeper) Sweep(context.Context) (commands.SweepResult, error) {
	s.log <- s.name
	return commands.SweepResult{}, nil
}

func TestSchedulerStartCatchesUpInOrder(t *testing.T) {
	s := NewScheduler(quietLogger())
	runs := make(chan string, 8)
	require.NoError(t, s.Register(Job{Name: "expiry-reaper", Interval: time.Hour, Sweeper: orderedSweeper{"reaper", runs}}))
	require.NoError(t, s.Register(Job{Name: "promotion-sweep", Interval: time.Hour, Sweeper: orderedSweeper{"promotion", runs}}))

	s.Start()

	for _, want := range []string{"reaper", "promotion"} {
		select {
		case got := <-runs:
			assert.Equal(t, want, got)
		case <-time.After(2 * time.Second):
			t.Fatalf("catch-up run %q did not happen", want)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.Empty(t, runs)
}

func TestSchedulerStopDuringCatchUp(t *testing.T) {
	s := NewScheduler(quietLogger())
	slow := &countingSweeper{block: make(chan struct{})}
	next := &countingSweeper{}
	require.NoError(t, s.Register(Job{Name: "slow", Interval: time.Hour, Sweeper: slow}))
	require.NoError(t, s.Register(Job{Name: "next", Interval: time.Hour, Sweeper: next}))

	s.Start()
	require.Eventually(t, func() bool { return slow.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.Zero(t, next.calls.Load())
}
