//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"room-contention/internal/domain/order"
	"room-contention/internal/domain/stay"
	"room-contention/internal/infra/lock"
	"room-contention/internal/infra/memstore"
	"room-contention/internal/pkg/clock"
	"room-contention/internal/pkg/config"
	"room-contention/internal/usecase/commands"
	"room-contention/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []shared.Message
	err  error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, _ uuid.UUID, msg shared.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, msg)
	return d.err
}

func (d *recordingDispatcher) Sent() []shared.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]shared.Message(nil), d.sent...)
}

type fixture struct {
	store      *memstore.Store
	clock      *clock.MockClock
	dispatcher *recordingDispatcher
	cfg        config.Config

	detector  *commands.ConflictDetector
	waitlist  *commands.WaitingListManager
	scheduler *commands.NotificationScheduler
	reaper    *commands.ExpiryReaper
	service   commands.ResolutionCommands

	roomID uuid.UUID
}

type fixtureOption func(*fixtureParams)

type fixtureParams struct {
	clock      *clock.MockClock
	locker     shared.RoomLocker
	dispatcher shared.Dispatcher
}

func withClock(c *clock.MockClock) fixtureOption {
	return func(p *fixtureParams) { p.clock = c }
}

func withLocker(l shared.RoomLocker) fixtureOption {
	return func(p *fixtureParams) { p.locker = l }
}

func withDispatcher(d shared.Dispatcher) fixtureOption {
	return func(p *fixtureParams) { p.dispatcher = d }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	rec := &recordingDispatcher{}
	p := fixtureParams{
		clock:      clock.NewMockClock(t0),
		locker:     lock.NewLocalRegistry(),
		dispatcher: rec,
	}
	for _, o := range opts {
		o(&p)
	}

	cfg := config.NewTestConfig()
	store := memstore.New()
	guard := commands.NewRoomGuard(p.locker, cfg.Lock)
	scheduler := commands.NewNotificationScheduler(store, guard, p.dispatcher, p.clock, cfg.Waitlist, cfg.Notify)
	detector := commands.NewConflictDetector(store, guard, p.clock)
	manager := commands.NewWaitingListManager(store, guard, store, scheduler, p.clock)
	reaper := commands.NewExpiryReaper(store, guard, scheduler, p.clock, cfg.Waitlist)

	roomID := uuid.New()
	store.AddRoom(roomID)

	return &fixture{
		store:      store,
		clock:      p.clock,
		dispatcher: rec,
		cfg:        cfg,
		detector:   detector,
		waitlist:   manager,
		scheduler:  scheduler,
		reaper:     reaper,
		service:    commands.NewResolutionService(store, guard, detector, manager, scheduler, p.clock),
		roomID:     roomID,
	}
}

func rng(in, out string) stay.DateRange {
	return stay.MustDateRange(in, out)
}

// book seeds an occupying order for a new user and returns it.
func (f *fixture) book(t *testing.T, r stay.DateRange) *order.Order {
	t.Helper()
	return f.bookFor(t, uuid.New(), r)
}

func (f *fixture) bookFor(t *testing.T, userID uuid.UUID, r stay.DateRange) *order.Order {
	t.Helper()
	o, err := order.NewConfirmedOrder(f.roomID, userID, r, 2, "", f.clock.Now())
	require.NoError(t, err)
	require.NoError(t, f.store.InsertOrder(o))
	return o
}

// checkout frees o the way the order system does, then reports the freed window.
func (f *fixture) checkout(t *testing.T, o *order.Order) *commands.ReleaseResult {
	t.Helper()
	require.True(t, f.store.CancelOrder(o.ID()))
	res, err := f.service.ReleaseRoom(context.Background(), commands.ReleaseRequest{RoomID: f.roomID, Stay: o.Stay()})
	require.NoError(t, err)
	return res
}

func (f *fixture) join(t *testing.T, userID uuid.UUID, r stay.DateRange) *commands.JoinResult {
	t.Helper()
	res, err := f.waitlist.Join(context.Background(), commands.JoinRequest{
		RoomID:     f.roomID,
		UserID:     userID,
		Stay:       r,
		GuestCount: 2,
	})
	require.NoError(t, err)
	return res
}

// gatedLocker holds the first acquirer inside the lock until a second caller
// has arrived, so the second request provably started before the first one
// finished its work.
type gatedLocker struct {
	inner   shared.RoomLocker
	mu      sync.Mutex
	calls   int
	arrived chan struct{}
}

func newGatedLocker() *gatedLocker {
	return &gatedLocker{inner: lock.NewLocalRegistry(), arrived: make(chan struct{})}
}

func (g *gatedLocker) Acquire(ctx context.Context, roomID uuid.UUID) (func(), error) {
	g.mu.Lock()
	g.calls++
	n := g.calls
	g.mu.Unlock()

	if n == 2 {
		close(g.arrived)
	}
	release, err := g.inner.Acquire(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if n == 1 {
		select {
		case <-g.arrived:
		case <-ctx.Done():
		}
	}
	return release, nil
}

// blockingLocker never grants a lock.
type blockingLocker struct{}

func (blockingLocker) Acquire(ctx context.Context, _ uuid.UUID) (func(), error) {
	<-ctx.Done()
	return nil, shared.ErrLockNotAcquired
}

func (g *gatedLocker) waitForCalls(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		g.mu.Lock()
		defer g.mu.Unlock()
		return g.calls >= n
	}, time.Second, time.Millisecond)
}

// switchLocker delegates to a local registry until blocked.
type switchLocker struct {
	inner   shared.RoomLocker
	mu      sync.Mutex
	blocked bool
}

func newSwitchLocker() *switchLocker {
	return &switchLocker{inner: lock.NewLocalRegistry()}
}

func (s *switchLocker) block()   { s.mu.Lock(); s.blocked = true; s.mu.Unlock() }
func (s *switchLocker) unblock() { s.mu.Lock(); s.blocked = false; s.mu.Unlock() }

func (s *switchLocker) Acquire(ctx context.Context, roomID uuid.UUID) (func(), error) {
	s.mu.Lock()
	blocked := s.blocked
	s.mu.Unlock()
	if blocked {
		return blockingLocker{}.Acquire(ctx, roomID)
	}
	return s.inner.Acquire(ctx, roomID)
}
