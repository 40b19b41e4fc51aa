package lock

import (
	"context"
	"sync"

	"room-contention/internal/usecase/shared"

	"github.com/google/uuid"
)

type roomSlot struct {
	ch   chan struct{}
	refs int
}

// LocalRegistry hands out one in-process mutex per room. Slots are reference
// counted and dropped when no goroutine holds or waits on them.
type LocalRegistry struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*roomSlot
}

func NewLocalRegistry() *LocalRegistry {
	return &LocalRegistry{slots: make(map[uuid.UUID]*roomSlot)}
}

func (r *LocalRegistry) Acquire(ctx context.Context, roomID uuid.UUID) (func(), error) {
	slot := r.ref(roomID)

	select {
	case slot.ch <- struct{}{}:
	case <-ctx.Done():
		r.unref(roomID)
		return nil, shared.ErrLockNotAcquired
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-slot.ch
			r.unref(roomID)
		})
	}, nil
}

func (r *LocalRegistry) ref(roomID uuid.UUID) *roomSlot {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[roomID]
	if !ok {
		slot = &roomSlot{ch: make(chan struct{}, 1)}
		r.slots[roomID] = slot
	}
	slot.refs++
	return slot
}

func (r *LocalRegistry) unref(roomID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[roomID]
	if !ok {
		return
	}
	slot.refs--
	if slot.refs == 0 {
		delete(r.slots, roomID)
	}
}

// Len reports how many rooms currently have holders or waiters.
func (r *LocalRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}
