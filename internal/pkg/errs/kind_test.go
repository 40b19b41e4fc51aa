//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"room-contention/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	t.Run("kind survives wrapping", func(t *testing.T) {
		base := errs.E(errs.KindLockTimeout, "room busy")
		wrapped := errs.Wrap(base, "detect conflict")

		assert.True(t, errs.IsKind(wrapped, errs.KindLockTimeout))
		assert.False(t, errs.IsKind(wrapped, errs.KindEntryExpired))

		kind, ok := errs.KindOf(wrapped)
		assert.True(t, ok)
		assert.Equal(t, errs.KindLockTimeout, kind)
	})

	t.Run("plain errors carry no kind", func(t *testing.T) {
		_, ok := errs.KindOf(errors.New("boom"))
		assert.False(t, ok)
	})

	t.Run("cause stays reachable", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := errs.WrapKind(cause, errs.KindResourceNotFound, "lookup room")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("message carries context ids", func(t *testing.T) {
		roomID := uuid.New()
		entryID := uuid.New()
		err := errs.E(errs.KindEntryExpired, "too late").WithRoom(roomID).WithEntry(entryID)
		assert.Contains(t, err.Error(), "ENTRY_EXPIRED: too late")
		assert.Contains(t, err.Error(), roomID.String())
		assert.Contains(t, err.Error(), entryID.String())
	})

	t.Run("retryable kinds", func(t *testing.T) {
		assert.True(t, errs.KindLockTimeout.Retryable())
		assert.False(t, errs.KindConcurrentConflict.Retryable())
		assert.False(t, errs.KindValidation.Retryable())
		assert.False(t, errs.KindEntryExpired.Retryable())
	})
}
