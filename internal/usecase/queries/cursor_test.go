//go:build unit

package queries_test

import (
	"encoding/base64"
	"testing"
	"time"

	"room-contention/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor(t *testing.T) {
	t.Run("round trip keeps microseconds and id", func(t *testing.T) {
		ts := time.Date(2026, 11, 1, 10, 30, 0, 123456789, time.UTC)
		id := uuid.New()

		gotTS, gotID, err := queries.DecodeAfterCursor(queries.EncodeAfterCursor(ts, id))
		require.NoError(t, err)
		assert.Equal(t, ts.Truncate(time.Microsecond), gotTS)
		assert.Equal(t, id, gotID)
	})

	t.Run("rejects malformed cursors", func(t *testing.T) {
		for name, c := range map[string]string{
			"empty":       "",
			"not base64":  "%%%",
			"no version":  base64.URLEncoding.EncodeToString([]byte("123-" + uuid.NewString())),
			"bad id":      base64.URLEncoding.EncodeToString([]byte("v1:123-nope")),
			"bad instant": base64.URLEncoding.EncodeToString([]byte("v1:abc-" + uuid.NewString())),
		} {
			t.Run(name, func(t *testing.T) {
				_, _, err := queries.DecodeAfterCursor(c)
				assert.Error(t, err)
			})
		}
	})

	t.Run("limit is clamped", func(t *testing.T) {
		assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(0))
		assert.Equal(t, 5, queries.ValidateLimit(5))
		assert.Equal(t, queries.MaxListLimit, queries.ValidateLimit(10_000))
	})
}
