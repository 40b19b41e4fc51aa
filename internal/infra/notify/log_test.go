//go:build unit

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"room-contention/internal/domain/stay"
	"room-contention/internal/domain/waitlist"
	"room-contention/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogDispatcher(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	d := NewLogDispatcher(logger)

	now := time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)
	e, err := waitlist.NewEntry(uuid.New(), uuid.New(), stay.MustDateRange("2026-11-10", "2026-11-12"), 2, waitlist.TierStandard, nil, now)
	require.NoError(t, err)
	require.NoError(t, e.Promote(now, 2*time.Hour))

	msg := shared.NewSlotAvailableMessage(e)
	require.NoError(t, d.Dispatch(context.Background(), e.UserID(), msg))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "SLOT_AVAILABLE", line["kind"])
	assert.Equal(t, e.UserID().String(), line["user_id"])
	assert.Equal(t, e.ID().String(), line["entry_id"])
	assert.Equal(t, "2026-11-10", line["check_in"])
	assert.Equal(t, "2026-11-12", line["check_out"])
}

func TestMessageJSONOmitsStay(t *testing.T) {
	now := time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)
	e, err := waitlist.NewEntry(uuid.New(), uuid.New(), stay.MustDateRange("2026-11-10", "2026-11-12"), 1, waitlist.TierVIP, nil, now)
	require.NoError(t, err)
	require.NoError(t, e.Promote(now, time.Hour))

	body, err := json.Marshal(shared.NewSlotAvailableMessage(e))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.NotContains(t, decoded, "Stay")
	assert.Equal(t, now.Add(time.Hour).Format(time.RFC3339), decoded["expires_at"])
}
