// Package notify delivers slot-available messages to guests.
package notify

import (
	"context"
	"log/slog"

	"room-contention/internal/usecase/shared"

	"github.com/google/uuid"
)

// LogDispatcher only records the message. It is the default for local runs.
type LogDispatcher struct {
	logger *slog.Logger
}

func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(ctx context.Context, userID uuid.UUID, msg shared.Message) error {
	d.logger.InfoContext(ctx, "waiting list notification",
		slog.String("kind", string(msg.Kind)),
		slog.String("user_id", userID.String()),
		slog.String("entry_id", msg.EntryID.String()),
		slog.String("room_id", msg.RoomID.String()),
		slog.String("check_in", msg.CheckIn),
		slog.String("check_out", msg.CheckOut),
		slog.Time("expires_at", msg.ExpiresAt))
	return nil
}
