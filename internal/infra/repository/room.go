package repository

import (
	"context"

	"room-contention/internal/domain/waitlist"
	"room-contention/internal/infra"
	"room-contention/internal/infra/db"
	"room-contention/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type RoomRepository struct {
	db db.DBTX
}

func NewRoomRepository(dbtx db.DBTX) *RoomRepository {
	return &RoomRepository{db: dbtx}
}

func (r *RoomRepository) Exists(ctx context.Context, roomID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rooms WHERE id = $1)`, roomID).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check room", err)
	}
	return exists, nil
}

// TierRepository resolves a guest's tier from the users table.
type TierRepository struct {
	db db.DBTX
}

func NewTierRepository(dbtx db.DBTX) *TierRepository {
	return &TierRepository{db: dbtx}
}

func (r *TierRepository) TierOf(ctx context.Context, userID uuid.UUID) (waitlist.Tier, error) {
	var tier string
	err := r.db.QueryRow(ctx, `SELECT tier FROM users WHERE id = $1`, userID).Scan(&tier)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return "", infra.WrapRepoErr("failed to find user tier", err)
	}
	return waitlist.Tier(tier), nil
}
