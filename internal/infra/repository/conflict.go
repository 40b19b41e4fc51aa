package repository

import (
	"context"
	"time"

	"room-contention/internal/domain/conflict"
	"room-contention/internal/domain/stay"
	"room-contention/internal/infra"
	"room-contention/internal/infra/db"
	"room-contention/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type ConflictRepository struct {
	db db.DBTX
}

func NewConflictRepository(dbtx db.DBTX) *ConflictRepository {
	return &ConflictRepository{db: dbtx}
}

func (r *ConflictRepository) Create(ctx context.Context, c *conflict.BookingConflict) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO booking_conflicts (`+conflictColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID(), c.RoomID(), c.UserID(),
		pgconv.DateToPgtype(c.Stay().CheckIn()), pgconv.DateToPgtype(c.Stay().CheckOut()),
		pgconv.UUIDPtrToPgtype(c.ConflictingOrderID()),
		c.Type().String(), c.Status().String(),
		pgconv.TimePtrToPgtype(c.ResolvedAt()), c.ResolutionNotes(),
		pgconv.TimeToPgtype(c.CreatedAt()))
	if err != nil {
		if pgconv.IsForeignKeyViolation(err) {
			return infra.WrapRepoErr("conflict references unknown row", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create conflict", err)
	}
	return nil
}

func (r *ConflictRepository) FindByID(ctx context.Context, id uuid.UUID) (*conflict.BookingConflict, error) {
	row := r.db.QueryRow(ctx, `SELECT `+conflictColumns+` FROM booking_conflicts WHERE id = $1`, id)
	c, err := scanConflict(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("conflict not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find conflict", err)
	}
	return c, nil
}

func (r *ConflictRepository) UpdateStatus(ctx context.Context, c *conflict.BookingConflict, from conflict.Status) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE booking_conflicts
		SET status = $2, resolved_at = $3, resolution_notes = $4
		WHERE id = $1 AND status = $5`,
		c.ID(), c.Status().String(), pgconv.TimePtrToPgtype(c.ResolvedAt()), c.ResolutionNotes(), from.String())
	if err != nil {
		return false, infra.WrapRepoErr("failed to update conflict status", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ConflictRepository) ResolveRelated(ctx context.Context, roomID, userID uuid.UUID, rng stay.DateRange, notes string, at time.Time) (int, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE booking_conflicts
		SET status = 'RESOLVED', resolved_at = $5, resolution_notes = $6
		WHERE room_id = $1 AND user_id = $2
		  AND status IN ('DETECTED', 'WAITING_LIST')
		  AND check_in < $4 AND check_out > $3`,
		roomID, userID,
		pgconv.DateToPgtype(rng.CheckIn()), pgconv.DateToPgtype(rng.CheckOut()),
		pgconv.TimeToPgtype(at), notes)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to resolve related conflicts", err)
	}
	return int(tag.RowsAffected()), nil
}
