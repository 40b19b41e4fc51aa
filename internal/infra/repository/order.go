package repository

import (
	"context"

	"room-contention/internal/domain/order"
	"room-contention/internal/domain/stay"
	"room-contention/internal/infra"
	"room-contention/internal/infra/db"
	"room-contention/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type OrderRepository struct {
	db db.DBTX
}

func NewOrderRepository(dbtx db.DBTX) *OrderRepository {
	return &OrderRepository{db: dbtx}
}

func (r *OrderRepository) FindOverlapping(ctx context.Context, roomID uuid.UUID, rng stay.DateRange) ([]*order.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE room_id = $1
		  AND status IN ('PENDING', 'CONFIRMED')
		  AND check_in < $3 AND check_out > $2
		ORDER BY created_at, id`,
		roomID, pgconv.DateToPgtype(rng.CheckIn()), pgconv.DateToPgtype(rng.CheckOut()))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find overlapping orders", err)
	}
	orders, err := collect(rows, scanOrder)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan overlapping orders", err)
	}
	return orders, nil
}

// Create relies on the orders_no_overlap exclusion constraint as the last
// line against double occupancy.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO orders (id, room_id, user_id, check_in, check_out, guest_count, status, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`,
		o.ID(), o.RoomID(), o.UserID(),
		pgconv.DateToPgtype(o.Stay().CheckIn()), pgconv.DateToPgtype(o.Stay().CheckOut()),
		o.GuestCount(), o.Status().String(), o.Note(), pgconv.TimeToPgtype(o.CreatedAt()))
	switch {
	case err == nil:
		return nil
	case pgconv.IsExclusionViolation(err):
		return infra.WrapRepoErr("order overlaps an occupying order", err, infra.KindExclusionViolated)
	case pgconv.IsUniqueViolation(err):
		return infra.WrapRepoErr("order already exists", err, infra.KindDuplicateKey)
	case pgconv.IsForeignKeyViolation(err):
		return infra.WrapRepoErr("order references unknown room", err, infra.KindForeignKeyViolated)
	default:
		return infra.WrapRepoErr("failed to create order", err)
	}
}
