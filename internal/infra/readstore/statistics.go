package readstore

import (
	"context"
	"fmt"

	"room-contention/internal/infra"
	"room-contention/internal/infra/db"
	"room-contention/internal/pkg/pgconv"
	"room-contention/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgtype"
)

type StatisticsReadStore struct {
	db db.DBTX
}

func NewStatisticsReadStore(dbtx db.DBTX) *StatisticsReadStore {
	return &StatisticsReadStore{db: dbtx}
}

// scopeClause restricts alias's created_at to [From, To) and optionally one room.
func scopeClause(alias string, scope queries.StatisticsScope) (string, []any) {
	args := []any{pgconv.TimeToPgtype(scope.From), pgconv.TimeToPgtype(scope.To)}
	clause := fmt.Sprintf("%[1]s.created_at >= $1 AND %[1]s.created_at < $2", alias)
	if scope.RoomID != nil {
		args = append(args, *scope.RoomID)
		clause += fmt.Sprintf(" AND %s.room_id = $3", alias)
	}
	return clause, args
}

func (r *StatisticsReadStore) ConflictCounts(ctx context.Context, scope queries.StatisticsScope) ([]queries.ConflictCountRow, error) {
	where, args := scopeClause("c", scope)
	rows, err := r.db.Query(ctx, `
		SELECT c.room_id, c.conflict_type, (c.created_at AT TIME ZONE 'UTC')::date AS day, count(*)
		FROM booking_conflicts c
		WHERE `+where+`
		GROUP BY c.room_id, c.conflict_type, day`, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to count conflicts", err)
	}
	defer rows.Close()

	var out []queries.ConflictCountRow
	for rows.Next() {
		var (
			row queries.ConflictCountRow
			day pgtype.Date
			n   int64
		)
		if err := rows.Scan(&row.RoomID, &row.Type, &day, &n); err != nil {
			return nil, infra.WrapRepoErr("failed to scan conflict counts", err)
		}
		row.Day = pgconv.DateFromPgtype(day)
		row.Count = int(n)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate conflict counts", err)
	}
	return out, nil
}

func (r *StatisticsReadStore) WaitingListCounts(ctx context.Context, scope queries.StatisticsScope) ([]queries.StatusCountRow, error) {
	where, args := scopeClause("w", scope)
	rows, err := r.db.Query(ctx, `
		SELECT w.status, count(*)
		FROM waiting_list w
		WHERE `+where+`
		GROUP BY w.status`, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to count waiting list entries", err)
	}
	defer rows.Close()

	var out []queries.StatusCountRow
	for rows.Next() {
		var (
			row queries.StatusCountRow
			n   int64
		)
		if err := rows.Scan(&row.Status, &n); err != nil {
			return nil, infra.WrapRepoErr("failed to scan waiting list counts", err)
		}
		row.Count = int(n)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate waiting list counts", err)
	}
	return out, nil
}

func (r *StatisticsReadStore) AverageWait(ctx context.Context, scope queries.StatisticsScope) (float64, error) {
	where, args := scopeClause("w", scope)
	var avg pgtype.Float8
	err := r.db.QueryRow(ctx, `
		SELECT avg(extract(epoch FROM w.confirmed_at - w.created_at))::float8
		FROM waiting_list w
		WHERE w.status = 'CONFIRMED' AND w.confirmed_at IS NOT NULL AND `+where, args...).Scan(&avg)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to compute average wait", err)
	}
	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}
