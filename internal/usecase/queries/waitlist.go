package queries

import (
	"context"
	"time"

	"room-contention/internal/domain/waitlist"
	"room-contention/internal/infra"
	"room-contention/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrInvalidCursor = errs.E(errs.KindValidation, "invalid cursor")

type WaitingListReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*WaitingListView, error)
	FindFirstPage(ctx context.Context, filter WaitingListFilter, limit int32) ([]*WaitingListView, error)
	FindKeyset(ctx context.Context, filter WaitingListFilter, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*WaitingListView, error)
}

//go:generate mockgen -destination=../../../tests/mock/queries/mock_queries.go -package=queriesmock room-contention/internal/usecase/queries WaitingListQueries,StatisticsQueries

type WaitingListQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*WaitingListView, error)
	List(ctx context.Context, filter WaitingListFilter, cursor *Cursor, limit int) ([]*WaitingListView, *Cursor, error)
}

type waitingListQueriesImpl struct {
	repo WaitingListReadStore
}

func NewWaitingListQueries(repo WaitingListReadStore) WaitingListQueries {
	return &waitingListQueriesImpl{repo: repo}
}

func (q *waitingListQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*WaitingListView, error) {
	v, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.WrapKind(err, errs.KindResourceNotFound, "waiting list entry not found").WithEntry(id)
		}
		return nil, err
	}
	return v, nil
}

// List pages newest first by (created_at, id).
func (q *waitingListQueriesImpl) List(ctx context.Context, filter WaitingListFilter, cursor *Cursor, limit int) ([]*WaitingListView, *Cursor, error) {
	for _, s := range filter.Statuses {
		if !waitlist.Status(s).IsValid() {
			return nil, nil, errs.E(errs.KindValidation, "unknown status "+s)
		}
	}

	limit = ValidateLimit(limit)
	var rows []*WaitingListView
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.repo.FindFirstPage(ctx, filter, int32(limit+1))
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, ErrInvalidCursor
		}
		rows, err = q.repo.FindKeyset(ctx, filter, lastCreatedAt, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, err
	}
	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}
