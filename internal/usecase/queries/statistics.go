package queries

import (
	"context"
	"sort"
	"time"

	"room-contention/internal/domain/conflict"
	"room-contention/internal/domain/stay"
	"room-contention/internal/domain/waitlist"
	"room-contention/internal/pkg/clock"
	"room-contention/internal/pkg/errs"
)

const DefaultStatisticsWindow = 30 * 24 * time.Hour

type StatisticsReadStore interface {
	ConflictCounts(ctx context.Context, scope StatisticsScope) ([]ConflictCountRow, error)
	WaitingListCounts(ctx context.Context, scope StatisticsScope) ([]StatusCountRow, error)
	// AverageWait is the mean of confirmed_at - created_at over confirmed entries, in seconds.
	AverageWait(ctx context.Context, scope StatisticsScope) (float64, error)
}

type StatisticsQueries interface {
	Get(ctx context.Context, scope StatisticsScope) (*StatisticsView, error)
}

type statisticsQueriesImpl struct {
	repo  StatisticsReadStore
	clock clock.Clock
}

func NewStatisticsQueries(repo StatisticsReadStore, clk clock.Clock) StatisticsQueries {
	return &statisticsQueriesImpl{repo: repo, clock: clk}
}

// Get defaults a missing bound to a thirty day window ending tomorrow.
func (q *statisticsQueriesImpl) Get(ctx context.Context, scope StatisticsScope) (*StatisticsView, error) {
	if scope.To.IsZero() {
		scope.To = stay.Day(q.clock.Now()).AddDate(0, 0, 1)
	}
	if scope.From.IsZero() {
		scope.From = scope.To.Add(-DefaultStatisticsWindow)
	}
	if !scope.From.Before(scope.To) {
		return nil, errs.E(errs.KindValidation, "from must be before to")
	}

	conflictRows, err := q.repo.ConflictCounts(ctx, scope)
	if err != nil {
		return nil, err
	}
	statusRows, err := q.repo.WaitingListCounts(ctx, scope)
	if err != nil {
		return nil, err
	}
	avgWait, err := q.repo.AverageWait(ctx, scope)
	if err != nil {
		return nil, err
	}

	return &StatisticsView{
		RoomID:      scope.RoomID,
		From:        scope.From,
		To:          scope.To,
		Conflicts:   AggregateConflicts(conflictRows),
		WaitingList: AggregateWaitingList(statusRows, avgWait),
	}, nil
}

func AggregateConflicts(rows []ConflictCountRow) ConflictStatistics {
	stats := ConflictStatistics{
		ByType: make(map[string]int),
		ByRoom: make(map[string]int),
	}
	for _, t := range conflict.AllTypes() {
		stats.ByType[string(t)] = 0
	}

	byDay := make(map[string]int)
	for _, r := range rows {
		stats.Total += r.Count
		stats.ByType[r.Type] += r.Count
		stats.ByRoom[r.RoomID.String()] += r.Count
		byDay[r.Day.Format(stay.DateLayout)] += r.Count
	}

	stats.ByDay = make([]DailyCount, 0, len(byDay))
	for day, n := range byDay {
		stats.ByDay = append(stats.ByDay, DailyCount{Day: day, Count: n})
	}
	sort.Slice(stats.ByDay, func(i, j int) bool { return stats.ByDay[i].Day < stats.ByDay[j].Day })
	return stats
}

func AggregateWaitingList(rows []StatusCountRow, avgWaitSeconds float64) WaitingListStatistics {
	stats := WaitingListStatistics{ByStatus: make(map[string]int)}
	for _, s := range waitlist.AllStatuses() {
		stats.ByStatus[s.String()] = 0
	}
	for _, r := range rows {
		stats.Total += r.Count
		stats.ByStatus[r.Status] += r.Count
	}
	if stats.Total > 0 {
		stats.ConversionRate = float64(stats.ByStatus[waitlist.StatusConfirmed.String()]) / float64(stats.Total)
	}
	stats.AverageWaitSeconds = avgWaitSeconds
	return stats
}
