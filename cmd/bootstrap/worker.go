package bootstrap

import (
	"context"
	"log/slog"

	"room-contention/internal/pkg/config"
	"room-contention/internal/usecase/commands"
	"room-contention/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		worker.NewScheduler,
	),
	fx.Invoke(RegisterSweeps),
)

// RegisterSweeps schedules the expiry reaper and the promotion sweep. Both run
// once right after start, reaper first, before the first tick.
func RegisterSweeps(
	lc fx.Lifecycle,
	cfg config.Config,
	logger *slog.Logger,
	sched *worker.Scheduler,
	reaper *commands.ExpiryReaper,
	notifier *commands.NotificationScheduler,
) error {
	if !cfg.Waitlist.WorkersEnabled {
		logger.Info("background sweeps disabled")
		return nil
	}

	jobs := []worker.Job{
		{Name: "expiry-reaper", Interval: cfg.Waitlist.ReaperInterval, Sweeper: reaper},
		{Name: "promotion-sweep", Interval: cfg.Waitlist.PromotionSweepInterval, Sweeper: notifier},
	}
	for _, job := range jobs {
		if err := sched.Register(job); err != nil {
			return err
		}
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			sched.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return sched.Stop(ctx)
		},
	})
	return nil
}
