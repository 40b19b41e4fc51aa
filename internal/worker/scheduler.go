// Package worker runs the periodic waiting-list sweeps.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"room-contention/internal/usecase/commands"

	"github.com/robfig/cron/v3"
)

// Sweeper is one periodic pass over the waiting lists.
type Sweeper interface {
	Sweep(ctx context.Context) (commands.SweepResult, error)
}

type Job struct {
	Name     string
	Interval time.Duration
	Sweeper  Sweeper
	// Timeout bounds a single run; zero means Interval.
	Timeout time.Duration
}

// Scheduler runs jobs on a cron. A run still in progress when its next tick
// fires is skipped rather than overlapped.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	jobs    []Job
	catchUp sync.WaitGroup
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	cl := cronLogger{logger: logger}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Scheduler) Register(job Job) error {
	if job.Interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", job.Name)
	}
	_, err := s.cron.AddFunc("@every "+job.Interval.String(), func() { s.run(job) })
	if err != nil {
		return fmt.Errorf("job %s: %w", job.Name, err)
	}
	s.jobs = append(s.jobs, job)
	s.logger.Info("sweep job registered", slog.String("job", job.Name), slog.Duration("interval", job.Interval))
	return nil
}

// RunOnce executes job immediately on the calling goroutine.
func (s *Scheduler) RunOnce(job Job) commands.SweepResult {
	return s.run(job)
}

func (s *Scheduler) run(job Job) commands.SweepResult {
	timeout := job.Timeout
	if timeout <= 0 {
		timeout = job.Interval
	}
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	start := time.Now()
	res, err := job.Sweeper.Sweep(ctx)
	if err != nil {
		s.logger.Error("sweep failed",
			slog.String("job", job.Name),
			slog.String("error", err.Error()))
		return res
	}
	if res.IsZero() {
		s.logger.Debug("sweep idle", slog.String("job", job.Name))
		return res
	}
	s.logger.Info("sweep completed",
		slog.String("job", job.Name),
		slog.Int("rooms", res.Rooms),
		slog.Int("expired", res.Expired),
		slog.Int("promoted", res.Promoted),
		slog.Int("cancelled", res.Cancelled),
		slog.Int("skipped", res.Skipped),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return res
}

// Start returns at once. In the background it runs every registered job once,
// in registration order, to catch up on holds that lapsed while the process
// was down, and only then starts the cron, so a catch-up run never overlaps a tick.
func (s *Scheduler) Start() {
	s.catchUp.Add(1)
	go func() {
		defer s.catchUp.Done()
		for _, job := range s.jobs {
			if s.ctx.Err() != nil {
				return
			}
			s.run(job)
		}
		if s.ctx.Err() == nil {
			s.cron.Start()
		}
	}()
}

// Stop cancels running sweeps and waits for them to return or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	caughtUp := make(chan struct{})
	go func() {
		s.catchUp.Wait()
		close(caughtUp)
	}()
	select {
	case <-caughtUp:
	case <-ctx.Done():
		return ctx.Err()
	}

	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
