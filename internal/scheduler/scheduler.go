package scheduler

import (
	"context"
	"time"

	"github.com/assist-by/signalhub/internal/logger"
)

// Task is a unit of scheduled work.
type Task interface {
	Execute(ctx context.Context) error
}

// Scheduler runs a task on wall-clock aligned boundaries of interval.
type Scheduler struct {
	interval time.Duration
	task     Task
	stopCh   chan struct{}
	now      func() time.Time
}

// NewScheduler creates a scheduler.
func NewScheduler(interval time.Duration, task Task) *Scheduler {
	return &Scheduler{
		interval: interval,
		task:     task,
		stopCh:   make(chan struct{}),
		now:      time.Now,
	}
}

// RunNow executes the task once immediately.
func (s *Scheduler) RunNow(ctx context.Context) {
	if err := s.task.Execute(ctx); err != nil {
		logger.Error("scheduled task failed", logger.ErrorField(err))
	}
}

// Start blocks until ctx is cancelled or Stop is called. Task errors are
// logged and do not stop the loop.
func (s *Scheduler) Start(ctx context.Context) error {
	timer := time.NewTimer(s.untilNext())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-s.stopCh:
			return nil

		case <-timer.C:
			s.RunNow(ctx)
			timer.Reset(s.untilNext())
		}
	}
}

// Stop ends Start.
func (s *Scheduler) Stop() {
	close(s.stopCh)
}

func (s *Scheduler) untilNext() time.Duration {
	now := s.now()
	nextRun := now.Truncate(s.interval).Add(s.interval)
	wait := nextRun.Sub(now)

	logger.Info("next scheduled run",
		logger.Duration("wait", wait.Round(time.Second)),
		logger.String("at", nextRun.Format("15:04:05")))
	return wait
}
