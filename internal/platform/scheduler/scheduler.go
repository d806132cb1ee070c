package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Job is one recurring task. Ticks run sequentially on a single goroutine,
// so a slow run can never overlap the next tick of the same job; run errors
// are logged at the loop boundary and never stop the schedule.
type Job struct {
	name string
	next func(now time.Time) time.Time
	fn   func(context.Context) error
}

// NewInterval schedules fn every fixed interval, first run one interval
// after Start.
func NewInterval(name string, every time.Duration, fn func(context.Context) error) Job {
	return Job{
		name: name,
		next: func(now time.Time) time.Time {
			return now.Add(every)
		},
		fn: fn,
	}
}

// NewDailyUTC schedules fn once per day anchored at 00:00 UTC.
func NewDailyUTC(name string, fn func(context.Context) error) Job {
	return Job{
		name: name,
		next: NextDailyUTC,
		fn:   fn,
	}
}

// NextDailyUTC returns the next 00:00 UTC strictly after now.
func NextDailyUTC(now time.Time) time.Time {
	now = now.UTC()
	anchor := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !anchor.After(now) {
		anchor = anchor.AddDate(0, 0, 1)
	}
	return anchor
}

// Run drives the job until ctx is cancelled.
func (j Job) Run(ctx context.Context, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	for {
		wait := time.Until(j.next(time.Now()))
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info("scheduler job stopped",
				"event", "scheduler_job_stopped",
				"module", "internal/platform/scheduler",
				"layer", "platform",
				"job", j.name,
			)
			return
		case <-timer.C:
		}

		if err := j.fn(ctx); err != nil {
			logger.Error("scheduler run failed",
				"event", "scheduler_run_failed",
				"module", "internal/platform/scheduler",
				"layer", "platform",
				"job", j.name,
				"error", err.Error(),
			)
		}
	}
}
