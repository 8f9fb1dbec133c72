package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Daily runs a job once a day at Hour:Minute local time. A failed run is
// logged and not retried until the next day.
type Daily struct {
	Hour    int
	Minute  int
	Timeout time.Duration
	Run     func(ctx context.Context) error
	Log     *zap.Logger

	now func() time.Time
}

// Start blocks until ctx is cancelled.
func (d *Daily) Start(ctx context.Context) {
	if d.now == nil {
		d.now = time.Now
	}
	if d.Timeout <= 0 {
		d.Timeout = 10 * time.Minute
	}

	for {
		now := d.now()
		next := nextRun(now, d.Hour, d.Minute)
		d.Log.Info("Next sync scheduled", zap.Time("at", next))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			d.Log.Info("Scheduler stopped")
			return
		case <-timer.C:
		}

		d.runOnce(ctx)
	}
}

func (d *Daily) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	start := time.Now()
	if err := d.Run(runCtx); err != nil {
		d.Log.Error("Scheduled sync failed", zap.Error(err), zap.Duration("took", time.Since(start)))
		return
	}
	d.Log.Info("Scheduled sync completed", zap.Duration("took", time.Since(start)))
}

// nextRun returns the first hour:minute strictly after now, in now's location.
func nextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
