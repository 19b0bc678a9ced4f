// Package scheduler fires the daily digest at the configured local time.
package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps a cron runner with a single daily job.
type Scheduler struct {
	cron *cron.Cron
}

// New schedules job at hour:minute every day in loc.
func New(loc *time.Location, hour, minute int, job func()) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(loc))
	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	if _, err := c.AddFunc(spec, job); err != nil {
		return nil, fmt.Errorf("schedule daily job: %w", err)
	}
	slog.Info("daily digest scheduled", "spec", spec, "timezone", loc.String())
	return &Scheduler{cron: c}, nil
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
