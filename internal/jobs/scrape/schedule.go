package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/greenur/plantbasics/internal/platform/logger"
)

// Scheduler repeats a batch on a cron schedule. A batch still running when
// the next tick fires causes that tick to be skipped, so batches never overlap.
type Scheduler struct {
	log      *logger.Logger
	spec     string
	schedule cron.Schedule
	job      func(ctx context.Context)
}

// NewScheduler parses spec as a standard 5-field cron expression or a
// descriptor such as "@weekly".
func NewScheduler(log *logger.Logger, spec string, job func(ctx context.Context)) (*Scheduler, error) {
	spec = strings.TrimSpace(spec)
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	if job == nil {
		return nil, fmt.Errorf("scheduler: job required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Scheduler{
		log:      log.With("component", "ScrapeScheduler", "schedule", spec),
		spec:     spec,
		schedule: schedule,
		job:      job,
	}, nil
}

func (s *Scheduler) Next(from time.Time) time.Time {
	return s.schedule.Next(from)
}

// Run blocks until ctx is done, then waits for an in-flight batch to return.
func (s *Scheduler) Run(ctx context.Context) {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DiscardLogger),
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))
	c.Schedule(s.schedule, cron.FuncJob(func() {
		if ctx.Err() != nil {
			return
		}
		s.log.Info("scheduled scrape starting")
		s.job(ctx)
		s.log.Info("scheduled scrape done", "next", s.Next(time.Now()).Format(time.RFC3339))
	}))
	c.Start()
	s.log.Info("scrape scheduler started", "next", s.Next(time.Now()).Format(time.RFC3339))

	<-ctx.Done()
	<-c.Stop().Done()
	s.log.Info("scrape scheduler stopped")
}
