package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dmreiland/bookrank/internal/metrics"
)

// Scheduler fires the daily ranking cycle on a cron expression. Overlap
// protection lives in the Engine's guard, so a cycle that outlives its
// interval makes the next firing a no-op instead of a pile-up.
type Scheduler struct {
	cron     *cron.Cron
	engine   *Engine
	log      *slog.Logger
	staleAge time.Duration
}

// NewScheduler creates a Scheduler running the ranking cycle on cronSpec
// (standard five-field syntax).
func NewScheduler(
	eng *Engine,
	cronSpec string,
	staleAge time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:     c,
		engine:   eng,
		log:      log,
		staleAge: staleAge,
	}

	if _, err := c.AddFunc(cronSpec, s.runCycle); err != nil {
		return nil, err
	}

	return s, nil
}

// Start recovers jobs abandoned by a previous process, then begins firing
// on schedule.
func (s *Scheduler) Start(ctx context.Context) {
	if err := s.engine.RecoverStaleJobs(ctx, s.staleAge); err != nil {
		s.log.Error("stale job recovery failed", "error", err)
	}

	s.cron.Start()
	s.publishNextRun()
	s.log.Info("scheduler started", "next_run", s.NextRun())
}

// Stop gracefully stops the scheduler, waiting for a running cycle to
// finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// NextRun returns the next scheduled firing time.
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) runCycle() {
	ctx := context.Background()
	s.log.Info("scheduled ranking cycle starting")

	skipped, err := s.engine.TriggerRankings(ctx)
	switch {
	case skipped:
		s.log.Warn("scheduled ranking cycle skipped, previous still running")
	case err != nil:
		s.log.Error("scheduled ranking cycle failed", "error", err)
	default:
		s.log.Info("scheduled ranking cycle complete")
	}

	s.publishNextRun()
}

func (s *Scheduler) publishNextRun() {
	if next := s.NextRun(); !next.IsZero() {
		metrics.SchedulerNextRunTimestamp.Set(float64(next.Unix()))
	}
}
