// Package engine orchestrates the ranking pipeline: aggregate activity over
// a period window, score, rank, and atomically swap the stored snapshot.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmreiland/bookrank/internal/metrics"
	"github.com/dmreiland/bookrank/internal/store"
	"github.com/dmreiland/bookrank/pkg/period"
	"github.com/dmreiland/bookrank/pkg/ranker"
	"github.com/dmreiland/bookrank/pkg/scorer"
	domain "github.com/dmreiland/bookrank/pkg/types"
)

// Job names recorded in the job-tracking store.
const (
	JobBookRanking = "ranking:books"
	JobUserRanking = "ranking:users"
)

// Engine runs ranking computations against the store. A single Guard
// serializes full cycles, whether fired by the scheduler or a manual
// refresh.
type Engine struct {
	store store.Store
	guard *Guard
	log   *slog.Logger
	loc   *time.Location
	now   func() time.Time
}

// NewEngine creates an Engine with injected dependencies.
func NewEngine(s store.Store, opts ...EngineOption) *Engine {
	eng := &Engine{
		store: s,
		guard: &Guard{},
		log:   slog.Default(),
		loc:   time.UTC,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithLocation sets the timezone that anchors period windows.
func WithLocation(loc *time.Location) EngineOption {
	return func(e *Engine) {
		e.loc = loc
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// RunBookRanking recomputes the popular-book snapshot for one period.
// Returns the number of entries written.
func (eng *Engine) RunBookRanking(ctx context.Context, p period.Kind) (int, error) {
	return eng.runRanking(ctx, "book", JobBookRanking, p, eng.replaceBookSnapshot)
}

// RunUserRanking recomputes the power-user snapshot for one period.
// Returns the number of entries written.
func (eng *Engine) RunUserRanking(ctx context.Context, p period.Kind) (int, error) {
	return eng.runRanking(ctx, "user", JobUserRanking, p, eng.replaceUserSnapshot)
}

// RunAllRankings recomputes both snapshots for every period. A failure in
// one (kind, period) pair never blocks the rest; all failures are joined
// into the returned error.
func (eng *Engine) RunAllRankings(ctx context.Context) error {
	var errs []error

	for _, p := range period.Kinds() {
		if ctx.Err() != nil {
			errs = append(errs, fmt.Errorf("ranking cycle interrupted: %w", ctx.Err()))
			break
		}
		if _, err := eng.RunBookRanking(ctx, p); err != nil {
			errs = append(errs, fmt.Errorf("book ranking %s: %w", p, err))
		}
		if _, err := eng.RunUserRanking(ctx, p); err != nil {
			errs = append(errs, fmt.Errorf("user ranking %s: %w", p, err))
		}
	}

	return errors.Join(errs...)
}

// TriggerRankings runs a full ranking cycle unless one is already in
// flight. The skipped return is true when the cycle was rejected.
func (eng *Engine) TriggerRankings(ctx context.Context) (skipped bool, err error) {
	if !eng.guard.TryAcquire() {
		metrics.SchedulerSkippedTotal.Inc()
		eng.log.Warn("ranking cycle already in flight, skipping")
		return true, nil
	}
	defer eng.guard.Release()

	return false, eng.RunAllRankings(ctx)
}

// RecoverStaleJobs fails job rows abandoned mid-run by a previous process.
func (eng *Engine) RecoverStaleJobs(ctx context.Context, olderThan time.Duration) error {
	n, err := eng.store.RecoverStaleJobRuns(ctx, olderThan)
	if err != nil {
		return fmt.Errorf("recovering stale jobs: %w", err)
	}
	if n > 0 {
		eng.log.Warn("recovered stale job runs", "count", n)
	}
	return nil
}

// runRanking wraps one (kind, period) computation with job-run recording
// and metrics.
func (eng *Engine) runRanking(
	ctx context.Context,
	kindLabel, jobName string,
	p period.Kind,
	replace func(context.Context, period.Kind) (int, error),
) (int, error) {
	start := time.Now()
	now := eng.now().In(eng.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, eng.loc)

	runID, err := eng.store.InsertJobRun(ctx, jobName, domain.JobParams{
		Period: string(p),
		Today:  today,
		Salt:   start.UnixNano(),
	})
	if err != nil {
		// Tracking is best-effort; the computation still runs.
		eng.log.Warn("recording job run failed", "job", jobName, "period", p, "error", err)
		runID = ""
	}

	n, runErr := replace(ctx, p)

	metrics.RankingRunDuration.WithLabelValues(kindLabel, string(p)).Observe(time.Since(start).Seconds())

	status := domain.JobStatusSucceeded
	errText := ""
	if runErr != nil {
		status = domain.JobStatusFailed
		errText = runErr.Error()
		metrics.RankingRunsTotal.WithLabelValues(kindLabel, string(p), "failure").Inc()
		eng.log.Error("ranking run failed", "job", jobName, "period", p, "error", runErr)
	} else {
		metrics.RankingRunsTotal.WithLabelValues(kindLabel, string(p), "success").Inc()
		metrics.RankingEntriesReplaced.WithLabelValues(kindLabel, string(p)).Set(float64(n))
		eng.log.Info("ranking run complete",
			"job", jobName, "period", p, "entries", n,
			"duration", time.Since(start),
		)
	}

	if runID != "" {
		if err := eng.store.CompleteJobRun(ctx, runID, status, errText, n); err != nil {
			eng.log.Warn("completing job run failed", "job", jobName, "error", err)
		}
	}

	return n, runErr
}

// buildBookSnapshot aggregates, scores, and ranks book activity for one
// period window.
func (eng *Engine) buildBookSnapshot(
	ctx context.Context,
	p period.Kind,
) ([]domain.BookRanking, error) {
	start, end := period.Window(p, eng.now(), eng.loc)

	aggs, err := eng.store.AggregateBookActivity(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("aggregating book activity: %w", err)
	}

	byID := make(map[string]domain.BookAggregate, len(aggs))
	cands := make([]ranker.Candidate, len(aggs))
	for i, a := range aggs {
		byID[a.BookID] = a
		cands[i] = ranker.Candidate{
			SubjectID: a.BookID,
			Score:     scorer.Book(a),
			TieBreak:  float64(a.ReviewCount),
		}
	}
	ranker.Rank(cands)

	entries := make([]domain.BookRanking, len(cands))
	for i, c := range cands {
		a := byID[c.SubjectID]
		entries[i] = domain.BookRanking{
			BookID:      c.SubjectID,
			Rank:        c.Rank,
			Score:       c.Score,
			ReviewCount: a.ReviewCount,
			AvgRating:   a.AvgRating,
		}
	}
	return entries, nil
}

// buildUserSnapshot aggregates, scores, and ranks user activity for one
// period window.
func (eng *Engine) buildUserSnapshot(
	ctx context.Context,
	p period.Kind,
) ([]domain.UserRanking, error) {
	start, end := period.Window(p, eng.now(), eng.loc)

	aggs, err := eng.store.AggregateUserActivity(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("aggregating user activity: %w", err)
	}

	byID := make(map[string]domain.UserAggregate, len(aggs))
	cands := make([]ranker.Candidate, len(aggs))
	for i, a := range aggs {
		byID[a.UserID] = a
		cands[i] = ranker.Candidate{
			SubjectID: a.UserID,
			Score:     scorer.User(a),
			TieBreak:  float64(a.CommentCount),
		}
	}
	ranker.Rank(cands)

	entries := make([]domain.UserRanking, len(cands))
	for i, c := range cands {
		a := byID[c.SubjectID]
		entries[i] = domain.UserRanking{
			UserID:         c.SubjectID,
			Rank:           c.Rank,
			Score:          c.Score,
			ReviewScoreSum: a.ReviewScoreSum,
			LikeCount:      a.LikeCount,
			CommentCount:   a.CommentCount,
		}
	}
	return entries, nil
}

func (eng *Engine) replaceBookSnapshot(ctx context.Context, p period.Kind) (int, error) {
	entries, err := eng.buildBookSnapshot(ctx, p)
	if err != nil {
		return 0, err
	}

	n, err := eng.store.ReplaceBookRankings(ctx, string(p), entries)
	if isForeignKeyViolation(err) {
		// A book was deleted between aggregation and insert. Rebuild once;
		// the fresh aggregation no longer sees it.
		retry, rerr := eng.buildBookSnapshot(ctx, p)
		if rerr != nil {
			return 0, rerr
		}
		if d := len(entries) - len(retry); d > 0 {
			metrics.RankingDroppedSubjectsTotal.Add(float64(d))
		}
		return eng.store.ReplaceBookRankings(ctx, string(p), retry)
	}
	return n, err
}

func (eng *Engine) replaceUserSnapshot(ctx context.Context, p period.Kind) (int, error) {
	entries, err := eng.buildUserSnapshot(ctx, p)
	if err != nil {
		return 0, err
	}

	n, err := eng.store.ReplaceUserRankings(ctx, string(p), entries)
	if isForeignKeyViolation(err) {
		retry, rerr := eng.buildUserSnapshot(ctx, p)
		if rerr != nil {
			return 0, rerr
		}
		if d := len(entries) - len(retry); d > 0 {
			metrics.RankingDroppedSubjectsTotal.Add(float64(d))
		}
		return eng.store.ReplaceUserRankings(ctx, string(p), retry)
	}
	return n, err
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
