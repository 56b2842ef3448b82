package handlers_test

import (
	"context"
	"time"

	"github.com/dmreiland/bookrank/internal/store"
	domain "github.com/dmreiland/bookrank/pkg/types"
)

// stubStore implements store.Store with overridable function fields. Only
// the methods a test sets are expected to be called.
type stubStore struct {
	listBookRankings  func(*store.RankingQuery) (*store.Page[domain.BookRanking], error)
	listUserRankings  func(*store.RankingQuery) (*store.Page[domain.UserRanking], error)
	listBooks         func(*store.BookQuery) (*store.Page[domain.Book], error)
	listReviews       func(*store.ReviewQuery) (*store.Page[domain.Review], error)
	listNotifications func(*store.NotificationQuery) (*store.Page[domain.Notification], error)
	pingErr           error
}

func (s *stubStore) AggregateBookActivity(context.Context, time.Time, time.Time) ([]domain.BookAggregate, error) {
	return nil, nil
}

func (s *stubStore) AggregateUserActivity(context.Context, time.Time, time.Time) ([]domain.UserAggregate, error) {
	return nil, nil
}

func (s *stubStore) ReplaceBookRankings(context.Context, string, []domain.BookRanking) (int, error) {
	return 0, nil
}

func (s *stubStore) ReplaceUserRankings(context.Context, string, []domain.UserRanking) (int, error) {
	return 0, nil
}

func (s *stubStore) ListBookRankings(_ context.Context, q *store.RankingQuery) (*store.Page[domain.BookRanking], error) {
	return s.listBookRankings(q)
}

func (s *stubStore) ListUserRankings(_ context.Context, q *store.RankingQuery) (*store.Page[domain.UserRanking], error) {
	return s.listUserRankings(q)
}

func (s *stubStore) ListBooks(_ context.Context, q *store.BookQuery) (*store.Page[domain.Book], error) {
	return s.listBooks(q)
}

func (s *stubStore) ListReviews(_ context.Context, q *store.ReviewQuery) (*store.Page[domain.Review], error) {
	return s.listReviews(q)
}

func (s *stubStore) ListNotifications(_ context.Context, q *store.NotificationQuery) (*store.Page[domain.Notification], error) {
	return s.listNotifications(q)
}

func (s *stubStore) InsertJobRun(context.Context, string, domain.JobParams) (string, error) {
	return "", nil
}

func (s *stubStore) CompleteJobRun(context.Context, string, string, string, int) error {
	return nil
}

func (s *stubStore) ListJobRuns(context.Context, string, int) ([]domain.JobRun, error) {
	return nil, nil
}

func (s *stubStore) ListLatestJobRuns(context.Context) ([]domain.JobRun, error) {
	return nil, nil
}

func (s *stubStore) RecoverStaleJobRuns(context.Context, time.Duration) (int, error) {
	return 0, nil
}

func (s *stubStore) Migrate(context.Context) error { return nil }

func (s *stubStore) Ping(context.Context) error { return s.pingErr }
