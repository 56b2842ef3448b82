// Package store defines the datastore abstraction for bookrank.
// All business logic depends on the Store interface, never on concrete
// implementations. This enables fake-based testing without a running
// database.
package store

import (
	"context"
	"time"

	"github.com/dmreiland/bookrank/pkg/cursor"
	domain "github.com/dmreiland/bookrank/pkg/types"
)

// Page is one keyset-paginated slice of a collection. NextCursor is only
// meaningful when HasNext is true.
type Page[T any] struct {
	Items      []T
	NextCursor string
	HasNext    bool
}

// RankingQuery selects one ranking snapshot page. Rankings are always
// ordered by score; Direction flips between best-first and worst-first.
type RankingQuery struct {
	Period    string
	Direction cursor.Direction
	Cursor    *cursor.Cursor
	After     *time.Time
	Limit     int
}

// BookQuery selects one page of the book catalog.
type BookQuery struct {
	Keyword   string
	OrderBy   string // key into BookOrderColumns
	Direction cursor.Direction
	Cursor    *cursor.Cursor
	After     *time.Time
	Limit     int
}

// ReviewQuery selects one page of reviews.
type ReviewQuery struct {
	Keyword   string
	BookID    string
	OrderBy   string // key into ReviewOrderColumns
	Direction cursor.Direction
	Cursor    *cursor.Cursor
	After     *time.Time
	Limit     int
}

// NotificationQuery selects one page of a user's notifications.
type NotificationQuery struct {
	UserID    string
	Direction cursor.Direction
	Cursor    *cursor.Cursor
	After     *time.Time
	Limit     int
}

// Store defines all data access operations for bookrank.
type Store interface {
	// Aggregation. Read-only GROUP BY queries over [start, end), excluding
	// soft-deleted subjects and activity. Each subject appears at most once.
	AggregateBookActivity(ctx context.Context, start, end time.Time) ([]domain.BookAggregate, error)
	AggregateUserActivity(ctx context.Context, start, end time.Time) ([]domain.UserAggregate, error)

	// Snapshot replacement. Within one transaction: delete every ranking row
	// for the period, insert the new set. An empty set still clears.
	ReplaceBookRankings(ctx context.Context, period string, entries []domain.BookRanking) (int, error)
	ReplaceUserRankings(ctx context.Context, period string, entries []domain.UserRanking) (int, error)

	// Paginated reads.
	ListBookRankings(ctx context.Context, q *RankingQuery) (*Page[domain.BookRanking], error)
	ListUserRankings(ctx context.Context, q *RankingQuery) (*Page[domain.UserRanking], error)
	ListBooks(ctx context.Context, q *BookQuery) (*Page[domain.Book], error)
	ListReviews(ctx context.Context, q *ReviewQuery) (*Page[domain.Review], error)
	ListNotifications(ctx context.Context, q *NotificationQuery) (*Page[domain.Notification], error)

	// Job tracking.
	InsertJobRun(ctx context.Context, jobName string, params domain.JobParams) (id string, err error)
	CompleteJobRun(ctx context.Context, id string, status string, errText string, rowsAffected int) error
	ListJobRuns(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error)
	ListLatestJobRuns(ctx context.Context) ([]domain.JobRun, error)
	RecoverStaleJobRuns(ctx context.Context, olderThan time.Duration) (int, error)

	// Migrations.
	Migrate(ctx context.Context) error

	// Health.
	Ping(ctx context.Context) error
}
