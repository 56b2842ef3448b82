package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmreiland/bookrank/pkg/cursor"
	"github.com/dmreiland/bookrank/pkg/scorer"
	domain "github.com/dmreiland/bookrank/pkg/types"
)

// ErrUnknownOrderBy reports an order_by value outside the allow-list for
// the collection. Request validation rejects these first; the store check
// guards direct callers.
var ErrUnknownOrderBy = errors.New("unknown order_by")

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string, poolSize int) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	if poolSize > 0 {
		cfg.MaxConns = int32(poolSize)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// AggregateBookActivity gathers per-book review metrics over [start, end).
func (s *PostgresStore) AggregateBookActivity(
	ctx context.Context,
	start, end time.Time,
) ([]domain.BookAggregate, error) {
	rows, err := s.pool.Query(ctx, queryAggregateBookActivity, pgx.NamedArgs{
		"window_start": start,
		"window_end":   end,
	})
	if err != nil {
		return nil, fmt.Errorf("aggregating book activity: %w", err)
	}
	defer rows.Close()

	var aggs []domain.BookAggregate
	for rows.Next() {
		var a domain.BookAggregate
		if err := rows.Scan(&a.BookID, &a.ReviewCount, &a.AvgRating); err != nil {
			return nil, fmt.Errorf("scanning book aggregate: %w", err)
		}
		aggs = append(aggs, a)
	}

	return aggs, rows.Err()
}

// AggregateUserActivity gathers per-user review metrics over [start, end).
// The review popularity weights are passed into the query so the sum matches
// the scorer exactly.
func (s *PostgresStore) AggregateUserActivity(
	ctx context.Context,
	start, end time.Time,
) ([]domain.UserAggregate, error) {
	rows, err := s.pool.Query(ctx, queryAggregateUserActivity, pgx.NamedArgs{
		"window_start":   start,
		"window_end":     end,
		"like_weight":    scorer.ReviewLikeWeight,
		"comment_weight": scorer.ReviewCommentWeight,
	})
	if err != nil {
		return nil, fmt.Errorf("aggregating user activity: %w", err)
	}
	defer rows.Close()

	var aggs []domain.UserAggregate
	for rows.Next() {
		var a domain.UserAggregate
		if err := rows.Scan(&a.UserID, &a.ReviewScoreSum, &a.LikeCount, &a.CommentCount); err != nil {
			return nil, fmt.Errorf("scanning user aggregate: %w", err)
		}
		aggs = append(aggs, a)
	}

	return aggs, rows.Err()
}

// ReplaceBookRankings swaps the book ranking snapshot for a period inside one
// transaction. An empty entries slice still clears the period.
func (s *PostgresStore) ReplaceBookRankings(
	ctx context.Context,
	period string,
	entries []domain.BookRanking,
) (int, error) {
	batch := &pgx.Batch{}
	for i := range entries {
		e := &entries[i]
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		batch.Queue(queryInsertBookRanking, pgx.NamedArgs{
			"id":           e.ID,
			"book_id":      e.BookID,
			"period":       period,
			"rank":         e.Rank,
			"score":        e.Score,
			"review_count": e.ReviewCount,
			"avg_rating":   e.AvgRating,
		})
	}

	if err := s.replaceSnapshot(ctx, queryDeleteBookRankings, period, batch); err != nil {
		return 0, fmt.Errorf("replacing book rankings for %s: %w", period, err)
	}
	return len(entries), nil
}

// ReplaceUserRankings swaps the user ranking snapshot for a period inside one
// transaction. An empty entries slice still clears the period.
func (s *PostgresStore) ReplaceUserRankings(
	ctx context.Context,
	period string,
	entries []domain.UserRanking,
) (int, error) {
	batch := &pgx.Batch{}
	for i := range entries {
		e := &entries[i]
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		batch.Queue(queryInsertUserRanking, pgx.NamedArgs{
			"id":               e.ID,
			"user_id":          e.UserID,
			"period":           period,
			"rank":             e.Rank,
			"score":            e.Score,
			"review_score_sum": e.ReviewScoreSum,
			"like_count":       e.LikeCount,
			"comment_count":    e.CommentCount,
		})
	}

	if err := s.replaceSnapshot(ctx, queryDeleteUserRankings, period, batch); err != nil {
		return 0, fmt.Errorf("replacing user rankings for %s: %w", period, err)
	}
	return len(entries), nil
}

// replaceSnapshot runs delete-then-insert for one period atomically, so
// readers never observe a half-replaced snapshot.
func (s *PostgresStore) replaceSnapshot(
	ctx context.Context,
	deleteQuery string,
	period string,
	batch *pgx.Batch,
) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, deleteQuery, pgx.NamedArgs{"period": period}); err != nil {
		return fmt.Errorf("clearing period: %w", err)
	}

	if batch.Len() > 0 {
		results := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("inserting entry %d: %w", i, err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("closing batch: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// ListBookRankings returns one page of a period's book ranking snapshot,
// ordered by score.
func (s *PostgresStore) ListBookRankings(
	ctx context.Context,
	q *RankingQuery,
) (*Page[domain.BookRanking], error) {
	k := &Keyset{
		OrderBy:   "score",
		Primary:   OrderColumn{Column: "br.score", Kind: ColNumeric},
		Created:   "br.created_at",
		ID:        "br.id",
		Direction: q.Direction,
		Cursor:    q.Cursor,
		After:     q.After,
		Limit:     q.Limit,
	}

	conds, args, err := k.Apply([]string{"br.period = $1"}, []any{q.Period})
	if err != nil {
		return nil, err
	}

	sql := queryListBookRankingsBase + whereSQL(conds) + k.OrderLimitSQL(defaultLimit)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying book rankings: %w", err)
	}
	defer rows.Close()

	var items []domain.BookRanking
	for rows.Next() {
		var r domain.BookRanking
		if err := rows.Scan(
			&r.ID, &r.BookID, &r.Title, &r.Period, &r.Rank, &r.Score,
			&r.ReviewCount, &r.AvgRating, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning book ranking: %w", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating book rankings: %w", err)
	}

	return pageOf(items, k.clampedLimit(defaultLimit), func(r domain.BookRanking) string {
		return k.NextCursor(cursor.FormatFloat(r.Score), r.CreatedAt, r.ID)
	}), nil
}

// ListUserRankings returns one page of a period's user ranking snapshot,
// ordered by score.
func (s *PostgresStore) ListUserRankings(
	ctx context.Context,
	q *RankingQuery,
) (*Page[domain.UserRanking], error) {
	k := &Keyset{
		OrderBy:   "score",
		Primary:   OrderColumn{Column: "ur.score", Kind: ColNumeric},
		Created:   "ur.created_at",
		ID:        "ur.id",
		Direction: q.Direction,
		Cursor:    q.Cursor,
		After:     q.After,
		Limit:     q.Limit,
	}

	conds, args, err := k.Apply([]string{"ur.period = $1"}, []any{q.Period})
	if err != nil {
		return nil, err
	}

	sql := queryListUserRankingsBase + whereSQL(conds) + k.OrderLimitSQL(defaultLimit)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying user rankings: %w", err)
	}
	defer rows.Close()

	var items []domain.UserRanking
	for rows.Next() {
		var r domain.UserRanking
		if err := rows.Scan(
			&r.ID, &r.UserID, &r.Nickname, &r.Period, &r.Rank, &r.Score,
			&r.ReviewScoreSum, &r.LikeCount, &r.CommentCount, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning user ranking: %w", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rankings: %w", err)
	}

	return pageOf(items, k.clampedLimit(defaultLimit), func(r domain.UserRanking) string {
		return k.NextCursor(cursor.FormatFloat(r.Score), r.CreatedAt, r.ID)
	}), nil
}

// ListBooks returns one page of the book catalog.
func (s *PostgresStore) ListBooks(
	ctx context.Context,
	q *BookQuery,
) (*Page[domain.Book], error) {
	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = "title"
	}
	col, ok := BookOrderColumns[orderBy]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOrderBy, orderBy)
	}

	conds := []string{"deleted_at IS NULL"}
	var args []any
	if q.Keyword != "" {
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR author ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+q.Keyword+"%")
	}

	k := &Keyset{
		OrderBy:   orderBy,
		Primary:   col,
		Created:   "created_at",
		ID:        "id",
		Direction: q.Direction,
		Cursor:    q.Cursor,
		After:     q.After,
		Limit:     q.Limit,
	}

	conds, args, err := k.Apply(conds, args)
	if err != nil {
		return nil, err
	}

	sql := queryListBooksBase + whereSQL(conds) + k.OrderLimitSQL(defaultLimit)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying books: %w", err)
	}
	defer rows.Close()

	var items []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.PublishedDate, &b.Rating,
			&b.ReviewCount, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning book: %w", err)
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating books: %w", err)
	}

	return pageOf(items, k.clampedLimit(defaultLimit), func(b domain.Book) string {
		return k.NextCursor(bookPrimary(orderBy, b), b.CreatedAt, b.ID)
	}), nil
}

// ListReviews returns one page of reviews, optionally scoped to a book.
func (s *PostgresStore) ListReviews(
	ctx context.Context,
	q *ReviewQuery,
) (*Page[domain.Review], error) {
	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	col, ok := ReviewOrderColumns[orderBy]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOrderBy, orderBy)
	}

	conds := []string{"r.deleted_at IS NULL"}
	var args []any
	if q.BookID != "" {
		conds = append(conds, fmt.Sprintf("r.book_id = $%d", len(args)+1))
		args = append(args, q.BookID)
	}
	if q.Keyword != "" {
		conds = append(conds, fmt.Sprintf("r.content ILIKE $%d", len(args)+1))
		args = append(args, "%"+q.Keyword+"%")
	}

	k := &Keyset{
		OrderBy:   orderBy,
		Primary:   col,
		Created:   "r.created_at",
		ID:        "r.id",
		Direction: q.Direction,
		Cursor:    q.Cursor,
		After:     q.After,
		Limit:     q.Limit,
	}

	conds, args, err := k.Apply(conds, args)
	if err != nil {
		return nil, err
	}

	sql := queryListReviewsBase + whereSQL(conds) + k.OrderLimitSQL(defaultLimit)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying reviews: %w", err)
	}
	defer rows.Close()

	var items []domain.Review
	for rows.Next() {
		var r domain.Review
		if err := rows.Scan(
			&r.ID, &r.BookID, &r.UserID, &r.Content, &r.Rating,
			&r.LikeCount, &r.CommentCount, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning review: %w", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reviews: %w", err)
	}

	return pageOf(items, k.clampedLimit(defaultLimit), func(r domain.Review) string {
		return k.NextCursor(reviewPrimary(orderBy, r), r.CreatedAt, r.ID)
	}), nil
}

// ListNotifications returns one page of a user's notifications, newest
// first unless asked otherwise.
func (s *PostgresStore) ListNotifications(
	ctx context.Context,
	q *NotificationQuery,
) (*Page[domain.Notification], error) {
	k := &Keyset{
		OrderBy:   "created_at",
		Primary:   OrderColumn{Column: "created_at", Kind: ColTime},
		Created:   "created_at",
		ID:        "id",
		Direction: q.Direction,
		Cursor:    q.Cursor,
		After:     q.After,
		Limit:     q.Limit,
	}

	conds, args, err := k.Apply([]string{"user_id = $1"}, []any{q.UserID})
	if err != nil {
		return nil, err
	}

	sql := queryListNotificationsBase + whereSQL(conds) + k.OrderLimitSQL(defaultNotificationLimit)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	var items []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Content, &n.Confirmed, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}

	return pageOf(items, k.clampedLimit(defaultNotificationLimit), func(n domain.Notification) string {
		return k.NextCursor(cursor.FormatTime(n.CreatedAt), n.CreatedAt, n.ID)
	}), nil
}

// InsertJobRun records the start of a ranking job and returns its UUID.
// The (job_name, params) pair is unique; inserting the exact same
// invocation twice fails.
func (s *PostgresStore) InsertJobRun(
	ctx context.Context,
	jobName string,
	params domain.JobParams,
) (string, error) {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("marshaling job params: %w", err)
	}

	var id string
	err = s.pool.QueryRow(ctx, queryInsertJobRun, pgx.NamedArgs{
		"id":       uuid.NewString(),
		"job_name": jobName,
		"params":   paramsJSON,
	}).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("inserting job run: %w", err)
	}
	return id, nil
}

// CompleteJobRun marks a job run as finished with the given status and
// metadata.
func (s *PostgresStore) CompleteJobRun(
	ctx context.Context,
	id string,
	status string,
	errText string,
	rowsAffected int,
) error {
	_, err := s.pool.Exec(ctx, queryCompleteJobRun, pgx.NamedArgs{
		"id":            id,
		"status":        status,
		"error_text":    errText,
		"rows_affected": rowsAffected,
	})
	if err != nil {
		return fmt.Errorf("completing job run: %w", err)
	}
	return nil
}

// ListJobRuns returns the most recent runs for a specific job, newest first.
func (s *PostgresStore) ListJobRuns(
	ctx context.Context,
	jobName string,
	limit int,
) ([]domain.JobRun, error) {
	rows, err := s.pool.Query(ctx, queryListJobRuns, pgx.NamedArgs{
		"job_name": jobName,
		"limit":    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("querying job runs: %w", err)
	}
	defer rows.Close()

	return scanJobRuns(rows)
}

// ListLatestJobRuns returns the single most recent run for each distinct
// job name.
func (s *PostgresStore) ListLatestJobRuns(ctx context.Context) ([]domain.JobRun, error) {
	rows, err := s.pool.Query(ctx, queryListLatestJobRuns)
	if err != nil {
		return nil, fmt.Errorf("querying latest job runs: %w", err)
	}
	defer rows.Close()

	return scanJobRuns(rows)
}

// RecoverStaleJobRuns marks 'running' job rows older than olderThan as
// failed. Called on startup so a crash mid-run does not leave a job stuck
// running forever.
func (s *PostgresStore) RecoverStaleJobRuns(
	ctx context.Context,
	olderThan time.Duration,
) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	tag, err := s.pool.Exec(ctx, queryRecoverStaleJobRuns, pgx.NamedArgs{"cutoff": cutoff})
	if err != nil {
		return 0, fmt.Errorf("recovering stale job runs: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// pageOf trims the one extra row fetched past the page size and mints the
// resume cursor from the last retained item.
func pageOf[T any](items []T, pageSize int, mint func(T) string) *Page[T] {
	p := &Page[T]{Items: items}
	if len(items) > pageSize {
		p.Items = items[:pageSize]
		p.HasNext = true
		p.NextCursor = mint(p.Items[pageSize-1])
	}
	return p
}

// bookPrimary renders the sort-key value of a book for the given ordering.
func bookPrimary(orderBy string, b domain.Book) string {
	switch orderBy {
	case "published_date":
		return cursor.FormatTime(b.PublishedDate)
	case "rating":
		return cursor.FormatFloat(b.Rating)
	case "review_count":
		return strconv.Itoa(b.ReviewCount)
	default:
		return b.Title
	}
}

// reviewPrimary renders the sort-key value of a review for the given ordering.
func reviewPrimary(orderBy string, r domain.Review) string {
	if orderBy == "rating" {
		return cursor.FormatFloat(r.Rating)
	}
	return cursor.FormatTime(r.CreatedAt)
}

func scanJobRuns(rows pgx.Rows) ([]domain.JobRun, error) {
	var runs []domain.JobRun
	for rows.Next() {
		var r domain.JobRun
		if err := rows.Scan(
			&r.ID, &r.JobName, &r.Params, &r.StartedAt, &r.CompletedAt,
			&r.Status, &r.ErrorText, &r.RowsAffected,
		); err != nil {
			return nil, fmt.Errorf("scanning job run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
