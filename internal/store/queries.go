package store

// Aggregation queries. Both scan activity over a half-open [start, end)
// window and exclude soft-deleted subjects and soft-deleted activity rows.
const (
	queryAggregateBookActivity = `
		SELECT r.book_id,
		       COUNT(*)      AS review_count,
		       AVG(r.rating) AS avg_rating
		FROM reviews r
		JOIN books b ON b.id = r.book_id AND b.deleted_at IS NULL
		WHERE r.deleted_at IS NULL
		  AND r.created_at >= @window_start
		  AND r.created_at <  @window_end
		GROUP BY r.book_id`

	// Review popularity is folded into the sum here so the score weights
	// live in one place, passed in as parameters.
	queryAggregateUserActivity = `
		SELECT r.user_id,
		       SUM(r.like_count * @like_weight + r.comment_count * @comment_weight) AS review_score_sum,
		       SUM(r.like_count)    AS like_count,
		       SUM(r.comment_count) AS comment_count
		FROM reviews r
		JOIN users u ON u.id = r.user_id AND u.deleted_at IS NULL
		WHERE r.deleted_at IS NULL
		  AND r.created_at >= @window_start
		  AND r.created_at <  @window_end
		GROUP BY r.user_id`
)

// Snapshot replacement. Delete and insert run inside one transaction so
// readers never observe a half-replaced period.
const (
	queryDeleteBookRankings = `DELETE FROM book_rankings WHERE period = @period`

	queryInsertBookRanking = `
		INSERT INTO book_rankings (id, book_id, period, rank, score, review_count, avg_rating)
		VALUES (@id, @book_id, @period, @rank, @score, @review_count, @avg_rating)`

	queryDeleteUserRankings = `DELETE FROM user_rankings WHERE period = @period`

	queryInsertUserRanking = `
		INSERT INTO user_rankings (id, user_id, period, rank, score, review_score_sum, like_count, comment_count)
		VALUES (@id, @user_id, @period, @rank, @score, @review_score_sum, @like_count, @comment_count)`
)

// Paginated list bases. The keyset builder appends WHERE, ORDER BY and
// LIMIT clauses with positional parameters.
const (
	queryListBookRankingsBase = `
		SELECT br.id, br.book_id, b.title, br.period, br.rank, br.score,
		       br.review_count, br.avg_rating, br.created_at
		FROM book_rankings br
		JOIN books b ON b.id = br.book_id`

	queryListUserRankingsBase = `
		SELECT ur.id, ur.user_id, u.nickname, ur.period, ur.rank, ur.score,
		       ur.review_score_sum, ur.like_count, ur.comment_count, ur.created_at
		FROM user_rankings ur
		JOIN users u ON u.id = ur.user_id`

	queryListBooksBase = `
		SELECT id, title, author, published_date, rating, review_count,
		       created_at, updated_at
		FROM books`

	queryListReviewsBase = `
		SELECT r.id, r.book_id, r.user_id, r.content, r.rating,
		       r.like_count, r.comment_count, r.created_at
		FROM reviews r`

	queryListNotificationsBase = `
		SELECT id, user_id, content, confirmed, created_at
		FROM notifications`
)

// Job tracking queries. The (job_name, params) pair is unique, so the
// insert fails when the exact same invocation was already recorded.
const (
	queryInsertJobRun = `
		INSERT INTO job_runs (id, job_name, params, status)
		VALUES (@id, @job_name, @params, 'running')
		RETURNING id`

	queryCompleteJobRun = `
		UPDATE job_runs
		SET status = @status,
		    completed_at = now(),
		    error_text = @error_text,
		    rows_affected = @rows_affected
		WHERE id = @id`

	queryListJobRuns = `
		SELECT id, job_name, params, started_at, completed_at, status,
		       COALESCE(error_text, ''), rows_affected
		FROM job_runs
		WHERE job_name = @job_name
		ORDER BY started_at DESC
		LIMIT @limit`

	queryListLatestJobRuns = `
		SELECT DISTINCT ON (job_name)
		       id, job_name, params, started_at, completed_at, status,
		       COALESCE(error_text, ''), rows_affected
		FROM job_runs
		ORDER BY job_name, started_at DESC`

	queryRecoverStaleJobRuns = `
		UPDATE job_runs
		SET status = 'failed',
		    completed_at = now(),
		    error_text = 'abandoned while running, marked failed on startup recovery'
		WHERE status = 'running'
		  AND started_at < @cutoff`
)
