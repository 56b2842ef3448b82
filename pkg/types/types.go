// Package domain defines the core business types for bookrank.
package domain

import (
	"encoding/json"
	"time"
)

// SubjectKind identifies what a ranking snapshot ranks.
type SubjectKind string

// Subject kind constants.
const (
	SubjectBook SubjectKind = "book"
	SubjectUser SubjectKind = "user"
)

// Book is the read model for the paginated book list.
type Book struct {
	ID            string     `json:"id"                       db:"id"`
	Title         string     `json:"title"                    db:"title"`
	Author        string     `json:"author"                   db:"author"`
	PublishedDate time.Time  `json:"published_date"           db:"published_date"`
	Rating        float64    `json:"rating"                   db:"rating"`
	ReviewCount   int        `json:"review_count"             db:"review_count"`
	CreatedAt     time.Time  `json:"created_at"               db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"               db:"updated_at"`
}

// Review is the read model for the paginated review list.
type Review struct {
	ID           string    `json:"id"            db:"id"`
	BookID       string    `json:"book_id"       db:"book_id"`
	UserID       string    `json:"user_id"       db:"user_id"`
	Content      string    `json:"content"       db:"content"`
	Rating       float64   `json:"rating"        db:"rating"`
	LikeCount    int       `json:"like_count"    db:"like_count"`
	CommentCount int       `json:"comment_count" db:"comment_count"`
	CreatedAt    time.Time `json:"created_at"    db:"created_at"`
}

// Notification is the read model for the paginated notification list.
type Notification struct {
	ID        string    `json:"id"         db:"id"`
	UserID    string    `json:"user_id"    db:"user_id"`
	Content   string    `json:"content"    db:"content"`
	Confirmed bool      `json:"confirmed"  db:"confirmed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// BookAggregate holds the raw per-book metrics gathered over one period
// window. Produced fresh on every ranking run, never persisted standalone.
type BookAggregate struct {
	BookID      string
	ReviewCount int
	AvgRating   float64
}

// UserAggregate holds the raw per-user metrics gathered over one period
// window. ReviewScoreSum is the summed popularity score of the user's
// reviews in the window.
type UserAggregate struct {
	UserID         string
	ReviewScoreSum float64
	LikeCount      int
	CommentCount   int
}

// BookRanking is one row of a popular-book ranking snapshot.
type BookRanking struct {
	ID          string    `json:"id"           db:"id"`
	BookID      string    `json:"book_id"      db:"book_id"`
	Title       string    `json:"title"        db:"title"`
	Period      string    `json:"period"       db:"period"`
	Rank        int       `json:"rank"         db:"rank"`
	Score       float64   `json:"score"        db:"score"`
	ReviewCount int       `json:"review_count" db:"review_count"`
	AvgRating   float64   `json:"avg_rating"   db:"avg_rating"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"`
}

// UserRanking is one row of a power-user ranking snapshot.
type UserRanking struct {
	ID             string    `json:"id"               db:"id"`
	UserID         string    `json:"user_id"          db:"user_id"`
	Nickname       string    `json:"nickname"         db:"nickname"`
	Period         string    `json:"period"           db:"period"`
	Rank           int       `json:"rank"             db:"rank"`
	Score          float64   `json:"score"            db:"score"`
	ReviewScoreSum float64   `json:"review_score_sum" db:"review_score_sum"`
	LikeCount      int       `json:"like_count"       db:"like_count"`
	CommentCount   int       `json:"comment_count"    db:"comment_count"`
	CreatedAt      time.Time `json:"created_at"       db:"created_at"`
}

// JobParams makes each ranking invocation unique to the job-tracking store,
// so the same calendar period can be re-run without an already-executed
// conflict.
type JobParams struct {
	Period string    `json:"period"`
	Today  time.Time `json:"today"`
	Salt   int64     `json:"salt"`
}

// JobRun records a single execution of a scheduled ranking job.
type JobRun struct {
	ID           string          `json:"id"                      db:"id"`
	JobName      string          `json:"job_name"                db:"job_name"`
	Params       json.RawMessage `json:"params,omitempty"        db:"params"`
	StartedAt    time.Time       `json:"started_at"              db:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"  db:"completed_at"`
	Status       string          `json:"status"                  db:"status"`
	ErrorText    string          `json:"error_text,omitempty"    db:"error_text"`
	RowsAffected *int            `json:"rows_affected,omitempty" db:"rows_affected"`
}

// Job run status values.
const (
	JobStatusRunning   = "running"
	JobStatusSucceeded = "succeeded"
	JobStatusFailed    = "failed"
)
