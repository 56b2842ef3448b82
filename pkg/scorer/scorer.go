// Package scorer holds the fixed scoring formulas behind the popular-book
// and power-user rankings.
//
// Two independent formulas live here. Book and user rankings use a linear
// combination of aggregate metrics; individual reviews use their own
// popularity formula (likes and comments). The review formula feeds the user
// formula through ReviewScoreSum but the two must not be conflated.
package scorer

import (
	domain "github.com/dmreiland/bookrank/pkg/types"
)

// Book score weights. Fixed domain constants, not configuration.
const (
	BookReviewCountWeight = 0.4
	BookAvgRatingWeight   = 0.6
)

// Review popularity weights.
const (
	ReviewLikeWeight    = 0.3
	ReviewCommentWeight = 0.7
)

// User score weights, summing to 1.0.
const (
	UserReviewScoreWeight = 0.5
	UserLikeWeight        = 0.2
	UserCommentWeight     = 0.3
)

// Book computes the popularity score for one book aggregate.
func Book(a domain.BookAggregate) float64 {
	return float64(a.ReviewCount)*BookReviewCountWeight + a.AvgRating*BookAvgRatingWeight
}

// Review computes the popularity score for a single review from its like and
// comment counts.
func Review(likeCount, commentCount int) float64 {
	return float64(likeCount)*ReviewLikeWeight + float64(commentCount)*ReviewCommentWeight
}

// User computes the activity score for one user aggregate.
func User(a domain.UserAggregate) float64 {
	return a.ReviewScoreSum*UserReviewScoreWeight +
		float64(a.LikeCount)*UserLikeWeight +
		float64(a.CommentCount)*UserCommentWeight
}
