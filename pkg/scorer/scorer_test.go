package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domain "github.com/dmreiland/bookrank/pkg/types"
)

func TestBook(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		agg  domain.BookAggregate
		want float64
	}{
		{
			name: "ten reviews rated four",
			agg:  domain.BookAggregate{ReviewCount: 10, AvgRating: 4.0},
			want: 6.4,
		},
		{
			name: "five reviews rated five",
			agg:  domain.BookAggregate{ReviewCount: 5, AvgRating: 5.0},
			want: 5.0,
		},
		{
			name: "no activity",
			agg:  domain.BookAggregate{},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.InDelta(t, tt.want, Book(tt.agg), 1e-9)
		})
	}
}

func TestBook_Deterministic(t *testing.T) {
	t.Parallel()

	agg := domain.BookAggregate{ReviewCount: 37, AvgRating: 3.21}
	first := Book(agg)
	for range 100 {
		assert.Equal(t, first, Book(agg))
	}
}

func TestReview(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.0, Review(0, 0), 1e-9)
	assert.InDelta(t, 3.0, Review(10, 0), 1e-9)
	assert.InDelta(t, 7.0, Review(0, 10), 1e-9)
	assert.InDelta(t, 10.0, Review(10, 10), 1e-9)
}

func TestUser(t *testing.T) {
	t.Parallel()

	agg := domain.UserAggregate{
		ReviewScoreSum: 10.0,
		LikeCount:      5,
		CommentCount:   10,
	}
	// 10*0.5 + 5*0.2 + 10*0.3
	assert.InDelta(t, 9.0, User(agg), 1e-9)
}

func TestUser_WeightsSumToOne(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0,
		UserReviewScoreWeight+UserLikeWeight+UserCommentWeight, 1e-9)
}

// The review popularity formula and the book formula are independent; equal
// inputs must not produce equal scores by construction.
func TestFormulasAreDistinct(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t,
		Book(domain.BookAggregate{ReviewCount: 4, AvgRating: 6}),
		Review(4, 6),
	)
}
