package ranker

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank_OrdersByScoreDescending(t *testing.T) {
	t.Parallel()

	got := Rank([]Candidate{
		{SubjectID: "a", Score: 1.0},
		{SubjectID: "b", Score: 3.0},
		{SubjectID: "c", Score: 2.0},
	})

	require.Len(t, got, 3)
	assert.Equal(t, "b", got[0].SubjectID)
	assert.Equal(t, "c", got[1].SubjectID)
	assert.Equal(t, "a", got[2].SubjectID)
}

func TestRank_TieBrokenBySecondaryMetricThenID(t *testing.T) {
	t.Parallel()

	// The canonical three-book case: (10 reviews, 4.0) twice and
	// (5 reviews, 5.0) once give scores 6.4, 6.4, 5.0.
	got := Rank([]Candidate{
		{SubjectID: "book-3", Score: 5.0, TieBreak: 5},
		{SubjectID: "book-2", Score: 6.4, TieBreak: 10},
		{SubjectID: "book-1", Score: 6.4, TieBreak: 10},
	})

	require.Len(t, got, 3)
	assert.Equal(t, []Candidate{
		{SubjectID: "book-1", Score: 6.4, TieBreak: 10, Rank: 1},
		{SubjectID: "book-2", Score: 6.4, TieBreak: 10, Rank: 2},
		{SubjectID: "book-3", Score: 5.0, TieBreak: 5, Rank: 3},
	}, got)
}

func TestRank_TieBreakMetricBeatsID(t *testing.T) {
	t.Parallel()

	got := Rank([]Candidate{
		{SubjectID: "a", Score: 2.0, TieBreak: 1},
		{SubjectID: "z", Score: 2.0, TieBreak: 9},
	})

	assert.Equal(t, "z", got[0].SubjectID)
	assert.Equal(t, "a", got[1].SubjectID)
}

func TestRank_DenseContiguousRanks(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(1))
	for _, n := range []int{1, 2, 17, 100} {
		cands := make([]Candidate, n)
		for i := range cands {
			cands[i] = Candidate{
				SubjectID: string(rune('a' + i%26)),
				// Coarse scores force plenty of ties.
				Score:    float64(r.Intn(5)),
				TieBreak: float64(r.Intn(3)),
			}
		}

		got := Rank(cands)
		require.Len(t, got, n)
		for i, c := range got {
			assert.Equal(t, i+1, c.Rank, "n=%d", n)
		}
	}
}

func TestRank_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Rank(nil))
	assert.Empty(t, Rank([]Candidate{}))
}
