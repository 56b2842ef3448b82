// Package ranker assigns dense 1-based ranks to scored ranking candidates.
package ranker

import "sort"

// Candidate is one scored subject awaiting a rank. TieBreak is the
// secondary metric compared when scores are equal (review count for books,
// comment count for users); SubjectID breaks any remaining tie so the
// ordering is fully deterministic.
type Candidate struct {
	SubjectID string
	Score     float64
	TieBreak  float64
	Rank      int
}

// Rank sorts candidates by score descending, tie-break metric descending,
// then subject id ascending, and assigns ranks 1..N in place. Ties never
// share a rank; the tie-break chain decides who comes first. The returned
// slice is the input slice, always the same length.
func Rank(cands []Candidate) []Candidate {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Score != cands[j].Score {
			return cands[i].Score > cands[j].Score
		}
		if cands[i].TieBreak != cands[j].TieBreak {
			return cands[i].TieBreak > cands[j].TieBreak
		}
		return cands[i].SubjectID < cands[j].SubjectID
	})

	for i := range cands {
		cands[i].Rank = i + 1
	}

	return cands
}
