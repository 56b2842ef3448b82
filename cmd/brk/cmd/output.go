package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	domain "github.com/dmreiland/bookrank/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printBookRankingsTable(rankings []domain.BookRanking) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("RANK\tTITLE\tSCORE\tREVIEWS\tAVG RATING\tPERIOD\n")
	for i := range rankings {
		r := &rankings[i]
		tw.writef("%d\t%s\t%.2f\t%d\t%.2f\t%s\n",
			r.Rank,
			truncate(r.Title, 40),
			r.Score,
			r.ReviewCount,
			r.AvgRating,
			r.Period,
		)
	}
	return tw.finish()
}

func printUserRankingsTable(rankings []domain.UserRanking) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("RANK\tNICKNAME\tSCORE\tREVIEW SCORE\tLIKES\tCOMMENTS\tPERIOD\n")
	for i := range rankings {
		r := &rankings[i]
		tw.writef("%d\t%s\t%.2f\t%.2f\t%d\t%d\t%s\n",
			r.Rank,
			truncate(r.Nickname, 30),
			r.Score,
			r.ReviewScoreSum,
			r.LikeCount,
			r.CommentCount,
			r.Period,
		)
	}
	return tw.finish()
}

func printJobRunsTable(runs []domain.JobRun) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("JOB\tSTATUS\tSTARTED\tCOMPLETED\tROWS\tERROR\n")
	for i := range runs {
		r := &runs[i]
		completed := "-"
		if r.CompletedAt != nil {
			completed = r.CompletedAt.Format("2006-01-02 15:04:05")
		}
		rows := "-"
		if r.RowsAffected != nil {
			rows = fmt.Sprintf("%d", *r.RowsAffected)
		}
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\n",
			r.JobName,
			r.Status,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			completed,
			rows,
			truncate(r.ErrorText, 40),
		)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
