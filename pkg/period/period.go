// Package period maps a ranking period kind and a reference instant to the
// half-open time window [start, end) the aggregation queries cover.
package period

import (
	"fmt"
	"time"
)

// Kind is the closed set of ranking periods.
type Kind string

// Period kind constants.
const (
	Daily   Kind = "DAILY"
	Weekly  Kind = "WEEKLY"
	Monthly Kind = "MONTHLY"
	AllTime Kind = "ALL_TIME"
)

// Kinds lists every period in scheduling order.
func Kinds() []Kind {
	return []Kind{Daily, Weekly, Monthly, AllTime}
}

// Parse converts a string into a Kind, rejecting anything outside the set.
func Parse(s string) (Kind, error) {
	switch Kind(s) {
	case Daily, Weekly, Monthly, AllTime:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// allTimeEnd is far enough in the future to act as an unbounded upper limit
// while remaining storable in a timestamptz column.
var allTimeEnd = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// Window returns the half-open interval [start, end) for kind, anchored on
// the calendar date of ref in loc. WEEKLY and MONTHLY are trailing windows
// ending at the next midnight, not calendar weeks or months. The result
// always satisfies start < end; there are no error cases.
func Window(kind Kind, ref time.Time, loc *time.Location) (time.Time, time.Time) {
	day := ref.In(loc)
	// midnight(d) via Date survives DST transitions; adding 24h would not.
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	end := midnight.AddDate(0, 0, 1)

	switch kind {
	case Daily:
		return midnight, end
	case Weekly:
		return midnight.AddDate(0, 0, -6), end
	case Monthly:
		return midnight.AddDate(0, -1, 0), end
	default: // AllTime
		return time.Unix(0, 0).UTC(), allTimeEnd
	}
}
