package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindow_Daily(t *testing.T) {
	t.Parallel()

	ref := time.Date(2025, time.March, 14, 15, 9, 26, 0, time.UTC)
	start, end := Window(Daily, ref, time.UTC)

	assert.Equal(t, time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), end)
}

func TestWindow_WeeklyIsTrailingSevenDays(t *testing.T) {
	t.Parallel()

	ref := time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)
	start, end := Window(Weekly, ref, time.UTC)

	assert.Equal(t, time.Date(2025, time.March, 8, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), end)
	assert.Equal(t, 7*24*time.Hour, end.Sub(start))
}

func TestWindow_MonthlyIsTrailingMonth(t *testing.T) {
	t.Parallel()

	ref := time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)
	start, end := Window(Monthly, ref, time.UTC)

	assert.Equal(t, time.Date(2025, time.February, 14, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), end)
}

func TestWindow_AllTimeIsUnbounded(t *testing.T) {
	t.Parallel()

	start, end := Window(AllTime, time.Now(), time.UTC)

	assert.Equal(t, time.Unix(0, 0).UTC(), start)
	assert.True(t, end.After(time.Now().AddDate(100, 0, 0)))
}

func TestWindow_StartBeforeEnd(t *testing.T) {
	t.Parallel()

	zone, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Includes US DST transition dates (spring forward 2025-03-09,
	// fall back 2025-11-02) and month-length edge cases.
	refs := []time.Time{
		time.Date(2025, time.March, 9, 12, 0, 0, 0, zone),
		time.Date(2025, time.March, 10, 1, 0, 0, 0, zone),
		time.Date(2025, time.November, 2, 12, 0, 0, 0, zone),
		time.Date(2025, time.November, 3, 1, 0, 0, 0, zone),
		time.Date(2024, time.February, 29, 23, 59, 59, 0, zone),
		time.Date(2025, time.March, 31, 12, 0, 0, 0, zone),
		time.Date(2025, time.January, 1, 0, 0, 0, 0, zone),
	}

	for _, kind := range Kinds() {
		for _, ref := range refs {
			start, end := Window(kind, ref, zone)
			assert.True(t, start.Before(end),
				"kind=%s ref=%s: start %s not before end %s", kind, ref, start, end)
		}
	}
}

func TestWindow_DailySpansDSTTransition(t *testing.T) {
	t.Parallel()

	zone, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2025-03-09 has only 23 real hours in this zone.
	ref := time.Date(2025, time.March, 9, 12, 0, 0, 0, zone)
	start, end := Window(Daily, ref, zone)

	assert.Equal(t, 23*time.Hour, end.Sub(start))
	assert.Equal(t, 9, start.Day())
	assert.Equal(t, 10, end.Day())
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "DAILY", want: Daily},
		{in: "WEEKLY", want: Weekly},
		{in: "MONTHLY", want: Monthly},
		{in: "ALL_TIME", want: AllTime},
		{in: "daily", wantErr: true},
		{in: "YEARLY", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
