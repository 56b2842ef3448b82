package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// RunOutcomes returns a timeseries panel showing ranking run completions per
// hour split by outcome.
func RunOutcomes() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Run Outcomes").
		Description("Ranking runs per hour by subject kind and outcome").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum(increase(bookrank_ranking_runs_total{job="bookrank"}[1h])) by (kind, status)`,
			"{{kind}} {{status}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("sum")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// RunDuration returns a timeseries panel showing the p95 ranking run duration
// per subject kind.
func RunDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Run Duration (p95)").
		Description("95th percentile ranking run duration by subject kind").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(bookrank_ranking_run_duration_seconds_bucket{job="bookrank"}[1h])) by (le, kind))`,
			"{{kind}}",
			"A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// SnapshotSizes returns a timeseries panel showing the entry count written by
// the most recent snapshot swap per kind and period.
func SnapshotSizes() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Snapshot Sizes").
		Description("Entries written by the latest snapshot swap per kind and period").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`bookrank_ranking_entries_replaced{job="bookrank"}`,
			"{{kind}} {{period}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("last")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// DroppedSubjects returns a stat panel showing subjects dropped mid-run in
// the past 24 hours.
func DroppedSubjects() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Dropped Subjects (24h)").
		Description("Aggregate records dropped because their subject vanished mid-run").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`increase(bookrank_ranking_dropped_subjects_total{job="bookrank"}[24h])`,
			"", "A",
		)).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// SkippedCycles returns a stat panel showing scheduler firings skipped in
// the past 24 hours because a cycle was still running.
func SkippedCycles() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Skipped Cycles (24h)").
		Description("Scheduler firings rejected because a cycle was already in flight").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`increase(bookrank_scheduler_skipped_total{job="bookrank"}[24h])`,
			"", "A",
		)).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// CursorFailures returns a timeseries panel showing cursor decode rejections
// per minute.
func CursorFailures() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Cursor Rejections / min").
		Description("Pagination requests rejected for a malformed or mismatched cursor").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`bookrank:cursor_decode_failures:rate5m * 60`, "rejections/min", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}
