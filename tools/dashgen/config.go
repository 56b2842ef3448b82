package main

import "errors"

// KnownMetrics is the set of metric names exported by bookrank plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"bookrank_http_request_duration_seconds": true,
	"bookrank_http_requests_total":           true,

	// Health metrics.
	"bookrank_healthz_up": true,
	"bookrank_readyz_up":  true,

	// Ranking pipeline metrics.
	"bookrank_ranking_runs_total":             true,
	"bookrank_ranking_run_duration_seconds":   true,
	"bookrank_ranking_entries_replaced":       true,
	"bookrank_ranking_dropped_subjects_total": true,

	// Scheduler metrics.
	"bookrank_scheduler_skipped_total":              true,
	"bookrank_scheduler_next_run_timestamp_seconds": true,

	// Pagination metrics.
	"bookrank_cursor_decode_failures_total": true,

	// Recording rules.
	"bookrank:http_requests:rate5m":          true,
	"bookrank:http_errors:rate5m":            true,
	"bookrank:ranking_failures:rate1h":       true,
	"bookrank:scheduler_skips:rate1h":        true,
	"bookrank:cursor_decode_failures:rate5m": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
