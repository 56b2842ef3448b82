// Package rules generates PrometheusRule custom resources for the
// prometheus-operator: recording rules for dashboard queries and alert
// rules for on-call paging.
package rules

// PrometheusRule is a monitoring.coreos.com/v1 PrometheusRule custom
// resource, shaped for YAML marshaling.
type PrometheusRule struct {
	APIVersion string   `yaml:"apiVersion"`
	Kind       string   `yaml:"kind"`
	Metadata   Metadata `yaml:"metadata"`
	Spec       Spec     `yaml:"spec"`
}

// Metadata is the CR metadata block.
type Metadata struct {
	Name   string            `yaml:"name"`
	Labels map[string]string `yaml:"labels,omitempty"`
}

// Spec holds the rule groups.
type Spec struct {
	Groups []Group `yaml:"groups"`
}

// Group is a named set of rules evaluated together.
type Group struct {
	Name     string `yaml:"name"`
	Interval string `yaml:"interval,omitempty"`
	Rules    []Rule `yaml:"rules"`
}

// Rule is a single recording or alerting rule.
type Rule struct {
	Record      string            `yaml:"record,omitempty"`
	Alert       string            `yaml:"alert,omitempty"`
	Expr        string            `yaml:"expr"`
	For         string            `yaml:"for,omitempty"`
	Labels      map[string]string `yaml:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty"`
}

// RecordingRules returns the recording rules backing the dashboard queries.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: Metadata{
			Name:   "bookrank-recording-rules",
			Labels: map[string]string{"app": "bookrank"},
		},
		Spec: Spec{
			Groups: []Group{
				{
					Name:     "bookrank-recording",
					Interval: "30s",
					Rules: []Rule{
						{
							Record: "bookrank:http_requests:rate5m",
							Expr:   `sum(rate(bookrank_http_requests_total{job="bookrank"}[5m]))`,
						},
						{
							Record: "bookrank:http_errors:rate5m",
							Expr:   `sum(rate(bookrank_http_requests_total{job="bookrank",status=~"5.."}[5m]))`,
						},
						{
							Record: "bookrank:ranking_failures:rate1h",
							Expr:   `sum(rate(bookrank_ranking_runs_total{job="bookrank",status="failure"}[1h]))`,
						},
						{
							Record: "bookrank:scheduler_skips:rate1h",
							Expr:   `sum(rate(bookrank_scheduler_skipped_total{job="bookrank"}[1h]))`,
						},
						{
							Record: "bookrank:cursor_decode_failures:rate5m",
							Expr:   `sum(rate(bookrank_cursor_decode_failures_total{job="bookrank"}[5m]))`,
						},
					},
				},
			},
		},
	}
}

// AlertRules returns the alerting rules.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: Metadata{
			Name:   "bookrank-alerts",
			Labels: map[string]string{"app": "bookrank"},
		},
		Spec: Spec{
			Groups: []Group{
				{
					Name: "bookrank-alerts",
					Rules: []Rule{
						{
							Alert:  "BookrankDown",
							Expr:   `up{job="bookrank"} == 0`,
							For:    "5m",
							Labels: map[string]string{"severity": "critical"},
							Annotations: map[string]string{
								"summary":     "bookrank is down",
								"description": "The bookrank process has not been scraped successfully for 5 minutes.",
							},
						},
						{
							Alert:  "BookrankReadinessDown",
							Expr:   `bookrank_readyz_up == 0`,
							For:    "5m",
							Labels: map[string]string{"severity": "critical"},
							Annotations: map[string]string{
								"summary":     "bookrank is not ready",
								"description": "Readiness probes have been failing for 5 minutes, the database is likely unreachable.",
							},
						},
						{
							Alert:  "BookrankHighErrorRate",
							Expr:   `bookrank:http_errors:rate5m / bookrank:http_requests:rate5m * 100 > 5`,
							For:    "10m",
							Labels: map[string]string{"severity": "warning"},
							Annotations: map[string]string{
								"summary":     "bookrank HTTP error rate above 5%",
								"description": "More than 5% of HTTP requests have returned 5xx for 10 minutes.",
							},
						},
						{
							Alert:  "BookrankRankingFailures",
							Expr:   `bookrank:ranking_failures:rate1h > 0`,
							For:    "5m",
							Labels: map[string]string{"severity": "warning"},
							Annotations: map[string]string{
								"summary":     "ranking runs are failing",
								"description": "At least one ranking run has failed within the past hour; snapshots may be stale.",
							},
						},
						{
							Alert:  "BookrankSchedulerStalled",
							Expr:   `time() - bookrank_scheduler_next_run_timestamp_seconds > 3600`,
							For:    "15m",
							Labels: map[string]string{"severity": "warning"},
							Annotations: map[string]string{
								"summary":     "ranking scheduler has stalled",
								"description": "The next scheduled ranking run is more than an hour in the past.",
							},
						},
						{
							Alert:  "BookrankCycleSkips",
							Expr:   `increase(bookrank_scheduler_skipped_total[6h]) > 2`,
							Labels: map[string]string{"severity": "warning"},
							Annotations: map[string]string{
								"summary":     "ranking cycles are overlapping",
								"description": "Multiple scheduled cycles were skipped in 6 hours because the previous cycle was still running.",
							},
						},
						{
							Alert:  "BookrankDroppedSubjects",
							Expr:   `increase(bookrank_ranking_dropped_subjects_total[24h]) > 10`,
							Labels: map[string]string{"severity": "info"},
							Annotations: map[string]string{
								"summary":     "ranking runs are dropping subjects",
								"description": "More than 10 aggregate records were dropped in 24 hours because their subject vanished mid-run.",
							},
						},
					},
				},
			},
		},
	}
}
