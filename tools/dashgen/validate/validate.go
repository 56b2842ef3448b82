// Package validate checks generated dashboards for malformed PromQL and
// references to metrics the service does not export. Catching a typo here
// is much cheaper than staring at an empty Grafana panel later.
package validate

import (
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/prometheus/prometheus/promql/parser"
)

// Result collects validation findings. Errors are malformed queries;
// warnings are queries referencing unknown metrics.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether validation found no errors.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Dashboard validates every Prometheus target in the dashboard: each
// expression must parse as PromQL and reference only known metric names.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var result Result

	for _, p := range collectPanels(dash) {
		title := "untitled"
		if p.Title != nil {
			title = *p.Title
		}

		for _, target := range p.Targets {
			expr, ok := targetExpr(target)
			if !ok {
				result.warnf("panel %q: non-prometheus target %T", title, target)
				continue
			}
			Expr(expr, known, fmt.Sprintf("panel %q", title), &result)
		}
	}

	return result
}

// Expr validates a single PromQL expression against the known metric set,
// appending findings to result with the given subject prefix.
func Expr(expr string, known map[string]bool, subject string, result *Result) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		result.errorf("%s: invalid PromQL %q: %v", subject, expr, err)
		return
	}

	//nolint:errcheck // the visitor never fails
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		vs, ok := n.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !known[baseMetricName(vs.Name)] {
			result.warnf("%s: unknown metric %q", subject, vs.Name)
		}
		return nil
	})
}

// baseMetricName strips histogram series suffixes so that
// foo_seconds_bucket matches a known foo_seconds.
func baseMetricName(name string) string {
	for _, suffix := range []string{"_bucket", "_sum", "_count"} {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}

func collectPanels(dash dashboard.Dashboard) []dashboard.Panel {
	var out []dashboard.Panel
	for _, p := range dash.Panels {
		if p.Panel != nil {
			out = append(out, *p.Panel)
		}
		if p.RowPanel != nil {
			out = append(out, p.RowPanel.Panels...)
		}
	}
	return out
}

func targetExpr(target any) (string, bool) {
	switch q := target.(type) {
	case prometheus.Dataquery:
		return q.Expr, true
	case *prometheus.Dataquery:
		return q.Expr, true
	default:
		return "", false
	}
}
