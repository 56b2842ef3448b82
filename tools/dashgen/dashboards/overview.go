// Package dashboards assembles complete Grafana dashboards from panel
// builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/dmreiland/bookrank/tools/dashgen/panels"
)

// BuildOverview returns the main bookrank overview dashboard: service
// health, HTTP traffic, the ranking pipeline, and the scheduler.
func BuildOverview() *dashboard.DashboardBuilder {
	return dashboard.NewDashboardBuilder("Bookrank Overview").
		Uid("bookrank-overview").
		Description("Service health, HTTP traffic, and ranking pipeline activity").
		Tags([]string{"bookrank", "generated"}).
		Refresh("30s").
		Time("now-6h", "now").
		Editable().
		WithVariable(dashboard.NewDatasourceVariableBuilder("datasource").
			Type("prometheus").
			Label("Datasource")).
		WithRow(dashboard.NewRowBuilder("Service")).
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.UptimeStat()).
		WithPanel(panels.NextRunStat()).
		WithRow(dashboard.NewRowBuilder("HTTP")).
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()).
		WithRow(dashboard.NewRowBuilder("Ranking Pipeline")).
		WithPanel(panels.RunOutcomes()).
		WithPanel(panels.RunDuration()).
		WithPanel(panels.SnapshotSizes()).
		WithPanel(panels.DroppedSubjects()).
		WithRow(dashboard.NewRowBuilder("Scheduler & Pagination")).
		WithPanel(panels.SkippedCycles()).
		WithPanel(panels.CursorFailures())
}
