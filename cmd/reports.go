package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"sicksense-cli/model"
)

func newHistoryCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List your submitted reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.requireSession(); err != nil {
				return err
			}
			reports, err := rt.client.GetMyHistory(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(reports) == 0 {
				fmt.Fprintln(out, "No reports yet.")
				return nil
			}
			renderReports(out, reports)
			return nil
		},
	}
}

func renderReports(out io.Writer, reports []model.HealthReport) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"ID", "Submitted", "Location", "Seat", "Severity", "Symptoms", "Onset", "Diagnosis", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: 24},
		{Number: 6, WidthMax: 30},
	})
	for _, r := range reports {
		diagnosis := ""
		if r.ConfirmedDisease && r.DiseaseName != nil {
			diagnosis = *r.DiseaseName
		}
		t.AppendRow(table.Row{
			shortID(r.ID),
			r.Timestamp,
			r.Location.Building + " / " + r.Location.Room,
			r.Location.SeatNumber,
			r.Severity,
			strings.Join(r.Symptoms, ", "),
			r.DateOfOnset,
			diagnosis,
			r.Status,
		})
	}
	t.Render()
}

func newDashboardCmd(rt *runtime) *cobra.Command {
	var withReports bool
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show outbreak statistics and suggested actions (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.requireSession(); err != nil {
				return err
			}
			dashboard, err := rt.client.GetDashboard(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			renderDashboard(out, dashboard)

			if withReports {
				reports, err := rt.client.GetAllReports(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(out)
				renderReports(out, reports)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withReports, "reports", false, "also list every submitted report")
	return cmd
}

func renderDashboard(out io.Writer, d model.Dashboard) {
	stats := table.NewWriter()
	stats.SetOutputMirror(out)
	stats.SetTitle("Today")
	stats.AppendHeader(table.Row{"Reports", "Confirmed", "Suspected", "Hotspots", "Weekly Growth"})
	stats.AppendRow(table.Row{
		d.Stats.TotalReportsToday,
		d.Stats.ConfirmedCases,
		d.Stats.SuspectedCases,
		d.Stats.ActiveHotspots,
		fmt.Sprintf("%+.1f%%", d.Stats.WeeklyGrowthRate),
	})
	stats.Render()

	rowConfigAutoMerge := table.RowConfig{AutoMerge: true}
	hotspots := table.NewWriter()
	hotspots.SetOutputMirror(out)
	hotspots.SetTitle("Hotspots")
	hotspots.AppendHeader(table.Row{"Building", "Room", "Reports", "Risk"}, rowConfigAutoMerge)
	hotspots.SetColumnConfigs([]table.ColumnConfig{{Number: 1, AutoMerge: true}})
	for _, h := range d.Hotspots {
		hotspots.AppendRow(table.Row{h.Building, h.Room, h.ReportCount, riskColor(h.RiskLevel).Sprint(h.RiskLevel)}, rowConfigAutoMerge)
	}
	hotspots.Render()

	predictions := table.NewWriter()
	predictions.SetOutputMirror(out)
	predictions.SetTitle("Predictions")
	predictions.AppendHeader(table.Row{"Date", "Confirmed", "Predicted", "Range"})
	for _, p := range d.Predictions {
		predictions.AppendRow(table.Row{p.Date, p.Confirmed, p.Predicted, fmt.Sprintf("%d-%d", p.LowerBound, p.UpperBound)})
	}
	predictions.Render()

	b := d.Bayesian
	bayes := table.NewWriter()
	bayes.SetOutputMirror(out)
	bayes.SetTitle("Bayesian Estimate")
	bayes.AppendRows([]table.Row{
		{"Prior", fmt.Sprintf("%.2f", b.PriorProbability)},
		{"Likelihood ratio", fmt.Sprintf("%.2f", b.LikelihoodRatio)},
		{"Posterior", fmt.Sprintf("%.2f", b.PosteriorProbability)},
		{"Confidence interval", fmt.Sprintf("%.2f-%.2f", b.ConfidenceInterval[0], b.ConfidenceInterval[1])},
	})
	bayes.Render()

	actions := table.NewWriter()
	actions.SetOutputMirror(out)
	actions.SetTitle("Suggested Actions")
	actions.AppendHeader(table.Row{"ID", "Priority", "Type", "Title", "Locations", "Status"})
	actions.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: 32},
		{Number: 5, WidthMax: 32},
	})
	for _, a := range d.Actions {
		actions.AppendRow(table.Row{a.ID, a.Priority, a.Type, a.Title, strings.Join(a.AffectedLocations, "\n"), a.Status})
	}
	actions.Render()
}

func riskColor(level model.RiskLevel) text.Colors {
	switch level {
	case model.RiskCritical:
		return text.Colors{text.FgHiRed, text.Bold}
	case model.RiskHigh:
		return text.Colors{text.FgRed}
	case model.RiskMedium:
		return text.Colors{text.FgYellow}
	default:
		return text.Colors{text.FgGreen}
	}
}

var actionStatuses = map[string]model.ActionStatus{
	string(model.ActionPending):    model.ActionPending,
	string(model.ActionInProgress): model.ActionInProgress,
	string(model.ActionCompleted):  model.ActionCompleted,
}

var reportStatuses = map[string]model.ReportStatus{
	string(model.ReportPending):       model.ReportPending,
	string(model.ReportReviewed):      model.ReportReviewed,
	string(model.ReportInvestigating): model.ReportInvestigating,
	string(model.ReportResolved):      model.ReportResolved,
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

func newActionCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:       "action <id> <status>",
		Short:     "Update a suggested action's status (admin)",
		Long:      "Statuses: " + strings.Join(sortedKeys(actionStatuses), ", "),
		Args:      cobra.ExactArgs(2),
		ValidArgs: sortedKeys(actionStatuses),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, ok := actionStatuses[strings.ToLower(args[1])]
			if !ok {
				return fmt.Errorf("invalid status %q, expected one of %s", args[1], strings.Join(sortedKeys(actionStatuses), ", "))
			}
			if _, err := rt.requireSession(); err != nil {
				return err
			}
			action, err := rt.client.UpdateActionStatus(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %q is now %s\n", action.ID, action.Title, action.Status)
			return nil
		},
	}
}

func newReviewCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "review <id> <status>",
		Short: "Update a report's review status (admin)",
		Long:  "Statuses: " + strings.Join(sortedKeys(reportStatuses), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, ok := reportStatuses[strings.ToLower(args[1])]
			if !ok {
				return fmt.Errorf("invalid status %q, expected one of %s", args[1], strings.Join(sortedKeys(reportStatuses), ", "))
			}
			if _, err := rt.requireSession(); err != nil {
				return err
			}
			report, err := rt.client.UpdateReportStatus(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "report %s is now %s\n", report.ID, report.Status)
			return nil
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
