package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/chrisdamba/menusight/internal/analytics"
	"github.com/chrisdamba/menusight/internal/models"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print dashboard statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		period, _ := cmd.Flags().GetString("period")
		if !analytics.ValidPeriod(period) {
			return models.NewValidationError("period", fmt.Sprintf("unknown period %q", period))
		}

		a, err := openApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		st := a.store.Snapshot()
		series := analytics.FilterRevenue(st.RevenueData, period, time.Now())

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"dashboardStats": st.DashboardStats,
				"categoryData":   st.CategoryData,
				"wasteData":      st.WasteData,
				"revenueData":    series,
			})
		}

		s := st.DashboardStats
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Total revenue   %12.2f  (%+.1f%%)\n", s.TotalRevenue, s.RevenueChange)
		fmt.Fprintf(out, "Net profit      %12.2f  (%+.1f%%)\n", s.NetProfit, s.ProfitChange)
		fmt.Fprintf(out, "Total orders    %12d  (%+.1f%%)\n", s.TotalOrders, s.OrderChange)
		fmt.Fprintf(out, "Average waste   %11.1f%%  (%+.1f%%)\n", s.WastePercentage, s.WasteChange)
		if s.ChangeProvenance == models.ProvenanceEstimated {
			fmt.Fprintln(out, "Period changes are estimates, not measured history.")
		}

		var periodRevenue float64
		for _, point := range series {
			periodRevenue += point.Revenue
		}
		fmt.Fprintf(out, "\nRevenue over %s: %.2f across %d days (estimated series)\n\n", period, periodRevenue, len(series))

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CATEGORY\tREVENUE\tSHARE")
		for _, c := range st.CategoryData {
			fmt.Fprintf(tw, "%s\t%.2f\t%.1f%%\n", c.Name, c.Value, c.Percentage)
		}
		fmt.Fprintln(tw, "\t\t")
		fmt.Fprintln(tw, "HIGH WASTE\tSALES\tWASTE")
		for _, w := range st.WasteData {
			fmt.Fprintf(tw, "%s\t%d\t%.1f%%\n", w.ItemName, w.Sales, w.Waste)
		}
		return tw.Flush()
	},
}

func init() {
	statsCmd.Flags().String("period", models.PeriodAllTime, "1month, 3months, 6months, 1year or alltime")
	rootCmd.AddCommand(statsCmd)
}
