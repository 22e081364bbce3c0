package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/chrisdamba/menusight/internal/models"
)

var jsonOutput bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printItems(w io.Writer, items []models.MenuItem) error {
	if jsonOutput {
		return printJSON(w, items)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tCOST\tSALES\tREVENUE\tMARGIN\tWASTE")
	for _, item := range items {
		waste := fmt.Sprintf("%.1f%%", item.WastePercentage)
		if item.WasteProvenance == models.ProvenanceEstimated {
			waste += " (est)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%.2f\t%d\t%.2f\t%.1f%%\t%s\n",
			item.ID, item.Name, item.Category, item.Price, item.Cost, item.SalesCount, item.Revenue, item.Margin, waste)
	}
	return tw.Flush()
}

func printRecommendations(w io.Writer, recs []models.Recommendation) error {
	if jsonOutput {
		return printJSON(w, recs)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tPRIORITY\tCONFIDENCE\tTITLE")
	for _, rec := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f\t%s\n", rec.ID, rec.Type, rec.Priority, rec.Confidence, rec.Title)
	}
	return tw.Flush()
}

func printNotifications(w io.Writer, notifications []models.Notification) error {
	if jsonOutput {
		return printJSON(w, notifications)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tREAD\tTIME\tTITLE\tMESSAGE")
	for _, n := range notifications {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\t%s\n", n.ID, n.Type, n.Read, n.Timestamp.Format("2006-01-02 15:04"), n.Title, n.Message)
	}
	return tw.Flush()
}
