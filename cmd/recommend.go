package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Show, refresh and apply menu recommendations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		return printRecommendations(cmd.OutOrStdout(), a.store.Snapshot().Recommendations)
	},
}

var recommendRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Analyze the menu and replace the recommendations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		res, err := a.store.RefreshAnalysis(cmd.Context())
		if err != nil {
			return err
		}
		if !jsonOutput {
			fmt.Fprintf(cmd.OutOrStdout(), "Recommendations from %s\n", res.Source)
		}
		return printRecommendations(cmd.OutOrStdout(), res.Recommendations)
	},
}

var recommendImplementCmd = &cobra.Command{
	Use:   "implement <id>",
	Short: "Apply a recommendation to the menu",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		res, err := a.store.ImplementRecommendation(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), res)
		}
		if res.Applied {
			fmt.Fprintf(cmd.OutOrStdout(), "Applied: %s\n", res.Recommendation.Title)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Dismissed without menu changes: %s\n", res.Recommendation.Title)
		}
		return nil
	},
}

func init() {
	recommendCmd.AddCommand(recommendRefreshCmd, recommendImplementCmd)
	rootCmd.AddCommand(recommendCmd)
}
