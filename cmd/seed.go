package cmd

import (
	"fmt"

	"github.com/chrisdamba/menusight/internal/factories"
	"github.com/chrisdamba/menusight/internal/models"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the menu with a generated demo menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		if count <= 0 {
			return models.NewValidationError("count", "must be positive")
		}

		a, err := openApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		factory := factories.NewMenuItemFactory(resolveSeed(cfg.Seed))
		bar := progressbar.NewOptions(count,
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("Generating menu"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		raws := make([]models.RawMenuItem, 0, count)
		for _, raw := range factory.CreateMenu(count) {
			raws = append(raws, raw)
			_ = bar.Add(1)
		}
		_ = bar.Finish()

		items, err := a.store.ReplaceAll(cmd.Context(), raws)
		if err != nil {
			return err
		}
		if !jsonOutput {
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d menu items\n", len(items))
		}
		return printItems(cmd.OutOrStdout(), items)
	},
}

func init() {
	seedCmd.Flags().Int("count", 20, "Number of menu items to generate")
	rootCmd.AddCommand(seedCmd)
}
