package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chrisdamba/menusight/internal/upload"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Import a POS export, replacing the menu",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		a, err := openApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		res, err := a.store.Upload(cmd.Context(), upload.Payload{
			Filename: filepath.Base(args[0]),
			Format:   format,
			Data:     string(data),
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), res)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%d skipped)\n", res.Summary, res.Skipped)
		return printItems(cmd.OutOrStdout(), res.MenuItems)
	},
}

func init() {
	uploadCmd.Flags().String("format", "", "csv, json or text; inferred from the extension when empty")
	rootCmd.AddCommand(uploadCmd)
}
