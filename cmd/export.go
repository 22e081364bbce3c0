package cmd

import (
	"fmt"

	"github.com/chrisdamba/menusight/internal/cloudwriter"
	"github.com/chrisdamba/menusight/internal/models"
	"github.com/chrisdamba/menusight/internal/output"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the revenue series to a parquet file",
	Long:  "Write the revenue series to a parquet file. --out takes a local path or s3://bucket/key.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dest, _ := cmd.Flags().GetString("out")
		if dest == "" {
			return models.NewValidationError("out", "is required")
		}

		a, err := openApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		series := a.store.Snapshot().RevenueData
		if len(series) == 0 {
			return models.NewValidationError("menuItems", "no revenue data to export; add menu items first")
		}

		var factory cloudwriter.CloudWriterFactory
		if cloudwriter.IsRemote(dest) {
			client, err := cloudwriter.NewS3Client(cmd.Context(), cfg.Storage.S3Region)
			if err != nil {
				return err
			}
			factory = cloudwriter.NewS3WriterFactory(client, cfg.Storage.Timeout)
		}
		fw, err := output.OpenParquetTarget(dest, factory)
		if err != nil {
			return err
		}

		bar := progressbar.NewOptions(len(series),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("Exporting revenue"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		if err := output.ExportRevenueParquet(series, fw, func() { _ = bar.Add(1) }); err != nil {
			return err
		}
		_ = bar.Finish()
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d days to %s\n", len(series), dest)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("out", "revenue.parquet", "Destination path or s3://bucket/key")
	rootCmd.AddCommand(exportCmd)
}
