package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chrisdamba/menusight/internal/models"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     *models.Config
)

var rootCmd = &cobra.Command{
	Use:   "menusight",
	Short: "Menu analytics for restaurant operators",
	Long: `menusight turns a restaurant's menu items into dashboard analytics, waste reports and
menu recommendations. It runs as an HTTP API for the dashboard or as a one-shot CLI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = models.LoadConfig(viper.GetViper(), cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initEnv)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")

	flags.Int64("seed", 0, "Base random seed; 0 derives one from the start time")
	flags.String("storage-backend", "file", "Snapshot backend: memory, file, postgres, mongo or s3")
	flags.String("storage-dir", "./data", "Directory for the file backend")
	flags.String("namespace", "default", "Snapshot namespace, one per restaurant")
	flags.String("llm-provider", "none", "Language model provider: none or openai")
	flags.String("events-sink", "none", "Change event sink: none, console, file, kafka or amqp")
	flags.String("period-comparison", "placeholder", "Period change strategy: placeholder, fixed or none")

	bindings := map[string]string{
		"seed":              "seed",
		"storage-backend":   "storage.backend",
		"storage-dir":       "storage.file_dir",
		"namespace":         "storage.namespace",
		"llm-provider":      "llm.provider",
		"events-sink":       "events.sink",
		"period-comparison": "period_comparison",
	}
	for flag, key := range bindings {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(flag)))
	}
}

// initEnv loads a .env file when present so MENUSIGHT_* variables can live
// next to the binary.
func initEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not read .env: %v\n", err)
	}
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
