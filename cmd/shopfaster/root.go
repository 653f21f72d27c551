package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dukerupert/shopfaster/internal/config"
	"github.com/dukerupert/shopfaster/internal/logging"
)

var (
	// configFile is set by the --config flag.
	configFile string

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "shopfaster",
	Short: "ShopFaster grocery list backend",
	Long: `ShopFaster serves store floor plans, inventory search and per-user
shopping lists over a JSON API backed by SQLite.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (YAML); SHOPFASTER_* env vars override it")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func initConfig(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	c, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = c
	logger = logging.Setup(cfg.LogLevel, cfg.LogFormat)
	return nil
}
