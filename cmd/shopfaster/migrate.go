package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/shopfaster/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status|reset|version]",
	Short:     "Run database migrations",
	Long:      `Apply or inspect the embedded schema migrations. With no argument the schema is migrated up.`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status", "reset", "version"},
	RunE: func(cmd *cobra.Command, args []string) error {
		command := "up"
		if len(args) == 1 {
			command = args[0]
		}

		db, err := database.OpenRaw(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		if err := database.Migrate(cmd.Context(), db, command); err != nil {
			return err
		}
		logger.Info("migrate finished", "command", command, "db", cfg.DBPath)
		return nil
	},
}
