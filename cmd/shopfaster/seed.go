package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/shopfaster/internal/catalog"
	"github.com/dukerupert/shopfaster/internal/database"
	"github.com/dukerupert/shopfaster/internal/seed"
	"github.com/dukerupert/shopfaster/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed <layout.yaml>",
	Short: "Load store layouts and inventory from a YAML file",
	Long: `Create the stores described in a layout file: their tile grid, obstacles,
entrance and checkout tiles, and stocked items. Each run creates new stores.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := seed.Load(args[0])
		if err != nil {
			return err
		}

		db, err := database.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		stores := store.NewStoreStore(db)
		tiles := store.NewTileStore(db)
		items := store.NewItemStore(db)
		inventory := store.NewInventoryStore(db)
		seeder := seed.New(stores, tiles, catalog.NewService(items, inventory, tiles), logger.With("component", "seed"))

		reports, err := seeder.Apply(cmd.Context(), f)
		for _, r := range reports {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d): %d tiles, %d obstacles, %d items stocked\n",
				r.Name, r.StoreID, r.Tiles, r.Obstacles, r.Stock.InventoryCreated)
		}
		return err
	},
}
