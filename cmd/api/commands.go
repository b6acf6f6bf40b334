package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hyroxbox-directory/internal/auth"
	"hyroxbox-directory/internal/database"
	"hyroxbox-directory/internal/hyroxbox"
	"hyroxbox-directory/internal/region"
	"hyroxbox-directory/internal/seed"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(cmd.Context(), database.Options{URL: cfg.DatabaseURL})
		if err != nil {
			return err
		}
		defer db.Close()

		applied, err := database.MigrateUp(db)
		if err != nil {
			return err
		}
		logger.Info("migrations applied", zap.Int("count", applied))
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back the last migrations (default 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			steps = n
		}

		db, err := database.Connect(cmd.Context(), database.Options{URL: cfg.DatabaseURL})
		if err != nil {
			return err
		}
		defer db.Close()

		rolledBack, err := database.MigrateDown(db, steps)
		if err != nil {
			return err
		}
		logger.Info("migrations rolled back", zap.Int("count", rolledBack))
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Import regions and boxes from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := seed.LoadFile(args[0])
		if err != nil {
			return err
		}

		db, err := database.Connect(cmd.Context(), database.Options{URL: cfg.DatabaseURL})
		if err != nil {
			return err
		}
		defer db.Close()

		result, err := seed.Apply(cmd.Context(), file, region.NewRegionService(db), hyroxbox.NewBoxService(db), logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "regions: %d created, %d skipped; boxes: %d created\n",
			result.RegionsCreated, result.RegionsSkipped, result.BoxesCreated)
		return nil
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}
