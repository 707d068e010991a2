package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akinalp/sentquote/config"
	"github.com/akinalp/sentquote/database"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			_, syncLog, err := initLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer syncLog()

			// database.New migration'ları bağlantı açılırken uygular.
			db, err := database.New(cfg.Database.Path, database.Migrations())
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			defer db.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied to %s\n", cfg.Database.Path)
			return nil
		},
	}
}
