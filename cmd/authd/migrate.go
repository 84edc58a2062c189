package main

import (
	"github.com/spf13/cobra"

	"github.com/fortress-labs/auth-service/config"
	"github.com/fortress-labs/auth-service/db"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := db.Migrate(cfg.DBURL); err != nil {
				return err
			}
			cmd.Println("Migrations applied")
			return nil
		},
	}
}
