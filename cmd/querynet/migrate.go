package main

import (
	"github.com/spf13/cobra"

	"github.com/emilythestrangee/querynet/backend/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.New(cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(db.GetDB()); err != nil {
			return err
		}
		log.Info("migrations applied")
		return nil
	},
}
