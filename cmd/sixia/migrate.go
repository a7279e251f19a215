package main

import (
	"github.com/spf13/cobra"

	"sixia/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		db, err := database.New(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(db.DB()); err != nil {
			return err
		}
		log.Info().Msg("database is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
