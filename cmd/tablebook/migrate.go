package main

import (
	"github.com/spf13/cobra"

	"github.com/m04kA/TableBookingService/migrations"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := migrations.Apply(cmd.Context(), a.db, a.log); err != nil {
				a.log.Error("Migration failed: %v", err)
				return err
			}
			a.log.Info("Migrations applied")
			return nil
		},
	}
}
