package main

import (
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-TableBooking/migrations"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, false)
			if err != nil {
				return err
			}
			defer a.close()

			applied, err := migrations.Up(cmd.Context(), a.wrappedDB)
			if err != nil {
				a.log.Error("Migrate: %v", err)
				return err
			}

			a.log.Info("Migrate: applied %d migration(s) %v", len(applied), applied)
			return nil
		},
	}
}
