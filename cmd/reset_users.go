package main

import (
	"fmt"

	"github.com/spf13/cobra"

	usersService "github.com/m04kA/SMC-TableBooking/internal/service/users"
)

func newResetUsersCmd(configPath *string) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset-users",
		Short: "Delete every non-admin user together with their reservations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset-users deletes data irreversibly, rerun with --yes")
			}

			a, err := newApp(*configPath, false)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := a.queryContext(cmd.Context())
			defer cancel()

			svc := usersService.NewService(a.users, a.cfg.Booking.Approvers(), a.log)
			deleted, err := svc.ResetNonAdmins(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d user(s)\n", deleted)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}
