package main

import (
	"fmt"

	"github.com/spf13/cobra"

	sweepExpiredUC "github.com/m04kA/SMC-TableBooking/internal/usecase/sweep_expired"
)

func newSweepCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Expire reservations whose end time has passed and release their tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, false)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := a.queryContext(cmd.Context())
			defer cancel()

			uc := sweepExpiredUC.NewUseCase(a.reservations, a.tables, a.txManager, nil, a.log)
			result, err := uc.Execute(ctx, &sweepExpiredUC.Request{})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "expired %d reservation(s), released tables %v\n",
				result.Expired, result.ReleasedTables)
			return nil
		},
	}
}
