package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bloodlink/internal/adapter/repo"
	"bloodlink/internal/sqlinline"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the donor and search log tables if missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			rt, err := openRuntime(ctx, true)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := repo.Migrate(ctx, rt.sql); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d statements\n", len(sqlinline.Schema))
			return nil
		},
	}
}
