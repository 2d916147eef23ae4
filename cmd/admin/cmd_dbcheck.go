package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bloodlink/internal/infra"
)

func newDBCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dbcheck",
		Short: "Check database connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			rt, err := openRuntime(ctx, true)
			if err != nil {
				return err
			}
			defer rt.close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "url:      %s\n", infra.MaskDatabaseURL(rt.cfg.DatabaseURL))
			res, err := infra.Probe(ctx, rt.sql)
			if err != nil {
				if code := infra.PgErrorCode(err); code != "" {
					fmt.Fprintf(out, "pg code:  %s\n", code)
				}
				return err
			}
			fmt.Fprintf(out, "database: %s\n", res.Database)
			fmt.Fprintf(out, "time:     %s\n", res.Time.Format("2006-01-02 15:04:05 MST"))
			fmt.Fprintf(out, "latency:  %s\n", res.Latency)
			return nil
		},
	}
}
