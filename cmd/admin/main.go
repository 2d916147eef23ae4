// Command admin bundles operator tasks for the donor dashboard: exports,
// connectivity checks, statistics dumps and schema setup.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"bloodlink/internal/adapter/remote"
	"bloodlink/internal/adapter/repo"
	"bloodlink/internal/admin"
	"bloodlink/internal/infra"
	"bloodlink/internal/stats"
)

var timeout time.Duration

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Operator tools for the blood donor admin dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")

	root.AddCommand(newExportCmd())
	root.AddCommand(newDBCheckCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newHashPasswordCmd())
	root.AddCommand(newMigrateCmd())
	return root
}

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// runtime holds what a command needs from the environment. close releases
// the pool.
type runtime struct {
	cfg     *infra.Config
	logger  infra.Logger
	sql     infra.SQLExecutor
	service *admin.Service
	close   func()
}

// openRuntime loads configuration and wires the configured data source.
// needSQL forces a database connection even in remote mode.
func openRuntime(ctx context.Context, needSQL bool) (*runtime, error) {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := infra.NewLogger(cfg.AppEnv)
	rt := &runtime{cfg: cfg, logger: logger, close: func() {}}

	if cfg.DatabaseURL != "" && (needSQL || cfg.DataSource == infra.DataSourcePostgres) {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		rt.sql = infra.NewSQLRunner(pool, logger)
		rt.close = pool.Close
	} else if needSQL {
		return nil, infra.ErrMissingDatabaseURL
	}

	policy, err := admin.ParseFailurePolicy(cfg.SearchLogsFailurePolicy)
	if err != nil {
		rt.close()
		return nil, err
	}
	opts := admin.Options{SearchLogsPolicy: policy, Logger: &rt.logger}
	if cfg.DataSource == infra.DataSourceRemote {
		client, err := remote.NewClient(remote.Options{
			BaseURL:        cfg.RemoteAPIBaseURL,
			Logger:         &rt.logger,
			RequestTimeout: cfg.RemoteAPITimeout,
		})
		if err != nil {
			rt.close()
			return nil, err
		}
		opts.Donors, opts.SearchLogs, opts.Stats = client, client, client.Summarizer(cfg.Location)
	} else {
		opts.Donors = repo.NewDonorRepository(rt.sql)
		opts.SearchLogs = repo.NewSearchLogRepository(rt.sql)
		opts.Stats = stats.NewAggregator(repo.NewStatsRepository(rt.sql), cfg.Location)
	}
	rt.service = admin.NewService(opts)
	return rt, nil
}

func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}
