package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"bloodlink/internal/adapter/remote"
	"bloodlink/internal/adapter/repo"
	"bloodlink/internal/admin"
	"bloodlink/internal/export"
	"bloodlink/internal/http/handlers"
	httpapi "bloodlink/internal/http/httpapi"
	"bloodlink/internal/infra"
	"bloodlink/internal/infra/geoip"
	"bloodlink/internal/middleware"
	"bloodlink/internal/stats"
)

func main() {
	// Optional .env
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		l := infra.NewLogger(os.Getenv("APP_ENV"))
		l.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	// The pool is optional in remote mode; it only backs diagnostics there.
	var sqlExec infra.SQLExecutor
	if cfg.DatabaseURL != "" {
		dbpool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer dbpool.Close()
		sqlExec = infra.NewSQLRunner(dbpool, logger)
	}

	policy, err := admin.ParseFailurePolicy(cfg.SearchLogsFailurePolicy)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid failure policy")
	}

	svcOpts := admin.Options{
		SearchLogsPolicy: policy,
		Logger:           &logger,
	}
	switch cfg.DataSource {
	case infra.DataSourceRemote:
		client, err := remote.NewClient(remote.Options{
			BaseURL:        cfg.RemoteAPIBaseURL,
			Logger:         &logger,
			RequestTimeout: cfg.RemoteAPITimeout,
			RequestID:      middleware.RequestIDFromContext,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure remote data source")
		}
		svcOpts.Donors = client
		svcOpts.SearchLogs = client
		svcOpts.Stats = client.Summarizer(cfg.Location)
	default:
		svcOpts.Donors = repo.NewDonorRepository(sqlExec)
		svcOpts.SearchLogs = repo.NewSearchLogRepository(sqlExec)
		svcOpts.Stats = stats.NewAggregator(repo.NewStatsRepository(sqlExec), cfg.Location)
	}

	resolver, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	if resolver != nil {
		defer resolver.Close()
		svcOpts.Countries = resolver
	}

	auth, err := admin.NewAuthenticator(admin.AuthOptions{
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
		CookieName:   cfg.SessionCookieName,
		HashKey:      []byte(cfg.SessionHashKey),
		MaxAge:       cfg.SessionMaxAge,
		Strict:       cfg.SessionStrict,
		Secure:       cfg.AppEnv == "production",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure admin auth")
	}
	if cfg.UsingDefaultPassword() {
		logger.Warn().Msg("ADMIN_PASSWORD is not set; the default password is in use")
	}

	app, err := handlers.NewApp(handlers.Options{
		Admin:       admin.NewService(svcOpts),
		Auth:        auth,
		Logger:      &logger,
		SQL:         sqlExec,
		DatabaseURL: cfg.DatabaseURL,
		AppEnv:      cfg.AppEnv,
		DataSource:  cfg.DataSource,
		CSV:         export.CSVWriter{EscapeQuotes: cfg.CSVEscapeQuotes},
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build handlers")
	}

	locale, err := language.Parse(cfg.DefaultLocale)
	if err != nil {
		logger.Warn().Err(err).Str("locale", cfg.DefaultLocale).Msg("unknown DEFAULT_LOCALE, using en-KE")
		locale = export.SupportedLocales[0]
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		AllowedOrigins:  cfg.AllowedOrigins,
		DefaultLocale:   locale,
		Location:        cfg.Location,
		PasswordLimiter: middleware.NewIPRateLimiter(cfg.PasswordRatePerMin),
	})

	server := infra.NewHTTPServer(cfg, router)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("data_source", cfg.DataSource).Msgf("admin dashboard listening on %s", server.Addr())
	if err := server.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("http server failed")
		return
	}
	logger.Info().Msg("server stopped")
}
