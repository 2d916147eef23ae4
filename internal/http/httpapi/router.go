package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"bloodlink/internal/http/handlers"
	"bloodlink/internal/middleware"
)

// Options configures the cross-cutting middleware.
type Options struct {
	Logger          zerolog.Logger
	AllowedOrigins  []string
	DefaultLocale   language.Tag
	Location        *time.Location
	PasswordLimiter *middleware.IPRateLimiter
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
		middleware.ViewerContext(opts.DefaultLocale, opts.Location),
	)

	// Health
	r.Get("/v1/healthz", app.Health)
	r.Get("/api/test-db", app.TestDB)

	// Admin pages
	r.Get("/admin", app.LoginPage)
	r.Post("/admin/login", app.Login)
	r.Post("/admin/logout", app.Logout)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(app.Auth, "/admin"))
		r.Get("/admin/dashboard", app.Dashboard)
		r.Get("/admin/donors", app.DonorsPage)
		r.Get("/admin/activity", app.ActivityPage)
	})

	// Admin API
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.CORS(opts.AllowedOrigins))
		r.With(middleware.RateLimit(opts.PasswordLimiter)).Post("/verify-password", app.VerifyPassword)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAPISession(app.Auth))
			r.Get("/export-donors", app.ExportDonors)
			r.Get("/stats", app.StatsJSON)
			r.Get("/donors", app.DonorsJSON)
			r.Get("/search-logs", app.SearchLogsJSON)
		})
	})

	return r
}
