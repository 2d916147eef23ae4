package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/text/language"

	"bloodlink/internal/adapter/repo"
	"bloodlink/internal/admin"
	"bloodlink/internal/infra/infratest"
	"bloodlink/internal/middleware"
	"bloodlink/internal/stats"
)

var testNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, fake *infratest.FakeSQL, policy admin.FailurePolicy) *App {
	t.Helper()
	auth, err := admin.NewAuthenticator(admin.AuthOptions{Password: "s3cret"})
	if err != nil {
		t.Fatalf("authenticator: %v", err)
	}
	svc := admin.NewService(admin.Options{
		Donors:           repo.NewDonorRepository(fake),
		SearchLogs:       repo.NewSearchLogRepository(fake),
		Stats:            stats.NewAggregator(repo.NewStatsRepository(fake), time.UTC),
		SearchLogsPolicy: policy,
		Now:              func() time.Time { return testNow },
	})
	app, err := NewApp(Options{
		Admin:       svc,
		Auth:        auth,
		SQL:         fake,
		DatabaseURL: "postgresql://admin:pw@db.internal:5432/bloodlink",
		AppEnv:      "test",
		Now:         func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return app
}

// withViewer runs the request through the viewer middleware with British
// English and UTC defaults.
func withViewer(h http.HandlerFunc) http.Handler {
	return middleware.ViewerContext(language.BritishEnglish, time.UTC)(h)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}
