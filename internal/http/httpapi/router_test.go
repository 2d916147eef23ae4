package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"

	"bloodlink/internal/adapter/repo"
	"bloodlink/internal/admin"
	"bloodlink/internal/http/handlers"
	"bloodlink/internal/infra"
	"bloodlink/internal/infra/infratest"
	"bloodlink/internal/middleware"
	"bloodlink/internal/sqlinline"
	"bloodlink/internal/stats"
)

func newTestRouter(t *testing.T, fake *infratest.FakeSQL, perMinute int) http.Handler {
	t.Helper()
	auth, err := admin.NewAuthenticator(admin.AuthOptions{Password: "s3cret"})
	if err != nil {
		t.Fatalf("authenticator: %v", err)
	}
	svc := admin.NewService(admin.Options{
		Donors:     repo.NewDonorRepository(fake),
		SearchLogs: repo.NewSearchLogRepository(fake),
		Stats:      stats.NewAggregator(repo.NewStatsRepository(fake), time.UTC),
	})
	app, err := handlers.NewApp(handlers.Options{Admin: svc, Auth: auth, SQL: fake})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	var limiter *middleware.IPRateLimiter
	if perMinute > 0 {
		limiter = middleware.NewIPRateLimiter(perMinute)
	}
	return NewRouter(app, Options{
		Logger:          infra.NopLogger(),
		DefaultLocale:   language.BritishEnglish,
		Location:        time.UTC,
		PasswordLimiter: limiter,
	})
}

func TestPagesRedirectWithoutSession(t *testing.T) {
	h := newTestRouter(t, infratest.NewFakeSQL(), 10)
	for _, path := range []string{"/admin/dashboard", "/admin/donors", "/admin/activity"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/admin" {
			t.Fatalf("%s: got %d -> %q", path, rr.Code, rr.Header().Get("Location"))
		}
	}
}

func TestAPIRequiresSession(t *testing.T) {
	h := newTestRouter(t, infratest.NewFakeSQL(), 10)
	for _, path := range []string{"/api/admin/export-donors", "/api/admin/stats", "/api/admin/donors", "/api/admin/search-logs"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", path, rr.Code)
		}
		if strings.TrimSpace(rr.Body.String()) != `{"error":"Unauthorized"}` {
			t.Fatalf("%s: body = %s", path, rr.Body.String())
		}
	}
}

func TestSessionCookieGrantsAccess(t *testing.T) {
	fake := infratest.NewFakeSQL().On(sqlinline.QListDonors)
	h := newTestRouter(t, fake, 10)

	req := httptest.NewRequest(http.MethodGet, "/admin/donors", nil)
	req.AddCookie(&http.Cookie{Name: "admin_session", Value: "1"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing request id header")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/export-donors", nil)
	req.AddCookie(&http.Cookie{Name: "admin_session", Value: "1"})
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "text/csv" {
		t.Fatalf("export: %d %q", rr.Code, rr.Header().Get("Content-Type"))
	}
}

func TestVerifyPasswordIsRateLimited(t *testing.T) {
	h := newTestRouter(t, infratest.NewFakeSQL(), 2)
	var codes []int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/verify-password", strings.NewReader(`{"password":"guess"}`))
		req.RemoteAddr = "198.51.100.20:4000"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusUnauthorized || codes[1] != http.StatusUnauthorized || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
}

func TestHealthAndLoginArePublic(t *testing.T) {
	fake := infratest.NewFakeSQL().On(sqlinline.QPing, []any{1})
	h := newTestRouter(t, fake, 10)
	for _, path := range []string{"/v1/healthz", "/admin"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", path, rr.Code)
		}
	}
}

func TestVerifyPasswordWithoutLimiter(t *testing.T) {
	h := newTestRouter(t, infratest.NewFakeSQL(), 0)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/verify-password", strings.NewReader(`{"password":"s3cret"}`))
		req.RemoteAddr = "198.51.100.21:4000"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rr.Code)
		}
	}
}
