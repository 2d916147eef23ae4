package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bloodlink/internal/admin"
	"bloodlink/internal/infra/infratest"
	"bloodlink/internal/sqlinline"
)

func donorRows() [][]any {
	created := time.Date(2025, 1, 14, 9, 0, 0, 0, time.UTC)
	return [][]any{
		{"d1", "Wanjiku", "0712345678", "O+", "Nairobi", -1.28, 36.82, true, true, created},
		{"d2", "Otieno", "0722000111", "A-", nil, -0.09, 34.77, false, true, created},
	}
}

func TestDonorsPageFiltersInMemory(t *testing.T) {
	fake := infratest.NewFakeSQL().On(sqlinline.QListDonors, donorRows()...)
	app := newTestApp(t, fake, "")

	rr := serve(withViewer(app.DonorsPage), httptest.NewRequest(http.MethodGet, "/admin/donors?q=wan&blood_type=O%2B", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Showing 1 of 2 donors") {
		t.Fatalf("missing count line:\n%s", body)
	}
	if !strings.Contains(body, "Wanjiku") || strings.Contains(body, "Otieno") {
		t.Fatalf("filter not applied")
	}
	if !strings.Contains(body, "14/01/2025") {
		t.Fatalf("expected en-GB short date")
	}

	calls := fake.CallsFor(sqlinline.QListDonors)
	if len(calls) != 1 || calls[0].Args[0] != "" || calls[0].Args[1] != "" {
		t.Fatalf("page filters must not reach SQL: %+v", calls)
	}
}

func TestDonorsPageShowsCoordinatesWithoutCity(t *testing.T) {
	fake := infratest.NewFakeSQL().On(sqlinline.QListDonors, donorRows()...)
	app := newTestApp(t, fake, "")
	rr := serve(withViewer(app.DonorsPage), httptest.NewRequest(http.MethodGet, "/admin/donors?blood_type=A-", nil))
	if !strings.Contains(rr.Body.String(), "-0.09, 34.77") {
		t.Fatalf("expected coordinate fallback")
	}
}

func TestDonorsPageFailsWhenSourceFails(t *testing.T) {
	fake := infratest.NewFakeSQL().Fail(sqlinline.QListDonors, errors.New("connection refused"))
	app := newTestApp(t, fake, "")
	rr := serve(withViewer(app.DonorsPage), httptest.NewRequest(http.MethodGet, "/admin/donors", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
}

func TestActivityPageDegradesToEmpty(t *testing.T) {
	fake := infratest.NewFakeSQL().Fail(sqlinline.QListSearchLogs, errors.New(`relation "search_logs" does not exist`))
	app := newTestApp(t, fake, admin.PolicyDegrade)
	rr := serve(withViewer(app.ActivityPage), httptest.NewRequest(http.MethodGet, "/admin/activity", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Showing 0 of 0 searches") {
		t.Fatalf("expected empty activity table")
	}
}

func TestActivityPageFailPolicy(t *testing.T) {
	fake := infratest.NewFakeSQL().Fail(sqlinline.QListSearchLogs, errors.New("timeout"))
	app := newTestApp(t, fake, admin.PolicyFail)
	rr := serve(withViewer(app.ActivityPage), httptest.NewRequest(http.MethodGet, "/admin/activity", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
}

func TestActivityPageDateFilterUsesViewerZone(t *testing.T) {
	fake := infratest.NewFakeSQL().On(sqlinline.QListSearchLogs,
		[]any{"s1", "O+", -1.28, 36.82, 10.0, 3, "", time.Date(2025, 1, 15, 22, 0, 0, 0, time.UTC)},
		[]any{"s2", "A+", -1.28, 36.82, 5.0, 0, "", time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)},
	)
	app := newTestApp(t, fake, "")

	rr := serve(withViewer(app.ActivityPage), httptest.NewRequest(http.MethodGet, "/admin/activity?date=2025-01-16&tz=Africa/Nairobi", nil))
	body := rr.Body.String()
	if !strings.Contains(body, "Showing 1 of 2 searches") {
		t.Fatalf("expected one search on the 16th in Nairobi:\n%s", body)
	}
	if !strings.Contains(body, "-1.28, 36.82 (10 km)") {
		t.Fatalf("expected location with radius")
	}

	rr = serve(withViewer(app.ActivityPage), httptest.NewRequest(http.MethodGet, "/admin/activity?date=2025-01-15", nil))
	if !strings.Contains(rr.Body.String(), "Showing 2 of 2 searches") {
		t.Fatalf("both entries are on the 15th in UTC")
	}
}

func TestDashboardRendersEveryBloodType(t *testing.T) {
	created := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	fake := infratest.NewFakeSQL().
		On(sqlinline.QCountDonors, []any{int64(3)}).
		On(sqlinline.QCountSearches, []any{int64(12)}).
		On(sqlinline.QCountRegistrationsSince, []any{int64(1)}).
		On(sqlinline.QCountDonorsByBloodType, []any{"O+", int64(2)}, []any{"A-", int64(1)}).
		On(sqlinline.QRecentDonors, []any{"d1", "Wanjiku", "O+", "Nairobi", -1.28, 36.82, created}).
		On(sqlinline.QTopCities, []any{"Nairobi", int64(2)})
	app := newTestApp(t, fake, "")

	rr := serve(withViewer(app.Dashboard), httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, bt := range []string{"A+", "A-", "B+", "B-", "O+", "O-", "AB+", "AB-"} {
		// html/template escapes "+" in text context.
		escaped := strings.ReplaceAll(bt, "+", "&#43;")
		if !strings.Contains(body, "<strong>"+escaped+"</strong>") {
			t.Fatalf("missing blood type %s", bt)
		}
	}
	if !strings.Contains(body, "0 donors") || !strings.Contains(body, "Wanjiku") {
		t.Fatalf("expected zero-filled buckets and recent donor")
	}
	since := fake.CallsFor(sqlinline.QCountRegistrationsSince)[0].Args[0].(time.Time)
	if !since.Equal(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("today starts at %s", since)
	}
}

func TestDashboardFailsWhenStatsFail(t *testing.T) {
	app := newTestApp(t, infratest.NewFakeSQL(), "")
	rr := serve(withViewer(app.Dashboard), httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
}
