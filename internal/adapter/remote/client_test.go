package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloodlink/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Options{BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(Options{})
	assert.ErrorIs(t, err, ErrMissingBaseURL)
}

func TestListDonorsSendsFilters(t *testing.T) {
	var gotPath, gotSearch, gotType string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSearch = r.URL.Query().Get("search")
		gotType = r.URL.Query().Get("blood_type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":"d1","first_name":"Jo","phone":"0700","blood_type":"O+","city":"Nairobi","latitude":-1.28,"longitude":36.82,"is_verified":true,"is_available":true,"created_at":"2024-03-01T09:30:00Z"}]}`))
	})

	got, err := c.ListDonors(context.Background(), domain.DonorFilter{Search: " jo ", BloodType: "O+"})
	require.NoError(t, err)
	assert.Equal(t, donorsPath, gotPath)
	assert.Equal(t, "jo", gotSearch)
	assert.Equal(t, "O+", gotType)
	require.Len(t, got, 1)
	assert.Equal(t, "Nairobi", got[0].Location())
	assert.Equal(t, domain.BloodTypeOPos, got[0].BloodType)
}

func TestListDonorsAllOmitsBloodType(t *testing.T) {
	var hasType bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hasType = r.URL.Query()["blood_type"]
		_, _ = w.Write([]byte(`{}`))
	})
	got, err := c.ListDonors(context.Background(), domain.DonorFilter{BloodType: "all"})
	require.NoError(t, err)
	assert.False(t, hasType)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListSearchLogsCapsResult(t *testing.T) {
	from := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	var gotLimit, gotFrom string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		gotFrom = r.URL.Query().Get("from")
		_, _ = w.Write([]byte(`{"items":[{"id":"a"},{"id":"b"},{"id":"c"}]}`))
	})
	got, err := c.ListSearchLogs(context.Background(), domain.SearchLogFilter{From: &from, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, "2", gotLimit)
	assert.Equal(t, "2025-01-15T00:00:00Z", gotFrom)
	assert.Len(t, got, 2)
}

func TestNon2xxMapsToUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":{"code":"upstream","message":"db down"}}`))
	})
	_, err := c.ListDonors(context.Background(), domain.DonorFilter{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDataSourceUnavailable))
	assert.Contains(t, err.Error(), "db down")
}

func TestTransportErrorMapsToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c, err := NewClient(Options{BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = c.CountDonors(context.Background())
	assert.ErrorIs(t, err, domain.ErrDataSourceUnavailable)
}

func TestSnapshotNormalisesOrdering(t *testing.T) {
	since := time.Date(2025, 1, 15, 0, 0, 0, 0, time.FixedZone("EAT", 3*3600))
	var gotSince string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotSince = r.URL.Query().Get("since")
		_, _ = w.Write([]byte(`{
			"totalDonors": 5,
			"donorsByBloodType": [{"blood_type":"O+","count":3},{"blood_type":"A-","count":2}],
			"searchCount": 9,
			"todayRegistrations": 1,
			"topCities": [{"city":"Kisumu","count":1},{"city":"Nairobi","count":4}]
		}`))
	})

	s, err := c.Snapshot(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-14T21:00:00Z", gotSince)
	assert.EqualValues(t, 5, s.TotalDonors)
	assert.Equal(t, domain.BloodType("A-"), s.DonorsByBloodType[0].BloodType)
	assert.Equal(t, "Nairobi", s.TopCities[0].City)
	assert.NotNil(t, s.RecentDonors)

	n, err := c.CountRegistrationsSince(context.Background(), since)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	top, err := c.TopCities(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestSummarizerSendsLocalMidnight(t *testing.T) {
	var gotSince string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotSince = r.URL.Query().Get("since")
		_, _ = w.Write([]byte(`{"totalDonors":0}`))
	})
	eat := time.FixedZone("EAT", 3*3600)
	now := time.Date(2025, 1, 15, 22, 30, 0, 0, time.UTC)

	s, err := c.Summarizer(eat).Summary(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, s.TotalDonors)
	assert.Empty(t, s.RecentDonors)
	assert.Equal(t, "2025-01-15T21:00:00Z", gotSince)
}

type ridKey struct{}

func TestRequestIDForwarded(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Options{
		BaseURL: srv.URL,
		RequestID: func(ctx context.Context) string {
			s, _ := ctx.Value(ridKey{}).(string)
			return s
		},
	})
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), ridKey{}, "rid-123")
	_, err = c.ListDonors(ctx, domain.DonorFilter{})
	require.NoError(t, err)
	assert.Equal(t, "rid-123", got)
}

func TestSummarizerCapsRecentDonorsAndCities(t *testing.T) {
	base := time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)
	payload := domain.StatsSummary{TotalDonors: 7}
	for i := 0; i < 7; i++ {
		payload.RecentDonors = append(payload.RecentDonors, domain.RecentDonor{
			ID:        "d" + strconv.Itoa(i),
			FirstName: "Donor",
			BloodType: domain.BloodTypeOPos,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	for i := 0; i < 6; i++ {
		payload.TopCities = append(payload.TopCities, domain.CityCount{City: "City" + strconv.Itoa(i), Count: int64(i + 1)})
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	})
	s, err := c.Summarizer(time.UTC).Summary(context.Background(), base)
	require.NoError(t, err)

	require.Len(t, s.RecentDonors, domain.RecentDonorsLimit)
	require.Len(t, s.TopCities, domain.TopCitiesLimit)
	assert.Equal(t, "d6", s.RecentDonors[0].ID)
	assert.Equal(t, "City5", s.TopCities[0].City)
	assert.EqualValues(t, 2, s.TopCities[4].Count)
}
