// Package remote reads donors, search logs and statistics from the deployed
// BloodLink backend over HTTP instead of querying Postgres directly.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"bloodlink/internal/domain"
	"bloodlink/internal/infra"
)

// ErrMissingBaseURL indicates that the client was configured without an endpoint.
var ErrMissingBaseURL = errors.New("remote: base url is required")

const (
	donorsPath     = "/api/v1/admin/donors"
	searchLogsPath = "/api/v1/admin/search-logs"
	statsPath      = "/api/v1/admin/stats"
)

// Options configures the client.
type Options struct {
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
	// RequestID, when set, supplies the X-Request-ID forwarded with each call.
	RequestID func(context.Context) string
}

// Client implements domain.DonorReader, domain.SearchLogReader and
// domain.StatsReader against the backend's admin endpoints. Every call is
// attempted once.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
	requestID  func(context.Context) string
}

type listResponse[T any] struct {
	Items []T `json:"items"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("remote: invalid base url: %w", err)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, logger: logger, requestID: opts.RequestID}, nil
}

func (c *Client) ListDonors(ctx context.Context, filter domain.DonorFilter) ([]domain.Donor, error) {
	q := url.Values{}
	if s := strings.TrimSpace(filter.Search); s != "" {
		q.Set("search", s)
	}
	if !domain.IsAllBloodTypes(filter.BloodType) {
		q.Set("blood_type", filter.BloodType)
	}
	var resp listResponse[domain.Donor]
	if err := c.get(ctx, donorsPath, q, &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		resp.Items = []domain.Donor{}
	}
	return resp.Items, nil
}

func (c *Client) ListSearchLogs(ctx context.Context, filter domain.SearchLogFilter) ([]domain.SearchLogEntry, error) {
	q := url.Values{}
	if !domain.IsAllBloodTypes(filter.BloodType) {
		q.Set("blood_type", filter.BloodType)
	}
	if filter.From != nil {
		q.Set("from", filter.From.UTC().Format(time.RFC3339))
	}
	if filter.To != nil {
		q.Set("to", filter.To.UTC().Format(time.RFC3339))
	}
	limit := filter.EffectiveLimit()
	q.Set("limit", strconv.Itoa(limit))
	var resp listResponse[domain.SearchLogEntry]
	if err := c.get(ctx, searchLogsPath, q, &resp); err != nil {
		return nil, err
	}
	items := resp.Items
	if items == nil {
		items = []domain.SearchLogEntry{}
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// Snapshot fetches the whole statistics snapshot in one call. since marks the
// start of "today" for the registrations count.
func (c *Client) Snapshot(ctx context.Context, since time.Time) (domain.StatsSummary, error) {
	q := url.Values{}
	if !since.IsZero() {
		q.Set("since", since.UTC().Format(time.RFC3339))
	}
	var s domain.StatsSummary
	if err := c.get(ctx, statsPath, q, &s); err != nil {
		return domain.StatsSummary{}, err
	}
	if s.DonorsByBloodType == nil {
		s.DonorsByBloodType = []domain.BloodTypeCount{}
	}
	if s.RecentDonors == nil {
		s.RecentDonors = []domain.RecentDonor{}
	}
	if s.TopCities == nil {
		s.TopCities = []domain.CityCount{}
	}
	domain.SortBloodTypeCounts(s.DonorsByBloodType)
	domain.SortCityCounts(s.TopCities)
	sort.SliceStable(s.RecentDonors, func(i, j int) bool {
		return s.RecentDonors[i].CreatedAt.After(s.RecentDonors[j].CreatedAt)
	})
	s.RecentDonors = truncate(s.RecentDonors, domain.RecentDonorsLimit)
	s.TopCities = truncate(s.TopCities, domain.TopCitiesLimit)
	return s, nil
}

func (c *Client) CountDonors(ctx context.Context) (int64, error) {
	s, err := c.Snapshot(ctx, time.Time{})
	return s.TotalDonors, err
}

func (c *Client) CountSearches(ctx context.Context) (int64, error) {
	s, err := c.Snapshot(ctx, time.Time{})
	return s.SearchCount, err
}

func (c *Client) CountRegistrationsSince(ctx context.Context, since time.Time) (int64, error) {
	s, err := c.Snapshot(ctx, since)
	return s.TodayRegistrations, err
}

func (c *Client) CountDonorsByBloodType(ctx context.Context) ([]domain.BloodTypeCount, error) {
	s, err := c.Snapshot(ctx, time.Time{})
	if err != nil {
		return nil, err
	}
	return s.DonorsByBloodType, nil
}

func (c *Client) RecentDonors(ctx context.Context, limit int) ([]domain.RecentDonor, error) {
	s, err := c.Snapshot(ctx, time.Time{})
	if err != nil {
		return nil, err
	}
	return truncate(s.RecentDonors, limit), nil
}

func (c *Client) TopCities(ctx context.Context, limit int) ([]domain.CityCount, error) {
	s, err := c.Snapshot(ctx, time.Time{})
	if err != nil {
		return nil, err
	}
	return truncate(s.TopCities, limit), nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.requestID != nil {
		if rid := c.requestID(ctx); rid != "" {
			req.Header.Set("X-Request-ID", rid)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrDataSourceUnavailable, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: read response: %w", domain.ErrDataSourceUnavailable, path, err)
	}
	c.logger.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("remote: request finished")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var detail errorResponse
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Error.Message != "" {
			return fmt.Errorf("%w: %s: %s (%s)", domain.ErrDataSourceUnavailable, path, detail.Error.Message, detail.Error.Code)
		}
		return fmt.Errorf("%w: %s: status %d", domain.ErrDataSourceUnavailable, path, resp.StatusCode)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("remote: decode %s: %w", path, err)
	}
	return nil
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

var (
	_ domain.DonorReader     = (*Client)(nil)
	_ domain.SearchLogReader = (*Client)(nil)
	_ domain.StatsReader     = (*Client)(nil)
)
