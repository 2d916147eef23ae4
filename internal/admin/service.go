// Package admin composes the readers behind the dashboard and applies the
// per-source failure policy.
package admin

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/language"

	"bloodlink/internal/domain"
	"bloodlink/internal/export"
	"bloodlink/internal/infra"
	"bloodlink/internal/infra/geoip"
)

// FailurePolicy decides what a read does when its source fails.
type FailurePolicy string

const (
	// PolicyFail returns the error to the caller.
	PolicyFail FailurePolicy = "fail"
	// PolicyDegrade logs the error and returns an empty result.
	PolicyDegrade FailurePolicy = "degrade"
)

// ParseFailurePolicy accepts "fail" or "degrade" in any case.
func ParseFailurePolicy(raw string) (FailurePolicy, error) {
	switch p := FailurePolicy(strings.ToLower(strings.TrimSpace(raw))); p {
	case PolicyFail, PolicyDegrade:
		return p, nil
	default:
		return "", fmt.Errorf("unknown failure policy %q", raw)
	}
}

// Summarizer produces the dashboard statistics for the instant now.
type Summarizer interface {
	Summary(ctx context.Context, now time.Time) (domain.StatsSummary, error)
}

// Options wires the service. Donors and Stats always use PolicyFail.
type Options struct {
	Donors           domain.DonorReader
	SearchLogs       domain.SearchLogReader
	Stats            Summarizer
	SearchLogsPolicy FailurePolicy
	Countries        geoip.CountryResolver
	Logger           *infra.Logger
	Now              func() time.Time
}

type Service struct {
	donors           domain.DonorReader
	searchLogs       domain.SearchLogReader
	stats            Summarizer
	searchLogsPolicy FailurePolicy
	countries        geoip.CountryResolver
	logger           *infra.Logger
	now              func() time.Time
}

func NewService(opts Options) *Service {
	policy := opts.SearchLogsPolicy
	if policy == "" {
		policy = PolicyDegrade
	}
	logger := opts.Logger
	if logger == nil {
		nop := infra.NopLogger()
		logger = &nop
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		donors:           opts.Donors,
		searchLogs:       opts.SearchLogs,
		stats:            opts.Stats,
		searchLogsPolicy: policy,
		countries:        opts.Countries,
		logger:           logger,
		now:              now,
	}
}

// SearchLogsPolicy reports the policy applied to search-activity reads.
func (s *Service) SearchLogsPolicy() FailurePolicy { return s.searchLogsPolicy }

// Donors lists donors newest first. Errors always propagate.
func (s *Service) Donors(ctx context.Context, filter domain.DonorFilter) ([]domain.Donor, error) {
	items, err := s.donors.ListDonors(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("admin donors: %w", err)
	}
	return items, nil
}

// Summary computes the dashboard statistics. Errors always propagate.
func (s *Service) Summary(ctx context.Context) (domain.StatsSummary, error) {
	summary, err := s.stats.Summary(ctx, s.now())
	if err != nil {
		return domain.StatsSummary{}, fmt.Errorf("admin stats: %w", err)
	}
	return summary, nil
}

// SearchLogs lists recent search activity. Under PolicyDegrade a failing
// source yields an empty list and no error.
func (s *Service) SearchLogs(ctx context.Context, filter domain.SearchLogFilter) ([]domain.SearchLogEntry, error) {
	items, err := s.searchLogs.ListSearchLogs(ctx, filter)
	if err != nil {
		if s.searchLogsPolicy == PolicyDegrade && ctx.Err() == nil {
			s.logger.Warn().Err(err).Msg("search logs unavailable, serving empty list")
			return []domain.SearchLogEntry{}, nil
		}
		return nil, fmt.Errorf("admin search logs: %w", err)
	}
	if s.countries != nil {
		geoip.Annotate(s.countries, items)
	}
	return items, nil
}

// ExportDonors writes every donor as CSV and returns the number of data rows.
func (s *Service) ExportDonors(ctx context.Context, w io.Writer, csv export.CSVWriter, locale language.Tag) (int, error) {
	donors, err := s.Donors(ctx, domain.DonorFilter{})
	if err != nil {
		return 0, err
	}
	if err := csv.Write(w, donors, locale); err != nil {
		return 0, fmt.Errorf("admin export: %w", err)
	}
	return len(donors), nil
}
