package domain

import (
	"context"
	"time"
)

// DonorReader lists donors newest first.
type DonorReader interface {
	ListDonors(ctx context.Context, filter DonorFilter) ([]Donor, error)
}

// SearchLogReader lists search-log entries newest first, capped at
// MaxSearchLogs.
type SearchLogReader interface {
	ListSearchLogs(ctx context.Context, filter SearchLogFilter) ([]SearchLogEntry, error)
}

// StatsReader exposes the independent aggregate queries behind StatsSummary.
type StatsReader interface {
	CountDonors(ctx context.Context) (int64, error)
	CountDonorsByBloodType(ctx context.Context) ([]BloodTypeCount, error)
	RecentDonors(ctx context.Context, limit int) ([]RecentDonor, error)
	CountSearches(ctx context.Context) (int64, error)
	CountRegistrationsSince(ctx context.Context, since time.Time) (int64, error)
	TopCities(ctx context.Context, limit int) ([]CityCount, error)
}
