// Package stats builds the dashboard summary from independent aggregate
// queries.
package stats

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"bloodlink/internal/domain"
)

// Aggregator composes a domain.StatsReader into one StatsSummary. Nothing is
// cached; every call re-reads the source.
type Aggregator struct {
	reader domain.StatsReader
	loc    *time.Location
}

// NewAggregator uses loc to decide where "today" starts. A nil loc means UTC.
func NewAggregator(reader domain.StatsReader, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{reader: reader, loc: loc}
}

// StartOfDay returns local midnight of now in loc.
func StartOfDay(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// Summary issues the six sub-queries concurrently. The first failure cancels
// the others and is returned.
func (a *Aggregator) Summary(ctx context.Context, now time.Time) (domain.StatsSummary, error) {
	var s domain.StatsSummary
	since := StartOfDay(now, a.loc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.TotalDonors, err = a.reader.CountDonors(gctx)
		return wrap("total donors", err)
	})
	g.Go(func() (err error) {
		s.DonorsByBloodType, err = a.reader.CountDonorsByBloodType(gctx)
		return wrap("donors by blood type", err)
	})
	g.Go(func() (err error) {
		s.RecentDonors, err = a.reader.RecentDonors(gctx, domain.RecentDonorsLimit)
		return wrap("recent donors", err)
	})
	g.Go(func() (err error) {
		s.SearchCount, err = a.reader.CountSearches(gctx)
		return wrap("search count", err)
	})
	g.Go(func() (err error) {
		s.TodayRegistrations, err = a.reader.CountRegistrationsSince(gctx, since)
		return wrap("today registrations", err)
	})
	g.Go(func() (err error) {
		s.TopCities, err = a.reader.TopCities(gctx, domain.TopCitiesLimit)
		return wrap("top cities", err)
	})
	if err := g.Wait(); err != nil {
		return domain.StatsSummary{}, err
	}

	return normalize(s), nil
}

func normalize(s domain.StatsSummary) domain.StatsSummary {
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
	if len(s.RecentDonors) > domain.RecentDonorsLimit {
		s.RecentDonors = s.RecentDonors[:domain.RecentDonorsLimit]
	}
	if len(s.TopCities) > domain.TopCitiesLimit {
		s.TopCities = s.TopCities[:domain.TopCitiesLimit]
	}
	return s
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("stats %s: %w", what, err)
}
