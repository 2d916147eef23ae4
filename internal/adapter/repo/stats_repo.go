package repo

import (
	"context"
	"fmt"
	"time"

	"bloodlink/internal/domain"
	"bloodlink/internal/infra"
	"bloodlink/internal/sqlinline"
)

// StatsRepositoryPG implements domain.StatsReader. Each method is one
// independent query.
type StatsRepositoryPG struct {
	db infra.SQLExecutor
}

// NewStatsRepository constructs the repository.
func NewStatsRepository(db infra.SQLExecutor) *StatsRepositoryPG {
	return &StatsRepositoryPG{db: db}
}

func (r *StatsRepositoryPG) CountDonors(ctx context.Context) (int64, error) {
	return r.count(ctx, "count donors", sqlinline.QCountDonors)
}

func (r *StatsRepositoryPG) CountSearches(ctx context.Context) (int64, error) {
	return r.count(ctx, "count searches", sqlinline.QCountSearches)
}

func (r *StatsRepositoryPG) CountRegistrationsSince(ctx context.Context, since time.Time) (int64, error) {
	return r.count(ctx, "count registrations", sqlinline.QCountRegistrationsSince, since)
}

func (r *StatsRepositoryPG) CountDonorsByBloodType(ctx context.Context) ([]domain.BloodTypeCount, error) {
	rows, err := r.db.Query(ctx, sqlinline.QCountDonorsByBloodType)
	if err != nil {
		return nil, fmt.Errorf("count donors by blood type: %w", err)
	}
	defer rows.Close()

	items := []domain.BloodTypeCount{}
	for rows.Next() {
		var (
			bloodType string
			count     int64
		)
		if err := rows.Scan(&bloodType, &count); err != nil {
			return nil, fmt.Errorf("scan blood type count: %w", err)
		}
		items = append(items, domain.BloodTypeCount{BloodType: domain.BloodType(bloodType), Count: count})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count donors by blood type: %w", err)
	}
	return items, nil
}

func (r *StatsRepositoryPG) RecentDonors(ctx context.Context, limit int) ([]domain.RecentDonor, error) {
	rows, err := r.db.Query(ctx, sqlinline.QRecentDonors, limit)
	if err != nil {
		return nil, fmt.Errorf("recent donors: %w", err)
	}
	defer rows.Close()

	items := []domain.RecentDonor{}
	for rows.Next() {
		var (
			id, firstName, bloodType string
			city                     *string
			lat, lon                 float64
			createdAt                *time.Time
		)
		if err := rows.Scan(&id, &firstName, &bloodType, &city, &lat, &lon, &createdAt); err != nil {
			return nil, fmt.Errorf("scan recent donor: %w", err)
		}
		items = append(items, domain.NewRecentDonor(id, firstName, domain.BloodType(bloodType), city, lat, lon, derefTime(createdAt)))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent donors: %w", err)
	}
	return items, nil
}

func (r *StatsRepositoryPG) TopCities(ctx context.Context, limit int) ([]domain.CityCount, error) {
	rows, err := r.db.Query(ctx, sqlinline.QTopCities, limit)
	if err != nil {
		return nil, fmt.Errorf("top cities: %w", err)
	}
	defer rows.Close()

	items := []domain.CityCount{}
	for rows.Next() {
		var c domain.CityCount
		if err := rows.Scan(&c.City, &c.Count); err != nil {
			return nil, fmt.Errorf("scan city count: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top cities: %w", err)
	}
	return items, nil
}

func (r *StatsRepositoryPG) count(ctx context.Context, what, query string, args ...any) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", what, err)
	}
	return n, nil
}

var _ domain.StatsReader = (*StatsRepositoryPG)(nil)
