package repo

import (
	"context"
	"fmt"
	"time"

	"bloodlink/internal/domain"
	"bloodlink/internal/infra"
	"bloodlink/internal/sqlinline"
)

// SearchLogRepositoryPG implements domain.SearchLogReader on public.search_logs.
type SearchLogRepositoryPG struct {
	db infra.SQLExecutor
}

// NewSearchLogRepository constructs the repository.
func NewSearchLogRepository(db infra.SQLExecutor) *SearchLogRepositoryPG {
	return &SearchLogRepositoryPG{db: db}
}

// ListSearchLogs returns at most domain.MaxSearchLogs entries, newest first.
// Errors are returned as-is; the caller decides whether to degrade.
func (r *SearchLogRepositoryPG) ListSearchLogs(ctx context.Context, filter domain.SearchLogFilter) ([]domain.SearchLogEntry, error) {
	bloodType := filter.BloodType
	if domain.IsAllBloodTypes(bloodType) {
		bloodType = ""
	}
	rows, err := r.db.Query(ctx, sqlinline.QListSearchLogs, bloodType, filter.From, filter.To, filter.EffectiveLimit())
	if err != nil {
		return nil, fmt.Errorf("list search logs: %w", err)
	}
	defer rows.Close()

	items := []domain.SearchLogEntry{}
	for rows.Next() {
		var (
			e          domain.SearchLogEntry
			bloodType  string
			searchedAt *time.Time
		)
		if err := rows.Scan(
			&e.ID,
			&bloodType,
			&e.Latitude,
			&e.Longitude,
			&e.RadiusKM,
			&e.ResultsCount,
			&e.ClientIP,
			&searchedAt,
		); err != nil {
			return nil, fmt.Errorf("scan search log: %w", err)
		}
		e.BloodType = domain.BloodType(bloodType)
		e.SearchedAt = derefTime(searchedAt)
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list search logs: %w", err)
	}
	return items, nil
}

var _ domain.SearchLogReader = (*SearchLogRepositoryPG)(nil)
