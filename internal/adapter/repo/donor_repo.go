package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bloodlink/internal/domain"
	"bloodlink/internal/infra"
	"bloodlink/internal/sqlinline"
)

// DonorRepositoryPG implements domain.DonorReader on public.blood.
type DonorRepositoryPG struct {
	db infra.SQLExecutor
}

// NewDonorRepository constructs the repository.
func NewDonorRepository(db infra.SQLExecutor) *DonorRepositoryPG {
	return &DonorRepositoryPG{db: db}
}

// ListDonors returns donors newest first. Search matches name, phone or city
// case-insensitively; the blood-type filter is skipped for "all".
func (r *DonorRepositoryPG) ListDonors(ctx context.Context, filter domain.DonorFilter) ([]domain.Donor, error) {
	bloodType := filter.BloodType
	if domain.IsAllBloodTypes(bloodType) {
		bloodType = ""
	}
	rows, err := r.db.Query(ctx, sqlinline.QListDonors, SearchPattern(filter.Search), bloodType)
	if err != nil {
		return nil, fmt.Errorf("list donors: %w", err)
	}
	defer rows.Close()

	items := []domain.Donor{}
	for rows.Next() {
		var (
			d         domain.Donor
			bloodType string
			createdAt *time.Time
		)
		if err := rows.Scan(
			&d.ID,
			&d.FirstName,
			&d.Phone,
			&bloodType,
			&d.City,
			&d.Latitude,
			&d.Longitude,
			&d.IsVerified,
			&d.IsAvailable,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan donor: %w", err)
		}
		d.BloodType = domain.BloodType(bloodType)
		d.CreatedAt = derefTime(createdAt)
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list donors: %w", err)
	}
	return items, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchPattern turns a free-text term into an ILIKE substring pattern.
// Wildcards typed by the user are matched literally. An empty term yields ""
// which the query treats as "no search".
func SearchPattern(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return ""
	}
	return "%" + likeEscaper.Replace(term) + "%"
}

var _ domain.DonorReader = (*DonorRepositoryPG)(nil)

// derefTime maps a NULL timestamp to the zero time; views render it blank.
func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
