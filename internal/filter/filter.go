// Package filter narrows already-fetched result sets the way the admin pages
// do. Nothing here performs I/O; results are fresh slices in input order.
package filter

import (
	"strings"
	"time"

	"bloodlink/internal/domain"
)

// DateLayout is the format of the activity page's date filter.
const DateLayout = "2006-01-02"

// DonorState is the donors page filter.
type DonorState struct {
	Search    string `validate:"max=100"`
	BloodType string `validate:"omitempty,bloodtype"`
}

// SearchLogState is the activity page filter.
type SearchLogState struct {
	BloodType string `validate:"omitempty,bloodtype"`
	Date      string `validate:"omitempty,datetime=2006-01-02"`
}

// Donors keeps donors whose blood type matches and, when a search term is
// set, whose name, phone or location contains it. Name and location compare
// case-insensitively. The term is used as typed, spaces included.
func Donors(list []domain.Donor, st DonorState) []domain.Donor {
	term := st.Search
	lower := strings.ToLower(term)
	out := make([]domain.Donor, 0, len(list))
	for _, d := range list {
		if !domain.MatchesBloodType(st.BloodType, d.BloodType) {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(d.FirstName), lower) &&
			!strings.Contains(d.Phone, term) &&
			!strings.Contains(strings.ToLower(d.Location()), lower) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// SearchLogs keeps entries whose blood type matches and, when Date is set,
// whose timestamp falls on that calendar date in loc. An unparseable date
// matches nothing.
func SearchLogs(list []domain.SearchLogEntry, st SearchLogState, loc *time.Location) []domain.SearchLogEntry {
	if loc == nil {
		loc = time.UTC
	}
	date := strings.TrimSpace(st.Date)
	out := make([]domain.SearchLogEntry, 0, len(list))
	for _, e := range list {
		if !domain.MatchesBloodType(st.BloodType, e.BloodType) {
			continue
		}
		if date != "" && e.SearchedAt.In(loc).Format(DateLayout) != date {
			continue
		}
		out = append(out, e)
	}
	return out
}
