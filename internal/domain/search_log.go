package domain

import (
	"strconv"
	"time"
)

// SearchLogEntry records one visitor query against the donor search. The
// table is append-only and written by the public API.
type SearchLogEntry struct {
	ID           string    `json:"id"`
	BloodType    BloodType `json:"blood_type"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	RadiusKM     float64   `json:"radius_km"`
	ResultsCount int       `json:"results_count"`
	ClientIP     string    `json:"client_ip"`
	SearchedAt   time.Time `json:"searched_at"`
	Country      string    `json:"country,omitempty"`
}

// Location renders the query point and radius.
func (e SearchLogEntry) Location() string {
	return formatCoord(e.Latitude) + ", " + formatCoord(e.Longitude) +
		" (" + strconv.FormatFloat(e.RadiusKM, 'f', -1, 64) + " km)"
}

// MaxSearchLogs caps every search-activity read.
const MaxSearchLogs = 100

// SearchLogFilter narrows a search-activity query.
type SearchLogFilter struct {
	BloodType string
	From      *time.Time
	To        *time.Time
	Limit     int
}

// EffectiveLimit clamps Limit to 1..MaxSearchLogs; zero means the maximum.
func (f SearchLogFilter) EffectiveLimit() int {
	if f.Limit <= 0 || f.Limit > MaxSearchLogs {
		return MaxSearchLogs
	}
	return f.Limit
}
