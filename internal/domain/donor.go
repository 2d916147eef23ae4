package domain

import (
	"strconv"
	"strings"
	"time"
)

// Donor is a registered blood donor as stored in public.blood. Donors are
// created by the registration backend; this service only reads them.
type Donor struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	Phone       string    `json:"phone"`
	BloodType   BloodType `json:"blood_type"`
	City        *string   `json:"city"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	IsVerified  bool      `json:"is_verified"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
}

// CityName returns the city or an empty string when none was recorded.
func (d Donor) CityName() string {
	if d.City == nil {
		return ""
	}
	return strings.TrimSpace(*d.City)
}

// Location is the city when present, else the raw coordinate pair.
func (d Donor) Location() string {
	return location(d.City, d.Latitude, d.Longitude)
}

// RecentDonor is the projection shown in the dashboard's recent registrations.
type RecentDonor struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	BloodType BloodType `json:"blood_type"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRecentDonor maps the raw columns of a recent-donor row.
func NewRecentDonor(id, firstName string, bloodType BloodType, city *string, lat, lon float64, createdAt time.Time) RecentDonor {
	return RecentDonor{
		ID:        id,
		FirstName: firstName,
		BloodType: bloodType,
		Location:  location(city, lat, lon),
		CreatedAt: createdAt,
	}
}

// DonorFilter narrows a donor query. Zero value selects every donor.
type DonorFilter struct {
	Search    string
	BloodType string
}

func location(city *string, lat, lon float64) string {
	if city != nil && strings.TrimSpace(*city) != "" {
		return strings.TrimSpace(*city)
	}
	return formatCoord(lat) + ", " + formatCoord(lon)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
