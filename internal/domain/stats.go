package domain

import "sort"

// BloodTypeCount is one bucket of the donors-by-blood-type histogram.
type BloodTypeCount struct {
	BloodType BloodType `json:"blood_type"`
	Count     int64     `json:"count"`
}

// CityCount is one entry of the top-cities ranking.
type CityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

const (
	RecentDonorsLimit = 5
	TopCitiesLimit    = 5
)

// StatsSummary is a read-time projection recomputed on every request.
type StatsSummary struct {
	TotalDonors        int64            `json:"totalDonors"`
	DonorsByBloodType  []BloodTypeCount `json:"donorsByBloodType"`
	RecentDonors       []RecentDonor    `json:"recentDonors"`
	SearchCount        int64            `json:"searchCount"`
	TodayRegistrations int64            `json:"todayRegistrations"`
	TopCities          []CityCount      `json:"topCities"`
}

// BloodTypeHistogram returns a count for each of the eight canonical blood
// types in display order, zero-filled for types without donors. Rows carrying
// any other value follow as their own buckets, alphabetically, so the
// histogram always sums to the donors it was built from.
func (s StatsSummary) BloodTypeHistogram() []BloodTypeCount {
	counts := make(map[BloodType]int64, len(s.DonorsByBloodType))
	for _, c := range s.DonorsByBloodType {
		counts[c.BloodType] += c.Count
	}
	out := make([]BloodTypeCount, 0, len(bloodTypes))
	for _, bt := range bloodTypes {
		out = append(out, BloodTypeCount{BloodType: bt, Count: counts[bt]})
		delete(counts, bt)
	}
	unknown := make([]BloodTypeCount, 0, len(counts))
	for bt, n := range counts {
		unknown = append(unknown, BloodTypeCount{BloodType: bt, Count: n})
	}
	SortBloodTypeCounts(unknown)
	return append(out, unknown...)
}

// SortBloodTypeCounts orders histogram buckets alphabetically by blood type.
func SortBloodTypeCounts(counts []BloodTypeCount) {
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].BloodType < counts[j].BloodType
	})
}

// SortCityCounts orders cities by descending donor count. Ties keep their
// incoming order.
func SortCityCounts(counts []CityCount) {
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
}
