package domain

import "fmt"

// BloodType is one of the eight ABO/Rh combinations used as the matching key.
type BloodType string

const (
	BloodTypeAPos  BloodType = "A+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeONeg  BloodType = "O-"
	BloodTypeABPos BloodType = "AB+"
	BloodTypeABNeg BloodType = "AB-"
)

// BloodTypeAll is the filter sentinel that disables blood-type matching.
const BloodTypeAll = "all"

var bloodTypes = []BloodType{
	BloodTypeAPos, BloodTypeANeg,
	BloodTypeBPos, BloodTypeBNeg,
	BloodTypeOPos, BloodTypeONeg,
	BloodTypeABPos, BloodTypeABNeg,
}

// BloodTypes returns the canonical display order used by the dashboard.
func BloodTypes() []BloodType {
	out := make([]BloodType, len(bloodTypes))
	copy(out, bloodTypes)
	return out
}

// Valid reports whether b is one of the eight known blood types.
func (b BloodType) Valid() bool {
	for _, bt := range bloodTypes {
		if b == bt {
			return true
		}
	}
	return false
}

func (b BloodType) String() string { return string(b) }

// ParseBloodType validates a raw value.
func ParseBloodType(raw string) (BloodType, error) {
	bt := BloodType(raw)
	if !bt.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidBloodType, raw)
	}
	return bt, nil
}

// IsAllBloodTypes reports whether a filter value selects every blood type.
func IsAllBloodTypes(filter string) bool {
	return filter == "" || filter == BloodTypeAll
}

// MatchesBloodType applies the blood-type filter rule: "all" (or empty)
// matches everything, anything else must be equal to a valid record value.
// Records carrying an unknown blood type never match a specific filter.
func MatchesBloodType(filter string, value BloodType) bool {
	if IsAllBloodTypes(filter) {
		return true
	}
	return value.Valid() && string(value) == filter
}
