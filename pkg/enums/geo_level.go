package enums

import "fmt"

// GeoLevel selects the granularity of geographic groupings.
type GeoLevel string

const (
	GeoLevelState GeoLevel = "state"
	GeoLevelCity  GeoLevel = "city"
	GeoLevelZip   GeoLevel = "zip"
)

var validGeoLevels = []GeoLevel{
	GeoLevelState,
	GeoLevelCity,
	GeoLevelZip,
}

// String implements fmt.Stringer.
func (g GeoLevel) String() string {
	return string(g)
}

// IsValid reports whether the value is a known GeoLevel.
func (g GeoLevel) IsValid() bool {
	for _, candidate := range validGeoLevels {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGeoLevel converts raw input into a GeoLevel. Empty input defaults to state.
func ParseGeoLevel(value string) (GeoLevel, error) {
	if value == "" {
		return GeoLevelState, nil
	}
	for _, candidate := range validGeoLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid geographic level %q", value)
}

// GroupColumns returns the customer columns that define a group at this level.
func (g GeoLevel) GroupColumns() []string {
	switch g {
	case GeoLevelCity:
		return []string{"customer_state", "customer_city"}
	case GeoLevelZip:
		return []string{"customer_state", "customer_city", "customer_zip_code_prefix"}
	default:
		return []string{"customer_state"}
	}
}
