package enums

import "math"

// DeliverySpeed buckets a delivery duration into coarse bands.
type DeliverySpeed string

const (
	DeliverySpeedFast     DeliverySpeed = "1-3 days"
	DeliverySpeedStandard DeliverySpeed = "4-7 days"
	DeliverySpeedSlow     DeliverySpeed = "8+ days"
	DeliverySpeedUnknown  DeliverySpeed = "Unknown"
)

var validDeliverySpeeds = []DeliverySpeed{
	DeliverySpeedFast,
	DeliverySpeedStandard,
	DeliverySpeedSlow,
	DeliverySpeedUnknown,
}

// String implements fmt.Stringer.
func (d DeliverySpeed) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliverySpeed.
func (d DeliverySpeed) IsValid() bool {
	for _, candidate := range validDeliverySpeeds {
		if candidate == d {
			return true
		}
	}
	return false
}

// DeliverySpeedFromDays buckets a duration in whole days. NaN maps to Unknown.
func DeliverySpeedFromDays(days float64) DeliverySpeed {
	switch {
	case math.IsNaN(days):
		return DeliverySpeedUnknown
	case days <= 3:
		return DeliverySpeedFast
	case days <= 7:
		return DeliverySpeedStandard
	default:
		return DeliverySpeedSlow
	}
}
