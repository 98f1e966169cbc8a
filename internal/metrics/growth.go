package metrics

// GrowthEntry reports the movement of one metric between two periods. Pct is
// omitted when the previous value is zero, where a percentage is undefined.
type GrowthEntry struct {
	Current  float64  `json:"current"`
	Previous float64  `json:"previous"`
	Absolute float64  `json:"absolute_change"`
	Pct      *float64 `json:"pct_change,omitempty"`
}

// GrowthMetrics compares two revenue summaries.
type GrowthMetrics struct {
	Revenue       GrowthEntry `json:"revenue"`
	Orders        GrowthEntry `json:"orders"`
	AvgOrderValue GrowthEntry `json:"avg_order_value"`
	ItemsPerOrder GrowthEntry `json:"items_per_order"`
}

// Growth derives period-over-period deltas from two revenue results.
func Growth(current, previous RevenueMetrics) GrowthMetrics {
	return GrowthMetrics{
		Revenue:       growthEntry(current.TotalRevenue.InexactFloat64(), previous.TotalRevenue.InexactFloat64()),
		Orders:        growthEntry(float64(current.TotalOrders), float64(previous.TotalOrders)),
		AvgOrderValue: growthEntry(current.AvgOrderValue, previous.AvgOrderValue),
		ItemsPerOrder: growthEntry(current.AvgItemsPerOrder, previous.AvgItemsPerOrder),
	}
}

func growthEntry(current, previous float64) GrowthEntry {
	entry := GrowthEntry{
		Current:  current,
		Previous: previous,
		Absolute: round2(current - previous),
	}
	if previous != 0 {
		entry.Pct = float64Ptr(round2((current - previous) / previous * 100))
	}
	return entry
}
