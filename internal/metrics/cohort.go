package metrics

import (
	"sort"

	"github.com/go-gota/gota/dataframe"
)

// CohortRow tracks one acquisition month. Retention[p] is the share of the
// cohort active p months after its first purchase; by construction
// Retention[0] is 1.0.
type CohortRow struct {
	Cohort    string    `json:"cohort"`
	Size      int       `json:"size"`
	Active    []int     `json:"active_customers"`
	Retention []float64 `json:"retention"`
}

// CohortMetrics is the retention matrix over all acquisition months.
type CohortMetrics struct {
	Cohorts  []CohortRow `json:"cohorts"`
	Periods  int         `json:"periods"`
	Warnings []string    `json:"warnings,omitempty"`
}

// Cohorts assigns each customer to the calendar month of their first
// purchase and measures how many remain active in each later month.
func Cohorts(df dataframe.DataFrame, opts ...Option) (CohortMetrics, error) {
	o := buildOptions(opts)
	if err := requireColumns(df, o.OrderColumn, o.DateColumn); err != nil {
		return CohortMetrics{}, err
	}

	customerCol := o.CustomerColumn
	if !hasColumn(df, customerCol) {
		// Fall back to the raw per-order customer key when the deduplicated
		// one was never joined on.
		customerCol = "customer_id"
	}
	if !hasColumn(df, customerCol) {
		return CohortMetrics{
			Warnings: []string{"customer column unavailable, skipping cohorts"},
		}, nil
	}

	customers := columnStrings(df, customerCol)
	dates := columnStrings(df, o.DateColumn)

	// month of each purchase per customer, as year*12+month ordinals
	purchases := make(map[string]map[int]bool)
	for i, customer := range customers {
		if isMissing(customer) {
			continue
		}
		t, ok := parseTimestamp(dates[i])
		if !ok {
			continue
		}
		ordinal := t.Year()*12 + int(t.Month()) - 1
		if purchases[customer] == nil {
			purchases[customer] = make(map[int]bool)
		}
		purchases[customer][ordinal] = true
	}
	if len(purchases) == 0 {
		return CohortMetrics{
			Warnings: []string{"no dated purchases available for cohort analysis"},
		}, nil
	}

	// active[cohort][period] = distinct customers from that cohort active
	// period months after their first purchase
	active := make(map[int]map[int]int)
	sizes := make(map[int]int)
	maxPeriod := 0
	for _, months := range purchases {
		first := -1
		for ordinal := range months {
			if first == -1 || ordinal < first {
				first = ordinal
			}
		}
		sizes[first]++
		if active[first] == nil {
			active[first] = make(map[int]int)
		}
		for ordinal := range months {
			period := ordinal - first
			active[first][period]++
			if period > maxPeriod {
				maxPeriod = period
			}
		}
	}

	cohortKeys := make([]int, 0, len(sizes))
	for cohort := range sizes {
		cohortKeys = append(cohortKeys, cohort)
	}
	sort.Ints(cohortKeys)

	result := CohortMetrics{Periods: maxPeriod + 1}
	for _, cohort := range cohortKeys {
		row := CohortRow{
			Cohort:    sprintfLabel(cohort/12, cohort%12+1),
			Size:      sizes[cohort],
			Active:    make([]int, maxPeriod+1),
			Retention: make([]float64, maxPeriod+1),
		}
		for period := 0; period <= maxPeriod; period++ {
			row.Active[period] = active[cohort][period]
			row.Retention[period] = round2(ratio(active[cohort][period], sizes[cohort]))
		}
		result.Cohorts = append(result.Cohorts, row)
	}
	return result, nil
}
