package metrics

import (
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/shopspring/decimal"

	"github.com/shoplens/insights-backend/pkg/enums"
)

// GeoRow is one region's aggregate at the requested granularity. City and
// ZipPrefix are empty above their level.
type GeoRow struct {
	State              string          `json:"state"`
	City               string          `json:"city,omitempty"`
	ZipPrefix          string          `json:"zip_prefix,omitempty"`
	Revenue            decimal.Decimal `json:"revenue"`
	ItemsSold          int             `json:"items_sold"`
	Orders             int             `json:"orders"`
	Customers          int             `json:"customers"`
	AvgOrderValue      float64         `json:"avg_order_value"`
	RevenuePerCustomer float64         `json:"revenue_per_customer"`
	OrdersPerCustomer  float64         `json:"orders_per_customer"`
	RevenueShare       float64         `json:"revenue_share_pct"`
}

// GeoBreakdown mirrors CategoryBreakdown for the geographic dimension.
type GeoBreakdown struct {
	Level    enums.GeoLevel `json:"level"`
	Rows     []GeoRow       `json:"rows"`
	Warnings []string       `json:"warnings,omitempty"`
}

type geoBucket struct {
	parts     []string
	revenue   decimal.Decimal
	orderSums map[string]float64
	customers map[string]bool
	items     int
}

// Geography aggregates the sales frame by customer region at the given
// level. Missing geo columns degrade to an empty result with a warning.
func Geography(df dataframe.DataFrame, level enums.GeoLevel, opts ...Option) (GeoBreakdown, error) {
	o := buildOptions(opts)
	if err := requireColumns(df, o.PriceColumn, o.OrderColumn); err != nil {
		return GeoBreakdown{}, err
	}

	groupCols := level.GroupColumns()
	for _, col := range groupCols {
		if !hasColumn(df, col) {
			return GeoBreakdown{
				Level:    level,
				Warnings: []string{"geography column " + col + " unavailable, skipping breakdown"},
			}, nil
		}
	}

	prices := columnFloats(df, o.PriceColumn)
	orders := columnStrings(df, o.OrderColumn)
	groups := make([][]string, len(groupCols))
	for i, col := range groupCols {
		groups[i] = columnStrings(df, col)
	}
	var customers []string
	if hasColumn(df, o.CustomerColumn) {
		customers = columnStrings(df, o.CustomerColumn)
	}

	buckets := make(map[string]*geoBucket)
	total := decimal.Zero
	for i := range prices {
		if isMissingFloat(prices[i]) || isMissing(orders[i]) {
			continue
		}
		parts := make([]string, len(groups))
		missing := false
		for g := range groups {
			if isMissing(groups[g][i]) {
				missing = true
				break
			}
			parts[g] = groups[g][i]
		}
		if missing {
			continue
		}

		key := strings.Join(parts, "\x1f")
		b := buckets[key]
		if b == nil {
			b = &geoBucket{
				parts:     parts,
				revenue:   decimal.Zero,
				orderSums: make(map[string]float64),
				customers: make(map[string]bool),
			}
			buckets[key] = b
		}
		price := decimal.NewFromFloat(prices[i])
		b.revenue = b.revenue.Add(price)
		total = total.Add(price)
		b.orderSums[orders[i]] += prices[i]
		if customers != nil && !isMissing(customers[i]) {
			b.customers[customers[i]] = true
		}
		b.items++
	}

	rows := make([]GeoRow, 0, len(buckets))
	totalFloat := total.InexactFloat64()
	for _, b := range buckets {
		perOrder := make([]float64, 0, len(b.orderSums))
		for _, sum := range b.orderSums {
			perOrder = append(perOrder, sum)
		}
		row := GeoRow{
			State:         b.parts[0],
			Revenue:       b.revenue.Round(2),
			ItemsSold:     b.items,
			Orders:        len(b.orderSums),
			Customers:     len(b.customers),
			AvgOrderValue: round2(mean(perOrder)),
		}
		if len(b.parts) > 1 {
			row.City = b.parts[1]
		}
		if len(b.parts) > 2 {
			row.ZipPrefix = b.parts[2]
		}
		if row.Customers > 0 {
			row.RevenuePerCustomer = round2(b.revenue.InexactFloat64() / float64(row.Customers))
			row.OrdersPerCustomer = round2(float64(row.Orders) / float64(row.Customers))
		}
		if totalFloat > 0 {
			row.RevenueShare = round2(b.revenue.InexactFloat64() / totalFloat * 100)
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Revenue.Equal(rows[j].Revenue) {
			return rows[i].Revenue.GreaterThan(rows[j].Revenue)
		}
		if rows[i].State != rows[j].State {
			return rows[i].State < rows[j].State
		}
		return rows[i].City < rows[j].City
	})
	return GeoBreakdown{Level: level, Rows: rows}, nil
}
