package metrics

import (
	"fmt"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/shopspring/decimal"
)

// MonthlyTrend is one (year, month) bucket of the trend series. The pct
// fields are nil on the first bucket, which has nothing to compare against.
type MonthlyTrend struct {
	Year            int             `json:"year"`
	Month           int             `json:"month"`
	Label           string          `json:"label"`
	Revenue         decimal.Decimal `json:"revenue"`
	AvgItemPrice    float64         `json:"avg_item_price"`
	ItemsSold       int             `json:"items_sold"`
	Orders          int             `json:"orders"`
	AvgOrderValue   float64         `json:"avg_order_value"`
	RevenueChange   *float64        `json:"revenue_pct_change,omitempty"`
	OrdersChange    *float64        `json:"orders_pct_change,omitempty"`
	OrderValueDelta *float64        `json:"avg_order_value_pct_change,omitempty"`
}

type monthKey struct {
	year  int
	month int
}

type monthBucket struct {
	revenue   decimal.Decimal
	prices    []float64
	orderSums map[string]float64
	items     int
}

// MonthlyTrends aggregates the sales frame by purchase month, sorted
// ascending, with month-over-month percentage changes computed between
// consecutive buckets. A non-nil year restricts the series to that year.
func MonthlyTrends(df dataframe.DataFrame, year *int, opts ...Option) ([]MonthlyTrend, error) {
	o := buildOptions(opts)
	if err := requireColumns(df, o.PriceColumn, o.OrderColumn, o.YearColumn, o.MonthColumn); err != nil {
		return nil, err
	}

	prices := columnFloats(df, o.PriceColumn)
	orders := columnStrings(df, o.OrderColumn)
	years := columnFloats(df, o.YearColumn)
	months := columnFloats(df, o.MonthColumn)

	buckets := make(map[monthKey]*monthBucket)
	for i := range prices {
		if isMissingFloat(prices[i]) || isMissingFloat(years[i]) || isMissingFloat(months[i]) || isMissing(orders[i]) {
			continue
		}
		key := monthKey{year: int(years[i]), month: int(months[i])}
		if year != nil && key.year != *year {
			continue
		}
		b := buckets[key]
		if b == nil {
			b = &monthBucket{revenue: decimal.Zero, orderSums: make(map[string]float64)}
			buckets[key] = b
		}
		b.revenue = b.revenue.Add(decimal.NewFromFloat(prices[i]))
		b.prices = append(b.prices, prices[i])
		b.orderSums[orders[i]] += prices[i]
		b.items++
	}

	keys := make([]monthKey, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	trends := make([]MonthlyTrend, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		perOrder := make([]float64, 0, len(b.orderSums))
		for _, sum := range b.orderSums {
			perOrder = append(perOrder, sum)
		}
		trends = append(trends, MonthlyTrend{
			Year:          key.year,
			Month:         key.month,
			Label:         sprintfLabel(key.year, key.month),
			Revenue:       b.revenue.Round(2),
			AvgItemPrice:  round2(mean(b.prices)),
			ItemsSold:     b.items,
			Orders:        len(b.orderSums),
			AvgOrderValue: round2(mean(perOrder)),
		})
	}

	for i := 1; i < len(trends); i++ {
		prev, cur := trends[i-1], trends[i]
		trends[i].RevenueChange = pctChange(cur.Revenue.InexactFloat64(), prev.Revenue.InexactFloat64())
		trends[i].OrdersChange = pctChange(float64(cur.Orders), float64(prev.Orders))
		trends[i].OrderValueDelta = pctChange(cur.AvgOrderValue, prev.AvgOrderValue)
	}
	return trends, nil
}

func pctChange(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}
	return float64Ptr(round2((current - previous) / previous * 100))
}

func sprintfLabel(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
