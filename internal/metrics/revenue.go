package metrics

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/shopspring/decimal"
)

// PricePercentiles summarizes the item price distribution.
type PricePercentiles struct {
	P25 float64 `json:"p25"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
}

// RevenueMetrics is the core sales summary. Monetary totals are exact
// decimals; averages and percentiles are floats rounded to cents.
type RevenueMetrics struct {
	TotalRevenue     decimal.Decimal  `json:"total_revenue"`
	TotalOrders      int              `json:"total_orders"`
	TotalItemsSold   int              `json:"total_items_sold"`
	AvgItemPrice     float64          `json:"avg_item_price"`
	MedianItemPrice  float64          `json:"median_item_price"`
	AvgOrderValue    float64          `json:"avg_order_value"`
	MedianOrderValue float64          `json:"median_order_value"`
	AvgItemsPerOrder float64          `json:"avg_items_per_order"`
	PricePercentiles PricePercentiles `json:"price_percentiles"`
}

// Revenue computes revenue totals, order-level aggregates and the price
// distribution for the sales frame. Rows with a null price are excluded
// from every aggregate.
func Revenue(df dataframe.DataFrame, opts ...Option) (RevenueMetrics, error) {
	o := buildOptions(opts)
	if err := requireColumns(df, o.PriceColumn, o.OrderColumn); err != nil {
		return RevenueMetrics{}, err
	}

	prices := columnFloats(df, o.PriceColumn)
	orders := columnStrings(df, o.OrderColumn)

	total := decimal.Zero
	orderSums := make(map[string]float64)
	var validPrices []float64
	items := 0
	for i, price := range prices {
		if isMissingFloat(price) || isMissing(orders[i]) {
			continue
		}
		items++
		validPrices = append(validPrices, price)
		total = total.Add(decimal.NewFromFloat(price))
		orderSums[orders[i]] += price
	}

	if items == 0 {
		return RevenueMetrics{TotalRevenue: decimal.Zero}, nil
	}

	perOrder := make([]float64, 0, len(orderSums))
	for _, sum := range orderSums {
		perOrder = append(perOrder, sum)
	}

	return RevenueMetrics{
		TotalRevenue:     total.Round(2),
		TotalOrders:      len(orderSums),
		TotalItemsSold:   items,
		AvgItemPrice:     round2(mean(validPrices)),
		MedianItemPrice:  round2(median(validPrices)),
		AvgOrderValue:    round2(mean(perOrder)),
		MedianOrderValue: round2(median(perOrder)),
		AvgItemsPerOrder: round2(float64(items) / float64(len(orderSums))),
		PricePercentiles: PricePercentiles{
			P25: round2(percentile(validPrices, 25)),
			P75: round2(percentile(validPrices, 75)),
			P90: round2(percentile(validPrices, 90)),
			P95: round2(percentile(validPrices, 95)),
		},
	}, nil
}
