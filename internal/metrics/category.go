package metrics

import (
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/shopspring/decimal"
)

// CategoryRow is one product category's slice of the business.
type CategoryRow struct {
	Category          string          `json:"category"`
	Revenue           decimal.Decimal `json:"revenue"`
	AvgItemPrice      float64         `json:"avg_item_price"`
	ItemsSold         int             `json:"items_sold"`
	Orders            int             `json:"orders"`
	Products          int             `json:"products"`
	AvgOrderValue     float64         `json:"avg_order_value"`
	ItemsPerOrder     float64         `json:"items_per_order"`
	RevenuePerProduct float64         `json:"revenue_per_product"`
	RevenueShare      float64         `json:"revenue_share_pct"`
}

// CategoryBreakdown lists categories by revenue, highest first. Rows is
// empty (with a warning) when the frame carries no category column.
type CategoryBreakdown struct {
	Rows     []CategoryRow `json:"rows"`
	Warnings []string      `json:"warnings,omitempty"`
}

type categoryBucket struct {
	revenue   decimal.Decimal
	prices    []float64
	orderSums map[string]float64
	products  map[string]bool
	items     int
}

// Categories aggregates the sales frame by product category. Rows with a
// null category are dropped before aggregation.
func Categories(df dataframe.DataFrame, opts ...Option) (CategoryBreakdown, error) {
	o := buildOptions(opts)
	if err := requireColumns(df, o.PriceColumn, o.OrderColumn); err != nil {
		return CategoryBreakdown{}, err
	}
	if !hasColumn(df, o.CategoryColumn) {
		return CategoryBreakdown{
			Warnings: []string{"category column unavailable, skipping category breakdown"},
		}, nil
	}

	prices := columnFloats(df, o.PriceColumn)
	orders := columnStrings(df, o.OrderColumn)
	categories := columnStrings(df, o.CategoryColumn)
	var products []string
	if hasColumn(df, o.ProductColumn) {
		products = columnStrings(df, o.ProductColumn)
	}

	buckets := make(map[string]*categoryBucket)
	total := decimal.Zero
	for i := range prices {
		if isMissingFloat(prices[i]) || isMissing(orders[i]) || isMissing(categories[i]) {
			continue
		}
		b := buckets[categories[i]]
		if b == nil {
			b = &categoryBucket{
				revenue:   decimal.Zero,
				orderSums: make(map[string]float64),
				products:  make(map[string]bool),
			}
			buckets[categories[i]] = b
		}
		price := decimal.NewFromFloat(prices[i])
		b.revenue = b.revenue.Add(price)
		total = total.Add(price)
		b.prices = append(b.prices, prices[i])
		b.orderSums[orders[i]] += prices[i]
		if products != nil && !isMissing(products[i]) {
			b.products[products[i]] = true
		}
		b.items++
	}

	rows := make([]CategoryRow, 0, len(buckets))
	totalFloat := total.InexactFloat64()
	for category, b := range buckets {
		perOrder := make([]float64, 0, len(b.orderSums))
		for _, sum := range b.orderSums {
			perOrder = append(perOrder, sum)
		}
		row := CategoryRow{
			Category:      category,
			Revenue:       b.revenue.Round(2),
			AvgItemPrice:  round2(mean(b.prices)),
			ItemsSold:     b.items,
			Orders:        len(b.orderSums),
			Products:      len(b.products),
			AvgOrderValue: round2(mean(perOrder)),
			ItemsPerOrder: round2(float64(b.items) / float64(len(b.orderSums))),
		}
		if row.Products > 0 {
			row.RevenuePerProduct = round2(b.revenue.InexactFloat64() / float64(row.Products))
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
		return rows[i].Category < rows[j].Category
	})
	return CategoryBreakdown{Rows: rows}, nil
}
