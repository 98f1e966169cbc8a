package metrics

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/shopspring/decimal"

	"github.com/shoplens/insights-backend/pkg/enums"
)

// OperationsMetrics reports order fulfillment health over distinct orders.
type OperationsMetrics struct {
	TotalOrders        int                `json:"total_orders"`
	StatusDistribution map[string]float64 `json:"status_distribution"`
	DeliveredRate      float64            `json:"delivered_rate_pct"`
	CanceledRate       float64            `json:"canceled_rate_pct"`
	ReturnedRate       float64            `json:"returned_rate_pct"`
	FulfillmentRate    float64            `json:"fulfillment_rate_pct"`
	DeliveredRevenue   decimal.Decimal    `json:"delivered_revenue"`
}

// Operations computes the order status distribution and fulfillment rates.
// Statuses are counted per distinct order; revenue is summed per item row.
func Operations(df dataframe.DataFrame, opts ...Option) (OperationsMetrics, error) {
	o := buildOptions(opts)
	if err := requireColumns(df, o.OrderColumn, o.StatusColumn); err != nil {
		return OperationsMetrics{}, err
	}

	orders := columnStrings(df, o.OrderColumn)
	statuses := columnStrings(df, o.StatusColumn)
	var prices []float64
	if hasColumn(df, o.PriceColumn) {
		prices = columnFloats(df, o.PriceColumn)
	}

	statusByOrder := make(map[string]string)
	deliveredRevenue := decimal.Zero
	for i, orderID := range orders {
		if isMissing(orderID) || isMissing(statuses[i]) {
			continue
		}
		statusByOrder[orderID] = statuses[i]
		if prices != nil && !isMissingFloat(prices[i]) &&
			enums.OrderStatus(statuses[i]) == enums.OrderStatusDelivered {
			deliveredRevenue = deliveredRevenue.Add(decimal.NewFromFloat(prices[i]))
		}
	}

	total := len(statusByOrder)
	result := OperationsMetrics{
		TotalOrders:      total,
		DeliveredRevenue: deliveredRevenue.Round(2),
	}
	if total == 0 {
		return result, nil
	}

	counts := make(map[string]int)
	fulfilled := 0
	for _, status := range statusByOrder {
		counts[status]++
		if enums.OrderStatus(status).IsFulfilled() {
			fulfilled++
		}
	}

	result.StatusDistribution = make(map[string]float64, len(counts))
	for status, count := range counts {
		result.StatusDistribution[status] = round2(ratio(count, total))
	}
	result.DeliveredRate = round2(ratio(counts[enums.OrderStatusDelivered.String()], total) * 100)
	result.CanceledRate = round2(ratio(counts[enums.OrderStatusCanceled.String()], total) * 100)
	result.ReturnedRate = round2(ratio(counts[enums.OrderStatusReturned.String()], total) * 100)
	result.FulfillmentRate = round2(ratio(fulfilled, total) * 100)
	return result, nil
}
