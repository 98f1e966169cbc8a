package dataset

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/shoplens/insights-backend/pkg/enums"
	"github.com/shoplens/insights-backend/pkg/errors"
	"github.com/shoplens/insights-backend/pkg/logger"
)

// Order columns pulled alongside the join key when building the sales table.
// Missing ones are skipped rather than failing the build.
var orderJoinColumns = []string{
	"order_status",
	"order_purchase_timestamp",
	"order_approved_at",
	"order_delivered_carrier_date",
	"order_delivered_customer_date",
	"order_estimated_delivery_date",
	"customer_id",
	"purchase_year",
	"purchase_month",
	"purchase_day_of_week",
}

const hoursPerDay = 24

// BuildSales denormalizes order items against orders into the sales table the
// metric functions consume. Items form the left side of every join, so the
// result never has fewer rows than the items table. An empty statusFilter
// keeps every order status.
func BuildSales(ctx context.Context, logg *logger.Logger, c *Collection, statusFilter string) (dataframe.DataFrame, error) {
	items, ok := c.Get(NameItems)
	if !ok {
		return dataframe.DataFrame{}, errDatasetMissing(NameItems)
	}
	orders, ok := c.Get(NameOrders)
	if !ok {
		return dataframe.DataFrame{}, errDatasetMissing(NameOrders)
	}
	if err := RequireColumns(items, "order_id", "price"); err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := RequireColumns(orders, "order_id"); err != nil {
		return dataframe.DataFrame{}, err
	}

	selected := append([]string{"order_id"}, AvailableColumns(orders, orderJoinColumns)...)
	if skipped := len(orderJoinColumns) - (len(selected) - 1); skipped > 0 {
		c.warnf("sales: %d order columns unavailable for the join", skipped)
	}

	sales := items.LeftJoin(orders.Select(selected), "order_id")
	if sales.Err != nil {
		return dataframe.DataFrame{}, errors.Wrap(errors.CodeInternal, sales.Err, "joining order items to orders")
	}
	if sales.Nrow() < items.Nrow() {
		return dataframe.DataFrame{}, errors.New(errors.CodeInternal,
			fmt.Sprintf("order join reduced item rows from %d to %d", items.Nrow(), sales.Nrow()))
	}

	if statusFilter != "" && HasColumn(sales, "order_status") {
		sales = sales.Filter(dataframe.F{
			Colname:    "order_status",
			Comparator: series.Eq,
			Comparando: statusFilter,
		})
		if sales.Err != nil {
			return dataframe.DataFrame{}, errors.Wrap(errors.CodeInternal, sales.Err, "filtering sales by order status")
		}
		if logg != nil {
			logg.Info(logg.WithFields(ctx, map[string]any{
				"status": statusFilter,
				"rows":   sales.Nrow(),
			}), "sales table filtered by order status")
		}
	}

	sales = withDeliveryColumns(ctx, logg, c, sales)
	return sales, nil
}

// withDeliveryColumns derives delivery_days and delivery_speed on the sales
// frame. Rows without both timestamps get a null duration and the "Unknown"
// speed bucket.
func withDeliveryColumns(ctx context.Context, logg *logger.Logger, c *Collection, sales dataframe.DataFrame) dataframe.DataFrame {
	if !HasColumn(sales, "order_delivered_customer_date") || !HasColumn(sales, "order_purchase_timestamp") {
		c.warnf("sales: delivery timestamps unavailable, delivery columns skipped")
		return sales
	}

	delivered, deliveredOK := columnTimes(sales, "order_delivered_customer_date")
	purchased, purchasedOK := columnTimes(sales, "order_purchase_timestamp")

	days := make([]string, sales.Nrow())
	speeds := make([]string, sales.Nrow())
	negatives := 0
	for i := range days {
		if !deliveredOK[i] || !purchasedOK[i] {
			days[i] = "NaN"
			speeds[i] = enums.DeliverySpeedUnknown.String()
			continue
		}
		d := float64(int(delivered[i].Sub(purchased[i]).Hours()) / hoursPerDay)
		if d < 0 {
			negatives++
		}
		days[i] = strconv.FormatFloat(d, 'f', -1, 64)
		speeds[i] = enums.DeliverySpeedFromDays(d).String()
	}
	if negatives > 0 {
		c.warnf("sales: %d rows with negative delivery durations", negatives)
		if logg != nil {
			logg.Warn(logg.WithField(ctx, "count", negatives), "negative delivery durations detected")
		}
	}

	sales = sales.Mutate(series.New(days, series.Float, "delivery_days"))
	sales = sales.Mutate(series.New(speeds, series.String, "delivery_speed"))
	return sales
}
