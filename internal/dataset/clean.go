package dataset

import (
	"context"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/shoplens/insights-backend/pkg/logger"
)

// Timestamp columns coerced on the orders dataset.
var orderTimestampColumns = []string{
	"order_purchase_timestamp",
	"order_approved_at",
	"order_delivered_carrier_date",
	"order_delivered_customer_date",
	"order_estimated_delivery_date",
}

var reviewTimestampColumns = []string{
	"review_creation_date",
	"review_answer_timestamp",
}

// Clean normalizes timestamps and derives calendar columns. The input
// collection is not mutated; frames are copied before derivation.
func Clean(ctx context.Context, logg *logger.Logger, c *Collection) *Collection {
	cleaned := NewCollection()
	cleaned.Warnings = append(cleaned.Warnings, c.Warnings...)

	for _, name := range AllNames {
		df, ok := c.Get(name)
		if !ok {
			continue
		}
		switch name {
		case NameOrders:
			cleaned.Set(name, cleanOrders(ctx, logg, cleaned, df))
		case NameReviews:
			cleaned.Set(name, cleanReviews(ctx, logg, cleaned, df))
		default:
			cleaned.Set(name, df)
		}
	}
	return cleaned
}

func cleanOrders(ctx context.Context, logg *logger.Logger, out *Collection, orders dataframe.DataFrame) dataframe.DataFrame {
	df := orders.Copy()

	for _, col := range AvailableColumns(df, orderTimestampColumns) {
		unparsable := countUnparsable(df, col)
		if unparsable > 0 {
			out.warnf("orders: %d unparsable values in %s coerced to null", unparsable, col)
			if logg != nil {
				logg.Warn(logg.WithFields(ctx, map[string]any{
					"dataset": "orders",
					"column":  col,
					"count":   unparsable,
				}), "unparsable timestamps coerced to null")
			}
		}
	}

	if !HasColumn(df, "order_purchase_timestamp") {
		out.warnf("orders: order_purchase_timestamp missing, calendar columns skipped")
		return df
	}

	times, valid := columnTimes(df, "order_purchase_timestamp")
	years := make([]string, len(times))
	months := make([]string, len(times))
	daysOfWeek := make([]string, len(times))
	for i := range times {
		if !valid[i] {
			years[i], months[i], daysOfWeek[i] = "NaN", "NaN", "NaN"
			continue
		}
		years[i] = strconv.Itoa(times[i].Year())
		months[i] = strconv.Itoa(int(times[i].Month()))
		daysOfWeek[i] = strconv.Itoa(mondayIndexedWeekday(times[i]))
	}

	df = df.Mutate(series.New(years, series.Int, "purchase_year"))
	df = df.Mutate(series.New(months, series.Int, "purchase_month"))
	df = df.Mutate(series.New(daysOfWeek, series.Int, "purchase_day_of_week"))
	return df
}

func cleanReviews(ctx context.Context, logg *logger.Logger, out *Collection, reviews dataframe.DataFrame) dataframe.DataFrame {
	df := reviews.Copy()

	for _, col := range AvailableColumns(df, reviewTimestampColumns) {
		if unparsable := countUnparsable(df, col); unparsable > 0 {
			out.warnf("reviews: %d unparsable values in %s coerced to null", unparsable, col)
		}
	}

	if HasColumn(df, "order_id") {
		if dups := countDuplicates(columnStrings(df, "order_id")); dups > 0 {
			out.warnf("reviews: %d duplicate order_id rows detected", dups)
			if logg != nil {
				logg.Warn(logg.WithFields(ctx, map[string]any{
					"dataset": "reviews",
					"count":   dups,
				}), "duplicate review rows detected")
			}
		}
	}
	return df
}

// mondayIndexedWeekday maps Monday to 0 through Sunday to 6.
func mondayIndexedWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func countUnparsable(df dataframe.DataFrame, col string) int {
	count := 0
	for _, raw := range columnStrings(df, col) {
		if isMissing(raw) {
			continue
		}
		if _, ok := ParseTimestamp(raw); !ok {
			count++
		}
	}
	return count
}

func countDuplicates(values []string) int {
	seen := make(map[string]bool, len(values))
	dups := 0
	for _, v := range values {
		if isMissing(v) {
			continue
		}
		if seen[v] {
			dups++
			continue
		}
		seen[v] = true
	}
	return dups
}
