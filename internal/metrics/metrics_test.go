package metrics

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/shoplens/insights-backend/pkg/enums"
)

func decimalFromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func salesFixture(t *testing.T, records [][]string) dataframe.DataFrame {
	t.Helper()
	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(map[string]series.Type{
			"price":          series.Float,
			"review_score":   series.Int,
			"delivery_days":  series.Float,
			"purchase_year":  series.Int,
			"purchase_month": series.Int,
		}),
	)
	if df.Err != nil {
		t.Fatalf("loading fixture: %v", df.Err)
	}
	return df
}

func TestRevenueOrderLevelAggregates(t *testing.T) {
	// Three orders with totals 10, 20, 30.
	df := salesFixture(t, [][]string{
		{"order_id", "price"},
		{"o1", "10"},
		{"o2", "8"},
		{"o2", "12"},
		{"o3", "30"},
	})

	got, err := Revenue(df)
	require.NoError(t, err)

	require.Equal(t, "60", got.TotalRevenue.String())
	require.Equal(t, 3, got.TotalOrders)
	require.Equal(t, 4, got.TotalItemsSold)
	require.InDelta(t, 20.0, got.AvgOrderValue, 1e-9)
	require.InDelta(t, 20.0, got.MedianOrderValue, 1e-9)
	require.InDelta(t, 4.0/3.0, got.AvgItemsPerOrder, 0.01)

	// AOV times order count recovers total revenue.
	require.InDelta(t, got.TotalRevenue.InexactFloat64(), got.AvgOrderValue*float64(got.TotalOrders), 1e-6)
}

func TestRevenuePercentilesAreOrdered(t *testing.T) {
	records := [][]string{{"order_id", "price"}}
	prices := []string{"5", "9", "12", "18", "25", "33", "47", "60", "72", "99"}
	for i, p := range prices {
		records = append(records, []string{"o" + strings.Repeat("x", i+1), p})
	}
	df := salesFixture(t, records)

	got, err := Revenue(df)
	require.NoError(t, err)

	pp := got.PricePercentiles
	require.LessOrEqual(t, pp.P25, pp.P75)
	require.LessOrEqual(t, pp.P75, pp.P90)
	require.LessOrEqual(t, pp.P90, pp.P95)
	require.LessOrEqual(t, got.MedianItemPrice, pp.P75)
	require.GreaterOrEqual(t, got.MedianItemPrice, pp.P25)
}

func TestRevenueSkipsNullPrices(t *testing.T) {
	df := salesFixture(t, [][]string{
		{"order_id", "price"},
		{"o1", "10"},
		{"o2", "NaN"},
	})

	got, err := Revenue(df)
	require.NoError(t, err)
	require.Equal(t, 1, got.TotalOrders)
	require.Equal(t, 1, got.TotalItemsSold)
}

func TestRevenueMissingColumn(t *testing.T) {
	df := salesFixture(t, [][]string{
		{"order_id", "freight"},
		{"o1", "2"},
	})
	_, err := Revenue(df)
	require.Error(t, err)
}

func TestGrowthFiftyPercent(t *testing.T) {
	current := RevenueMetrics{AvgOrderValue: 30}
	current.TotalRevenue = decimalFromInt(150)
	previous := RevenueMetrics{AvgOrderValue: 25}
	previous.TotalRevenue = decimalFromInt(100)

	got := Growth(current, previous)
	if got.Revenue.Pct == nil {
		t.Fatal("expected revenue pct change")
	}
	if *got.Revenue.Pct != 50.0 {
		t.Fatalf("revenue pct = %v, want 50", *got.Revenue.Pct)
	}
	if got.Revenue.Absolute != 50.0 {
		t.Fatalf("revenue absolute = %v, want 50", got.Revenue.Absolute)
	}
	if *got.AvgOrderValue.Pct != 20.0 {
		t.Fatalf("aov pct = %v, want 20", *got.AvgOrderValue.Pct)
	}
}

func TestGrowthZeroPreviousOmitsPct(t *testing.T) {
	current := RevenueMetrics{}
	current.TotalRevenue = decimalFromInt(100)
	previous := RevenueMetrics{}
	previous.TotalRevenue = decimalFromInt(0)

	got := Growth(current, previous)
	if got.Revenue.Pct != nil {
		t.Fatalf("pct should be omitted on a zero base, got %v", *got.Revenue.Pct)
	}
	if got.Revenue.Absolute != 100.0 {
		t.Fatalf("absolute = %v, want 100", got.Revenue.Absolute)
	}
}

func TestMonthlyTrendsMoMChanges(t *testing.T) {
	// Monthly revenues 100, 150, 90 -> changes nil, +50, -40.
	df := salesFixture(t, [][]string{
		{"order_id", "price", "purchase_year", "purchase_month"},
		{"o1", "100", "2024", "1"},
		{"o2", "150", "2024", "2"},
		{"o3", "90", "2024", "3"},
	})

	trends, err := MonthlyTrends(df, nil)
	require.NoError(t, err)
	require.Len(t, trends, 3)

	require.Equal(t, "2024-01", trends[0].Label)
	require.Nil(t, trends[0].RevenueChange)
	require.NotNil(t, trends[1].RevenueChange)
	require.InDelta(t, 50.0, *trends[1].RevenueChange, 1e-9)
	require.NotNil(t, trends[2].RevenueChange)
	require.InDelta(t, -40.0, *trends[2].RevenueChange, 1e-9)
}

func TestMonthlyTrendsSortedAcrossYears(t *testing.T) {
	df := salesFixture(t, [][]string{
		{"order_id", "price", "purchase_year", "purchase_month"},
		{"o1", "10", "2024", "1"},
		{"o2", "20", "2023", "12"},
		{"o3", "30", "2023", "2"},
	})

	trends, err := MonthlyTrends(df, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"2023-02", "2023-12", "2024-01"},
		[]string{trends[0].Label, trends[1].Label, trends[2].Label})
}

func TestMonthlyTrendsYearFilter(t *testing.T) {
	df := salesFixture(t, [][]string{
		{"order_id", "price", "purchase_year", "purchase_month"},
		{"o1", "10", "2024", "1"},
		{"o2", "20", "2023", "12"},
	})

	year := 2024
	trends, err := MonthlyTrends(df, &year)
	require.NoError(t, err)
	require.Len(t, trends, 1)
	require.Equal(t, 2024, trends[0].Year)
}

func TestCategoriesSharesSumToHundred(t *testing.T) {
	df := salesFixture(t, [][]string{
		{"order_id", "price", "product_id", "product_category_name"},
		{"o1", "60", "p1", "electronics"},
		{"o2", "30", "p2", "toys"},
		{"o3", "10", "p3", "books"},
		{"o4", "25", "p4", "NaN"}, // dropped pre-aggregation
	})

	got, err := Categories(df)
	require.NoError(t, err)
	require.Len(t, got.Rows, 3)

	// Sorted by revenue descending.
	require.Equal(t, "electronics", got.Rows[0].Category)
	require.Equal(t, "books", got.Rows[2].Category)

	shareSum := 0.0
	for _, row := range got.Rows {
		shareSum += row.RevenueShare
	}
	require.InDelta(t, 100.0, shareSum, 0.05)
}

func TestCategoriesMissingColumnWarns(t *testing.T) {
	df := salesFixture(t, [][]string{
		{"order_id", "price"},
		{"o1", "10"},
	})

	got, err := Categories(df)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(got.Rows) != 0 {
		t.Fatalf("rows = %d, want empty", len(got.Rows))
	}
	if len(got.Warnings) == 0 {
		t.Fatal("expected a warning about the missing category column")
	}
}

func TestGeographyStateLevel(t *testing.T) {
	df := salesFixture(t, [][]string{
		{"order_id", "price", "customer_unique_id", "customer_state", "customer_city"},
		{"o1", "40", "u1", "SP", "sao paulo"},
		{"o2", "40", "u2", "SP", "campinas"},
		{"o3", "20", "u3", "RJ", "rio de janeiro"},
	})

	got, err := Geography(df, enums.GeoLevelState)
	require.NoError(t, err)
	require.Len(t, got.Rows, 2)
	require.Equal(t, "SP", got.Rows[0].State)
	require.Equal(t, 2, got.Rows[0].Customers)
	require.InDelta(t, 80.0, got.Rows[0].RevenueShare, 0.01)
	require.InDelta(t, 40.0, got.Rows[0].RevenuePerCustomer, 1e-9)
	require.Empty(t, got.Rows[0].City)
}

func TestGeographyCityLevelSplitsStates(t *testing.T) {
	df := salesFixture(t, [][]string{
		{"order_id", "price", "customer_unique_id", "customer_state", "customer_city"},
		{"o1", "40", "u1", "SP", "sao paulo"},
		{"o2", "40", "u2", "SP", "campinas"},
	})

	got, err := Geography(df, enums.GeoLevelCity)
	require.NoError(t, err)
	require.Len(t, got.Rows, 2)
	require.NotEmpty(t, got.Rows[0].City)
}

func TestGeographyMissingColumnsWarn(t *testing.T) {
	df := salesFixture(t, [][]string{
		{"order_id", "price"},
		{"o1", "10"},
	})

	got, err := Geography(df, enums.GeoLevelState)
	if err != nil {
		t.Fatalf("Geography: %v", err)
	}
	if len(got.Rows) != 0 || len(got.Warnings) == 0 {
		t.Fatalf("want empty rows plus warning, got %d rows, %d warnings", len(got.Rows), len(got.Warnings))
	}
}

func TestExperienceBucketsAndRates(t *testing.T) {
	df := salesFixture(t, [][]string{
		{"order_id", "review_score", "delivery_days", "delivery_speed", "price"},
		{"o1", "5", "1", "1-3 days", "10"},
		{"o2", "4", "5", "4-7 days", "10"},
		{"o3", "2", "10", "8+ days", "10"},
		{"o4", "NaN", "NaN", "Unknown", "10"},
	})

	got, err := Experience(df)
	require.NoError(t, err)

	require.InDelta(t, (5.0+4+2)/3, got.AvgReviewScore, 0.01)
	require.InDelta(t, 2.0/3.0*100, got.SatisfactionRate, 0.05)
	require.InDelta(t, 1.0/3.0*100, got.FastDeliveryRate, 0.05)
	require.InDelta(t, 16.0/3.0, got.AvgDeliveryDays, 0.01)
	require.InDelta(t, 0.25, got.SpeedDistribution["Unknown"], 1e-9)
	require.InDelta(t, 5.0, got.ScoreBySpeed["1-3 days"], 1e-9)
	// Three paired observations is far below the correlation threshold.
	require.Nil(t, got.DeliveryScoreCorr)
}

func TestExperienceCorrelationPastThreshold(t *testing.T) {
	records := [][]string{{"order_id", "review_score", "delivery_days"}}
	// Twelve orders where slower deliveries score strictly lower.
	scores := []string{"5", "5", "5", "5", "4", "4", "4", "3", "3", "2", "2", "1"}
	for i, score := range scores {
		records = append(records, []string{
			"o" + strings.Repeat("i", i+1),
			score,
			strings.Repeat("1", i/3+1), // 1, 11, 111, 1111 days
		})
	}
	got, err := Experience(salesFixture(t, records))
	require.NoError(t, err)
	require.NotNil(t, got.DeliveryScoreCorr)
	require.Negative(t, *got.DeliveryScoreCorr)
	require.False(t, math.IsNaN(*got.DeliveryScoreCorr))
}

func TestExperienceCountsOrdersOnce(t *testing.T) {
	// A two-item order must not double-weigh its review.
	df := salesFixture(t, [][]string{
		{"order_id", "review_score", "delivery_days", "delivery_speed"},
		{"o1", "5", "1", "1-3 days"},
		{"o1", "5", "1", "1-3 days"},
		{"o2", "1", "9", "8+ days"},
	})

	got, err := Experience(df)
	require.NoError(t, err)
	require.InDelta(t, 3.0, got.AvgReviewScore, 1e-9)
}

func TestOperationsRates(t *testing.T) {
	df := salesFixture(t, [][]string{
		{"order_id", "order_status", "price"},
		{"o1", "delivered", "10"},
		{"o2", "delivered", "20"},
		{"o3", "shipped", "5"},
		{"o4", "canceled", "7"},
		{"o5", "returned", "9"},
	})

	got, err := Operations(df)
	require.NoError(t, err)
	require.Equal(t, 5, got.TotalOrders)
	require.InDelta(t, 40.0, got.DeliveredRate, 0.01)
	require.InDelta(t, 20.0, got.CanceledRate, 0.01)
	require.InDelta(t, 20.0, got.ReturnedRate, 0.01)
	require.InDelta(t, 60.0, got.FulfillmentRate, 0.01)
	require.Equal(t, "30", got.DeliveredRevenue.String())
	require.InDelta(t, 0.4, got.StatusDistribution["delivered"], 1e-9)
}

func TestCohortsPeriodZeroIsOne(t *testing.T) {
	df := salesFixture(t, [][]string{
		{"order_id", "customer_unique_id", "order_purchase_timestamp"},
		{"o1", "u1", "2024-01-05 10:00:00"},
		{"o2", "u2", "2024-01-20 10:00:00"},
		{"o3", "u1", "2024-02-10 10:00:00"},
		{"o4", "u3", "2024-02-15 10:00:00"},
	})

	got, err := Cohorts(df)
	require.NoError(t, err)
	require.Len(t, got.Cohorts, 2)

	jan := got.Cohorts[0]
	require.Equal(t, "2024-01", jan.Cohort)
	require.Equal(t, 2, jan.Size)
	require.InDelta(t, 1.0, jan.Retention[0], 1e-9)
	// One of two January customers came back in February.
	require.InDelta(t, 0.5, jan.Retention[1], 1e-9)

	feb := got.Cohorts[1]
	require.Equal(t, "2024-02", feb.Cohort)
	require.InDelta(t, 1.0, feb.Retention[0], 1e-9)
}

func TestCohortsFallsBackToCustomerID(t *testing.T) {
	df := salesFixture(t, [][]string{
		{"order_id", "customer_id", "order_purchase_timestamp"},
		{"o1", "c1", "2024-01-05 10:00:00"},
	})

	got, err := Cohorts(df)
	require.NoError(t, err)
	require.Len(t, got.Cohorts, 1)
}

func TestSummarizeDegradesPerGroup(t *testing.T) {
	// No price column: revenue, trends, categories, geography all fail;
	// experience, operations and cohorts still compute.
	df := salesFixture(t, [][]string{
		{"order_id", "order_status", "review_score", "customer_id", "order_purchase_timestamp"},
		{"o1", "delivered", "5", "c1", "2024-01-05 10:00:00"},
		{"o2", "canceled", "2", "c2", "2024-02-01 10:00:00"},
	})

	summarizer := NewSummarizer(nil, nil)
	summary, err := summarizer.Summarize(context.Background(), df)
	if err == nil {
		t.Fatal("expected a partial failure error")
	}
	if summary.Revenue != nil {
		t.Fatal("revenue should have failed without a price column")
	}
	if summary.Operations == nil || summary.Cohorts == nil || summary.Experience == nil {
		t.Fatal("independent groups should still compute")
	}
	if len(summary.Warnings) == 0 {
		t.Fatal("expected warnings for the failed groups")
	}
}

func TestSummarizeCleanFrame(t *testing.T) {
	df := salesFixture(t, [][]string{
		{"order_id", "price", "order_status", "review_score", "delivery_days", "delivery_speed", "customer_unique_id", "customer_state", "product_id", "product_category_name", "order_purchase_timestamp", "purchase_year", "purchase_month"},
		{"o1", "10", "delivered", "5", "2", "1-3 days", "u1", "SP", "p1", "toys", "2024-01-05 10:00:00", "2024", "1"},
		{"o2", "20", "delivered", "4", "6", "4-7 days", "u2", "RJ", "p2", "books", "2024-02-05 10:00:00", "2024", "2"},
	})

	summarizer := NewSummarizer(nil, nil)
	summary, err := summarizer.Summarize(context.Background(), df)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.Revenue == nil || summary.Categories == nil || summary.Geography == nil {
		t.Fatal("all groups should compute on a complete frame")
	}
	if summary.Revenue.TotalOrders != 2 {
		t.Fatalf("orders = %d, want 2", summary.Revenue.TotalOrders)
	}
}
