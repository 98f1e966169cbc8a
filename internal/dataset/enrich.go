package dataset

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// UnknownCategory substitutes for a null or missing product category.
const UnknownCategory = "Unknown"

// WithProductCategories joins product_category_name onto the sales frame.
// The join is skipped when the column is already present or when the products
// table cannot serve it; either way the input rows survive untouched.
func WithProductCategories(c *Collection, sales dataframe.DataFrame) dataframe.DataFrame {
	if HasColumn(sales, "product_category_name") {
		return sales
	}
	products, ok := c.Get(NameProducts)
	if !ok {
		c.warnf("enrich: products dataset unavailable, categories skipped")
		return sales
	}
	if !HasColumn(products, "product_id") || !HasColumn(sales, "product_id") {
		c.warnf("enrich: product_id missing, categories skipped")
		return sales
	}
	if !HasColumn(products, "product_category_name") {
		c.warnf("enrich: products table has no product_category_name column")
		return sales
	}

	dim := products.Select([]string{"product_id", "product_category_name"})
	enriched := sales.LeftJoin(dim, "product_id")
	if enriched.Err != nil {
		c.warnf("enrich: category join failed: %v", enriched.Err)
		return sales
	}
	if enriched.Nrow() != sales.Nrow() {
		c.warnf("enrich: category join changed row count from %d to %d, reverted", sales.Nrow(), enriched.Nrow())
		return sales
	}
	return fillCategoryPlaceholder(enriched)
}

// WithCustomerGeography joins customer state, city and zip prefix.
func WithCustomerGeography(c *Collection, sales dataframe.DataFrame) dataframe.DataFrame {
	if HasColumn(sales, "customer_state") {
		return sales
	}
	customers, ok := c.Get(NameCustomers)
	if !ok {
		c.warnf("enrich: customers dataset unavailable, geography skipped")
		return sales
	}
	if !HasColumn(customers, "customer_id") || !HasColumn(sales, "customer_id") {
		c.warnf("enrich: customer_id missing, geography skipped")
		return sales
	}

	cols := append([]string{"customer_id"}, AvailableColumns(customers, []string{
		"customer_unique_id",
		"customer_state",
		"customer_city",
		"customer_zip_code_prefix",
	})...)
	if len(cols) == 1 {
		c.warnf("enrich: customers table has no geography columns")
		return sales
	}

	enriched := sales.LeftJoin(customers.Select(cols), "customer_id")
	if enriched.Err != nil {
		c.warnf("enrich: geography join failed: %v", enriched.Err)
		return sales
	}
	if enriched.Nrow() != sales.Nrow() {
		c.warnf("enrich: geography join changed row count from %d to %d, reverted", sales.Nrow(), enriched.Nrow())
		return sales
	}
	return enriched
}

// WithReviews joins review scores. Reviews are deduplicated by order_id
// first so the left join cannot multiply sales rows.
func WithReviews(c *Collection, sales dataframe.DataFrame) dataframe.DataFrame {
	if HasColumn(sales, "review_score") {
		return sales
	}
	reviews, ok := c.Get(NameReviews)
	if !ok {
		c.warnf("enrich: reviews dataset unavailable, review scores skipped")
		return sales
	}
	if !HasColumn(reviews, "order_id") || !HasColumn(reviews, "review_score") {
		c.warnf("enrich: reviews table missing order_id or review_score, skipped")
		return sales
	}

	dim := dedupeByColumn(reviews.Select([]string{"order_id", "review_score"}), "order_id")
	enriched := sales.LeftJoin(dim, "order_id")
	if enriched.Err != nil {
		c.warnf("enrich: review join failed: %v", enriched.Err)
		return sales
	}
	if enriched.Nrow() != sales.Nrow() {
		c.warnf("enrich: review join changed row count from %d to %d, reverted", sales.Nrow(), enriched.Nrow())
		return sales
	}
	return enriched
}

// dedupeByColumn keeps the first row per key value.
func dedupeByColumn(df dataframe.DataFrame, key string) dataframe.DataFrame {
	seen := make(map[string]bool, df.Nrow())
	var keep []int
	for i, v := range columnStrings(df, key) {
		if seen[v] {
			continue
		}
		seen[v] = true
		keep = append(keep, i)
	}
	if len(keep) == df.Nrow() {
		return df
	}
	return df.Subset(keep)
}

// fillCategoryPlaceholder replaces null categories with the Unknown bucket.
func fillCategoryPlaceholder(df dataframe.DataFrame) dataframe.DataFrame {
	values := columnStrings(df, "product_category_name")
	changed := false
	filled := make([]string, len(values))
	for i, v := range values {
		if isMissing(v) {
			filled[i] = UnknownCategory
			changed = true
			continue
		}
		filled[i] = v
	}
	if !changed {
		return df
	}
	return df.Mutate(series.New(filled, series.String, "product_category_name"))
}
