package dataset

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// DateBounds holds inclusive year and month limits. A nil field means
// unbounded on that side.
type DateBounds struct {
	StartYear  *int
	EndYear    *int
	StartMonth *int
	EndMonth   *int
}

// IsZero reports whether no bound is set.
func (b DateBounds) IsZero() bool {
	return b.StartYear == nil && b.EndYear == nil && b.StartMonth == nil && b.EndMonth == nil
}

// FilterDateRange applies the bounds on the derived purchase_year and
// purchase_month columns. The month bound is applied on its own, independent
// of the year bound: a StartMonth of 3 drops January and February of every
// year in range, not just the first. Rows without a parsed purchase date are
// dropped whenever any bound is set.
func FilterDateRange(df dataframe.DataFrame, bounds DateBounds) (dataframe.DataFrame, error) {
	if bounds.IsZero() {
		return df, nil
	}
	if err := RequireColumns(df, "purchase_year", "purchase_month"); err != nil {
		return dataframe.DataFrame{}, err
	}

	years := columnFloats(df, "purchase_year")
	months := columnFloats(df, "purchase_month")

	var keep []int
	for i := range years {
		if isMissingFloat(years[i]) || isMissingFloat(months[i]) {
			continue
		}
		year, month := int(years[i]), int(months[i])
		if bounds.StartYear != nil && year < *bounds.StartYear {
			continue
		}
		if bounds.EndYear != nil && year > *bounds.EndYear {
			continue
		}
		if bounds.StartMonth != nil && month < *bounds.StartMonth {
			continue
		}
		if bounds.EndMonth != nil && month > *bounds.EndMonth {
			continue
		}
		keep = append(keep, i)
	}

	if len(keep) == 0 {
		// Subset with an empty index errors in gota; rebuild an empty frame
		// with the same schema instead.
		return emptyLike(df), nil
	}
	filtered := df.Subset(keep)
	if filtered.Err != nil {
		return dataframe.DataFrame{}, filtered.Err
	}
	return filtered, nil
}

func emptyLike(df dataframe.DataFrame) dataframe.DataFrame {
	empty := make([]series.Series, df.Ncol())
	for i, name := range df.Names() {
		empty[i] = series.New([]string{}, df.Types()[i], name)
	}
	return dataframe.New(empty...)
}
