package dataset

import (
	"math"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
)

// Timestamp layouts accepted during coercion, most specific first.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
}

// HasColumn reports whether the frame carries the named column.
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, col := range df.Names() {
		if col == name {
			return true
		}
	}
	return false
}

// AvailableColumns filters the wanted column list down to those present.
func AvailableColumns(df dataframe.DataFrame, wanted []string) []string {
	var available []string
	for _, col := range wanted {
		if HasColumn(df, col) {
			available = append(available, col)
		}
	}
	return available
}

// ParseTimestamp coerces a raw cell into a time. The second return reports
// success; blank and sentinel values coerce to false, never an error.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" || value == "NaN" || value == "NA" || value == "null" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// columnTimes parses the named column into times plus a validity mask.
func columnTimes(df dataframe.DataFrame, name string) ([]time.Time, []bool) {
	records := df.Col(name).Records()
	times := make([]time.Time, len(records))
	valid := make([]bool, len(records))
	for i, raw := range records {
		times[i], valid[i] = ParseTimestamp(raw)
	}
	return times, valid
}

// columnFloats returns the named column as floats, NaN where missing.
func columnFloats(df dataframe.DataFrame, name string) []float64 {
	return df.Col(name).Float()
}

// columnStrings returns the raw records of the named column.
func columnStrings(df dataframe.DataFrame, name string) []string {
	return df.Col(name).Records()
}

// isMissing reports whether a raw cell should be treated as absent.
func isMissing(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed == "" || trimmed == "NaN" || trimmed == "NA" || trimmed == "null"
}

// isMissingFloat reports whether a float cell is absent.
func isMissingFloat(value float64) bool {
	return math.IsNaN(value)
}
