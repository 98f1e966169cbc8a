package metrics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/shoplens/insights-backend/internal/dataset"
)

// requireColumns is the shared schema gate for every metric entry point.
func requireColumns(df dataframe.DataFrame, cols ...string) error {
	return dataset.RequireColumns(df, cols...)
}

func parseTimestamp(value string) (time.Time, bool) {
	return dataset.ParseTimestamp(value)
}

// frame-access helpers shared by the metric computations. Aggregations run
// on NA-stripped slices so a single null cell never poisons a result.

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, col := range df.Names() {
		if col == name {
			return true
		}
	}
	return false
}

func columnFloats(df dataframe.DataFrame, name string) []float64 {
	return df.Col(name).Float()
}

func columnStrings(df dataframe.DataFrame, name string) []string {
	return df.Col(name).Records()
}

func isMissing(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed == "" || trimmed == "NaN" || trimmed == "NA" || trimmed == "null"
}

func isMissingFloat(value float64) bool {
	return math.IsNaN(value)
}

// validFloats drops NaN entries.
func validFloats(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	return percentile(values, 50)
}

// percentile interpolates linearly between closest ranks, matching the
// convention dashboards expect from spreadsheet and dataframe tooling.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// pearson computes the sample correlation coefficient over paired values.
// Pairs with a NaN on either side are skipped; the returned count is the
// number of pairs actually used.
func pearson(xs, ys []float64) (coefficient float64, pairs int) {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	var vx, vy []float64
	for i := 0; i < n; i++ {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		vx = append(vx, xs[i])
		vy = append(vy, ys[i])
	}
	pairs = len(vx)
	if pairs < 2 {
		return math.NaN(), pairs
	}

	mx, my := mean(vx), mean(vy)
	var cov, sx, sy float64
	for i := range vx {
		dx, dy := vx[i]-mx, vy[i]-my
		cov += dx * dy
		sx += dx * dx
		sy += dy * dy
	}
	if sx == 0 || sy == 0 {
		return math.NaN(), pairs
	}
	return cov / math.Sqrt(sx*sy), pairs
}

func round2(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Round(v*100) / 100
}

func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}

func float64Ptr(v float64) *float64 {
	return &v
}
