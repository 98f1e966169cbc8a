package dataset

import (
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ColumnKind classifies a column for the dataset profile.
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindDate        ColumnKind = "date"
	KindCategorical ColumnKind = "categorical"
)

// ColumnProfile describes one column of a loaded dataset.
type ColumnProfile struct {
	Name    string     `json:"name"`
	Kind    ColumnKind `json:"kind"`
	Missing int        `json:"missing"`
	Min     string     `json:"min,omitempty"`
	Max     string     `json:"max,omitempty"`
}

// Profile summarizes a loaded dataset for the dashboard's data overview.
type Profile struct {
	Rows    int             `json:"rows"`
	Cols    int             `json:"columns"`
	Columns []ColumnProfile `json:"column_profiles"`
}

// Summarize profiles the frame: per-column missing counts, a coarse kind
// classification, and min/max for date columns.
func Summarize(df dataframe.DataFrame) Profile {
	profile := Profile{
		Rows:    df.Nrow(),
		Cols:    df.Ncol(),
		Columns: make([]ColumnProfile, 0, df.Ncol()),
	}
	types := df.Types()
	for i, name := range df.Names() {
		col := ColumnProfile{Name: name, Kind: classifyColumn(name, types[i])}
		records := columnStrings(df, name)
		for _, raw := range records {
			if isMissing(raw) {
				col.Missing++
			}
		}
		if col.Kind == KindDate {
			col.Min, col.Max = dateExtent(records)
		}
		profile.Columns = append(profile.Columns, col)
	}
	return profile
}

func classifyColumn(name string, t series.Type) ColumnKind {
	if strings.Contains(name, "timestamp") || strings.Contains(name, "_date") || strings.HasSuffix(name, "_at") {
		return KindDate
	}
	if t == series.Float || t == series.Int {
		return KindNumeric
	}
	return KindCategorical
}

func dateExtent(records []string) (min string, max string) {
	var haveAny bool
	var lowest, highest string
	for _, raw := range records {
		t, ok := ParseTimestamp(raw)
		if !ok {
			continue
		}
		normalized := t.Format("2006-01-02 15:04:05")
		if !haveAny || normalized < lowest {
			lowest = normalized
		}
		if !haveAny || normalized > highest {
			highest = normalized
		}
		haveAny = true
	}
	if !haveAny {
		return "", ""
	}
	return lowest, highest
}
