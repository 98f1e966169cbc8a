package dataset

import (
	pkgerrors "github.com/shoplens/insights-backend/pkg/errors"
)

func errNoDatasets(dir string) error {
	return pkgerrors.New(pkgerrors.CodeDependency, "no datasets could be loaded").
		WithDetails(map[string]any{"data_dir": dir})
}

func errDatasetMissing(name Name) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "required dataset not loaded").
		WithDetails(map[string]any{"dataset": string(name)})
}

// RequireColumns validates that every listed column exists on the frame,
// returning a single typed schema error naming all that are missing.
func RequireColumns(df interface{ Names() []string }, cols ...string) error {
	present := make(map[string]bool, len(df.Names()))
	for _, name := range df.Names() {
		present[name] = true
	}
	var missing []string
	for _, col := range cols {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeSchema, "required columns missing").
			WithDetails(map[string]any{"columns": missing})
	}
	return nil
}
