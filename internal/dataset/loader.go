package dataset

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/shoplens/insights-backend/pkg/config"
	"github.com/shoplens/insights-backend/pkg/logger"
	"github.com/shoplens/insights-backend/pkg/metrics"
)

// Loader reads the raw CSV datasets from disk.
type Loader struct {
	cfg      config.DataConfig
	logg     *logger.Logger
	pipeline *metrics.PipelineMetrics
}

// NewLoader builds a loader for the configured data directory.
func NewLoader(cfg config.DataConfig, logg *logger.Logger, pipeline *metrics.PipelineMetrics) *Loader {
	return &Loader{cfg: cfg, logg: logg, pipeline: pipeline}
}

// columnTypes pins numeric columns; everything else stays a string so that
// identifiers and zip prefixes keep their leading zeros.
var columnTypes = map[string]series.Type{
	"price":          series.Float,
	"freight_value":  series.Float,
	"order_item_id":  series.Int,
	"review_score":   series.Int,
	"payment_value":  series.Float,
	"product_weight": series.Float,
}

// Load reads every configured dataset. A dataset that cannot be read is
// reported as a warning and left absent; Load fails only when no dataset
// could be loaded at all.
func (l *Loader) Load(ctx context.Context) (*Collection, error) {
	started := time.Now()
	collection := NewCollection()

	files := map[Name]string{
		NameOrders:    l.cfg.OrdersFile,
		NameItems:     l.cfg.ItemsFile,
		NameProducts:  l.cfg.ProductsFile,
		NameCustomers: l.cfg.CustomersFile,
		NameReviews:   l.cfg.ReviewsFile,
	}

	for _, name := range AllNames {
		path := filepath.Join(l.cfg.Dir, files[name])
		df, err := l.readCSV(path)
		if err != nil {
			collection.warnf("could not load %s from %s: %v", name, path, err)
			if l.logg != nil {
				dsCtx := l.logg.WithDataset(ctx, string(name))
				l.logg.Warn(l.logg.WithField(dsCtx, "path", path), "dataset unavailable")
			}
			continue
		}
		collection.Set(name, df)
		l.pipeline.SetRowsLoaded(string(name), df.Nrow())
		if l.logg != nil {
			dsCtx := l.logg.WithFields(ctx, map[string]any{
				"dataset": string(name),
				"rows":    df.Nrow(),
				"columns": df.Ncol(),
			})
			l.logg.Info(dsCtx, "dataset loaded")
		}
	}

	l.pipeline.ObserveLoadDuration("load", time.Since(started))

	if len(collection.Names()) == 0 {
		return nil, errNoDatasets(l.cfg.Dir)
	}
	return collection, nil
}

func (l *Loader) readCSV(path string) (dataframe.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer file.Close()

	df := dataframe.ReadCSV(file,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(columnTypes),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}
