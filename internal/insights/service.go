package insights

import (
	"context"
	"sync"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/shoplens/insights-backend/internal/dataset"
	"github.com/shoplens/insights-backend/internal/metrics"
	"github.com/shoplens/insights-backend/pkg/config"
	"github.com/shoplens/insights-backend/pkg/enums"
	"github.com/shoplens/insights-backend/pkg/errors"
	"github.com/shoplens/insights-backend/pkg/logger"
	pkgmetrics "github.com/shoplens/insights-backend/pkg/metrics"
	"github.com/shoplens/insights-backend/pkg/redis"
)

// Prepared is the fully enriched sales frame plus its provenance. The frame
// is built once and shared read-only between requests; every derivation runs
// on copies or fresh frames, never in place.
type Prepared struct {
	Collection  *dataset.Collection
	Sales       dataframe.DataFrame
	Warnings    []string
	Fingerprint string
	PreparedAt  time.Time
}

// Service owns the prepared-data lifecycle and exposes one method per metric
// group. It is safe for concurrent use.
type Service struct {
	cfg      *config.Config
	logg     *logger.Logger
	pipeline *pkgmetrics.PipelineMetrics
	loader   *dataset.Loader
	summary  *metrics.Summarizer
	cache    *redis.Client

	mu       sync.Mutex
	prepared *Prepared
}

// New wires the service. cache may be nil when Redis is not configured.
func New(cfg *config.Config, logg *logger.Logger, pipeline *pkgmetrics.PipelineMetrics, cache *redis.Client) *Service {
	return &Service{
		cfg:      cfg,
		logg:     logg,
		pipeline: pipeline,
		loader:   dataset.NewLoader(cfg.Data, logg, pipeline),
		summary:  metrics.NewSummarizer(logg, pipeline),
		cache:    cache,
	}
}

// Prepared returns the prepared sales data, loading and building it on the
// first call. Subsequent calls reuse the cached result until Refresh.
func (s *Service) Prepared(ctx context.Context) (*Prepared, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prepared != nil {
		return s.prepared, nil
	}
	prepared, err := s.prepare(ctx)
	if err != nil {
		return nil, err
	}
	s.prepared = prepared
	return prepared, nil
}

// Refresh drops the prepared frame and rebuilds it from disk.
func (s *Service) Refresh(ctx context.Context) (*Prepared, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prepared, err := s.prepare(ctx)
	if err != nil {
		return nil, err
	}
	s.prepared = prepared
	if s.cache != nil && s.logg != nil {
		// Cached summaries are keyed by fingerprint, so stale entries simply
		// age out; nothing to invalidate eagerly.
		s.logg.Info(ctx, "prepared data refreshed, summary cache keys rotated")
	}
	return prepared, nil
}

// Ready reports whether prepared data is already available without
// triggering a load.
func (s *Service) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prepared != nil
}

func (s *Service) prepare(ctx context.Context) (*Prepared, error) {
	started := time.Now()

	collection, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	cleaned := dataset.Clean(ctx, s.logg, collection)

	// The sales frame is kept unfiltered; each metric view applies its own
	// status filter so one frame serves every endpoint.
	sales, err := dataset.BuildSales(ctx, s.logg, cleaned, "")
	if err != nil {
		return nil, err
	}
	sales = dataset.WithProductCategories(cleaned, sales)
	sales = dataset.WithCustomerGeography(cleaned, sales)
	sales = dataset.WithReviews(cleaned, sales)

	s.pipeline.ObserveLoadDuration("prepare", time.Since(started))
	prepared := &Prepared{
		Collection:  cleaned,
		Sales:       sales,
		Warnings:    append([]string(nil), cleaned.Warnings...),
		Fingerprint: cleaned.Fingerprint(),
		PreparedAt:  time.Now(),
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"rows":        sales.Nrow(),
			"columns":     sales.Ncol(),
			"fingerprint": prepared.Fingerprint,
			"warnings":    len(prepared.Warnings),
		}), "sales data prepared")
	}
	return prepared, nil
}

// Query bounds one metric request. An empty Status falls back to the
// configured default; StatusAll disables status filtering entirely.
type Query struct {
	Status string
	Bounds dataset.DateBounds
}

// StatusAll opts a query out of the default status filter.
const StatusAll = "all"

func (s *Service) view(ctx context.Context, q Query) (dataframe.DataFrame, *Prepared, error) {
	prepared, err := s.Prepared(ctx)
	if err != nil {
		return dataframe.DataFrame{}, nil, err
	}

	df := prepared.Sales
	status := q.Status
	if status == "" {
		status = s.cfg.Data.StatusFilter
	}
	if status != "" && status != StatusAll {
		if !enums.OrderStatus(status).IsValid() {
			return dataframe.DataFrame{}, nil, errors.New(errors.CodeValidation, "unknown order status").
				WithDetails(map[string]any{"status": status})
		}
		df = df.Filter(dataframe.F{Colname: "order_status", Comparator: series.Eq, Comparando: status})
		if df.Err != nil {
			return dataframe.DataFrame{}, nil, errors.Wrap(errors.CodeInternal, df.Err, "filtering sales by status")
		}
	}

	df, err = dataset.FilterDateRange(df, q.Bounds)
	if err != nil {
		return dataframe.DataFrame{}, nil, err
	}
	return df, prepared, nil
}

func (s *Service) Revenue(ctx context.Context, q Query) (metrics.RevenueMetrics, []string, error) {
	df, prepared, err := s.view(ctx, q)
	if err != nil {
		return metrics.RevenueMetrics{}, nil, err
	}
	result, err := metrics.Revenue(df)
	if err != nil {
		return metrics.RevenueMetrics{}, nil, err
	}
	return result, prepared.Warnings, nil
}

// Growth compares the current query window against the previous one.
func (s *Service) Growth(ctx context.Context, current, previous Query) (metrics.GrowthMetrics, error) {
	currentRevenue, _, err := s.Revenue(ctx, current)
	if err != nil {
		return metrics.GrowthMetrics{}, err
	}
	previousRevenue, _, err := s.Revenue(ctx, previous)
	if err != nil {
		return metrics.GrowthMetrics{}, err
	}
	return metrics.Growth(currentRevenue, previousRevenue), nil
}

func (s *Service) Trends(ctx context.Context, year *int, q Query) ([]metrics.MonthlyTrend, error) {
	df, _, err := s.view(ctx, q)
	if err != nil {
		return nil, err
	}
	return metrics.MonthlyTrends(df, year)
}

func (s *Service) Categories(ctx context.Context, q Query) (metrics.CategoryBreakdown, error) {
	df, _, err := s.view(ctx, q)
	if err != nil {
		return metrics.CategoryBreakdown{}, err
	}
	return metrics.Categories(df)
}

func (s *Service) Geography(ctx context.Context, level enums.GeoLevel, q Query) (metrics.GeoBreakdown, error) {
	df, _, err := s.view(ctx, q)
	if err != nil {
		return metrics.GeoBreakdown{}, err
	}
	return metrics.Geography(df, level)
}

func (s *Service) Experience(ctx context.Context, q Query) (metrics.ExperienceMetrics, error) {
	df, _, err := s.view(ctx, q)
	if err != nil {
		return metrics.ExperienceMetrics{}, err
	}
	return metrics.Experience(df)
}

// Operations always runs over the unfiltered frame; a status-filtered
// status distribution would be a tautology.
func (s *Service) Operations(ctx context.Context) (metrics.OperationsMetrics, error) {
	prepared, err := s.Prepared(ctx)
	if err != nil {
		return metrics.OperationsMetrics{}, err
	}
	return metrics.Operations(prepared.Sales)
}

func (s *Service) Cohorts(ctx context.Context, q Query) (metrics.CohortMetrics, error) {
	df, _, err := s.view(ctx, q)
	if err != nil {
		return metrics.CohortMetrics{}, err
	}
	return metrics.Cohorts(df)
}

// DatasetReport profiles every loaded dataset for the data overview page.
type DatasetReport struct {
	Datasets map[string]dataset.Profile `json:"datasets"`
	Warnings []string                   `json:"warnings,omitempty"`
	Prepared time.Time                  `json:"prepared_at"`
}

func (s *Service) Datasets(ctx context.Context) (DatasetReport, error) {
	prepared, err := s.Prepared(ctx)
	if err != nil {
		return DatasetReport{}, err
	}
	report := DatasetReport{
		Datasets: make(map[string]dataset.Profile, len(prepared.Collection.Names())),
		Warnings: prepared.Warnings,
		Prepared: prepared.PreparedAt,
	}
	for _, name := range prepared.Collection.Names() {
		df, _ := prepared.Collection.Get(name)
		report.Datasets[string(name)] = dataset.Summarize(df)
	}
	return report, nil
}
