package metrics

import (
	"context"

	"github.com/go-gota/gota/dataframe"
	"go.uber.org/multierr"

	"github.com/shoplens/insights-backend/pkg/enums"
	"github.com/shoplens/insights-backend/pkg/logger"
	pkgmetrics "github.com/shoplens/insights-backend/pkg/metrics"
)

// Summary bundles every metric group. Groups that failed to compute are nil
// and explained in Warnings; the summary itself is returned regardless.
type Summary struct {
	Revenue    *RevenueMetrics    `json:"revenue,omitempty"`
	Trends     []MonthlyTrend     `json:"monthly_trends,omitempty"`
	Categories *CategoryBreakdown `json:"categories,omitempty"`
	Geography  *GeoBreakdown      `json:"geography,omitempty"`
	Experience *ExperienceMetrics `json:"experience,omitempty"`
	Operations *OperationsMetrics `json:"operations,omitempty"`
	Cohorts    *CohortMetrics     `json:"cohorts,omitempty"`
	Warnings   []string           `json:"warnings,omitempty"`
}

// Summarizer assembles the full summary, degrading per group on failure.
type Summarizer struct {
	logg     *logger.Logger
	pipeline *pkgmetrics.PipelineMetrics
}

func NewSummarizer(logg *logger.Logger, pipeline *pkgmetrics.PipelineMetrics) *Summarizer {
	return &Summarizer{logg: logg, pipeline: pipeline}
}

// Summarize computes every metric group over the sales frame. A group that
// errors is logged, counted and turned into a warning; the error is only
// returned alongside the partial summary, never instead of it.
func (s *Summarizer) Summarize(ctx context.Context, df dataframe.DataFrame, opts ...Option) (Summary, error) {
	var summary Summary
	var errs error

	record := func(group string, err error) {
		errs = multierr.Append(errs, err)
		summary.Warnings = append(summary.Warnings, group+": "+err.Error())
		s.pipeline.IncGroupFailure(group)
		if s.logg != nil {
			s.logg.Error(s.logg.WithMetricGroup(ctx, group), "metric group failed", err)
		}
	}

	if revenue, err := Revenue(df, opts...); err != nil {
		record("revenue", err)
	} else {
		summary.Revenue = &revenue
	}

	if trends, err := MonthlyTrends(df, nil, opts...); err != nil {
		record("trends", err)
	} else {
		summary.Trends = trends
	}

	if categories, err := Categories(df, opts...); err != nil {
		record("categories", err)
	} else {
		summary.Categories = &categories
		summary.Warnings = append(summary.Warnings, categories.Warnings...)
	}

	if geography, err := Geography(df, enums.GeoLevelState, opts...); err != nil {
		record("geography", err)
	} else {
		summary.Geography = &geography
		summary.Warnings = append(summary.Warnings, geography.Warnings...)
	}

	if experience, err := Experience(df, opts...); err != nil {
		record("experience", err)
	} else {
		summary.Experience = &experience
		summary.Warnings = append(summary.Warnings, experience.Warnings...)
	}

	if operations, err := Operations(df, opts...); err != nil {
		record("operations", err)
	} else {
		summary.Operations = &operations
	}

	if cohorts, err := Cohorts(df, opts...); err != nil {
		record("cohorts", err)
	} else {
		summary.Cohorts = &cohorts
		summary.Warnings = append(summary.Warnings, cohorts.Warnings...)
	}

	return summary, errs
}
