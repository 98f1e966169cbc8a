package controllers

import (
	"net/http"

	"github.com/shoplens/insights-backend/api/responses"
	"github.com/shoplens/insights-backend/api/validators"
	"github.com/shoplens/insights-backend/internal/dataset"
	"github.com/shoplens/insights-backend/internal/insights"
	"github.com/shoplens/insights-backend/pkg/enums"
	pkgerrors "github.com/shoplens/insights-backend/pkg/errors"
	"github.com/shoplens/insights-backend/pkg/logger"
)

func MetricsRevenue(svc *insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q, err := metricQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		result, warnings, err := svc.Revenue(ctx, q)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"revenue":  result,
			"warnings": warnings,
		})
	}
}

// GrowthRequest bounds the two compared periods. Years are required; month
// bounds are optional refinements within each period.
type GrowthRequest struct {
	Status             string `json:"status,omitempty" validate:"omitempty,oneof=created approved invoiced processing shipped delivered canceled returned unavailable all"`
	CurrentStartYear   int    `json:"current_start_year" validate:"required,min=1990,max=2200"`
	CurrentEndYear     int    `json:"current_end_year" validate:"required,min=1990,max=2200,gtefield=CurrentStartYear"`
	CurrentStartMonth  *int   `json:"current_start_month,omitempty" validate:"omitempty,min=1,max=12"`
	CurrentEndMonth    *int   `json:"current_end_month,omitempty" validate:"omitempty,min=1,max=12"`
	PreviousStartYear  int    `json:"previous_start_year" validate:"required,min=1990,max=2200"`
	PreviousEndYear    int    `json:"previous_end_year" validate:"required,min=1990,max=2200,gtefield=PreviousStartYear"`
	PreviousStartMonth *int   `json:"previous_start_month,omitempty" validate:"omitempty,min=1,max=12"`
	PreviousEndMonth   *int   `json:"previous_end_month,omitempty" validate:"omitempty,min=1,max=12"`
}

func (g GrowthRequest) queries() (current, previous insights.Query) {
	current = insights.Query{Status: g.Status, Bounds: dataset.DateBounds{
		StartYear:  &g.CurrentStartYear,
		EndYear:    &g.CurrentEndYear,
		StartMonth: g.CurrentStartMonth,
		EndMonth:   g.CurrentEndMonth,
	}}
	previous = insights.Query{Status: g.Status, Bounds: dataset.DateBounds{
		StartYear:  &g.PreviousStartYear,
		EndYear:    &g.PreviousEndYear,
		StartMonth: g.PreviousStartMonth,
		EndMonth:   g.PreviousEndMonth,
	}}
	return current, previous
}

func MetricsGrowth(svc *insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req GrowthRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		current, previous := req.queries()
		result, err := svc.Growth(ctx, current, previous)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func MetricsTrends(svc *insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q, err := metricQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		year, err := validators.ParseOptionalQueryInt(r, "year", minYear, maxYear)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		result, err := svc.Trends(ctx, year, q)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func MetricsCategories(svc *insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q, err := metricQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		result, err := svc.Categories(ctx, q)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func MetricsGeography(svc *insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q, err := metricQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		level, err := enums.ParseGeoLevel(r.URL.Query().Get("level"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid level parameter"))
			return
		}
		result, err := svc.Geography(ctx, level, q)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func MetricsExperience(svc *insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q, err := metricQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		result, err := svc.Experience(ctx, q)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func MetricsOperations(svc *insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		result, err := svc.Operations(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func MetricsCohorts(svc *insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q, err := metricQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		result, err := svc.Cohorts(ctx, q)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func MetricsSummary(svc *insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q, err := metricQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		result, err := svc.Summary(ctx, q)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
