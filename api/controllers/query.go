package controllers

import (
	"net/http"

	"github.com/shoplens/insights-backend/api/validators"
	"github.com/shoplens/insights-backend/internal/insights"
)

const (
	minYear  = 1990
	maxYear  = 2200
	minMonth = 1
	maxMonth = 12
)

// metricQuery extracts the shared status and date-bound parameters.
func metricQuery(r *http.Request) (insights.Query, error) {
	var q insights.Query
	q.Status = r.URL.Query().Get("status")

	var err error
	if q.Bounds.StartYear, err = validators.ParseOptionalQueryInt(r, "start_year", minYear, maxYear); err != nil {
		return q, err
	}
	if q.Bounds.EndYear, err = validators.ParseOptionalQueryInt(r, "end_year", minYear, maxYear); err != nil {
		return q, err
	}
	if q.Bounds.StartMonth, err = validators.ParseOptionalQueryInt(r, "start_month", minMonth, maxMonth); err != nil {
		return q, err
	}
	if q.Bounds.EndMonth, err = validators.ParseOptionalQueryInt(r, "end_month", minMonth, maxMonth); err != nil {
		return q, err
	}
	return q, nil
}
