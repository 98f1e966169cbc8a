package controllers

import (
	"net/http"

	"github.com/shoplens/insights-backend/api/responses"
	"github.com/shoplens/insights-backend/internal/insights"
	"github.com/shoplens/insights-backend/pkg/logger"
)

func Datasets(svc *insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		report, err := svc.Datasets(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// Refresh rebuilds the prepared sales data from disk.
func Refresh(svc *insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		prepared, err := svc.Refresh(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"refreshed_at": prepared.PreparedAt,
			"fingerprint":  prepared.Fingerprint,
			"rows":         prepared.Sales.Nrow(),
			"warnings":     prepared.Warnings,
		})
	}
}
