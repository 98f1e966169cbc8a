package controllers

import (
	"net/http"

	"github.com/shoplens/insights-backend/api/responses"
	"github.com/shoplens/insights-backend/internal/insights"
	"github.com/shoplens/insights-backend/pkg/config"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Insights-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness plus whether the sales data has already been
// prepared. A cold cache is still ready; the first metric request warms it.
func HealthReady(cfg *config.Config, svc *insights.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Insights-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]any{
			"status":        "ready",
			"data_prepared": svc.Ready(),
		})
	}
}
