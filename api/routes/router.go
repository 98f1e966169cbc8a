package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shoplens/insights-backend/api/controllers"
	"github.com/shoplens/insights-backend/api/middleware"
	"github.com/shoplens/insights-backend/internal/insights"
	"github.com/shoplens/insights-backend/pkg/config"
	"github.com/shoplens/insights-backend/pkg/logger"
	"github.com/shoplens/insights-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	svc *insights.Service,
	requests *metrics.RequestMetrics,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Instrument(requests),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, svc))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/datasets", controllers.Datasets(svc, logg))
		r.Post("/refresh", controllers.Refresh(svc, logg))

		r.Route("/metrics", func(r chi.Router) {
			r.Get("/revenue", controllers.MetricsRevenue(svc, logg))
			r.Post("/growth", controllers.MetricsGrowth(svc, logg))
			r.Get("/trends", controllers.MetricsTrends(svc, logg))
			r.Get("/categories", controllers.MetricsCategories(svc, logg))
			r.Get("/geography", controllers.MetricsGeography(svc, logg))
			r.Get("/experience", controllers.MetricsExperience(svc, logg))
			r.Get("/operations", controllers.MetricsOperations(svc, logg))
			r.Get("/cohorts", controllers.MetricsCohorts(svc, logg))
			r.Get("/summary", controllers.MetricsSummary(svc, logg))
		})
	})

	return r
}
