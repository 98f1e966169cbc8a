package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shoplens/insights-backend/api/routes"
	"github.com/shoplens/insights-backend/internal/insights"
	"github.com/shoplens/insights-backend/pkg/config"
	"github.com/shoplens/insights-backend/pkg/logger"
	pkgmetrics "github.com/shoplens/insights-backend/pkg/metrics"
	"github.com/shoplens/insights-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "insights-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "insights-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	pipeline := pkgmetrics.NewPipelineMetrics(prometheus.DefaultRegisterer)
	requests := pkgmetrics.NewRequestMetrics(prometheus.DefaultRegisterer)

	var cache *redis.Client
	if cfg.Redis.Enabled() {
		cache, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Info(context.Background(), "redis not configured, summary cache disabled")
	}

	svc := insights.New(cfg, logg, pipeline, cache)

	// Warm the prepared data up front so the first dashboard request is not
	// the one paying for the load. A failure here is fatal only because it
	// means no dataset at all could be read.
	if _, err := svc.Prepared(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to prepare sales data", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting insights api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, svc, requests),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "insights api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
