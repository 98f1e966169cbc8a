package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/shoplens/insights-backend/internal/insights"
	"github.com/shoplens/insights-backend/pkg/config"
	"github.com/shoplens/insights-backend/pkg/logger"
)

// report loads the datasets and prints the full metric summary as JSON,
// for piping into jq or snapshotting without running the API server.
func main() {
	status := flag.String("status", "", "order status filter (default from config, 'all' disables)")
	dataDir := flag.String("data-dir", "", "override the configured data directory")
	compact := flag.Bool("compact", false, "emit compact JSON instead of indented")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "insights-report", Output: os.Stderr})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
	}

	svc := insights.New(cfg, logg, nil, nil)
	summary, err := svc.Summary(context.Background(), insights.Query{Status: *status})
	if err != nil {
		logg.Error(context.Background(), "failed to compute summary", err)
		os.Exit(1)
	}

	encoder := json.NewEncoder(os.Stdout)
	if !*compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(summary); err != nil {
		logg.Error(context.Background(), "failed to encode summary", err)
		os.Exit(1)
	}
}
