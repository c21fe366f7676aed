// Command worldbank-fetch enumerates World Bank countries and indicators,
// downloads every (country, indicator) time series, and writes the aggregate
// result to a JSON file. It takes no arguments; configuration comes from the
// environment (WB_ prefix) and an optional YAML file (WB_CONFIG).
//
// Individual fetch failures degrade to partial or empty results and are
// logged, not surfaced via the exit status. Only configuration and save
// errors are fatal.
package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/arturogonzalezm/world-bank-data/internal/config"
	"github.com/arturogonzalezm/world-bank-data/pkg/client"
	"github.com/arturogonzalezm/world-bank-data/pkg/logging"
	"github.com/arturogonzalezm/world-bank-data/pkg/store"
	"github.com/arturogonzalezm/world-bank-data/pkg/worldbank"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
	})

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr)
		logger.Info().Str("addr", cfg.MetricsAddr).Msg("Serving Prometheus metrics")
	}

	apiClient, err := client.New(client.Config{
		BaseURL:   cfg.BaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		Retry:     client.DefaultRetryConfig(),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create API client")
	}

	downloader := worldbank.New(apiClient, worldbank.Config{
		CountryPageSize:   cfg.CountryPageSize,
		IndicatorPageSize: cfg.IndicatorPageSize,
		SeriesPageSize:    cfg.SeriesPageSize,
		PageDelay:         time.Duration(cfg.PageDelayMS) * time.Millisecond,
		RequestDelay:      time.Duration(cfg.RequestDelayMS) * time.Millisecond,
		Workers:           cfg.Workers,
	})

	ctx := context.Background()

	countries := downloader.Countries(ctx)
	indicators := downloader.Indicators(ctx)

	outputPath := cfg.OutputPath
	if cfg.Country != "" {
		countries = []string{cfg.Country}
		outputPath = filepath.Join(
			filepath.Dir(cfg.OutputPath),
			fmt.Sprintf("%s_world_bank_data.json", cfg.Country),
		)
	}

	logger.Info().
		Int("countries", len(countries)).
		Int("indicators", len(indicators)).
		Str("mode", cfg.Mode).
		Msg("Starting download")

	var results worldbank.ResultSet
	switch cfg.Mode {
	case config.ModeSequential:
		results = downloader.DownloadAll(ctx, countries, indicators)
	default:
		results = downloader.DownloadAllConcurrent(ctx, countries, indicators)
	}

	if err := store.Save(results, outputPath); err != nil {
		logger.Fatal().Err(err).Str("path", outputPath).Msg("Failed to save data")
	}

	logger.Info().
		Int("series", len(results)).
		Str("path", outputPath).
		Msg("Data download and save completed")
}

// serveMetrics exposes /metrics for the duration of the run.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Warn().Err(err).Msg("Metrics server stopped")
	}
}
