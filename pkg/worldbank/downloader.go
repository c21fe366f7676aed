package worldbank

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/arturogonzalezm/world-bank-data/pkg/client"
	"github.com/arturogonzalezm/world-bank-data/pkg/logging"
)

// Prometheus metrics for download operations.
var (
	pagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "worldbank_pages_fetched_total",
		Help: "Total series pages fetched successfully",
	})

	observationsFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "worldbank_observations_fetched_total",
		Help: "Total observations accumulated across all series",
	})

	seriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "worldbank_series_total",
		Help: "Series fetches by outcome (complete, partial, empty)",
	}, []string{"outcome"})
)

// Config holds downloader policy constants.
type Config struct {
	// CountryPageSize is the per_page used for the country catalog. The
	// known universe fits one page.
	CountryPageSize int

	// IndicatorPageSize is the per_page used for the indicator catalog.
	IndicatorPageSize int

	// SeriesPageSize is the per_page used for series pagination.
	SeriesPageSize int

	// PageDelay is the politeness pause between successive pages of one
	// series.
	PageDelay time.Duration

	// RequestDelay is the pause after every fetch in sequential mode.
	RequestDelay time.Duration

	// Workers is the fixed worker-pool size for concurrent dispatch.
	Workers int
}

// DefaultConfig returns the policy constants used against the live API.
func DefaultConfig() Config {
	return Config{
		CountryPageSize:   300,
		IndicatorPageSize: 1000,
		SeriesPageSize:    1000,
		PageDelay:         1 * time.Second,
		RequestDelay:      500 * time.Millisecond,
		Workers:           10,
	}
}

// Downloader fetches catalogs and series from the World Bank API.
type Downloader struct {
	api    *client.Client
	cfg    Config
	logger zerolog.Logger
}

// New creates a Downloader over the given API client.
func New(api *client.Client, cfg Config) *Downloader {
	if cfg.CountryPageSize <= 0 {
		cfg.CountryPageSize = 300
	}
	if cfg.IndicatorPageSize <= 0 {
		cfg.IndicatorPageSize = 1000
	}
	if cfg.SeriesPageSize <= 0 {
		cfg.SeriesPageSize = 1000
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 10
	}

	return &Downloader{
		api:    api,
		cfg:    cfg,
		logger: logging.NewLogger("downloader"),
	}
}

// sleepCtx pauses for the given duration, returning false if the context is
// cancelled first. A non-positive duration is a no-op.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
