// Package config defines process configuration and its loading order.
package config

// Run modes.
const (
	// ModeConcurrent fans each country's indicators out across the worker
	// pool.
	ModeConcurrent = "concurrent"

	// ModeSequential walks the full cross product serially with a fixed
	// inter-request delay.
	ModeSequential = "sequential"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogPretty enables human-readable console output instead of JSON.
	LogPretty bool `koanf:"log_pretty"`

	// BaseURL is the World Bank API host.
	BaseURL string `koanf:"base_url"`

	// UserAgent is sent with every request.
	UserAgent string `koanf:"user_agent"`

	// OutputPath is where the aggregate JSON document is written.
	OutputPath string `koanf:"output_path"`

	// Mode selects the driver: "concurrent" or "sequential".
	Mode string `koanf:"mode"`

	// Country restricts the run to a single country code. The output file
	// is then named "<country>_world_bank_data.json" beside OutputPath.
	Country string `koanf:"country"`

	// Workers sets the worker-pool size for concurrent dispatch.
	Workers int `koanf:"workers"`

	// MetricsAddr, when non-empty, serves Prometheus metrics on this
	// address for the duration of the run, e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`

	// RequestTimeoutSeconds bounds each individual HTTP request.
	RequestTimeoutSeconds int `koanf:"request_timeout_seconds"`

	// PageDelayMS is the politeness pause between pages of one series.
	PageDelayMS int `koanf:"page_delay_ms"`

	// RequestDelayMS is the pause after every fetch in sequential mode.
	RequestDelayMS int `koanf:"request_delay_ms"`

	// CountryPageSize and IndicatorPageSize size the single catalog pages.
	CountryPageSize   int `koanf:"country_page_size"`
	IndicatorPageSize int `koanf:"indicator_page_size"`

	// SeriesPageSize is the per_page used for series pagination.
	SeriesPageSize int `koanf:"series_page_size"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogPretty:             false,
		BaseURL:               "https://api.worldbank.org/v2",
		UserAgent:             "world-bank-data/1.0",
		OutputPath:            "data/raw/world_bank_data.json",
		Mode:                  ModeConcurrent,
		Workers:               10,
		RequestTimeoutSeconds: 30,
		PageDelayMS:           1000,
		RequestDelayMS:        500,
		CountryPageSize:       300,
		IndicatorPageSize:     1000,
		SeriesPageSize:        1000,
	}
}
