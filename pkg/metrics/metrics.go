// Package metrics provides the Prometheus registry reference for the
// downloader. All metrics are defined in their respective packages (client,
// worldbank) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registerer used by the downloader.
// All metrics are automatically registered via promauto in their respective
// packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - worldbank_requests_total{endpoint, status} (Counter): Requests by endpoint label and HTTP status
//   - worldbank_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint label
//   - worldbank_errors_total{class} (Counter): Errors by class (client, server, network)
//
// Retry Metrics (pkg/client):
//   - worldbank_retries_total{error_class} (Counter): Retry attempts by error class
//   - worldbank_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - worldbank_retry_exhausted_total{error_class} (Counter): Calls that exhausted max retries
//
// Download Metrics (pkg/worldbank):
//   - worldbank_pages_fetched_total (Counter): Series pages fetched successfully
//   - worldbank_observations_fetched_total (Counter): Observations accumulated across all series
//   - worldbank_series_total{outcome} (Counter): Series fetches by outcome (complete, partial, empty)
//
// Example Prometheus Queries:
//
//   # Request Error Rate
//   rate(worldbank_errors_total[5m])
//
//   # Share of partial series
//   rate(worldbank_series_total{outcome="partial"}[5m]) /
//   sum(rate(worldbank_series_total[5m]))
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(worldbank_request_duration_seconds_bucket[5m]))
