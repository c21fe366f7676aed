package worldbank

import (
	"context"
)

// DownloadAll iterates the full country x indicator cross product strictly
// sequentially, pausing RequestDelay after every fetch as a global throttle
// on top of the fetcher's own per-page delay. Progress is logged as a
// monotonically increasing percentage before each fetch. Empty series are
// skipped. Cancelling the context returns whatever has been collected.
func (d *Downloader) DownloadAll(ctx context.Context, countries, indicators []string) ResultSet {
	results := make(ResultSet)

	total := len(countries) * len(indicators)
	if total == 0 {
		return results
	}

	completed := 0
	for _, country := range countries {
		for _, indicator := range indicators {
			completed++
			d.logger.Info().
				Float64("progress_pct", float64(completed)/float64(total)*100).
				Str("country", country).
				Str("indicator", indicator).
				Msg("Fetching series")

			data := d.FetchSeries(ctx, country, indicator)
			if len(data) > 0 {
				results[SeriesKey{Country: country, Indicator: indicator}] = data
			}

			if !sleepCtx(ctx, d.cfg.RequestDelay) {
				d.logger.Warn().
					Int("completed", completed).
					Int("total", total).
					Msg("Download cancelled, returning partial result set")
				return results
			}
		}
	}

	return results
}

// DownloadAllConcurrent walks the country list, fanning each country's
// indicators out across the worker pool, and merges the per-country maps into
// one ResultSet.
func (d *Downloader) DownloadAllConcurrent(ctx context.Context, countries, indicators []string) ResultSet {
	results := make(ResultSet)

	for _, country := range countries {
		d.logger.Info().
			Str("country", country).
			Msg("Downloading data for country")

		byIndicator := d.FetchAllIndicators(ctx, country, indicators)
		for indicator, observations := range byIndicator {
			results[SeriesKey{Country: country, Indicator: indicator}] = observations
		}

		if ctx.Err() != nil {
			d.logger.Warn().Msg("Download cancelled, returning partial result set")
			return results
		}
	}

	return results
}
