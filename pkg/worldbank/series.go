package worldbank

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// FetchSeries fetches every page of one (country, indicator) series and
// concatenates the records in page order. Pagination follows the server's
// reported page/pages counters; a short or malformed response terminates the
// loop as "no more data". When retries for a page are exhausted the
// accumulation so far is returned as a partial result, never an error. A
// fixed politeness delay separates successive pages.
func (d *Downloader) FetchSeries(ctx context.Context, country, indicator string) []Observation {
	path := fmt.Sprintf("/country/%s/indicator/%s", url.PathEscape(country), url.PathEscape(indicator))

	page := 1
	var accumulated []Observation
	outcome := "complete"

	for {
		query := url.Values{
			"format":   {"json"},
			"per_page": {strconv.Itoa(d.cfg.SeriesPageSize)},
			"page":     {strconv.Itoa(page)},
		}

		elements, err := d.api.GetJSON(ctx, "series", path, query)
		if err != nil {
			d.logger.Warn().
				Err(err).
				Str("country", country).
				Str("indicator", indicator).
				Int("page", page).
				Int("accumulated", len(accumulated)).
				Msg("Page fetch failed, returning partial series")
			outcome = "partial"
			break
		}

		meta, items, ok := decodePage(elements)
		if !ok || len(items) == 0 {
			break
		}

		accumulated = append(accumulated, items...)
		pagesFetchedTotal.Inc()
		observationsFetchedTotal.Add(float64(len(items)))

		d.logger.Debug().
			Str("country", country).
			Str("indicator", indicator).
			Int("page", page).
			Int("pages", int(meta.Pages)).
			Int("items", len(items)).
			Msg("Page fetched")

		if meta.Page >= meta.Pages {
			break
		}

		page++
		if !sleepCtx(ctx, d.cfg.PageDelay) {
			outcome = "partial"
			break
		}
	}

	if len(accumulated) == 0 {
		outcome = "empty"
	}
	seriesTotal.WithLabelValues(outcome).Inc()

	return accumulated
}
