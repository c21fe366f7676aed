package worldbank

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// Countries returns the id of every country known to the API. The full
// universe fits a single page. On retry exhaustion the failure is logged and
// an empty slice returned; an empty catalog is a degraded result, not an
// error.
func (d *Downloader) Countries(ctx context.Context) []string {
	return d.listCodes(ctx, "country", "/country", d.cfg.CountryPageSize)
}

// Indicators returns the id of every indicator known to the API. Same
// degradation contract as Countries.
func (d *Downloader) Indicators(ctx context.Context) []string {
	return d.listCodes(ctx, "indicator", "/indicator", d.cfg.IndicatorPageSize)
}

// listCodes fetches one catalog page and extracts item ids.
func (d *Downloader) listCodes(ctx context.Context, endpoint, path string, perPage int) []string {
	query := url.Values{
		"format":   {"json"},
		"per_page": {strconv.Itoa(perPage)},
	}

	elements, err := d.api.GetJSON(ctx, endpoint, path, query)
	if err != nil {
		d.logger.Warn().
			Err(err).
			Str("catalog", endpoint).
			Msg("Catalog fetch failed, continuing with empty list")
		return nil
	}

	if len(elements) < 2 {
		d.logger.Warn().
			Str("catalog", endpoint).
			Msg("Catalog response missing item list")
		return nil
	}

	var items []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(elements[1], &items); err != nil {
		d.logger.Warn().
			Err(err).
			Str("catalog", endpoint).
			Msg("Catalog item list did not decode")
		return nil
	}

	codes := make([]string, 0, len(items))
	for _, item := range items {
		codes = append(codes, item.ID)
	}

	d.logger.Info().
		Str("catalog", endpoint).
		Int("count", len(codes)).
		Msg("Catalog fetched")

	return codes
}
