// Package store persists a ResultSet as an indented UTF-8 JSON document.
//
// The top-level shape is an object mapping "country|indicator" composite keys
// to arrays of opaque observation objects. The delimiter never appears in
// World Bank codes (alphanumeric plus dots); encoding rejects codes that
// contain it rather than producing an ambiguous key. Keys are decoded by
// splitting on the delimiter, never by evaluating the key string.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arturogonzalezm/world-bank-data/pkg/logging"
	"github.com/arturogonzalezm/world-bank-data/pkg/worldbank"
)

// KeyDelimiter joins the two halves of a composite key.
const KeyDelimiter = "|"

// EncodeKey renders a SeriesKey as a single string. Codes containing the
// delimiter are rejected to keep the encoding reversible.
func EncodeKey(key worldbank.SeriesKey) (string, error) {
	if strings.Contains(key.Country, KeyDelimiter) {
		return "", fmt.Errorf("country code %q contains key delimiter %q", key.Country, KeyDelimiter)
	}
	if strings.Contains(key.Indicator, KeyDelimiter) {
		return "", fmt.Errorf("indicator code %q contains key delimiter %q", key.Indicator, KeyDelimiter)
	}
	return key.Country + KeyDelimiter + key.Indicator, nil
}

// DecodeKey reverses EncodeKey.
func DecodeKey(s string) (worldbank.SeriesKey, error) {
	country, indicator, found := strings.Cut(s, KeyDelimiter)
	if !found {
		return worldbank.SeriesKey{}, fmt.Errorf("malformed composite key %q: missing delimiter %q", s, KeyDelimiter)
	}
	if strings.Contains(indicator, KeyDelimiter) {
		return worldbank.SeriesKey{}, fmt.Errorf("malformed composite key %q: multiple delimiters", s)
	}
	return worldbank.SeriesKey{Country: country, Indicator: indicator}, nil
}

// Save writes the result set to path, creating parent directories as needed.
// Output is indented with stable key ordering and unescaped Unicode.
// File-system and encoding faults propagate to the caller.
func Save(results worldbank.ResultSet, path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	serializable := make(map[string][]worldbank.Observation, len(results))
	for key, observations := range results {
		encoded, err := EncodeKey(key)
		if err != nil {
			return fmt.Errorf("encode key: %w", err)
		}
		serializable[encoded] = observations
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(serializable); err != nil {
		return fmt.Errorf("encode result set: %w", err)
	}

	logger := logging.NewLogger("store")
	logger.Info().
		Str("path", path).
		Int("series", len(results)).
		Msg("Data saved")

	return nil
}

// Load reads a result set previously written by Save.
func Load(path string) (worldbank.ResultSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	var serialized map[string][]worldbank.Observation
	if err := json.NewDecoder(f).Decode(&serialized); err != nil {
		return nil, fmt.Errorf("decode data file: %w", err)
	}

	results := make(worldbank.ResultSet, len(serialized))
	for encoded, observations := range serialized {
		key, err := DecodeKey(encoded)
		if err != nil {
			return nil, err
		}
		results[key] = observations
	}

	return results, nil
}
