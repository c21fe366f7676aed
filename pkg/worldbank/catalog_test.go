package worldbank

import (
	"context"
	"net/http"
	"reflect"
	"testing"
	"time"

	"github.com/arturogonzalezm/world-bank-data/internal/testutil"
	"github.com/arturogonzalezm/world-bank-data/pkg/client"
)

// newTestDownloader builds a downloader against the mock API with fast
// retries and no politeness delays.
func newTestDownloader(t *testing.T, baseURL string, cfg Config) *Downloader {
	t.Helper()

	api, err := client.New(client.Config{
		BaseURL:   baseURL,
		UserAgent: "world-bank-data-test/1.0",
		Timeout:   5 * time.Second,
		Retry: client.RetryConfig{
			MaxAttempts: 3,
			Multiplier:  time.Millisecond,
			MinBackoff:  time.Millisecond,
			MaxBackoff:  5 * time.Millisecond,
		},
	})
	if err != nil {
		t.Fatalf("client.New() failed: %v", err)
	}

	return New(api, cfg)
}

func TestCountries(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetHandler("/country", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("per_page"); got != "300" {
			t.Errorf("Expected per_page=300, got %q", got)
		}
		testutil.CatalogHandler("ABW", "AFG", "AGO")(w, r)
	})

	d := newTestDownloader(t, mock.URL(), DefaultConfig())

	codes := d.Countries(context.Background())

	expected := []string{"ABW", "AFG", "AGO"}
	if !reflect.DeepEqual(codes, expected) {
		t.Errorf("Countries() = %v, want %v", codes, expected)
	}
	if mock.PathCount("/country") != 1 {
		t.Errorf("Expected a single catalog request, got %d", mock.PathCount("/country"))
	}
}

func TestIndicators(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetHandler("/indicator", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("per_page"); got != "1000" {
			t.Errorf("Expected per_page=1000, got %q", got)
		}
		testutil.CatalogHandler("NY.GDP.MKTP.CD", "SP.POP.TOTL")(w, r)
	})

	d := newTestDownloader(t, mock.URL(), DefaultConfig())

	codes := d.Indicators(context.Background())

	expected := []string{"NY.GDP.MKTP.CD", "SP.POP.TOTL"}
	if !reflect.DeepEqual(codes, expected) {
		t.Errorf("Indicators() = %v, want %v", codes, expected)
	}
}

func TestCatalog_DegradesToEmptyAfterRetries(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetHandler("/country", testutil.AlwaysStatus(http.StatusInternalServerError))
	mock.SetHandler("/indicator", testutil.AlwaysStatus(http.StatusBadGateway))

	d := newTestDownloader(t, mock.URL(), DefaultConfig())

	if codes := d.Countries(context.Background()); len(codes) != 0 {
		t.Errorf("Expected empty country list after exhausted retries, got %v", codes)
	}
	if codes := d.Indicators(context.Background()); len(codes) != 0 {
		t.Errorf("Expected empty indicator list after exhausted retries, got %v", codes)
	}

	// The retry policy bounds each catalog call at 3 attempts.
	if got := mock.PathCount("/country"); got != 3 {
		t.Errorf("Expected 3 country catalog attempts, got %d", got)
	}
	if got := mock.PathCount("/indicator"); got != 3 {
		t.Errorf("Expected 3 indicator catalog attempts, got %d", got)
	}
}

func TestCatalog_MalformedResponseIsEmpty(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetHandler("/country", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"message":"no items element"}]`))
	})

	d := newTestDownloader(t, mock.URL(), DefaultConfig())

	if codes := d.Countries(context.Background()); len(codes) != 0 {
		t.Errorf("Expected empty list for short response, got %v", codes)
	}
}
