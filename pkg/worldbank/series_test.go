package worldbank

import (
	"context"
	"net/http"
	"testing"

	"github.com/arturogonzalezm/world-bank-data/internal/testutil"
)

// fastConfig disables politeness delays for tests.
func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.PageDelay = 0
	cfg.RequestDelay = 0
	return cfg
}

func TestFetchSeries_AllPagesInOrder(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	path := "/country/AUS/indicator/NY.GDP.MKTP.CD"
	mock.SetHandler(path, testutil.PagedSeriesHandler(
		[]map[string]any{
			testutil.Obs("NY.GDP.MKTP.CD", "AUS", "2022", 1.0),
			testutil.Obs("NY.GDP.MKTP.CD", "AUS", "2021", 2.0),
		},
		[]map[string]any{
			testutil.Obs("NY.GDP.MKTP.CD", "AUS", "2020", 3.0),
		},
		[]map[string]any{
			testutil.Obs("NY.GDP.MKTP.CD", "AUS", "2019", 4.0),
		},
	))

	d := newTestDownloader(t, mock.URL(), fastConfig())

	series := d.FetchSeries(context.Background(), "AUS", "NY.GDP.MKTP.CD")

	// The server reports 3 pages, so exactly 3 page requests happen.
	if got := mock.PathCount(path); got != 3 {
		t.Errorf("Expected exactly 3 page requests, got %d", got)
	}

	if len(series) != 4 {
		t.Fatalf("Expected 4 observations, got %d", len(series))
	}

	// Page order is preserved in the concatenation.
	expectedDates := []string{"2022", "2021", "2020", "2019"}
	for i, obs := range series {
		if obs["date"] != expectedDates[i] {
			t.Errorf("Observation %d has date %v, want %s", i, obs["date"], expectedDates[i])
		}
	}
}

func TestFetchSeries_EmptyFirstPage(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	path := "/country/AUS/indicator/EMPTY.IND"
	mock.SetHandler(path, testutil.PagedSeriesHandler())

	d := newTestDownloader(t, mock.URL(), fastConfig())

	series := d.FetchSeries(context.Background(), "AUS", "EMPTY.IND")

	if len(series) != 0 {
		t.Errorf("Expected empty series, got %d observations", len(series))
	}
	if got := mock.PathCount(path); got != 1 {
		t.Errorf("Expected exactly 1 request for an empty series, got %d", got)
	}
}

func TestFetchSeries_PartialOnPageFailure(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	path := "/country/AUS/indicator/FLAKY.IND"
	firstPage := testutil.PagedSeriesHandler(
		[]map[string]any{testutil.Obs("FLAKY.IND", "AUS", "2022", 1.0)},
		[]map[string]any{testutil.Obs("FLAKY.IND", "AUS", "2021", 2.0)},
	)
	mock.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		// Page 2 always fails; page 1 succeeds.
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		firstPage(w, r)
	})

	d := newTestDownloader(t, mock.URL(), fastConfig())

	series := d.FetchSeries(context.Background(), "AUS", "FLAKY.IND")

	// Page 1 accumulated, page 2 exhausted its retries: partial result.
	if len(series) != 1 {
		t.Fatalf("Expected 1 observation from the successful page, got %d", len(series))
	}
	if series[0]["date"] != "2022" {
		t.Errorf("Expected page 1 observation, got %v", series[0])
	}

	// 1 success + 3 attempts on page 2.
	if got := mock.PathCount(path); got != 4 {
		t.Errorf("Expected 4 requests (1 ok + 3 retries), got %d", got)
	}
}

func TestFetchSeries_TransientFailureRecovers(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	path := "/country/BRA/indicator/SP.POP.TOTL"
	mock.SetHandler(path, testutil.FailNTimes(2, http.StatusBadGateway,
		testutil.PagedSeriesHandler(
			[]map[string]any{testutil.Obs("SP.POP.TOTL", "BRA", "2020", 212.0)},
		),
	))

	d := newTestDownloader(t, mock.URL(), fastConfig())

	series := d.FetchSeries(context.Background(), "BRA", "SP.POP.TOTL")

	if len(series) != 1 {
		t.Fatalf("Expected 1 observation after transient failures, got %d", len(series))
	}
	if got := mock.PathCount(path); got != 3 {
		t.Errorf("Expected 3 requests (2 failures + success), got %d", got)
	}
}

func TestFetchSeries_ShortResponseTerminates(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	path := "/country/XX/indicator/BAD.IND"
	mock.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		// The API answers unknown series with a one-element message array.
		w.Write([]byte(`[{"message":[{"id":"120","value":"Invalid indicator"}]}]`))
	})

	d := newTestDownloader(t, mock.URL(), fastConfig())

	series := d.FetchSeries(context.Background(), "XX", "BAD.IND")

	if len(series) != 0 {
		t.Errorf("Expected empty series for short response, got %d", len(series))
	}
	if got := mock.PathCount(path); got != 1 {
		t.Errorf("Expected 1 request, got %d", got)
	}
}
