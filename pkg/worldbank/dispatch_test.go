package worldbank

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"testing"
)

// stubFetcher returns canned series and records call counts per indicator.
type stubFetcher struct {
	mu      sync.Mutex
	calls   map[string]int
	series  map[string][]Observation
	panicOn string
}

func newStubFetcher(series map[string][]Observation) *stubFetcher {
	return &stubFetcher{
		calls:  make(map[string]int),
		series: series,
	}
}

func (s *stubFetcher) FetchSeries(_ context.Context, _, indicator string) []Observation {
	s.mu.Lock()
	s.calls[indicator]++
	s.mu.Unlock()

	if indicator == s.panicOn {
		panic("boom")
	}
	return s.series[indicator]
}

func (s *stubFetcher) callCount(indicator string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[indicator]
}

func TestDispatcher_CollectsAllResults(t *testing.T) {
	x := Observation{"date": "2020", "value": 1.0}
	y := Observation{"date": "2020", "value": 2.0}

	stub := newStubFetcher(map[string][]Observation{
		"M1": {x},
		"M2": {y},
	})

	p := NewDispatcher(stub, 10)

	results := p.FetchAll(context.Background(), "AUS", []string{"M1", "M2"})

	expected := map[string][]Observation{
		"M1": {x},
		"M2": {y},
	}
	if !reflect.DeepEqual(results, expected) {
		t.Errorf("FetchAll() = %v, want %v", results, expected)
	}
}

func TestDispatcher_EmptySeriesExcluded(t *testing.T) {
	stub := newStubFetcher(map[string][]Observation{
		"M1": {{"value": 1.0}},
		"M2": {}, // empty series must be dropped, not stored
	})

	p := NewDispatcher(stub, 2)

	results := p.FetchAll(context.Background(), "AUS", []string{"M1", "M2"})

	if _, ok := results["M2"]; ok {
		t.Error("Empty series should be excluded from the result map")
	}
	if len(results) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(results))
	}
}

func TestDispatcher_PanicDoesNotCorruptBatch(t *testing.T) {
	stub := newStubFetcher(map[string][]Observation{
		"M1": {{"value": 1.0}},
		"M3": {{"value": 3.0}},
	})
	stub.panicOn = "M2"

	p := NewDispatcher(stub, 3)

	results := p.FetchAll(context.Background(), "AUS", []string{"M1", "M2", "M3"})

	if _, ok := results["M2"]; ok {
		t.Error("Panicking task should be excluded from the result map")
	}
	if len(results) != 2 {
		t.Fatalf("Expected sibling results to survive, got %d entries", len(results))
	}
	if results["M1"][0]["value"] != 1.0 || results["M3"][0]["value"] != 3.0 {
		t.Errorf("Sibling results corrupted: %v", results)
	}
}

func TestDispatcher_EachIndicatorSubmittedOnce(t *testing.T) {
	series := make(map[string][]Observation)
	indicators := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		code := fmt.Sprintf("IND.%02d", i)
		indicators = append(indicators, code)
		series[code] = []Observation{{"value": float64(i)}}
	}

	stub := newStubFetcher(series)
	p := NewDispatcher(stub, 4)

	results := p.FetchAll(context.Background(), "AUS", indicators)

	for _, indicator := range indicators {
		if got := stub.callCount(indicator); got != 1 {
			t.Errorf("Indicator %s fetched %d times, want 1", indicator, got)
		}
	}

	// The output key set is a subset of the input (here: equal).
	if len(results) != len(indicators) {
		t.Errorf("Expected %d results, got %d", len(indicators), len(results))
	}
	for key := range results {
		if _, ok := series[key]; !ok {
			t.Errorf("Result key %q was never requested", key)
		}
	}
}

func TestDispatcher_NoIndicators(t *testing.T) {
	stub := newStubFetcher(nil)
	p := NewDispatcher(stub, 10)

	results := p.FetchAll(context.Background(), "AUS", nil)

	if len(results) != 0 {
		t.Errorf("Expected empty map for empty input, got %v", results)
	}
}
