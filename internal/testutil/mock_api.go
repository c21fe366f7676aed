// Package testutil provides a configurable mock World Bank API server for
// tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockAPI is a configurable mock World Bank API server.
type MockAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc

	// Tracking
	requestCount int
	pathCounts   map[string]int
}

// NewMockAPI creates a new mock API server. Paths without a registered
// handler respond 404.
func NewMockAPI() *MockAPI {
	mock := &MockAPI{
		handlers:   make(map[string]http.HandlerFunc),
		pathCounts: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCount++
		mock.pathCounts[r.URL.Path]++
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		http.NotFound(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// SetHandler sets a custom handler for a specific path.
func (m *MockAPI) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// RequestCount returns the number of requests made to the server.
func (m *MockAPI) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// PathCount returns the number of requests made to a specific path.
func (m *MockAPI) PathCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pathCounts[path]
}

// writeJSON marshals v and writes it as a 200 response.
func writeJSON(w http.ResponseWriter, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// CatalogHandler serves a single-page catalog whose items carry the given
// ids, in the API's [meta, items] shape.
func CatalogHandler(ids ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := make([]map[string]any, 0, len(ids))
		for _, id := range ids {
			items = append(items, map[string]any{
				"id":   id,
				"name": "name of " + id,
			})
		}
		meta := map[string]any{
			"page":     1,
			"pages":    1,
			"per_page": fmt.Sprintf("%d", len(ids)),
			"total":    len(ids),
		}
		writeJSON(w, []any{meta, items})
	}
}

// PagedSeriesHandler serves a series split across the given pages. The "page"
// query parameter selects the page; out-of-range pages respond with an empty
// item list. With no pages at all, page 1 responds with an empty item list.
func PagedSeriesHandler(pages ...[]map[string]any) http.HandlerFunc {
	total := 0
	for _, p := range pages {
		total += len(p)
	}
	totalPages := len(pages)
	if totalPages == 0 {
		totalPages = 1
	}

	return func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			fmt.Sscanf(p, "%d", &page)
		}

		items := []map[string]any{}
		if page >= 1 && page <= len(pages) {
			items = pages[page-1]
		}

		meta := map[string]any{
			"page":     page,
			"pages":    totalPages,
			"per_page": "1000",
			"total":    total,
		}
		writeJSON(w, []any{meta, items})
	}
}

// FailNTimes responds with the given status for the first n requests, then
// delegates to next.
func FailNTimes(n, status int, next http.HandlerFunc) http.HandlerFunc {
	var mu sync.Mutex
	failures := 0

	return func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		shouldFail := failures < n
		if shouldFail {
			failures++
		}
		mu.Unlock()

		if shouldFail {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next(w, r)
	}
}

// AlwaysStatus responds with the given status for every request.
func AlwaysStatus(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(status), status)
	}
}

// Obs builds a minimal observation record for the given indicator and year.
func Obs(indicator, country, date string, value float64) map[string]any {
	return map[string]any{
		"indicator": map[string]any{"id": indicator},
		"country":   map[string]any{"id": country},
		"date":      date,
		"value":     value,
	}
}
