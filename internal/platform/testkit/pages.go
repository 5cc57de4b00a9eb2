package testkit

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
)

// PageServer is an httptest server that answers paginated GETs with canned
// bodies, one per page number, and records every query it receives
type PageServer struct {
	*httptest.Server

	mu      sync.Mutex
	queries []url.Values
}

// NewPageServer serves pages[n-1] for pageNo=n (missing pageNo means 1).
// Requests past the last page get a 500 so a runaway pager fails loudly.
// The server is closed when the test ends.
func NewPageServer(t *testing.T, contentType string, pages ...string) *PageServer {
	t.Helper()
	ps := &PageServer{}
	ps.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		ps.mu.Lock()
		ps.queries = append(ps.queries, q)
		ps.mu.Unlock()

		n := 1
		if s := q.Get("pageNo"); s != "" {
			if v, err := strconv.Atoi(s); err == nil {
				n = v
			}
		}
		if n < 1 || n > len(pages) {
			http.Error(w, "no such page", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(pages[n-1]))
	}))
	t.Cleanup(ps.Close)
	return ps
}

// Hits returns the number of requests served so far
func (ps *PageServer) Hits() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return len(ps.queries)
}

// Query returns the query values of the i-th request (0-based)
func (ps *PageServer) Query(i int) url.Values {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if i < 0 || i >= len(ps.queries) {
		return nil
	}
	return ps.queries[i]
}

// StaticServer answers every request with status and body. Closed with the test
func StaticServer(t *testing.T, status int, contentType, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}
