package geocode

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// fakeNominatim is a test server answering /search with a fixed body and
// recording the queries it received.
type fakeNominatim struct {
	*httptest.Server

	mu      sync.Mutex
	queries []url.Values
	agents  []string
}

func newFakeNominatim(t *testing.T, status int, body string) *fakeNominatim {
	t.Helper()
	f := &fakeNominatim{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.queries = append(f.queries, r.URL.Query())
		f.agents = append(f.agents, r.Header.Get("User-Agent"))
		f.mu.Unlock()

		if r.URL.Path != "/search" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeNominatim) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

// newTestGeocoder builds a geocoder aimed at srv with rate limiting effectively off.
func newTestGeocoder(srv *fakeNominatim, opts ...Option) *geocoder {
	opts = append([]Option{WithBaseURL(srv.URL), WithRateLimit(1000)}, opts...)
	return NewClient(opts...).(*geocoder)
}
