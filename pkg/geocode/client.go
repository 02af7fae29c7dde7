// Package geocode resolves free-text place queries to coordinates using a
// Nominatim-compatible search API.
package geocode

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/sells-group/traffic-cli/internal/resilience"
)

// DefaultBaseURL is the public OpenStreetMap Nominatim instance.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Client resolves place queries.
type Client interface {
	// Search returns the best match for query. A query with no match is not
	// an error: the Result comes back with Matched=false.
	Search(ctx context.Context, query string) (*Result, error)
}

// Result holds the lookup output for a query.
type Result struct {
	Latitude    float64 `json:"lat" yaml:"lat"`
	Longitude   float64 `json:"lng" yaml:"lng"`
	DisplayName string  `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Source      string  `json:"source" yaml:"source"`
	Matched     bool    `json:"matched" yaml:"matched"`
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithBaseURL points the client at another Nominatim-compatible server.
func WithBaseURL(u string) Option {
	return func(g *geocoder) {
		g.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithRateLimit sets the requests-per-second limit. The public Nominatim
// usage policy allows at most 1 request per second.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUserAgent sets the User-Agent header Nominatim requires.
func WithUserAgent(ua string) Option {
	return func(g *geocoder) {
		g.userAgent = ua
	}
}

// WithCacheTTL keeps results (matches and misses) for ttl. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(g *geocoder) {
		g.cacheTTL = ttl
	}
}

// WithBreaker guards upstream calls with a circuit breaker.
func WithBreaker(b *resilience.Breaker) Option {
	return func(g *geocoder) {
		g.breaker = b
	}
}

type geocoder struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	breaker    *resilience.Breaker

	cacheTTL time.Duration
	cacheMu  sync.Mutex
	cache    map[string]cacheEntry
	nowFunc  func() time.Time
}

// NewClient creates a new geocoding Client with the given options.
func NewClient(opts ...Option) Client {
	g := &geocoder{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(1, 1),
		userAgent:  "traffic-cli/1.0",
		cache:      make(map[string]cacheEntry),
		nowFunc:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Search implements Client, consulting the cache first.
func (g *geocoder) Search(ctx context.Context, query string) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &Result{Matched: false, Source: sourceNominatim}, nil
	}

	key := cacheKey(query)
	if cached, ok := g.checkCache(key); ok {
		return cached, nil
	}

	var (
		result *Result
		err    error
	)
	if g.breaker != nil {
		result, err = resilience.Call(ctx, g.breaker, func(ctx context.Context) (*Result, error) {
			return g.searchNominatim(ctx, query)
		})
	} else {
		result, err = g.searchNominatim(ctx, query)
	}
	if err != nil {
		return nil, err
	}

	g.storeCache(key, result)
	return result, nil
}
