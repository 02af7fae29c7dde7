package main

import (
	"net/http"
	"time"

	"github.com/sells-group/traffic-cli/internal/area"
	"github.com/sells-group/traffic-cli/internal/config"
	"github.com/sells-group/traffic-cli/internal/predict"
	"github.com/sells-group/traffic-cli/internal/resilience"
	"github.com/sells-group/traffic-cli/internal/session"
	"github.com/sells-group/traffic-cli/pkg/geocode"
)

// newGeocoder builds the place search client from configuration.
func newGeocoder(c *config.Config) geocode.Client {
	timeout := time.Duration(c.Geocode.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	opts := []geocode.Option{
		geocode.WithHTTPClient(&http.Client{Timeout: timeout}),
		geocode.WithBreaker(resilience.NewBreaker(
			resilience.FromSettings("geocode", c.Circuit.FailureThreshold, c.Circuit.ResetTimeoutSecs),
		)),
		geocode.WithCacheTTL(time.Duration(c.Geocode.CacheTTLMins) * time.Minute),
	}
	if c.Geocode.BaseURL != "" {
		opts = append(opts, geocode.WithBaseURL(c.Geocode.BaseURL))
	}
	if c.Geocode.UserAgent != "" {
		opts = append(opts, geocode.WithUserAgent(c.Geocode.UserAgent))
	}
	if c.Geocode.RateLimit > 0 {
		opts = append(opts, geocode.WithRateLimit(c.Geocode.RateLimit))
	}
	return geocode.NewClient(opts...)
}

// newSessionDeps wires the registry, predictor and geocoder for sessions.
func newSessionDeps(c *config.Config) (session.Deps, error) {
	pred, err := predict.FromConfig(c.Prediction, c.Circuit)
	if err != nil {
		return session.Deps{}, err
	}
	return session.Deps{
		Areas:     area.Default(),
		Predictor: pred,
		Geocoder:  newGeocoder(c),
	}, nil
}
