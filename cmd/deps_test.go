package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/traffic-cli/internal/config"
	"github.com/sells-group/traffic-cli/internal/predict"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Map:        config.MapConfig{City: "Hyderabad"},
		Prediction: config.PredictionConfig{Backend: "stub", Seed: 1},
		Geocode: config.GeocodeConfig{
			BaseURL:     baseURL,
			UserAgent:   "traffic-cli-test",
			RateLimit:   100,
			TimeoutSecs: 5,
		},
		Circuit: config.CircuitConfig{FailureThreshold: 3, ResetTimeoutSecs: 1},
	}
}

func TestNewSessionDeps(t *testing.T) {
	deps, err := newSessionDeps(testConfig(""))
	require.NoError(t, err)
	assert.NotNil(t, deps.Areas)
	assert.IsType(t, &predict.Stub{}, deps.Predictor)
	assert.NotNil(t, deps.Geocoder)
}

func TestNewSessionDeps_BadBackend(t *testing.T) {
	c := testConfig("")
	c.Prediction.Backend = "oracle"
	_, err := newSessionDeps(c)
	assert.Error(t, err)
}

func TestNewGeocoder_UsesConfig(t *testing.T) {
	var gotUA, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"17.4483","lon":"78.3915","display_name":"Hitech City, Hyderabad"}]`))
	}))
	t.Cleanup(srv.Close)

	res, err := newGeocoder(testConfig(srv.URL)).Search(context.Background(), "Hitech City, Hyderabad")
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.InDelta(t, 17.4483, res.Latitude, 1e-9)
	assert.Equal(t, "traffic-cli-test", gotUA)
	assert.Equal(t, "Hitech City, Hyderabad", gotQuery)
}
