package predict

import (
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/traffic-cli/internal/config"
	"github.com/sells-group/traffic-cli/internal/resilience"
)

// FromConfig builds the Predictor selected by prediction.backend.
func FromConfig(pc config.PredictionConfig, cc config.CircuitConfig) (Predictor, error) {
	switch pc.Backend {
	case "", "stub":
		opts := []StubOption{WithLatency(time.Duration(pc.LatencyMs) * time.Millisecond)}
		if pc.Seed != 0 {
			opts = append(opts, WithSeed(pc.Seed))
		}
		return NewStub(opts...), nil
	case "remote":
		if pc.Endpoint == "" {
			return nil, eris.New("predict: remote backend requires an endpoint")
		}
		timeout := time.Duration(pc.TimeoutSecs) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		breaker := resilience.NewBreaker(resilience.FromSettings("model", cc.FailureThreshold, cc.ResetTimeoutSecs))
		return NewRemote(pc.Endpoint,
			WithHTTPClient(&http.Client{Timeout: timeout}),
			WithBreaker(breaker),
		), nil
	default:
		return nil, eris.Errorf("predict: unknown backend %q", pc.Backend)
	}
}
