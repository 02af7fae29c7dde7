// Package predict produces traffic density predictions. The Stub backend
// samples random values; Remote calls a model service over HTTP. Both sit
// behind Predictor so callers never depend on which one is wired.
package predict

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/traffic-cli/internal/area"
)

// Failure taxonomy for real backends. The stub only ever returns ErrTimeout
// (when its context ends during simulated latency).
var (
	ErrInvalidInput      = eris.New("predict: invalid feature combination")
	ErrTimeout           = eris.New("predict: model timed out")
	ErrUnavailable       = eris.New("predict: model service unavailable")
	ErrMalformedResponse = eris.New("predict: malformed model response")
)

// Context is the feature set a prediction is requested for.
type Context struct {
	Area         string           `json:"area"`
	Coordinates  area.Coordinates `json:"coordinates"`
	Hour         string           `json:"hour"`
	Day          string           `json:"day"`
	Weather      string           `json:"weather"`
	VehicleType  string           `json:"vehicle_type"`
	RandomEvents string           `json:"random_events"`
	PeakHours    string           `json:"peak_hours"`
}

// Result is a predicted density with illustrative error metrics.
type Result struct {
	Density float64 `json:"density" yaml:"density"`
	MAE     float64 `json:"mae" yaml:"mae"`
	RMSE    float64 `json:"rmse" yaml:"rmse"`
}

// Predictor predicts traffic density for a feature set.
type Predictor interface {
	Predict(ctx context.Context, pc Context) (Result, error)
}
