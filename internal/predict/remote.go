package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/traffic-cli/internal/resilience"
)

// Remote asks a model service for a prediction. The service receives the
// Context as JSON and answers with a Result.
type Remote struct {
	endpoint   string
	httpClient *http.Client
	breaker    *resilience.Breaker
}

// RemoteOption configures a Remote predictor.
type RemoteOption func(*Remote)

// WithHTTPClient sets the HTTP client used for model calls.
func WithHTTPClient(hc *http.Client) RemoteOption {
	return func(r *Remote) {
		r.httpClient = hc
	}
}

// WithBreaker guards model calls with a circuit breaker.
func WithBreaker(b *resilience.Breaker) RemoteOption {
	return func(r *Remote) {
		r.breaker = b
	}
}

// NewRemote creates a Remote predictor posting to endpoint.
func NewRemote(endpoint string, opts ...RemoteOption) *Remote {
	r := &Remote{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Predict implements Predictor.
func (r *Remote) Predict(ctx context.Context, pc Context) (Result, error) {
	if r.breaker == nil {
		return r.call(ctx, pc)
	}
	res, err := resilience.Call(ctx, r.breaker, func(ctx context.Context) (Result, error) {
		return r.call(ctx, pc)
	})
	if errors.Is(err, resilience.ErrOpen) {
		return Result{}, eris.Wrap(ErrUnavailable, err.Error())
	}
	return res, err
}

func (r *Remote) call(ctx context.Context, pc Context) (Result, error) {
	body, err := json.Marshal(pc)
	if err != nil {
		return Result{}, eris.Wrap(err, "predict: encode features")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, eris.Wrap(err, "predict: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		switch {
		case errors.Is(err, context.Canceled):
			return Result{}, eris.Wrap(err, "predict: request canceled")
		case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
			return Result{}, resilience.Upstream("model", 0, eris.Wrap(ErrTimeout, err.Error()))
		default:
			return Result{}, resilience.Upstream("model", 0, eris.Wrap(ErrUnavailable, err.Error()))
		}
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, eris.Wrap(ErrMalformedResponse, err.Error())
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resilience.OutageStatus(resp.StatusCode):
		zap.L().Warn("model service error",
			zap.String("endpoint", r.endpoint),
			zap.Int("status", resp.StatusCode),
		)
		return Result{}, resilience.Upstream("model", resp.StatusCode,
			eris.Wrapf(ErrUnavailable, "status %d", resp.StatusCode))
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return Result{}, eris.Wrapf(ErrInvalidInput, "status %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	default:
		return Result{}, eris.Wrapf(ErrUnavailable, "status %d", resp.StatusCode)
	}

	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return Result{}, eris.Wrap(ErrMalformedResponse, err.Error())
	}
	if res.Density < 0 || res.Density > 1 || res.MAE < 0 || res.RMSE < 0 {
		return Result{}, eris.Wrapf(ErrMalformedResponse,
			"out of range: density=%v mae=%v rmse=%v", res.Density, res.MAE, res.RMSE)
	}
	return res, nil
}
