package predict

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Upper bounds of the synthetic error metrics.
const (
	maxMAE  = 0.2
	maxRMSE = 0.3
)

// Stub is a placeholder Predictor: every field is drawn independently from
// a uniform distribution and the features are ignored.
type Stub struct {
	latency time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// StubOption configures a Stub.
type StubOption func(*Stub)

// WithLatency makes every prediction wait d before answering. Zero disables it.
func WithLatency(d time.Duration) StubOption {
	return func(s *Stub) {
		s.latency = d
	}
}

// WithSeed makes the output sequence reproducible.
func WithSeed(seed uint64) StubOption {
	return func(s *Stub) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// NewStub creates a Stub seeded from the runtime source.
func NewStub(opts ...StubOption) *Stub {
	s := &Stub{
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Predict implements Predictor.
func (s *Stub) Predict(ctx context.Context, pc Context) (Result, error) {
	zap.L().Debug("stub prediction requested",
		zap.String("area", pc.Area),
		zap.String("hour", pc.Hour),
		zap.String("day", pc.Day),
		zap.String("weather", pc.Weather),
	)

	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		select {
		case <-ctx.Done():
			timer.Stop()
			if errors.Is(ctx.Err(), context.Canceled) {
				return Result{}, eris.Wrap(ctx.Err(), "predict: request canceled")
			}
			return Result{}, eris.Wrap(ErrTimeout, ctx.Err().Error())
		case <-timer.C:
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return Result{
		Density: s.rng.Float64(),
		MAE:     s.rng.Float64() * maxMAE,
		RMSE:    s.rng.Float64() * maxRMSE,
	}, nil
}
