package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = Upstream("model", 503, errors.New("service unavailable"))

func newTestBreaker(threshold int, reset time.Duration) (*Breaker, *time.Time) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	b := NewBreaker(BreakerConfig{Name: "test", FailureThreshold: threshold, ResetTimeout: reset})
	b.nowFunc = func() time.Time { return now }
	return b, &now
}

func fail(context.Context) error    { return errUpstream }
func succeed(context.Context) error { return nil }

func TestBreaker_ClosedPassesThrough(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)

	calls := 0
	err := b.Execute(context.Background(), func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, Closed, b.State())
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)

	for i := 0; i < 3; i++ {
		_ = b.Execute(context.Background(), fail)
	}
	assert.Equal(t, Open, b.State())

	err := b.Execute(context.Background(), func(context.Context) error {
		t.Error("should not be called when circuit is open")
		return nil
	})
	assert.ErrorIs(t, err, ErrOpen)
}

func TestBreaker_CallerErrorDoesNotTrip(t *testing.T) {
	b, _ := newTestBreaker(2, time.Minute)

	for i := 0; i < 5; i++ {
		_ = b.Execute(context.Background(), func(context.Context) error {
			return errors.New("bad request")
		})
	}
	assert.Equal(t, Closed, b.State())
}

func TestBreaker_SuccessResetsCount(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)

	_ = b.Execute(context.Background(), fail)
	_ = b.Execute(context.Background(), fail)
	_ = b.Execute(context.Background(), succeed)
	_ = b.Execute(context.Background(), fail)
	_ = b.Execute(context.Background(), fail)

	assert.Equal(t, Closed, b.State())
}

func TestBreaker_HalfOpenProbe(t *testing.T) {
	b, now := newTestBreaker(1, 30*time.Second)

	_ = b.Execute(context.Background(), fail)
	require.Equal(t, Open, b.State())

	*now = now.Add(31 * time.Second)
	assert.Equal(t, HalfOpen, b.State())

	// Successful probe closes the circuit.
	require.NoError(t, b.Execute(context.Background(), succeed))
	assert.Equal(t, Closed, b.State())
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b, now := newTestBreaker(1, 30*time.Second)

	_ = b.Execute(context.Background(), fail)
	*now = now.Add(31 * time.Second)

	err := b.Execute(context.Background(), fail)
	assert.ErrorIs(t, err, errUpstream)
	assert.Equal(t, Open, b.State())
}

func TestCall_ReturnsValue(t *testing.T) {
	b, _ := newTestBreaker(1, time.Minute)

	v, err := Call(context.Background(), b, func(context.Context) (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, _ = Call(context.Background(), b, func(context.Context) (int, error) { return 0, errUpstream })
	_, err = Call(context.Background(), b, func(context.Context) (int, error) { return 1, nil })
	assert.ErrorIs(t, err, ErrOpen)
}

func TestFromSettings(t *testing.T) {
	cfg := FromSettings("geocoder", 0, 0)
	assert.Equal(t, "geocoder", cfg.Name)
	assert.Equal(t, 5, cfg.FailureThreshold)
	assert.Equal(t, 30*time.Second, cfg.ResetTimeout)

	cfg = FromSettings("model", 2, 10)
	assert.Equal(t, 2, cfg.FailureThreshold)
	assert.Equal(t, 10*time.Second, cfg.ResetTimeout)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "half-open", HalfOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}
