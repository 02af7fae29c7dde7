package predict

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStub_RangesHold(t *testing.T) {
	s := NewStub()
	for i := 0; i < 1000; i++ {
		res, err := s.Predict(context.Background(), Context{Area: "Ameerpet"})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Density, 0.0)
		assert.Less(t, res.Density, 1.0)
		assert.GreaterOrEqual(t, res.MAE, 0.0)
		assert.Less(t, res.MAE, maxMAE)
		assert.GreaterOrEqual(t, res.RMSE, 0.0)
		assert.Less(t, res.RMSE, maxRMSE)
	}
}

func TestStub_SeedIsReproducible(t *testing.T) {
	a := NewStub(WithSeed(7))
	b := NewStub(WithSeed(7))

	for i := 0; i < 10; i++ {
		ra, err := a.Predict(context.Background(), Context{})
		require.NoError(t, err)
		rb, err := b.Predict(context.Background(), Context{})
		require.NoError(t, err)
		assert.Equal(t, ra, rb)
	}
}

func TestStub_IgnoresFeatures(t *testing.T) {
	a := NewStub(WithSeed(3))
	b := NewStub(WithSeed(3))

	ra, _ := a.Predict(context.Background(), Context{Area: "Miyapur", Weather: "rainy", PeakHours: "yes"})
	rb, _ := b.Predict(context.Background(), Context{Area: "Madhapur", Weather: "sunny", PeakHours: "no"})
	assert.Equal(t, ra, rb)
}

func TestStub_LatencyHonoursContext(t *testing.T) {
	s := NewStub(WithLatency(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.Predict(ctx, Context{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestStub_LatencyWaits(t *testing.T) {
	s := NewStub(WithLatency(20 * time.Millisecond))

	start := time.Now()
	_, err := s.Predict(context.Background(), Context{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestStub_CancelIsNotTimeout(t *testing.T) {
	s := NewStub(WithLatency(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Predict(ctx, Context{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}
