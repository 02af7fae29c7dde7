package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func TestNotify_ExpiresAfterTTL(t *testing.T) {
	clock := newFakeClock()
	q := NewQueue(WithClock(clock.Now))
	defer q.Close()

	q.Notify("Prediction completed successfully!", Success)
	require.Len(t, q.Active(), 1)

	clock.Advance(2900 * time.Millisecond)
	assert.Len(t, q.Active(), 1, "still visible before 3s")

	clock.Advance(200 * time.Millisecond)
	assert.Empty(t, q.Active(), "gone at T+3.1s")
}

func TestNotify_IndependentLifetimes(t *testing.T) {
	clock := newFakeClock()
	q := NewQueue(WithClock(clock.Now))
	defer q.Close()

	q.Notify("first", Info)
	clock.Advance(2 * time.Second)
	q.Notify("second", Warning)

	active := q.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "first", active[0].Message)
	assert.Equal(t, "second", active[1].Message)

	clock.Advance(1100 * time.Millisecond)
	active = q.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "second", active[0].Message)
}

func TestNotify_NoDeduplication(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	a := q.Notify("same", Error)
	b := q.Notify("same", Error)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, q.Len())
}

func TestNotify_TimerRemovesEntry(t *testing.T) {
	q := NewQueue(WithTTL(20 * time.Millisecond))
	defer q.Close()

	q.Notify("short lived", Info)
	require.Equal(t, 1, q.Len())

	assert.Eventually(t, func() bool {
		q.mu.Lock()
		defer q.mu.Unlock()
		return len(q.entries) == 0 && len(q.timers) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestNotify_ConcurrentPosts(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Notify("msg", Info)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, q.Len())
}

func TestParseSeverity(t *testing.T) {
	for _, s := range []string{"success", "error", "warning", "info"} {
		got, err := ParseSeverity(s)
		require.NoError(t, err)
		assert.Equal(t, Severity(s), got)
	}
	_, err := ParseSeverity("fatal")
	assert.Error(t, err)
}
