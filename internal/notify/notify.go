// Package notify keeps transient on-screen notifications. Each one expires a
// fixed time after it was posted, regardless of what else happens.
package notify

import (
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 3 * time.Second

// Severity classifies a notification.
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Warning Severity = "warning"
	Info    Severity = "info"
)

// ParseSeverity validates a severity name.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(s) {
	case Success, Error, Warning, Info:
		return Severity(s), nil
	default:
		return "", eris.Errorf("notify: unknown severity %q", s)
	}
}

// Notification is one visible message.
type Notification struct {
	ID        uint64    `json:"id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	PostedAt  time.Time `json:"posted_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Queue is an append-only stack of notifications. Safe for concurrent use.
type Queue struct {
	ttl time.Duration

	mu      sync.Mutex
	nextID  uint64
	entries []Notification
	timers  map[uint64]*time.Timer

	nowFunc   func() time.Time
	afterFunc func(d time.Duration, f func()) *time.Timer
}

// Option configures a Queue.
type Option func(*Queue)

// WithTTL overrides the notification lifetime.
func WithTTL(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.ttl = d
		}
	}
}

// WithClock injects a time source. Expiry is then judged against now() on
// every read, so tests do not depend on timers firing.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) {
		q.nowFunc = now
	}
}

// NewQueue creates an empty queue.
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		ttl:       DefaultTTL,
		timers:    make(map[uint64]*time.Timer),
		nowFunc:   time.Now,
		afterFunc: time.AfterFunc,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Notify posts a message and schedules its removal.
func (q *Queue) Notify(message string, severity Severity) Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.nextID++
	now := q.nowFunc()
	n := Notification{
		ID:        q.nextID,
		Message:   message,
		Severity:  severity,
		PostedAt:  now,
		ExpiresAt: now.Add(q.ttl),
	}
	q.entries = append(q.entries, n)

	id := n.ID
	q.timers[id] = q.afterFunc(q.ttl, func() { q.remove(id) })

	zap.L().Debug("notification posted",
		zap.Uint64("id", id),
		zap.String("severity", string(severity)),
		zap.String("message", message),
	)
	return n
}

// Active returns the notifications still visible, oldest first.
func (q *Queue) Active() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.nowFunc()
	out := make([]Notification, 0, len(q.entries))
	for _, n := range q.entries {
		if now.Before(n.ExpiresAt) {
			out = append(out, n)
		}
	}
	return out
}

// Len returns the number of visible notifications.
func (q *Queue) Len() int {
	return len(q.Active())
}

// Close stops pending removal timers and drops every notification.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for id, t := range q.timers {
		t.Stop()
		delete(q.timers, id)
	}
	q.entries = nil
}

func (q *Queue) remove(id uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.timers, id)
	for i, n := range q.entries {
		if n.ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return
		}
	}
}
