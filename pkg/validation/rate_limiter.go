package validation

import (
	"sync"
	"time"
)

// LogLimiter is a token bucket limiter for per-agent diagnostic output.
// User scripts can log arbitrarily from their callbacks; the limiter
// keeps a noisy script from drowning the operator console.
type LogLimiter struct {
	maxLines int
	window   time.Duration
	agents   map[uint64]*agentBucket
	mu       sync.Mutex
}

// agentBucket tracks the remaining budget for a single agent.
type agentBucket struct {
	tokens     float64
	lastRefill time.Time
}

// NewLogLimiter creates a limiter allowing maxLines per window per agent.
func NewLogLimiter(maxLines int, window time.Duration) *LogLimiter {
	return &LogLimiter{
		maxLines: maxLines,
		window:   window,
		agents:   make(map[uint64]*agentBucket),
	}
}

// Allow reports whether the given agent may emit another line now.
func (l *LogLimiter) Allow(agentID uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	bucket, ok := l.agents[agentID]
	if !ok {
		bucket = &agentBucket{tokens: float64(l.maxLines), lastRefill: now}
		l.agents[agentID] = bucket
	}

	// Continuous refill proportional to elapsed window fraction.
	elapsed := now.Sub(bucket.lastRefill)
	if elapsed > 0 {
		bucket.tokens += float64(l.maxLines) * float64(elapsed) / float64(l.window)
		if bucket.tokens > float64(l.maxLines) {
			bucket.tokens = float64(l.maxLines)
		}
		bucket.lastRefill = now
	}

	if bucket.tokens >= 1 {
		bucket.tokens--
		return true
	}
	return false
}

// Forget drops the bucket of a retired agent.
func (l *LogLimiter) Forget(agentID uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.agents, agentID)
}
