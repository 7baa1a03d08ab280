package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Calls tracks outcomes and latency of calls to one upstream.
type Calls struct {
	Total    Counter
	Failures Counter
	Refused  Counter

	mu   sync.Mutex
	last time.Duration
	peak time.Duration
}

// Observe records a finished call.
func (c *Calls) Observe(d time.Duration, failed bool) {
	c.Total.Inc()
	if failed {
		c.Failures.Inc()
	}

	c.mu.Lock()
	c.last = d
	if d > c.peak {
		c.peak = d
	}
	c.mu.Unlock()
}

// Snapshot is a point-in-time copy of Calls.
type Snapshot struct {
	Total     uint64  `json:"total"`
	Failures  uint64  `json:"failures"`
	Refused   uint64  `json:"refused"`
	LastMs    float64 `json:"last_ms"`
	MaxMs     float64 `json:"max_ms"`
	ErrorRate float64 `json:"error_rate"`
}

func (c *Calls) Snapshot() Snapshot {
	c.mu.Lock()
	last, peak := c.last, c.peak
	c.mu.Unlock()

	s := Snapshot{
		Total:    c.Total.Load(),
		Failures: c.Failures.Load(),
		Refused:  c.Refused.Load(),
		LastMs:   float64(last) / float64(time.Millisecond),
		MaxMs:    float64(peak) / float64(time.Millisecond),
	}
	if s.Total > 0 {
		s.ErrorRate = float64(s.Failures) / float64(s.Total)
	}
	return s
}
