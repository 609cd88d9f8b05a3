package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// Memory is a fixed-window limiter held in process memory.
type Memory struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow counts one call against key. A window opens on the first call and
// admits rule.Limit calls until it expires.
func (m *Memory) Allow(_ context.Context, key string, rule Rule) (Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	k := bucketKey(key, rule)

	w, ok := m.windows[k]
	if !ok || now.After(w.resetAt) {
		w = &window{count: 1, resetAt: now.Add(rule.Window)}
		m.windows[k] = w
		return Decision{Allowed: true, Limit: rule.Limit, Remaining: rule.Limit - 1, ResetAfter: rule.Window}, nil
	}

	if w.count < rule.Limit {
		w.count++
		return Decision{Allowed: true, Limit: rule.Limit, Remaining: rule.Limit - w.count, ResetAfter: w.resetAt.Sub(now)}, nil
	}

	return Decision{Allowed: false, Limit: rule.Limit, Remaining: 0, ResetAfter: w.resetAt.Sub(now)}, nil
}

// TimeUntilReset returns how long until key's window expires, or zero.
func (m *Memory) TimeUntilReset(key string, rule Rule) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[bucketKey(key, rule)]
	if !ok {
		return 0
	}
	if remaining := w.resetAt.Sub(m.now()); remaining > 0 {
		return remaining
	}
	return 0
}

func (m *Memory) Reset(key string, rule Rule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.windows, bucketKey(key, rule))
}

func (m *Memory) ResetAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.windows = make(map[string]*window)
}

// Sweep drops expired windows and returns how many were removed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for k, w := range m.windows {
		if now.After(w.resetAt) {
			delete(m.windows, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked windows.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows)
}
