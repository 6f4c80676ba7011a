// ABOUTME: API key pool with per-key rolling-window rate accounting
// ABOUTME: Selection favors the key with the most remaining budget
package llm

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Sentinel errors surfaced to the engine.
var (
	// ErrRateLimited means every key is exhausted or cooling down and
	// the wait would exceed the caller's deadline.
	ErrRateLimited = errors.New("llm: all api keys rate limited")
	// ErrUnavailable means the provider kept failing after retries.
	ErrUnavailable = errors.New("llm: provider unavailable")
)

type keyState struct {
	key           string
	windowStart   time.Time
	count         int
	cooldownUntil time.Time
}

// Pool tracks request budgets across API keys. Each key gets its own
// rolling window; a window restarts once its duration has fully passed.
type Pool struct {
	mu     sync.Mutex
	keys   []*keyState
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewPool creates a pool over keys with a per-key budget of limit
// requests per window.
func NewPool(keys []string, limit int, window time.Duration) *Pool {
	p := &Pool{limit: limit, window: window, now: time.Now}
	for _, k := range keys {
		p.keys = append(p.keys, &keyState{key: k})
	}
	return p
}

// Acquire reserves one request slot and returns the key to use. When
// every key is exhausted it waits for the earliest slot, bounded by the
// context deadline; an unmeetable wait returns ErrRateLimited at once.
func (p *Pool) Acquire(ctx context.Context) (string, error) {
	for {
		key, wait := p.tryAcquire()
		if key != "" {
			return key, nil
		}

		if deadline, ok := ctx.Deadline(); ok && p.now().Add(wait).After(deadline) {
			return "", ErrRateLimited
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ErrRateLimited
		case <-timer.C:
		}
	}
}

// tryAcquire picks the usable key with the most remaining budget. When
// none is usable it returns the shortest wait until one frees up.
func (p *Pool) tryAcquire() (string, time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	var best *keyState
	bestRemaining := -1
	minWait := p.window

	for _, ks := range p.keys {
		if now.Before(ks.cooldownUntil) {
			if w := ks.cooldownUntil.Sub(now); w < minWait {
				minWait = w
			}
			continue
		}
		if !ks.windowStart.IsZero() && now.Sub(ks.windowStart) >= p.window {
			ks.windowStart = time.Time{}
			ks.count = 0
		}
		remaining := p.limit - ks.count
		if remaining <= 0 {
			if w := ks.windowStart.Add(p.window).Sub(now); w < minWait {
				minWait = w
			}
			continue
		}
		if remaining > bestRemaining {
			bestRemaining = remaining
			best = ks
		}
	}

	if best == nil {
		if minWait < time.Millisecond {
			minWait = time.Millisecond
		}
		return "", minWait
	}

	if best.windowStart.IsZero() {
		best.windowStart = now
	}
	best.count++
	return best.key, 0
}

// ReportLimited puts a key on cooldown after the provider returned a
// rate-limit response, regardless of local accounting.
func (p *Pool) ReportLimited(key string, cooldown time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cooldown <= 0 {
		cooldown = p.window
	}
	for _, ks := range p.keys {
		if ks.key == key {
			ks.cooldownUntil = p.now().Add(cooldown)
			return
		}
	}
}

// Remaining reports the total unspent budget across keys, for status
// display.
func (p *Pool) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	total := 0
	for _, ks := range p.keys {
		if now.Before(ks.cooldownUntil) {
			continue
		}
		if !ks.windowStart.IsZero() && now.Sub(ks.windowStart) >= p.window {
			total += p.limit
			continue
		}
		if r := p.limit - ks.count; r > 0 {
			total += r
		}
	}
	return total
}
