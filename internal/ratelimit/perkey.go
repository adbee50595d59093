package ratelimit

import (
	"sync"
	"time"
)

// PerKeyLimiterConfig configures a PerKeyLimiter.
type PerKeyLimiterConfig struct {
	MaxTokens     float64       // burst capacity per key
	RefillRate    float64       // tokens refilled per second
	CleanupPeriod time.Duration // how often idle buckets are dropped
}

// PerKeyLimiter keeps one token bucket per chat JID. Buckets are
// created lazily on first use and discarded once they refill back to
// capacity, so the map only holds chats that recently hit the fallback.
type PerKeyLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*Limiter
	config   PerKeyLimiterConfig
	onDrop   func()
	stopCh   chan struct{}
}

// NewPerKeyLimiter creates the limiter and starts its cleanup loop.
// Call Stop to end the loop.
func NewPerKeyLimiter(cfg PerKeyLimiterConfig) *PerKeyLimiter {
	pkl := &PerKeyLimiter{
		limiters: make(map[string]*Limiter),
		config:   cfg,
		stopCh:   make(chan struct{}),
	}

	go pkl.cleanupLoop()

	return pkl
}

// OnDrop registers a callback invoked every time a request is rejected.
func (pkl *PerKeyLimiter) OnDrop(fn func()) {
	pkl.onDrop = fn
}

// Allow consumes one token for key. An empty key is never limited.
func (pkl *PerKeyLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}

	pkl.mu.RLock()
	limiter, exists := pkl.limiters[key]
	pkl.mu.RUnlock()

	if !exists {
		pkl.mu.Lock()
		// Re-check under the write lock
		limiter, exists = pkl.limiters[key]
		if !exists {
			limiter = New(pkl.config.MaxTokens, pkl.config.RefillRate)
			pkl.limiters[key] = limiter
		}
		pkl.mu.Unlock()
	}

	allowed := limiter.Allow()
	if !allowed && pkl.onDrop != nil {
		pkl.onDrop()
	}
	return allowed
}

// GetAvailable returns the remaining tokens for key, or the full
// budget when the key has no bucket yet.
func (pkl *PerKeyLimiter) GetAvailable(key string) float64 {
	if key == "" {
		return pkl.config.MaxTokens
	}

	pkl.mu.RLock()
	limiter, exists := pkl.limiters[key]
	pkl.mu.RUnlock()

	if !exists {
		return pkl.config.MaxTokens
	}

	return limiter.Available()
}

// GetActiveCount returns how many keys currently hold a bucket.
func (pkl *PerKeyLimiter) GetActiveCount() int {
	pkl.mu.RLock()
	defer pkl.mu.RUnlock()
	return len(pkl.limiters)
}

func (pkl *PerKeyLimiter) cleanupLoop() {
	ticker := time.NewTicker(pkl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-pkl.stopCh:
			return
		case <-ticker.C:
			pkl.mu.Lock()
			for key, limiter := range pkl.limiters {
				if limiter.IsFull() {
					delete(pkl.limiters, key)
				}
			}
			pkl.mu.Unlock()
		}
	}
}

// Stop ends the cleanup goroutine. Safe to call multiple times.
func (pkl *PerKeyLimiter) Stop() {
	select {
	case <-pkl.stopCh:
		// already stopped
	default:
		close(pkl.stopCh)
	}
}
