package target

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig defines the stand-in's per-client rate limiting.
type RateLimitConfig struct {
	RPS             float64       // Sustained requests per second per client
	Burst           int           // Burst size per client
	CleanupInterval time.Duration // How often idle limiters are dropped
}

// DefaultRateLimitConfig keeps the limiter tight enough that a ten-request
// burst reliably trips it, which is what the rate-limit scenarios observe.
var DefaultRateLimitConfig = RateLimitConfig{
	RPS:             2,
	Burst:           5,
	CleanupInterval: time.Minute,
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// clientLimiter manages one token bucket per client key (remote address).
type clientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	config   RateLimitConfig

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func newClientLimiter(config RateLimitConfig) *clientLimiter {
	cl := &clientLimiter{
		limiters: make(map[string]*limiterEntry),
		config:   config,
		stopCh:   make(chan struct{}),
	}
	cl.wg.Add(1)
	go cl.cleanupLoop()
	return cl
}

// Allow reports whether a request from the given client is within limits.
func (cl *clientLimiter) Allow(clientKey string) bool {
	cl.mu.Lock()
	entry, exists := cl.limiters[clientKey]
	if !exists {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(cl.config.RPS), cl.config.Burst),
		}
		cl.limiters[clientKey] = entry
	}
	entry.lastUsed = time.Now()
	cl.mu.Unlock()

	return entry.limiter.Allow()
}

func (cl *clientLimiter) cleanupLoop() {
	defer cl.wg.Done()
	ticker := time.NewTicker(cl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-cl.stopCh:
			return
		case <-ticker.C:
			cl.cleanup()
		}
	}
}

func (cl *clientLimiter) cleanup() {
	cutoff := time.Now().Add(-cl.config.CleanupInterval)
	cl.mu.Lock()
	defer cl.mu.Unlock()
	for key, entry := range cl.limiters {
		if entry.lastUsed.Before(cutoff) {
			delete(cl.limiters, key)
		}
	}
}

// Stop terminates the cleanup goroutine.
func (cl *clientLimiter) Stop() {
	close(cl.stopCh)
	cl.wg.Wait()
}
