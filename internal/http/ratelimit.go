package http

import (
	"sync"
	"sync/atomic"
	"time"
)

// Save posts are cheap but write to storage and may publish to the
// broker, so they are throttled per client IP. Operators at one station
// often share a single NAT address, hence the generous budget.
const (
	postBudget      = 60
	postWindow      = time.Minute
	staleClientAge  = 10 * time.Minute
	cleanupInterval = 5 * time.Minute
)

type clientWindow struct {
	windowStart time.Time
	count       int
}

// rateLimiter counts POST requests per client IP over a sliding window.
type rateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientWindow
	stopCh   chan struct{}
	stopOnce sync.Once
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients: make(map[string]*clientWindow),
		stopCh:  make(chan struct{}),
	}
	go rl.runCleanup()
	return rl
}

func (rl *rateLimiter) runCleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.dropStaleClients()
		case <-rl.stopCh:
			return
		}
	}
}

// dropStaleClients forgets IPs that have not posted recently, bounding
// the map on long-running servers.
func (rl *rateLimiter) dropStaleClients() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-staleClientAge)
	for ip, c := range rl.clients {
		if c.windowStart.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// stop terminates the cleanup goroutine. Safe to call more than once.
func (rl *rateLimiter) stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCh)
	})
}

// allow reports whether the client may post now, counting the attempt
// either way.
func (rl *rateLimiter) allow(clientIP string, metrics *securityMetrics) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	c, ok := rl.clients[clientIP]
	if !ok || now.Sub(c.windowStart) > postWindow {
		rl.clients[clientIP] = &clientWindow{windowStart: now, count: 1}
		return true
	}

	c.count++
	if c.count > postBudget {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimitHits, 1)
		}
		return false
	}
	return true
}
