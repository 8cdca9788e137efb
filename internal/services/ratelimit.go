package services

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IPRateLimiter hands out one token bucket per client IP.
type IPRateLimiter struct {
	ips    map[string]*rate.Limiter
	mu     sync.Mutex
	r      rate.Limit
	b      int
	logger *slog.Logger
}

func NewIPRateLimiter(r rate.Limit, b int, logger *slog.Logger) *IPRateLimiter {
	return &IPRateLimiter{
		ips:    make(map[string]*rate.Limiter),
		r:      r,
		b:      b,
		logger: logger,
	}
}

// StartCleanup drops the whole map once it grows past 10k entries.
// Coarse, but limiters are cheap to recreate.
func (i *IPRateLimiter) StartCleanup(interval time.Duration) {
	go func() {
		for {
			time.Sleep(interval)
			i.mu.Lock()
			if len(i.ips) > 10000 {
				i.logger.Info("Cleaning up rate limiter map", "count", len(i.ips))
				i.ips = make(map[string]*rate.Limiter)
			}
			i.mu.Unlock()
		}
	}()
}

// GetLimiter returns the limiter for an IP, creating it on first use.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, exists := i.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = limiter
	}
	return limiter
}
