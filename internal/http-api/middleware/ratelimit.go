package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterSweepInterval = time.Minute
	limiterIdleAfter     = 10 * time.Minute
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters is a per-IP token bucket registry. Idle entries are swept so
// the map does not grow with every IP the process has ever seen.
type clientLimiters struct {
	mu      sync.Mutex
	perSec  float64
	burst   int
	clients map[string]*client
}

func newClientLimiters(perSec float64, burst int) *clientLimiters {
	return &clientLimiters{
		perSec:  perSec,
		burst:   burst,
		clients: make(map[string]*client),
	}
}

func (l *clientLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(l.perSec), l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = time.Now()
	return c.limiter
}

func (l *clientLimiters) sweep(idleAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ip, c := range l.clients {
		if time.Since(c.lastSeen) > idleAfter {
			delete(l.clients, ip)
		}
	}
}

// RateLimit enforces a per-client-IP token bucket. Used on signup, where
// every accepted request dispatches an email.
func RateLimit(perSec float64, burst int) gin.HandlerFunc {
	limiters := newClientLimiters(perSec, burst)

	go func() {
		for range time.Tick(limiterSweepInterval) {
			limiters.sweep(limiterIdleAfter)
		}
	}()

	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
