package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	visitorIdle   = 5 * time.Minute
	cleanupPeriod = time.Minute
)

// IPRateLimiter throttles requests per client IP with a token bucket.
type IPRateLimiter struct {
	visitors sync.Map
	rps      rate.Limit
	burst    int
	log      *zap.Logger
	stop     chan struct{}
	once     sync.Once
}

type visitor struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

func (v *visitor) touch(now time.Time) {
	v.mu.Lock()
	v.lastSeen = now
	v.mu.Unlock()
}

func (v *visitor) idleSince(cutoff time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastSeen.Before(cutoff)
}

// NewIPRateLimiter allows perMinute requests per IP with a burst of up to 5.
// Call Stop to end the cleanup goroutine.
func NewIPRateLimiter(perMinute int, logger *zap.Logger) *IPRateLimiter {
	burst := 5
	if perMinute < burst {
		burst = perMinute
	}
	if burst < 1 {
		burst = 1
	}
	l := &IPRateLimiter{
		rps:   rate.Limit(float64(perMinute) / 60.0),
		burst: burst,
		log:   logger,
		stop:  make(chan struct{}),
	}
	go l.cleanupVisitors()
	return l
}

func (l *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	now := time.Now()
	v, loaded := l.visitors.LoadOrStore(ip, &visitor{limiter: rate.NewLimiter(l.rps, l.burst), lastSeen: now})
	vi := v.(*visitor)
	if loaded {
		vi.touch(now)
	}
	return vi.limiter
}

func (l *IPRateLimiter) cleanupVisitors() {
	ticker := time.NewTicker(cleanupPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-visitorIdle)
			l.visitors.Range(func(k, v interface{}) bool {
				if v.(*visitor).idleSince(cutoff) {
					l.visitors.Delete(k)
				}
				return true
			})
		}
	}
}

// Stop ends the background cleanup.
func (l *IPRateLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

// Middleware rejects requests over the limit with 429.
func (l *IPRateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			if !l.getLimiter(ip).Allow() {
				l.log.Warn("rate limit exceeded", zap.String("ip", ip), zap.String("path", c.Path()))
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
