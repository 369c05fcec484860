package router

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/sagarsuperuser/useradmin/errdefs"
	"github.com/sagarsuperuser/useradmin/internal/httputil"
)

const (
	limiterIdleExpiry   = 10 * time.Minute
	limiterCleanupEvery = time.Minute
)

var ErrRateLimited = errors.New("too many requests, slow down")

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// clientLimiters keeps one token bucket per client IP.
type clientLimiters struct {
	mu          sync.Mutex
	limit       rate.Limit
	burst       int
	clients     map[string]*clientLimiter
	lastCleanup time.Time
	now         func() time.Time
}

func newClientLimiters(perSecond float64, burst int) *clientLimiters {
	return &clientLimiters{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

func (c *clientLimiters) allow(ip string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastCleanup) > limiterCleanupEvery {
		for key, cl := range c.clients {
			if now.Sub(cl.lastAccess) > limiterIdleExpiry {
				delete(c.clients, key)
			}
		}
		c.lastCleanup = now
	}

	cl, ok := c.clients[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.clients[ip] = cl
	}
	cl.lastAccess = now
	return cl.limiter.AllowN(now, 1)
}

// RateLimit wraps a route with a per client IP token bucket refilling
// perSecond tokens up to burst. A non-positive rate disables the limit.
func RateLimit(perSecond float64, burst int) RouteWrapper {
	if perSecond <= 0 {
		return func(r Route) Route { return r }
	}
	limiters := newClientLimiters(perSecond, max(burst, 1))
	return rateLimit(limiters)
}

func rateLimit(limiters *clientLimiters) RouteWrapper {
	return Wrap(func(next httputil.APIFunc) httputil.APIFunc {
		return func(ctx context.Context, rw http.ResponseWriter, req *http.Request, vars map[string]string) error {
			ip := httputil.ClientIP(req)
			if !limiters.allow(ip) {
				zerolog.Ctx(ctx).Warn().Str("ip", ip).Str("path", req.URL.Path).Msg("rate limit exceeded")
				rw.Header().Set("Retry-After", "1")
				return errdefs.TooManyRequests(ErrRateLimited)
			}
			return next(ctx, rw, req, vars)
		}
	})
}
