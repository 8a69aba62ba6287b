package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Varun5711/deeplinks/internal/fingerprint"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 5 * time.Minute

// RateLimiter enforces a per-IP request budget. With a redis client it keeps
// a sliding window shared across instances; without one it falls back to an
// in-process token bucket per IP.
//
// Forwarding headers are only honoured when trustProxy is set, i.e. the
// server sits behind a proxy that overwrites them. Otherwise a client could
// pick a fresh X-Forwarded-For per request and never be limited.
type RateLimiter struct {
	redis      *redis.Client
	limit      int
	window     time.Duration
	keyPrefix  string
	trustProxy bool

	mu       sync.Mutex
	limiters map[string]*localLimiter
	now      func() time.Time
}

type localLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

// NewRateLimiter builds a limiter; redisClient may be nil.
func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration, trustProxy bool) *RateLimiter {
	return &RateLimiter{
		redis:      redisClient,
		limit:      limit,
		window:     window,
		keyPrefix:  "ratelimit:",
		trustProxy: trustProxy,
		limiters:   make(map[string]*localLimiter),
		now:        time.Now,
	}
}

func (rl *RateLimiter) clientKey(r *http.Request) string {
	if rl.trustProxy {
		return fingerprint.ClientIP(r)
	}
	return fingerprint.RemoteIP(r)
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	if rl.limit <= 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := rl.clientKey(r)

		var (
			allowed   bool
			remaining int
			resetTime time.Time
		)
		if rl.redis != nil {
			allowed, remaining, resetTime = rl.allowRequest(r.Context(), rl.keyPrefix+clientIP)
		} else {
			allowed, remaining, resetTime = rl.allowLocal(clientIP)
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			retryAfter := int(resetTime.Sub(rl.now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allowRequest fails open when redis is unreachable.
func (rl *RateLimiter) allowRequest(ctx context.Context, key string) (bool, int, time.Time) {
	now := rl.now()
	windowStart := now.Add(-rl.window)

	pipe := rl.redis.Pipeline()

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart.UnixNano()))

	zcard := pipe.ZCard(ctx, key)

	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.NewString(),
	})

	pipe.Expire(ctx, key, rl.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return true, rl.limit, now.Add(rl.window)
	}

	count := int(zcard.Val())

	if count >= rl.limit {
		resetTime := now.Add(rl.window)
		oldest, err := rl.redis.ZRangeWithScores(ctx, key, 0, 0).Result()
		if err == nil && len(oldest) > 0 {
			resetTime = time.Unix(0, int64(oldest[0].Score)).Add(rl.window)
		}
		return false, 0, resetTime
	}

	remaining := rl.limit - count - 1
	if remaining < 0 {
		remaining = 0
	}

	return true, remaining, now.Add(rl.window)
}

func (rl *RateLimiter) allowLocal(ip string) (bool, int, time.Time) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, l := range rl.limiters {
		if now.After(l.expires) {
			delete(rl.limiters, key)
		}
	}

	l, ok := rl.limiters[ip]
	if !ok {
		l = &localLimiter{
			limiter: rate.NewLimiter(rate.Every(rl.window/time.Duration(rl.limit)), rl.limit),
		}
		rl.limiters[ip] = l
	}
	l.expires = now.Add(limiterIdleTTL)

	allowed := l.limiter.AllowN(now, 1)
	remaining := int(l.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}

	return allowed, remaining, now.Add(rl.window)
}
