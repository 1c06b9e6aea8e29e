package middleware

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// MaxLocalCallers bounds the in-process fallback's per-caller buckets.
const MaxLocalCallers = 10000

// RateLimiter counts requests per caller in fixed Redis windows. Without a
// Redis client, or while Redis is failing, it falls back to an in-process
// token bucket per caller, which only limits a single instance.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig

	mu       sync.Mutex
	local    map[string]*rate.Limiter
	maxLocal int
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		redis:    redisClient,
		config:   config,
		local:    make(map[string]*rate.Limiter),
		maxLocal: MaxLocalCallers,
	}
}

// NewRecipeCreationRateLimiter allows 10 new recipes per user per hour.
func NewRecipeCreationRateLimiter(redisClient *redis.Client) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     10,
		KeyPrefix: "rate_limit:recipe_creation",
	})
}

// NewCommentRateLimiter allows 30 comments per user per 10 minutes.
func NewCommentRateLimiter(redisClient *redis.Client) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    10 * time.Minute,
		Limit:     30,
		KeyPrefix: "rate_limit:comment",
	})
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting.
// Authenticated callers are keyed by user id, others by client IP.
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := c.ClientIP()
		if userID, ok := CurrentUserID(c); ok {
			caller = userID.String()
		}

		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), caller)
		if err != nil {
			log.Printf("[RateLimiter] check failed for %s, using in-process limit: %v", caller, err)
			c.Header("X-RateLimit-Error", "rate limit check failed")
			allowed, remaining, resetTime = rl.allowLocal(caller)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"message":     fmt.Sprintf("You have exceeded the rate limit of %d requests per %v", rl.config.Limit, rl.config.Window),
				"retry_after": int(math.Ceil(time.Until(resetTime).Seconds())),
			})
			return
		}

		c.Next()
	}
}

// IsAllowed records one request for caller.
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, caller string) (bool, int, time.Time, error) {
	if rl.redis == nil {
		allowed, remaining, reset := rl.allowLocal(caller)
		return allowed, remaining, reset, nil
	}

	now := time.Now()
	windowStart := now.Truncate(rl.config.Window)
	key := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, caller, windowStart.Unix())

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}

func (rl *RateLimiter) allowLocal(caller string) (bool, int, time.Time) {
	now := time.Now()

	rl.mu.Lock()
	lim, ok := rl.local[caller]
	if !ok {
		if len(rl.local) >= rl.maxLocal {
			rl.evictLocked(now)
		}
		every := rl.config.Window / time.Duration(rl.config.Limit)
		lim = rate.NewLimiter(rate.Every(every), rl.config.Limit)
		rl.local[caller] = lim
	}
	rl.mu.Unlock()

	allowed := lim.AllowN(now, 1)
	tokens := lim.TokensAt(now)
	remaining := int(math.Max(0, math.Floor(tokens)))

	reset := now
	if tokens < 1 {
		wait := time.Duration((1 - tokens) / float64(lim.Limit()) * float64(time.Second))
		reset = now.Add(wait)
	}
	return allowed, remaining, reset
}

// evictLocked drops buckets that have refilled, since they behave exactly like
// new ones. If every bucket is still draining, arbitrary callers are dropped
// until there is room. rl.mu must be held.
func (rl *RateLimiter) evictLocked(now time.Time) {
	for caller, lim := range rl.local {
		if lim.TokensAt(now) >= float64(lim.Burst()) {
			delete(rl.local, caller)
		}
	}
	for caller := range rl.local {
		if len(rl.local) < rl.maxLocal {
			break
		}
		delete(rl.local, caller)
	}
	log.Printf("[RateLimiter] evicted in-process buckets, %d remain", len(rl.local))
}
