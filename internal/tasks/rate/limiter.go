package rate

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type RateLimit struct {
	Window      time.Duration // e.g., 1 minute, 1 hour
	MaxAttempts int           // max attempts per window
}

// LoginRateLimiter is a Redis sliding-window limiter for credential
// endpoints, keyed by email and source address so one caller cannot burn
// another caller's budget.
type LoginRateLimiter struct {
	redis *redis.Client
	limit RateLimit
}

func NewLoginRateLimiter(redis *redis.Client, limit RateLimit) *LoginRateLimiter {
	return &LoginRateLimiter{
		redis: redis,
		limit: limit,
	}
}

// Allow reports whether the identifier may attempt another login. On Redis
// errors the limiter fails open so an outage cannot lock everyone out.
func (l *LoginRateLimiter) Allow(ctx context.Context, email, ipAddress string) (bool, error) {
	key := fmt.Sprintf("login_rate_limit:%s:%s", email, ipAddress)

	pipe := l.redis.Pipeline()
	now := time.Now().Unix()
	windowStart := now - int64(l.limit.Window.Seconds())

	// Remove old entries
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))

	// Count current window
	pipe.ZCard(ctx, key)

	// Add new entry
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})

	// Set expiration
	pipe.Expire(ctx, key, l.limit.Window*2)

	results, err := pipe.Exec(ctx)
	if err != nil {
		return true, fmt.Errorf("redis pipeline error: %w", err)
	}

	count := results[1].(*redis.IntCmd).Val()
	return count <= int64(l.limit.MaxAttempts), nil
}

// Reset clears the window after a successful login.
func (l *LoginRateLimiter) Reset(ctx context.Context, email, ipAddress string) {
	key := fmt.Sprintf("login_rate_limit:%s:%s", email, ipAddress)
	l.redis.Del(ctx, key)
}
