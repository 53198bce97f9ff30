package common

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"devcircle/rollcall/internal/constants"
	"devcircle/rollcall/internal/logging"
)

// RequestLimiter bounds how many access requests a user may make inside a
// rolling window. It defends the coordinator against retry storms, so it runs
// before any event lookup.
type RequestLimiter interface {
	Allow(ctx context.Context, userID string) (bool, error)
}

// RedisRequestLimiter counts requests per user in Redis fixed windows
// (INCR + EXPIRE). Shared across instances; a Redis outage fails open so
// access requests keep working without Redis.
type RedisRequestLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisRequestLimiter(client *redis.Client, limit int, window time.Duration) *RedisRequestLimiter {
	// Window keys divide by the window length, so zero is never allowed in.
	if window <= 0 {
		window = 5 * time.Minute
	}
	if limit <= 0 {
		limit = 10
	}
	return &RedisRequestLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

var _ RequestLimiter = (*RedisRequestLimiter)(nil)

func (l *RedisRequestLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	key := fmt.Sprintf("%s%s:%d", constants.RateLimitKeyPrefix, userID,
		time.Now().Unix()/int64(l.window.Seconds()))

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		logging.Warn("rate limiter redis error, failing open",
			"user_id", userID,
			"error", err.Error(),
		)
		return true, nil
	}

	if count == 1 {
		// First hit in this window owns the expiry.
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			logging.Warn("rate limiter expire failed", "key", key, "error", err.Error())
		}
	}

	return count <= int64(l.limit), nil
}
