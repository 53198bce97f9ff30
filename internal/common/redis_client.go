package common

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"devcircle/rollcall/internal/config"
	"devcircle/rollcall/internal/logging"
)

// NewRedisClient builds the shared Redis client. A failed ping is logged but
// the client is still returned: the pool reconnects on its own, and every
// Redis consumer here degrades gracefully without it.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logging.Warn("redis ping failed", "addr", cfg.Addr(), "error", err.Error())
		return client
	}

	logging.Info("connected to redis", "addr", cfg.Addr())
	return client
}
