package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/petstoryclub/petstory-backend/config"
	"github.com/petstoryclub/petstory-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

const cartCountTTL = 24 * time.Hour

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

func cartCountKey(userID uint) string {
	return fmt.Sprintf("cart:count:%d", userID)
}

// GetCartCount reads the cached badge count for a user. The second return
// is false on a cache miss or when Redis is unavailable; callers fall back
// to the database.
func GetCartCount(ctx context.Context, userID uint) (int64, bool) {
	if client == nil {
		return 0, false
	}

	val, err := client.Get(ctx, cartCountKey(userID)).Int64()
	if err == redis.Nil {
		return 0, false
	}
	if err != nil {
		logger.Error("Failed to read cart count from cache", err, map[string]interface{}{
			"user_id": userID,
		})
		return 0, false
	}
	return val, true
}

// SetCartCount caches the badge count. Failures are logged and swallowed;
// the cache is advisory.
func SetCartCount(ctx context.Context, userID uint, count int64) {
	if client == nil {
		return
	}

	if err := client.Set(ctx, cartCountKey(userID), count, cartCountTTL).Err(); err != nil {
		logger.Error("Failed to cache cart count", err, map[string]interface{}{
			"user_id": userID,
		})
	}
}

// ResetCartCount drops the cached count after any cart mutation so the next
// read recomputes from the database.
func ResetCartCount(ctx context.Context, userID uint) {
	if client == nil {
		return
	}

	if err := client.Del(ctx, cartCountKey(userID)).Err(); err != nil {
		logger.Error("Failed to reset cart count cache", err, map[string]interface{}{
			"user_id": userID,
		})
	}
}
