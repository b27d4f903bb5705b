package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotInitialized is returned by the helpers when InitFromEnv never ran.
var ErrNotInitialized = errors.New("redis client not initialized")

var Client *redis.Client

// InitFromEnv connects using REDIS_URL, VALKEY_URL (rediss:// for TLS) or
// REDIS_ADDR, in that order.
func InitFromEnv() error {
	redisURL := os.Getenv("REDIS_URL")
	valkeyURL := os.Getenv("VALKEY_URL")

	var opt *redis.Options
	switch {
	case redisURL != "":
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		opt = parsed
	case valkeyURL != "":
		parsed, err := redis.ParseURL(valkeyURL)
		if err != nil {
			return fmt.Errorf("failed to parse VALKEY_URL: %w", err)
		}
		opt = parsed
	default:
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}
		opt = &redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
			Username: os.Getenv("REDIS_USERNAME"),
		}
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to redis/valkey: %w", err)
	}

	Client = client
	return nil
}

// Get returns "" with a nil error on a miss.
func Get(ctx context.Context, key string) (string, error) {
	if Client == nil {
		return "", ErrNotInitialized
	}

	val, err := Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if Client == nil {
		return ErrNotInitialized
	}
	return Client.Set(ctx, key, value, ttl).Err()
}

// GetJSON decodes a cached value into dst and reports whether it was found.
func GetJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, err := Get(ctx, key)
	if err != nil || raw == "" {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return Set(ctx, key, payload, ttl)
}

func Delete(ctx context.Context, keys ...string) error {
	if Client == nil || len(keys) == 0 {
		return nil
	}
	return Client.Del(ctx, keys...).Err()
}

func DeleteByPrefix(ctx context.Context, prefix string) error {
	if Client == nil {
		return nil
	}

	var cursor uint64
	for {
		keys, next, err := Client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := Client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return nil
}
