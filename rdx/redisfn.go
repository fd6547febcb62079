package rdx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Conn is nil when Redis is not configured; every helper here then
// degrades to a miss or a no-op.
var Conn *redis.Client

var ErrDisabled = errors.New("redis not configured")

func Connect(ctx context.Context, addr, password string, db int) error {
	if addr == "" {
		log.Println("[Redis] no address configured, running without cache and event bus")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	Conn = client
	return nil
}

func Close() {
	if Conn != nil {
		if err := Conn.Close(); err != nil {
			log.Printf("[Redis] close: %v", err)
		}
	}
}

func RdxSet(ctx context.Context, key string, value any, ttl time.Duration) error {
	if Conn == nil {
		return ErrDisabled
	}
	return Conn.Set(ctx, key, value, ttl).Err()
}

func RdxGet(ctx context.Context, key string) (string, error) {
	if Conn == nil {
		return "", ErrDisabled
	}
	return Conn.Get(ctx, key).Result()
}

func RdxDel(ctx context.Context, keys ...string) error {
	if Conn == nil {
		return ErrDisabled
	}
	return Conn.Del(ctx, keys...).Err()
}

// SetJSON caches v as JSON under key.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return RdxSet(ctx, key, data, ttl)
}

// GetJSON loads a cached JSON value. ok is false on a miss.
func GetJSON(ctx context.Context, key string, dst any) (ok bool, err error) {
	raw, err := RdxGet(ctx, key)
	switch {
	case errors.Is(err, redis.Nil), errors.Is(err, ErrDisabled):
		return false, nil
	case err != nil:
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("cached %s: %w", key, err)
	}
	return true, nil
}
