package lockout

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "eventgate:lockout:"

// RedisStore shares lockout state across instances. Failure counters and
// locks are separate keys that Redis expires.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: defaultRedisPrefix}
}

func (s *RedisStore) failKey(key string) string { return s.prefix + "fail:" + key }
func (s *RedisStore) lockKey(key string) string { return s.prefix + "lock:" + key }

func (s *RedisStore) RecordFailure(ctx context.Context, key string, window time.Duration) (int, error) {
	k := s.failKey(key)
	count, err := s.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, fmt.Errorf("incr login failures: %w", err)
	}
	if count == 1 {
		if err := s.client.Expire(ctx, k, window).Err(); err != nil {
			return 0, fmt.Errorf("expire login failures: %w", err)
		}
	}
	return int(count), nil
}

func (s *RedisStore) Lock(ctx context.Context, key string, d time.Duration) error {
	if err := s.client.Set(ctx, s.lockKey(key), "1", d).Err(); err != nil {
		return fmt.Errorf("set login lock: %w", err)
	}
	return nil
}

func (s *RedisStore) LockedFor(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := s.client.PTTL(ctx, s.lockKey(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("ttl login lock: %w", err)
	}
	// Missing keys report a negative TTL.
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

func (s *RedisStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.failKey(key), s.lockKey(key)).Err(); err != nil {
		return fmt.Errorf("clear login lockout: %w", err)
	}
	return nil
}
