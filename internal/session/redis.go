package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "dashboard:session:"

// RedisProvider stores each browser context as one Redis hash so multi-key
// reads and deletes are single commands.
type RedisProvider struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProvider wraps an existing client. ttl slides on every write.
func NewRedisProvider(client *redis.Client, ttl time.Duration) *RedisProvider {
	return &RedisProvider{client: client, ttl: ttl}
}

// For implements Provider.
func (p *RedisProvider) For(contextID string) Storage {
	return &redisStorage{client: p.client, key: redisKeyPrefix + contextID, ttl: p.ttl}
}

type redisStorage struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func (r *redisStorage) Load(ctx context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	vals, err := r.client.HMGet(ctx, r.key, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hmget %s: %w", r.key, err)
	}
	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[keys[i]] = s
		}
	}
	return out, nil
}

func (r *redisStorage) Save(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	fields := make(map[string]any, len(values))
	for k, v := range values {
		fields[k] = v
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.key, fields)
		if r.ttl > 0 {
			pipe.Expire(ctx, r.key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis hset %s: %w", r.key, err)
	}
	return nil
}

func (r *redisStorage) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.HDel(ctx, r.key, keys...).Err(); err != nil {
		return fmt.Errorf("redis hdel %s: %w", r.key, err)
	}
	return nil
}
