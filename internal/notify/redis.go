package notify

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const tickKeyPrefix = "refresh:"

// RedisSignal shares tick counters across instances through Redis INCR.
// Counters start at zero implicitly, so a key that was never invalidated
// reads as tick 0.
type RedisSignal struct {
	client *redis.Client
}

func NewRedisSignal(client *redis.Client) *RedisSignal {
	return &RedisSignal{client: client}
}

func (s *RedisSignal) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, key := range keys {
		pipe.Incr(ctx, tickKeyPrefix+key)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisSignal) Ticks(ctx context.Context, keys ...string) (map[string]int64, error) {
	result := make(map[string]int64, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = tickKeyPrefix + key
	}

	values, err := s.client.MGet(ctx, prefixed...).Result()
	if err != nil {
		return nil, err
	}

	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			result[keys[i]] = 0
			continue
		}
		tick, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			tick = 0
		}
		result[keys[i]] = tick
	}
	return result, nil
}
