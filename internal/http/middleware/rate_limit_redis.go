package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// INCR and PEXPIRE must happen atomically or a burst of first requests
// could leave the counter without an expiry.
var fixedWindowScript = redis.NewScript(`
local hits = redis.call("INCR", KEYS[1])
if hits == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {hits, redis.call("PTTL", KEYS[1])}
`)

// RedisFixedWindowLimiter shares one fixed-window counter per key across
// all API instances. The api and auth chains use separate prefixes so
// their windows never collide.
type RedisFixedWindowLimiter struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisFixedWindowLimiter(client redis.UniversalClient, prefix string) *RedisFixedWindowLimiter {
	if prefix == "" {
		prefix = "rl"
	}
	return &RedisFixedWindowLimiter{client: client, prefix: prefix}
}

func (l *RedisFixedWindowLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	if l.client == nil {
		return false, window, errors.New("redis client is nil")
	}
	if key == "" {
		key = "unknown"
	}
	windowMS := int64(window / time.Millisecond)
	if windowMS <= 0 {
		windowMS = 1000
	}

	raw, err := fixedWindowScript.Run(ctx, l.client, []string{l.prefix + ":" + key}, windowMS).Result()
	if err != nil {
		return false, window, err
	}
	hits, ttlMS, err := decodeWindowReply(raw)
	if err != nil {
		return false, window, err
	}
	if ttlMS <= 0 {
		// PTTL reports -1 when the key has no expiry.
		ttlMS = windowMS
	}
	return hits <= int64(limit), time.Duration(ttlMS) * time.Millisecond, nil
}

func decodeWindowReply(raw any) (hits, ttlMS int64, err error) {
	values, ok := raw.([]interface{})
	if !ok || len(values) != 2 {
		return 0, 0, fmt.Errorf("unexpected redis script reply %T", raw)
	}
	if hits, err = redisInt64(values[0]); err != nil {
		return 0, 0, err
	}
	if ttlMS, err = redisInt64(values[1]); err != nil {
		return 0, 0, err
	}
	return hits, ttlMS, nil
}

func redisInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case uint64:
		return int64(n), nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("unexpected redis reply element %T", v)
	}
}
