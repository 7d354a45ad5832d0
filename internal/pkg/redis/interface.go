package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Nil is returned by read operations when the key does not exist.
const Nil = redis.Nil

// NewScript wraps a Lua script for use with Cache.ScriptRun.
func NewScript(script string) *redis.Script {
	return redis.NewScript(script)
}

// Cache is the subset of Redis operations the service depends on.
type Cache interface {
	SetString(ctx context.Context, key, value string, exp time.Duration) error
	GetString(ctx context.Context, key string) (string, error)

	SetInt64(ctx context.Context, key string, value int64, exp time.Duration) error
	GetInt64(ctx context.Context, key string) (int64, error)

	// IncrBy atomically increments a counter and returns the new value.
	IncrBy(ctx context.Context, key string, delta int64) (int64, error)

	Exists(ctx context.Context, key string) (bool, error)

	ScriptRun(ctx context.Context, script *redis.Script, keys []string,
		args ...any) (any, error)

	Del(ctx context.Context, keys ...string) (int64, error)

	Expire(ctx context.Context, key string, seconds int) (bool, error)
}
