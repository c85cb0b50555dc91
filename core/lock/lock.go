package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLocked is returned by Acquire when another run holds the lock.
var ErrLocked = errors.New("sync run already in progress")

// Locker serializes sync runs across processes.
type Locker interface {
	// Acquire takes the lock for owner or returns ErrLocked.
	Acquire(ctx context.Context, owner string) error
	// Release frees the lock if owner still holds it.
	Release(ctx context.Context, owner string) error
	// Close releases the underlying connection.
	Close() error
}

// releaseScript deletes the key only when it still carries the caller's token,
// so an expired holder never frees a lock taken by the next run.
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`

// commands is the subset of the Redis client the lock needs.
type commands interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	Close() error
}

// RedisLocker is a SET NX lock with a TTL.
type RedisLocker struct {
	client commands
	key    string
	ttl    time.Duration
}

// NewRedisLocker creates a lock over an existing client.
func NewRedisLocker(client commands, key string, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisLocker{client: client, key: key, ttl: ttl}
}

// Acquire takes the lock for owner.
func (l *RedisLocker) Acquire(ctx context.Context, owner string) error {
	ok, err := l.client.SetNX(ctx, l.key, owner, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to acquire lock %s: %w", l.key, err)
	}
	if !ok {
		return ErrLocked
	}
	return nil
}

// Release frees the lock when owner still holds it.
func (l *RedisLocker) Release(ctx context.Context, owner string) error {
	if err := l.client.Eval(ctx, releaseScript, []string{l.key}, owner).Err(); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", l.key, err)
	}
	return nil
}

// Close closes the Redis client.
func (l *RedisLocker) Close() error {
	return l.client.Close()
}

// NopLocker always succeeds. It is used when no Redis URL is configured.
type NopLocker struct{}

// Acquire always succeeds.
func (NopLocker) Acquire(context.Context, string) error { return nil }

// Release always succeeds.
func (NopLocker) Release(context.Context, string) error { return nil }

// Close does nothing.
func (NopLocker) Close() error { return nil }

// New connects to Redis and returns a lock. An empty URL yields a NopLocker.
func New(ctx context.Context, cfg Config) (Locker, error) {
	if cfg.URL == "" {
		return NopLocker{}, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid lock url: %w", err)
	}
	opts.DialTimeout = time.Duration(cfg.DialTimeout) * time.Second
	opts.ReadTimeout = time.Duration(cfg.ReadTimeout) * time.Second
	opts.WriteTimeout = time.Duration(cfg.WriteTimeout) * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}

	return NewRedisLocker(client, cfg.Key, time.Duration(cfg.TTLSeconds)*time.Second), nil
}
