package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Service is a byte-oriented key/value store with expirations and
// best-effort advisory locks.
type Service interface {
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, expiration time.Duration) (bool, error)
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
	Close() error
}

// FreshGetter is implemented by caches that may answer Get from a local copy.
// GetFresh always reads the authoritative layer.
type FreshGetter interface {
	GetFresh(ctx context.Context, key string) ([]byte, error)
}

// GetFresh reads key from the authoritative layer of c. Use it for
// read-modify-write cycles guarded by TryLock.
func GetFresh(ctx context.Context, c Service, key string) ([]byte, error) {
	if fg, ok := c.(FreshGetter); ok {
		return fg.GetFresh(ctx, key)
	}
	return c.Get(ctx, key)
}

// SetJSON marshals value and stores it under key.
func SetJSON[T any](ctx context.Context, c Service, key string, value T, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}
	return c.Set(ctx, key, data, expiration)
}

// GetJSON loads key and unmarshals it into T. Returns ErrCacheMiss when absent.
func GetJSON[T any](ctx context.Context, c Service, key string) (T, error) {
	data, err := c.Get(ctx, key)
	return decodeJSON[T](key, data, err)
}

// GetFreshJSON is GetJSON over GetFresh.
func GetFreshJSON[T any](ctx context.Context, c Service, key string) (T, error) {
	data, err := GetFresh(ctx, c, key)
	return decodeJSON[T](key, data, err)
}

func decodeJSON[T any](key string, data []byte, err error) (T, error) {
	var out T
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("cache: unmarshal %s: %w", key, err)
	}
	return out, nil
}
