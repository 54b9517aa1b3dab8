package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("key not found in cache")
	ErrDisabled = errors.New("cache is not configured")
)

// Cache stores opaque byte values with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Noop is used when no Redis is configured: every lookup misses and writes
// are dropped.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error) { return nil, ErrNotFound }

func (Noop) Set(context.Context, string, []byte, time.Duration) error { return ErrDisabled }

func (Noop) Delete(context.Context, string) error { return nil }
