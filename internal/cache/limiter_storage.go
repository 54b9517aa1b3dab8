package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const storageTimeout = 2 * time.Second

// LimiterStorage implements fiber.Storage on Redis so rate-limit windows are
// shared by every instance behind the load balancer.
type LimiterStorage struct {
	client *redis.Client
	prefix string
}

func NewLimiterStorage(client *redis.Client, prefix string) *LimiterStorage {
	return &LimiterStorage{client: client, prefix: prefix}
}

// Get returns nil, nil for a missing key as fiber.Storage requires.
func (s *LimiterStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *LimiterStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	return s.client.Set(ctx, s.prefix+key, val, exp).Err()
}

func (s *LimiterStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	return s.client.Del(ctx, s.prefix+key).Err()
}

// Reset removes only this storage's keys, never the whole database.
func (s *LimiterStorage) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*storageTimeout)
	defer cancel()

	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close is a no-op; the client is owned by main.
func (s *LimiterStorage) Close() error {
	return nil
}
