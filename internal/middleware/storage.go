package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// storageTimeout bounds every Redis round trip made on the request path
const storageTimeout = 3 * time.Second

// RedisStorage implements fiber.Storage on Redis so that limiter counters are
// shared by every replica. All keys live under prefix.
type RedisStorage struct {
	client *redis.Client
	prefix string
}

// NewRedisStorage connects to redisURL and verifies the connection
func NewRedisStorage(redisURL, prefix string) (*RedisStorage, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = storageTimeout
	opts.WriteTimeout = storageTimeout

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("✅ Redis rate-limit storage connected")
	return NewRedisStorageFromClient(client, prefix), nil
}

// NewRedisStorageFromClient wraps an existing client
func NewRedisStorageFromClient(client *redis.Client, prefix string) *RedisStorage {
	return &RedisStorage{client: client, prefix: prefix}
}

// Get returns nil, nil when the key does not exist
func (s *RedisStorage) Get(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

// Set stores val under key; exp 0 means no expiry
func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	return s.client.Set(ctx, s.prefix+key, val, exp).Err()
}

// Delete removes key
func (s *RedisStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	return s.client.Del(ctx, s.prefix+key).Err()
}

// Reset removes every key under the prefix. Other keys in the database are left alone.
func (s *RedisStorage) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close closes the Redis connection
func (s *RedisStorage) Close() error {
	return s.client.Close()
}

// MemoryStorage implements fiber.Storage on an in-process go-cache
type MemoryStorage struct {
	cache *cache.Cache
}

// NewMemoryStorage creates a memory storage purging expired entries every cleanup
func NewMemoryStorage(cleanup time.Duration) *MemoryStorage {
	return &MemoryStorage{cache: cache.New(cache.NoExpiration, cleanup)}
}

// Get returns nil, nil when the key does not exist or has expired
func (s *MemoryStorage) Get(key string) ([]byte, error) {
	if v, ok := s.cache.Get(key); ok {
		return v.([]byte), nil
	}
	return nil, nil
}

// Set stores a copy of val under key; exp 0 means no expiry
func (s *MemoryStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	if exp <= 0 {
		exp = cache.NoExpiration
	}
	s.cache.Set(key, append([]byte(nil), val...), exp)
	return nil
}

// Delete removes key
func (s *MemoryStorage) Delete(key string) error {
	s.cache.Delete(key)
	return nil
}

// Reset removes every key
func (s *MemoryStorage) Reset() error {
	s.cache.Flush()
	return nil
}

// Close is a no-op
func (s *MemoryStorage) Close() error {
	return nil
}

// NewLimiterStorage returns Redis storage when redisURL is set and in-process
// storage otherwise
func NewLimiterStorage(redisURL string, window time.Duration) (fiber.Storage, error) {
	if redisURL == "" {
		return NewMemoryStorage(window), nil
	}
	storage, err := NewRedisStorage(redisURL, "officehub:ratelimit:")
	if err != nil {
		return nil, err
	}
	return storage, nil
}
