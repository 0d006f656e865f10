package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ZaguanLabs/teamtl"
)

// RedisStore is a Redis-backed record store. Records are JSON values under
// KeyPrefix + "<entityID>:<lang>".
type RedisStore struct {
	client    *redis.Client
	retention time.Duration
	keyPrefix string
}

// RedisConfig holds configuration for the Redis store.
type RedisConfig struct {
	URL       string // Redis connection URL (e.g., "redis://localhost:6379/0")
	Retention int    // Seconds before Redis drops an unused record (0 = keep forever)
	KeyPrefix string // Prefix for all keys (default: DefaultKeyPrefix)
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return NewRedisStoreFromClient(client, cfg.Retention, cfg.KeyPrefix), nil
}

// NewRedisStoreFromClient creates a RedisStore from an existing client.
func NewRedisStoreFromClient(client *redis.Client, retentionSeconds int, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}

	var retention time.Duration
	if retentionSeconds > 0 {
		retention = time.Duration(retentionSeconds) * time.Second
	}

	return &RedisStore{
		client:    client,
		retention: retention,
		keyPrefix: keyPrefix,
	}
}

// Get retrieves the record for key. A missing key is not an error.
func (s *RedisStore) Get(ctx context.Context, key teamtl.CacheKey) (*teamtl.CacheRecord, error) {
	data, err := s.client.Get(ctx, s.keyPrefix+key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeRecord(data)
}

// Put overwrites the record for rec's key.
func (s *RedisStore) Put(ctx context.Context, rec *teamtl.CacheRecord) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.keyPrefix+rec.Key().String(), data, s.retention).Err()
}

// Records scans every key under the prefix. Malformed values are skipped.
func (s *RedisStore) Records(ctx context.Context) ([]*teamtl.CacheRecord, error) {
	var out []*teamtl.CacheRecord

	iter := s.client.Scan(ctx, 0, s.keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}
		rec, err := decodeRecord(data)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// Ping tests the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var (
	_ RecordStore = (*RedisStore)(nil)
	_ Lister      = (*RedisStore)(nil)
)
