package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "kv:"

// InitRedis connects to redis and verifies the connection.
func InitRedis(addr string, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// CachedStore layers a redis cache over a primary Store. Reads are
// cache-aside with TTL; writes go through to the primary and refresh
// the cache. Cache failures degrade to the primary, they are never
// surfaced to callers.
type CachedStore struct {
	primary Store
	rdb     *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
}

func NewCachedStore(primary Store, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedStore {
	return &CachedStore{primary: primary, rdb: rdb, ttl: ttl, logger: logger}
}

func (s *CachedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.rdb.Get(ctx, cacheKeyPrefix+key).Bytes()
	if err == nil {
		return val, true, nil
	}
	if !errors.Is(err, redis.Nil) {
		s.logger.Warn("cache read failed, falling back to primary", "key", key, "error", err)
	}

	val, found, err := s.primary.Get(ctx, key)
	if err != nil || !found {
		return val, found, err
	}
	if err := s.rdb.Set(ctx, cacheKeyPrefix+key, val, s.ttl).Err(); err != nil {
		s.logger.Warn("cache populate failed", "key", key, "error", err)
	}
	return val, true, nil
}

func (s *CachedStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.primary.Set(ctx, key, value); err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, cacheKeyPrefix+key, value, s.ttl).Err(); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
	return nil
}

func (s *CachedStore) Remove(ctx context.Context, key string) error {
	if err := s.primary.Remove(ctx, key); err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, cacheKeyPrefix+key).Err(); err != nil {
		s.logger.Warn("cache invalidate failed", "key", key, "error", err)
	}
	return nil
}
