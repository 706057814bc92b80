package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/georgemunganga/medexpress-backend/internal/platform/logging"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the byte store behind CachedGeocoder.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache implements Cache using Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new cache backed by Redis.
func NewRedisCache(addr, password string, db int) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{client: rdb}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// CachedGeocoder memoizes successful lookups. Cache failures are logged and fall through
// to the wrapped geocoder.
type CachedGeocoder struct {
	next  Geocoder
	cache Cache
	ttl   time.Duration
}

func NewCachedGeocoder(next Geocoder, cache Cache, ttl time.Duration) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: cache, ttl: ttl}
}

func cacheKey(address string) string {
	return "geocode:" + strings.ToLower(strings.Join(strings.Fields(address), " "))
}

func (g *CachedGeocoder) Geocode(ctx context.Context, address string) (Location, error) {
	key := cacheKey(address)
	log := logging.FromContext(ctx)

	raw, err := g.cache.Get(ctx, key)
	if err == nil {
		var loc Location
		if err := json.Unmarshal(raw, &loc); err == nil {
			return loc, nil
		}
		log.Warn("discarding corrupt geocode cache entry", zap.String("key", key))
	} else if !errors.Is(err, ErrCacheMiss) {
		log.Warn("geocode cache read failed", zap.Error(err))
	}

	loc, err := g.next.Geocode(ctx, address)
	if err != nil {
		return Location{}, err
	}
	if raw, err := json.Marshal(loc); err == nil {
		if err := g.cache.Set(ctx, key, raw, g.ttl); err != nil {
			log.Warn("geocode cache write failed", zap.Error(err))
		}
	}
	return loc, nil
}
