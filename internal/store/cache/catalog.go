// Package cache provides a read-through Redis layer in front of the catalog
// repository. Bookings are never cached.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nguyenvuong1309/glow/internal/domain"
	"github.com/nguyenvuong1309/glow/internal/store"
)

const (
	keyCategories = "glow:catalog:categories"
	keySnapshot   = "glow:catalog:services"
)

// errMiss is returned by a KV on a missing key.
var errMiss = errors.New("cache miss")

// KV is the subset of Redis the catalog cache needs.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type redisKV struct {
	client redis.UniversalClient
}

// NewRedisKV adapts a go-redis client.
func NewRedisKV(client redis.UniversalClient) KV {
	return redisKV{client: client}
}

func (r redisKV) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errMiss
	}
	return b, err
}

func (r redisKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r redisKV) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

// CatalogRepo decorates a store.CatalogRepository. Cache failures are logged
// and fall through to the underlying repository.
type CatalogRepo struct {
	next   store.CatalogRepository
	kv     KV
	ttl    time.Duration
	logger *slog.Logger
}

func NewCatalogRepo(next store.CatalogRepository, kv KV, ttl time.Duration, logger *slog.Logger) *CatalogRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogRepo{next: next, kv: kv, ttl: ttl, logger: logger}
}

var _ store.CatalogRepository = (*CatalogRepo)(nil)

func (c *CatalogRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if c.load(ctx, keyCategories, &out) {
		return out, nil
	}

	out, err := c.next.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, keyCategories, out)
	return out, nil
}

func (c *CatalogRepo) ListServices(ctx context.Context) ([]domain.Service, error) {
	snapshot, err := c.ListServicesWithAvailability(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Service, 0, len(snapshot))
	for _, s := range snapshot {
		out = append(out, s.Service)
	}
	return out, nil
}

func (c *CatalogRepo) ListServicesWithAvailability(ctx context.Context) ([]domain.ServiceAvailability, error) {
	var out []domain.ServiceAvailability
	if c.load(ctx, keySnapshot, &out) {
		return out, nil
	}

	out, err := c.next.ListServicesWithAvailability(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, keySnapshot, out)
	return out, nil
}

// GetService is served from the cached snapshot when present. A miss in the
// snapshot goes to the repository so newly added services are visible.
func (c *CatalogRepo) GetService(ctx context.Context, id uuid.UUID) (domain.ServiceAvailability, error) {
	var snapshot []domain.ServiceAvailability
	if c.load(ctx, keySnapshot, &snapshot) {
		for _, s := range snapshot {
			if s.ID == id {
				return s, nil
			}
		}
	}
	return c.next.GetService(ctx, id)
}

// Invalidate drops every cached catalog key. Called after seeding.
func (c *CatalogRepo) Invalidate(ctx context.Context) error {
	return c.kv.Del(ctx, keyCategories, keySnapshot)
}

func (c *CatalogRepo) load(ctx context.Context, key string, dst any) bool {
	b, err := c.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, errMiss) {
			c.logger.WarnContext(ctx, "catalog cache read failed", "key", key, "err", err)
		}
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		c.logger.WarnContext(ctx, "catalog cache decode failed", "key", key, "err", err)
		return false
	}
	return true
}

func (c *CatalogRepo) store(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		c.logger.WarnContext(ctx, "catalog cache encode failed", "key", key, "err", err)
		return
	}
	if err := c.kv.Set(ctx, key, b, c.ttl); err != nil {
		c.logger.WarnContext(ctx, "catalog cache write failed", "key", key, "err", err)
	}
}
