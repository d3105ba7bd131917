package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sandunudayakantha/TransitEquity/internal/domain"
)

// CachedUserRepository is a read-through Redis cache in front of the Postgres
// store. Only GetByID is cached: the auth middleware hits it on every
// protected request. Redis failures fall through to Postgres; the cache is
// never a correctness dependency.
type CachedUserRepository struct {
	inner  UserRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedUserRepository wraps a repository with a Redis cache. A zero TTL
// disables caching.
func NewCachedUserRepository(inner UserRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) UserRepository {
	if client == nil || ttl <= 0 {
		return inner
	}
	return &CachedUserRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func userCacheKey(id string) string {
	return "user:id:" + id
}

func (c *CachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	key := userCacheKey(id)
	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var user domain.User
		if err := json.Unmarshal(raw, &user); err == nil {
			return &user, nil
		}
		c.client.Del(ctx, key)
	}

	user, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(user); err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.Debug("user cache set failed", zap.Error(err))
		}
	}
	return user, nil
}

// Approve invalidates the cached record so the new approval state is visible
// immediately.
func (c *CachedUserRepository) Approve(ctx context.Context, id string) (*domain.User, error) {
	user, err := c.inner.Approve(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.client.Del(ctx, userCacheKey(id)).Err(); err != nil {
		c.logger.Debug("user cache invalidation failed", zap.Error(err))
	}
	return user, nil
}

func (c *CachedUserRepository) Create(ctx context.Context, user *domain.User) error {
	return c.inner.Create(ctx, user)
}

func (c *CachedUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return c.inner.GetByEmail(ctx, email)
}

func (c *CachedUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	return c.inner.List(ctx)
}

func (c *CachedUserRepository) ListPending(ctx context.Context) ([]*domain.User, error) {
	return c.inner.ListPending(ctx)
}
