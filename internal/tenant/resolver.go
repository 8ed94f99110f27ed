package tenant

import (
	"context"
	"fmt"
	"time"

	"ms-dinein/internal/logger"

	"github.com/go-redis/redis/v8"
)

// OrgLookup resolves a slug to an organization id from the source of truth.
type OrgLookup interface {
	GetOrgIDBySlug(ctx context.Context, slug string) (string, error)
}

// Resolver caches slug -> organization id in Redis in front of the database,
// mirroring the public slug-resolution RPC of the original deployment.
type Resolver struct {
	Lookup OrgLookup
	Redis  *redis.Client
	TTL    time.Duration
	Logger *logger.Logger
}

func NewResolver(lookup OrgLookup, redisClient *redis.Client, ttl time.Duration, log *logger.Logger) *Resolver {
	return &Resolver{Lookup: lookup, Redis: redisClient, TTL: ttl, Logger: log}
}

func cacheKey(slug string) string {
	return "org_slug:" + slug
}

func (r *Resolver) OrgIDBySlug(ctx context.Context, slug string) (string, error) {
	if slug == "" {
		return "", fmt.Errorf("empty tenant slug")
	}

	if r.Redis != nil {
		if id, err := r.Redis.Get(ctx, cacheKey(slug)).Result(); err == nil && id != "" {
			return id, nil
		} else if err != nil && err != redis.Nil {
			r.Logger.Warn("TENANT", fmt.Sprintf("Redis lookup failed for %q: %v", slug, err))
		}
	}

	id, err := r.Lookup.GetOrgIDBySlug(ctx, slug)
	if err != nil {
		return "", err
	}

	if r.Redis != nil {
		if err := r.Redis.Set(ctx, cacheKey(slug), id, r.TTL).Err(); err != nil {
			r.Logger.Warn("TENANT", fmt.Sprintf("Failed to cache org id for %q: %v", slug, err))
		}
	}

	return id, nil
}

// Invalidate drops a cached slug, used after organization settings change.
func (r *Resolver) Invalidate(ctx context.Context, slug string) error {
	if r.Redis == nil {
		return nil
	}
	if err := r.Redis.Del(ctx, cacheKey(slug)).Err(); err != nil {
		r.Logger.Warn("TENANT", fmt.Sprintf("Failed to invalidate cached org id for %q: %v", slug, err))
		return err
	}
	return nil
}
