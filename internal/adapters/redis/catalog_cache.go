package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/ecoworth/marketplace-web/internal/domain/listing"
	"github.com/ecoworth/marketplace-web/internal/ports"
)

// DefaultCatalogKey is the Redis key holding the cached public listing catalog.
const DefaultCatalogKey = "catalog:listings"

var _ ports.ListingGateway = (*CatalogCache)(nil)

// CatalogCacheOptions configures a CatalogCache.
type CatalogCacheOptions struct {
	Client redis.UniversalClient // Required
	Next   ports.ListingGateway  // Required: the backend gateway
	TTL    time.Duration         // How long the catalog stays cached; defaults to 30s
	Key    string                // Defaults to DefaultCatalogKey
	Logger *slog.Logger
}

// CatalogCache caches the public listing catalog in Redis in front of the backend.
// Every page that shows listings reads the whole catalog, so one shared copy saves a
// backend round trip per page view. Listing writes made through this gateway drop the
// cached copy; writes made elsewhere show up once the TTL lapses.
// Redis failures are logged and the request falls through to the backend.
type CatalogCache struct {
	client redis.UniversalClient
	next   ports.ListingGateway
	ttl    time.Duration
	key    string
	logger *slog.Logger
	fill   singleflight.Group
}

// NewCatalogCache wraps opts.Next with a Redis-backed catalog cache.
func NewCatalogCache(opts CatalogCacheOptions) (*CatalogCache, error) {
	if opts.Client == nil {
		return nil, errors.New("redis client is required")
	}
	if opts.Next == nil {
		return nil, errors.New("listing gateway is required")
	}
	c := &CatalogCache{
		client: opts.Client,
		next:   opts.Next,
		ttl:    opts.TTL,
		key:    opts.Key,
		logger: opts.Logger,
	}
	if c.ttl <= 0 {
		c.ttl = 30 * time.Second
	}
	if c.key == "" {
		c.key = DefaultCatalogKey
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("component", "catalog_cache")
	return c, nil
}

// List returns the cached catalog, loading it from the backend on a miss.
func (c *CatalogCache) List(ctx context.Context) ([]listing.Listing, error) {
	if cached, ok := c.get(ctx); ok {
		return cached, nil
	}

	v, err, _ := c.fill.Do(c.key, func() (any, error) {
		all, err := c.next.List(ctx)
		if err != nil {
			return nil, err
		}
		c.set(ctx, all)
		return all, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]listing.Listing), nil
}

func (c *CatalogCache) get(ctx context.Context) ([]listing.Listing, bool) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "catalog cache read failed", "error", err)
		}
		return nil, false
	}
	var out []listing.Listing
	if err := json.Unmarshal(data, &out); err != nil {
		c.logger.WarnContext(ctx, "catalog cache entry unreadable", "error", err)
		return nil, false
	}
	return out, true
}

func (c *CatalogCache) set(ctx context.Context, all []listing.Listing) {
	data, err := json.Marshal(all)
	if err != nil {
		c.logger.WarnContext(ctx, "encode catalog for cache", "error", err)
		return
	}
	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "catalog cache write failed", "error", err)
	}
}

// Invalidate drops the cached catalog.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *CatalogCache) invalidateAfterWrite(ctx context.Context) {
	if err := c.Invalidate(ctx); err != nil {
		c.logger.WarnContext(ctx, "catalog cache invalidation failed", "error", err)
	}
}

// ListMine is never cached; sellers expect their own edits immediately.
func (c *CatalogCache) ListMine(ctx context.Context, token string) ([]listing.Listing, error) {
	return c.next.ListMine(ctx, token)
}

// Create posts through to the backend and drops the cached catalog.
func (c *CatalogCache) Create(ctx context.Context, token string, req listing.CreateRequest) (listing.Listing, error) {
	l, err := c.next.Create(ctx, token, req)
	if err != nil {
		return l, err
	}
	c.invalidateAfterWrite(ctx)
	return l, nil
}

// Update posts through to the backend and drops the cached catalog.
func (c *CatalogCache) Update(ctx context.Context, token string, id listing.ID, req listing.UpdateRequest) (listing.Listing, error) {
	l, err := c.next.Update(ctx, token, id, req)
	if err != nil {
		return l, err
	}
	c.invalidateAfterWrite(ctx)
	return l, nil
}

// Delete removes the listing at the backend and drops the cached catalog.
func (c *CatalogCache) Delete(ctx context.Context, token string, id listing.ID) error {
	if err := c.next.Delete(ctx, token, id); err != nil {
		return err
	}
	c.invalidateAfterWrite(ctx)
	return nil
}
