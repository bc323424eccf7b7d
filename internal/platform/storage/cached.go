package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MichalMitros/property-translation-pipeline/internal/platform/models"
	"github.com/rs/zerolog"
)

//go:generate mockery --name PropertyStore --filename property_store.go

// DefaultPropertyCacheTTL is the default lifetime of cached properties.
const DefaultPropertyCacheTTL = 5 * time.Minute

const propertyKeyPrefix = "property:url:"

// PropertyStore persists translated listings.
type PropertyStore interface {
	FindByURL(ctx context.Context, url string) (*models.Property, error)
	Create(ctx context.Context, listing models.TranslatedListing) (*models.Property, error)
	Update(ctx context.Context, id int64, listing models.TranslatedListing) (*models.Property, error)
}

// KeyValueStore is a key-value store with per-entry expiration.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	SetWithExpiry(ctx context.Context, key string, ttl time.Duration, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Cached is a PropertyStore caching FindByURL results of the wrapped store.
// Writes invalidate cached entry. Cache faults are logged and fall through to the wrapped store.
type Cached struct {
	base   PropertyStore
	cache  KeyValueStore
	ttl    time.Duration
	logger *zerolog.Logger
}

// NewCached returns new Cached.
func NewCached(base PropertyStore, cache KeyValueStore, ttl time.Duration, logger *zerolog.Logger) *Cached {
	return &Cached{
		base:   base,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// FindByURL returns cached property or the one from wrapped store.
func (c *Cached) FindByURL(ctx context.Context, url string) (*models.Property, error) {
	key := propertyKey(url)

	if raw, found, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn().Err(err).Str("url", url).Msg("can't read property cache")
	} else if found {
		var property models.Property
		if err := json.Unmarshal([]byte(raw), &property); err == nil {
			return &property, nil
		}
		c.logger.Warn().Str("url", url).Msg("can't decode cached property")
	}

	property, err := c.base.FindByURL(ctx, url)
	if err != nil || property == nil {
		return property, err
	}

	c.store(ctx, property)

	return property, nil
}

// Create creates property in wrapped store and invalidates its cache entry.
func (c *Cached) Create(ctx context.Context, listing models.TranslatedListing) (*models.Property, error) {
	property, err := c.base.Create(ctx, listing)
	c.invalidate(ctx, listing.URL)
	if err != nil {
		return nil, fmt.Errorf("can't create property: %w", err)
	}

	return property, nil
}

// Update updates property in wrapped store and invalidates its cache entry.
func (c *Cached) Update(ctx context.Context, id int64, listing models.TranslatedListing) (*models.Property, error) {
	property, err := c.base.Update(ctx, id, listing)
	c.invalidate(ctx, listing.URL)
	if err != nil {
		return nil, fmt.Errorf("can't update property: %w", err)
	}

	return property, nil
}

func (c *Cached) store(ctx context.Context, property *models.Property) {
	raw, err := json.Marshal(property)
	if err != nil {
		c.logger.Warn().Err(err).Str("url", property.URL).Msg("can't encode property")
		return
	}

	if err := c.cache.SetWithExpiry(ctx, propertyKey(property.URL), c.ttl, string(raw)); err != nil {
		c.logger.Warn().Err(err).Str("url", property.URL).Msg("can't write property cache")
	}
}

func (c *Cached) invalidate(ctx context.Context, url string) {
	if err := c.cache.Delete(ctx, propertyKey(url)); err != nil {
		c.logger.Warn().Err(err).Str("url", url).Msg("can't invalidate property cache")
	}
}

func propertyKey(url string) string {
	return propertyKeyPrefix + url
}
