package translation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MichalMitros/property-translation-pipeline/internal/platform/models"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const (
	// DefaultCachePrefix is the default key namespace.
	DefaultCachePrefix = "translation:"
	// DefaultCacheTTL is the default entry lifetime.
	DefaultCacheTTL = 24 * time.Hour
	// DefaultCacheMaxSize is the default maximum number of entries.
	DefaultCacheMaxSize = 10000
)

// CacheOption is custom configuration of Cache.
type CacheOption func(c *Cache)

// Cache keeps translations keyed by hash of the source text.
// Store faults never leave Cache: reads degrade to misses and writes to no-ops.
type Cache struct {
	store   Store
	logger  *zerolog.Logger
	prefix  string
	ttl     time.Duration
	maxSize int

	hits   atomic.Int64
	misses atomic.Int64

	evictMu sync.Mutex
}

// NewCache returns new Cache.
func NewCache(store Store, logger *zerolog.Logger, ops ...CacheOption) *Cache {
	c := &Cache{
		store:   store,
		logger:  logger,
		prefix:  DefaultCachePrefix,
		ttl:     DefaultCacheTTL,
		maxSize: DefaultCacheMaxSize,
	}

	for _, op := range ops {
		op(c)
	}

	return c
}

// WithCachePrefix sets key namespace.
func WithCachePrefix(prefix string) CacheOption {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// WithCacheTTL sets entry lifetime.
func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithCacheMaxSize sets maximum number of entries kept after a write.
// Eviction is best-effort: writers sharing the store from other processes
// may briefly exceed the bound or evict more than the overflow.
func WithCacheMaxSize(size int) CacheOption {
	return func(c *Cache) {
		c.maxSize = size
	}
}

// Key derives store key of text.
func (c *Cache) Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return c.prefix + hex.EncodeToString(sum[:])
}

// Connect connects underlying store.
func (c *Cache) Connect(ctx context.Context) error {
	return c.store.Connect(ctx)
}

// Close closes underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}

// Get returns cached translation of text.
func (c *Cache) Get(ctx context.Context, text string) (string, bool) {
	value, found, err := c.store.Get(ctx, c.Key(text))
	if err != nil {
		c.logger.Warn().Err(err).Msg("can't read translation cache")
	}

	if err != nil || !found {
		c.misses.Add(1)
		return "", false
	}

	c.hits.Add(1)

	return value, true
}

// Set caches translation of text and evicts the oldest entries above max size.
func (c *Cache) Set(ctx context.Context, text, translated string) {
	if err := c.store.SetWithExpiry(ctx, c.Key(text), c.ttl, translated); err != nil {
		c.logger.Warn().Err(err).Msg("can't write translation cache")
		return
	}

	c.enforceSize(ctx)
}

// Has reports whether translation of text is cached.
func (c *Cache) Has(ctx context.Context, text string) bool {
	found, err := c.store.Exists(ctx, c.Key(text))
	if err != nil {
		c.logger.Warn().Err(err).Msg("can't check translation cache")
		return false
	}

	return found
}

// Delete removes cached translation of text.
func (c *Cache) Delete(ctx context.Context, text string) {
	if err := c.store.Delete(ctx, c.Key(text)); err != nil {
		c.logger.Warn().Err(err).Msg("can't delete translation cache entry")
	}
}

// Clear removes every entry in the namespace and resets counters.
func (c *Cache) Clear(ctx context.Context) {
	c.hits.Store(0)
	c.misses.Store(0)

	keys, err := c.store.KeysMatching(ctx, c.pattern())
	if err != nil {
		c.logger.Warn().Err(err).Msg("can't list translation cache entries")
		return
	}

	if err := c.store.Delete(ctx, keys...); err != nil {
		c.logger.Warn().Err(err).Msg("can't clear translation cache")
	}
}

// GetMultiple returns cached translations of texts in one round trip.
// Texts without translation map to nil.
func (c *Cache) GetMultiple(ctx context.Context, texts []string) map[string]*string {
	result := make(map[string]*string, len(texts))
	if len(texts) == 0 {
		return result
	}

	values, err := c.store.GetMultiple(ctx, lo.Map(texts, func(text string, _ int) string { return c.Key(text) }))
	if err != nil {
		c.logger.Warn().Err(err).Msg("can't read translation cache")
		c.misses.Add(int64(len(texts)))
		for _, text := range texts {
			result[text] = nil
		}
		return result
	}

	for i, text := range texts {
		var value *string
		if i < len(values) {
			value = values[i]
		}

		if value == nil {
			c.misses.Add(1)
		} else {
			c.hits.Add(1)
		}
		result[text] = value
	}

	return result
}

// SetMultiple caches translations in one round trip.
func (c *Cache) SetMultiple(ctx context.Context, translations map[string]string) {
	if len(translations) == 0 {
		return
	}

	entries := lo.MapKeys(translations, func(_ string, text string) string { return c.Key(text) })
	if err := c.store.MultiSetWithExpiry(ctx, entries, c.ttl); err != nil {
		c.logger.Warn().Err(err).Msg("can't write translation cache")
		return
	}

	c.enforceSize(ctx)
}

// Stats returns counters since the last Clear and current number of entries.
// Size is 0 when the store can't be enumerated.
func (c *Cache) Stats(ctx context.Context) models.CacheStats {
	stats := models.CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}

	keys, err := c.store.KeysMatching(ctx, c.pattern())
	if err != nil {
		c.logger.Warn().Err(err).Msg("can't count translation cache entries")
		return stats
	}
	stats.Size = len(keys)

	return stats
}

// HitRate returns hits/(hits+misses), 0 with no lookups.
func (c *Cache) HitRate() float64 {
	hits := c.hits.Load()
	total := hits + c.misses.Load()
	if total == 0 {
		return 0
	}

	return float64(hits) / float64(total)
}

// enforceSize deletes the oldest entries exceeding maxSize in one call.
func (c *Cache) enforceSize(ctx context.Context) {
	c.evictMu.Lock()
	defer c.evictMu.Unlock()

	keys, err := c.store.KeysMatching(ctx, c.pattern())
	if err != nil {
		c.logger.Warn().Err(err).Msg("can't list translation cache entries")
		return
	}

	if len(keys) <= c.maxSize {
		return
	}

	overflow := keys[:len(keys)-c.maxSize]
	if err := c.store.Delete(ctx, overflow...); err != nil {
		c.logger.Warn().Err(err).Int("count", len(overflow)).Msg("can't evict translation cache entries")
		return
	}

	c.logger.Debug().Int("count", len(overflow)).Msg("evicted translation cache entries")
}

func (c *Cache) pattern() string {
	return c.prefix + "*"
}
