package translation

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/MichalMitros/property-translation-pipeline/internal/platform"
	"github.com/MichalMitros/property-translation-pipeline/internal/platform/models"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	// SourceLanguage is the language of scraped listings.
	SourceLanguage = "ja"
	// TargetLanguage is the language listings are translated to.
	TargetLanguage = "en"

	// DefaultBatchSize is the default number of listings translated concurrently.
	DefaultBatchSize = 10
	// DefaultBatchDelay is the default pause between chunks.
	DefaultBatchDelay = time.Second
)

// Option is custom configuration of Engine.
type Option func(e *Engine)

// Engine translates listings field by field, consulting Cache before the provider.
type Engine struct {
	cache      *Cache
	provider   Provider
	fallback   Provider
	logger     *zerolog.Logger
	batchSize  int
	batchDelay time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewEngine returns new Engine.
func NewEngine(cache *Cache, provider Provider, logger *zerolog.Logger, ops ...Option) *Engine {
	e := &Engine{
		cache:      cache,
		provider:   provider,
		logger:     logger,
		batchSize:  DefaultBatchSize,
		batchDelay: DefaultBatchDelay,
		sleep:      sleepContext,
	}

	for _, op := range ops {
		op(e)
	}

	return e
}

// WithBatchSize sets chunk size of TranslateBatch. Non-positive sizes are ignored.
func WithBatchSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// WithBatchDelay sets pause between chunks of TranslateBatch.
func WithBatchDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.batchDelay = d
	}
}

// WithFallback sets provider tried once when the primary provider fails for a field.
func WithFallback(p Provider) Option {
	return func(e *Engine) {
		e.fallback = p
	}
}

// WithSleep sets custom pause function used between chunks.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(e *Engine) {
		e.sleep = sleep
	}
}

// Initialize connects the cache store. Engine is unusable when it fails.
func (e *Engine) Initialize(ctx context.Context) error {
	if err := e.cache.Connect(ctx); err != nil {
		return fmt.Errorf("can't initialize translation engine: %w", err)
	}

	return nil
}

// Cleanup releases the cache store. Failures are only logged.
func (e *Engine) Cleanup() {
	if err := e.cache.Close(); err != nil {
		e.logger.Warn().Err(err).Msg("can't clean up translation engine")
	}
}

// TranslateListing translates title, location and description of listing.
// Fields which can't be translated stay nil and status reflects them.
func (e *Engine) TranslateListing(ctx context.Context, listing models.Listing) models.TranslatedListing {
	result := newRecord(listing)

	result.TitleEn = e.translateField(ctx, listing.URL, "title", listing.Title)
	result.LocationEn = e.translateField(ctx, listing.URL, "location", listing.Location)
	if listing.Description != nil {
		result.DescriptionEn = e.translateField(ctx, listing.URL, "description", *listing.Description)
	}

	result.TranslationStatus = result.ComputeStatus()

	return result
}

// TranslateBatch translates listings in chunks of batch size. Listings of one chunk
// are translated concurrently, chunks run one after another with batch delay between them.
// Result has listings order. On cancellation the already translated records are
// returned along with pending ones and context error.
func (e *Engine) TranslateBatch(ctx context.Context, listings []models.Listing) ([]models.TranslatedListing, error) {
	results := lo.Map(listings, func(l models.Listing, _ int) models.TranslatedListing { return newRecord(l) })

	chunks := lo.Chunk(lo.Range(len(listings)), e.batchSize)
	for chunkIx, chunk := range chunks {
		if chunkIx > 0 {
			if err := e.sleep(ctx, e.batchDelay); err != nil {
				return results, err
			}
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}

		var group errgroup.Group
		for _, ix := range chunk {
			group.Go(func() error {
				results[ix] = e.safeTranslateListing(ctx, listings[ix])
				return nil
			})
		}
		_ = group.Wait()

		e.logger.Debug().
			Int("chunk", chunkIx+1).
			Int("chunks", len(chunks)).
			Msg("translated listings chunk")
	}

	return results, nil
}

// GetCachedTranslation returns cached translation of text without calling the provider.
func (e *Engine) GetCachedTranslation(ctx context.Context, text string) (string, bool) {
	return e.cache.Get(ctx, text)
}

// ClearCache removes all cached translations.
func (e *Engine) ClearCache(ctx context.Context) {
	e.cache.Clear(ctx)
}

// GetCacheStats returns translation cache statistics.
func (e *Engine) GetCacheStats(ctx context.Context) models.CacheStats {
	return e.cache.Stats(ctx)
}

// GetCacheHitRate returns translation cache hit rate.
func (e *Engine) GetCacheHitRate() float64 {
	return e.cache.HitRate()
}

func (e *Engine) safeTranslateListing(ctx context.Context, listing models.Listing) (result models.TranslatedListing) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().
				Str("url", listing.URL).
				Interface("panic", r).
				Msg("listing translation panicked")
			result = newRecord(listing)
			result.TranslationStatus = models.StatusFailed
			result.Failure = fmt.Errorf("translation panicked: %v", r)
		}
	}()

	return e.TranslateListing(ctx, listing)
}

func (e *Engine) translateField(ctx context.Context, url, field, text string) *string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if cached, ok := e.cache.Get(ctx, text); ok {
		return &cached
	}

	translated, err := translateOne(ctx, e.provider, text)
	if err == nil {
		e.cache.Set(ctx, text, translated)
		return &translated
	}

	logger := e.logger.With().
		Str("url", url).
		Str("field", field).
		Str("code", string(platform.CodeOf(err))).
		Logger()
	logger.Warn().Err(err).Str("provider", "primary").Msg("can't translate field")

	if e.fallback == nil {
		return nil
	}

	translated, err = translateOne(ctx, e.fallback, text)
	if err != nil {
		logger.Warn().Err(err).Str("provider", "fallback").Msg("can't translate field")
		return nil
	}

	return &translated
}

func translateOne(ctx context.Context, p Provider, text string) (string, error) {
	translated, err := p.Translate(ctx, []string{text}, SourceLanguage, TargetLanguage)
	if err != nil {
		return "", err
	}

	if len(translated) == 0 || strings.TrimSpace(translated[0]) == "" {
		return "", ErrEmptyTranslation
	}

	return translated[0], nil
}

func newRecord(listing models.Listing) models.TranslatedListing {
	listing.Images = slices.Clone(listing.Images)

	return models.TranslatedListing{
		Listing:           listing,
		TranslationStatus: models.StatusPending,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
