package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MichalMitros/property-translation-pipeline/internal/platform"
	"github.com/MichalMitros/property-translation-pipeline/internal/platform/models"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

//go:generate mockery --name Scraper --filename scraper.go
//go:generate mockery --name Translator --filename translator.go
//go:generate mockery --name PropertyStore --filename property_store.go

// Scraper scrapes listings of one site.
type Scraper interface {
	ScrapeProperties(ctx context.Context) (*models.ScrapeResult, error)
	// Cleanup releases scraper resources.
	Cleanup(ctx context.Context) error
}

// ScraperFactory returns scraper of provided site.
type ScraperFactory func(site string) (Scraper, error)

// Translator translates listings. Untranslated fields are reflected in status of each record.
type Translator interface {
	// TranslateBatch returns one record per listing in listings order. Error is returned
	// only on cancellation, records which weren't reached stay pending.
	TranslateBatch(ctx context.Context, listings []models.Listing) ([]models.TranslatedListing, error)
}

// PropertyStore persists translated listings.
type PropertyStore interface {
	// FindByURL returns property with url or nil if there is none.
	FindByURL(ctx context.Context, url string) (*models.Property, error)
	Create(ctx context.Context, listing models.TranslatedListing) (*models.Property, error)
	// Update updates property with id. Returns nil if there is no such property.
	Update(ctx context.Context, id int64, listing models.TranslatedListing) (*models.Property, error)
}

// Clock provides times.
type Clock interface {
	// Now returns current UTC time.
	Now() time.Time
}

// Option is custom configuration of Pipeline.
type Option func(p *Pipeline)

// Pipeline scrapes, translates and persists listings of a site.
type Pipeline struct {
	scrapers   ScraperFactory
	translator Translator
	store      PropertyStore
	logger     *zerolog.Logger
	clock      Clock

	mu      sync.Mutex
	running map[string]struct{}
}

// NewPipeline returns new Pipeline.
func NewPipeline(
	scrapers ScraperFactory,
	translator Translator,
	store PropertyStore,
	logger *zerolog.Logger,
	ops ...Option,
) *Pipeline {
	p := &Pipeline{
		scrapers:   scrapers,
		translator: translator,
		store:      store,
		logger:     logger,
		clock:      systemClock{},
		running:    make(map[string]struct{}),
	}

	for _, op := range ops {
		op(p)
	}

	return p
}

// WithClock sets Pipeline's custom Clock.
func WithClock(c Clock) Option {
	return func(p *Pipeline) {
		p.clock = c
	}
}

// ProcessSite runs the pipeline for site. Failures of single listings are recorded in summary
// and don't stop the run. Error is returned only when site is already being processed.
func (p *Pipeline) ProcessSite(ctx context.Context, site string) (*models.RunSummary, error) {
	if !p.startRun(site) {
		return nil, fmt.Errorf("can't process %s: %w", site, platform.ErrAlreadyRunning)
	}
	defer p.finishRun(site)

	logger := p.logger.With().Str("site", site).Logger()
	summary := &models.RunSummary{
		Site:      site,
		Errors:    []string{},
		StartedAt: p.clock.Now(),
	}

	scraper, err := p.scrapers(site)
	if err != nil {
		summary.Errors = append(summary.Errors, "Scraping failed: "+err.Error())
		return p.finish(&logger, summary), nil
	}
	defer p.cleanup(ctx, &logger, scraper)

	result, err := scraper.ScrapeProperties(ctx)
	switch {
	case err != nil:
		summary.Errors = append(summary.Errors, "Scraping failed: "+err.Error())
		return p.finish(&logger, summary), nil
	case result == nil:
		summary.Errors = append(summary.Errors, "Scraping failed: "+ErrEmptyScrapeResult.Error())
		return p.finish(&logger, summary), nil
	case !result.Success:
		summary.Errors = append(summary.Errors, "Scraping failed: "+strings.Join(result.Errors, ", "))
		return p.finish(&logger, summary), nil
	}

	summary.ScrapedCount = result.ScrapedCount
	summary.SkippedCount = result.SkippedCount

	if len(result.Data) == 0 {
		return p.finish(&logger, summary), nil
	}

	records, err := p.translate(ctx, result.Data)
	if err != nil {
		var panicked *translationPanicError
		if !errors.As(err, &panicked) {
			summary.Errors = append(summary.Errors, "Run cancelled: "+err.Error())
			return p.finish(&logger, summary), nil
		}

		logger.Error().Err(err).Msg("can't translate listings")
		for _, listing := range result.Data {
			summary.Errors = append(summary.Errors, fmt.Sprintf("Translation error for %s: %s", listing.URL, err))
		}
		return p.finish(&logger, summary), nil
	}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			summary.Errors = append(summary.Errors, "Run cancelled: "+err.Error())
			break
		}

		if message := p.processRecord(ctx, &logger, record); message != "" {
			summary.Errors = append(summary.Errors, message)
			continue
		}
		summary.ProcessedCount++
	}

	return p.finish(&logger, summary), nil
}

// processRecord persists translated record. Returns error message on failure.
func (p *Pipeline) processRecord(ctx context.Context, logger *zerolog.Logger, record models.TranslatedListing) string {
	if record.Failure != nil {
		logger.Error().Err(record.Failure).Str("url", record.URL).Msg("can't translate listing")
		return fmt.Sprintf("Translation error for %s: %s", record.URL, record.Failure)
	}

	if err := p.persist(ctx, record); err != nil {
		logger.Error().Err(err).Str("url", record.URL).Msg("can't persist listing")
		return fmt.Sprintf("Database error for %s: %s", record.URL, err)
	}

	logger.Debug().
		Str("url", record.URL).
		Str("status", string(record.TranslationStatus)).
		Msg("listing processed")

	return ""
}

// translate translates listings in one batch. Translator panic is returned as *translationPanicError.
func (p *Pipeline) translate(ctx context.Context, listings []models.Listing) (records []models.TranslatedListing, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &translationPanicError{value: r}
		}
	}()

	return p.translator.TranslateBatch(ctx, listings)
}

func (p *Pipeline) persist(ctx context.Context, listing models.TranslatedListing) error {
	existing, err := p.store.FindByURL(ctx, listing.URL)
	if err != nil {
		return fmt.Errorf("can't find property: %w", err)
	}

	if existing == nil {
		if _, err := p.store.Create(ctx, listing); err != nil {
			return fmt.Errorf("can't create property: %w", err)
		}
		return nil
	}

	updated, err := p.store.Update(ctx, existing.ID, listing)
	if err != nil {
		return fmt.Errorf("can't update property %d: %w", existing.ID, err)
	}
	if updated == nil {
		return fmt.Errorf("can't update property %d: %w", existing.ID, ErrPropertyVanished)
	}

	return nil
}

func (p *Pipeline) cleanup(ctx context.Context, logger *zerolog.Logger, scraper Scraper) {
	if err := scraper.Cleanup(context.WithoutCancel(ctx)); err != nil {
		logger.Warn().Err(err).Msg("can't clean up scraper")
	}
}

func (p *Pipeline) finish(logger *zerolog.Logger, summary *models.RunSummary) *models.RunSummary {
	summary.Success = len(summary.Errors) == 0
	summary.FinishedAt = lo.ToPtr(p.clock.Now())

	logger.Info().
		Bool("success", summary.Success).
		Int("processed", summary.ProcessedCount).
		Int("errors", len(summary.Errors)).
		Dur("duration", summary.FinishedAt.Sub(summary.StartedAt)).
		Msg("site processed")

	return summary
}

func (p *Pipeline) startRun(site string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.running[site]; ok {
		return false
	}
	p.running[site] = struct{}{}

	return true
}

func (p *Pipeline) finishRun(site string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.running, site)
}
