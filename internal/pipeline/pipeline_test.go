package pipeline_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/MichalMitros/property-translation-pipeline/internal/pipeline"
	"github.com/MichalMitros/property-translation-pipeline/internal/pipeline/mocks"
	"github.com/MichalMitros/property-translation-pipeline/internal/platform"
	"github.com/MichalMitros/property-translation-pipeline/internal/platform/models"
	"github.com/MichalMitros/property-translation-pipeline/internal/platform/models/modelstesting"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// reusable test data
var (
	logger   = zerolog.Nop()
	site     = "suumo"
	now      = time.Date(2024, time.April, 1, 1, 1, 1, 0, time.UTC)
	listings = []models.Listing{ // will affect tests results when changed
		modelstesting.FakeListing(),
		modelstesting.FakeListing(),
		modelstesting.FakeListing(),
	}
)

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time {
	return c.now
}

func factoryOf(scr pipeline.Scraper) pipeline.ScraperFactory {
	return func(string) (pipeline.Scraper, error) {
		return scr, nil
	}
}

func translated(l models.Listing) models.TranslatedListing {
	return models.TranslatedListing{
		Listing:           l,
		TitleEn:           lo.ToPtr("en:" + l.Title),
		LocationEn:        lo.ToPtr("en:" + l.Location),
		DescriptionEn:     lo.ToPtr("en:" + *l.Description),
		TranslationStatus: models.StatusComplete,
	}
}

func successfulScrape(data ...models.Listing) *models.ScrapeResult {
	return &models.ScrapeResult{
		Success:      true,
		Data:         data,
		Errors:       []string{},
		ScrapedCount: len(data),
		SkippedCount: 1,
	}
}

func mockTranslations(translator *mocks.Translator, data ...models.Listing) {
	translator.On("TranslateBatch", mock.Anything, data).Return(lo.Map(data, func(l models.Listing, _ int) models.TranslatedListing {
		return translated(l)
	}), nil).Once()
}

func wantSummary(ops ...func(s *models.RunSummary)) *models.RunSummary {
	summary := &models.RunSummary{
		Site:       site,
		Success:    true,
		Errors:     []string{},
		StartedAt:  now,
		FinishedAt: &now,
	}
	for _, op := range ops {
		op(summary)
	}
	return summary
}

func TestUnitProcessSite(t *testing.T) {
	scr := mocks.NewScraper(t)
	translator := mocks.NewTranslator(t)
	store := mocks.NewPropertyStore(t)

	existing := &models.Property{ID: 42, TranslatedListing: translated(listings[1])}

	scr.On("ScrapeProperties", mock.Anything).Return(successfulScrape(listings...), nil).Once()
	scr.On("Cleanup", mock.Anything).Return(nil).Once()
	mockTranslations(translator, listings...)
	store.On("FindByURL", mock.Anything, listings[0].URL).Return(nil, nil).Once()
	store.On("Create", mock.Anything, translated(listings[0])).Return(&models.Property{ID: 1}, nil).Once()
	store.On("FindByURL", mock.Anything, listings[1].URL).Return(existing, nil).Once()
	store.On("Update", mock.Anything, int64(42), translated(listings[1])).Return(existing, nil).Once()
	store.On("FindByURL", mock.Anything, listings[2].URL).Return(nil, nil).Once()
	store.On("Create", mock.Anything, translated(listings[2])).Return(&models.Property{ID: 3}, nil).Once()

	pip := pipeline.NewPipeline(factoryOf(scr), translator, store, &logger, pipeline.WithClock(fakeClock{now: now}))

	got, err := pip.ProcessSite(context.TODO(), site)

	require.NoError(t, err, "shouldn't return any error")
	assert.Equal(t, wantSummary(func(s *models.RunSummary) {
		s.ProcessedCount = 3
		s.ScrapedCount = 3
		s.SkippedCount = 1
	}), got, "should process every listing")
}

func TestUnitProcessSiteScrapeFailure(t *testing.T) {
	tests := map[string]struct {
		setup      func(scr *mocks.Scraper)
		factoryErr error
		wantError  string
	}{
		"scraper reports failure": {
			setup: func(scr *mocks.Scraper) {
				scr.On("ScrapeProperties", mock.Anything).Return(&models.ScrapeResult{
					Success: false,
					Errors:  []string{"Network error"},
				}, nil).Once()
				scr.On("Cleanup", mock.Anything).Return(nil).Once()
			},
			wantError: "Scraping failed: Network error",
		},
		"scraper reports several errors": {
			setup: func(scr *mocks.Scraper) {
				scr.On("ScrapeProperties", mock.Anything).Return(&models.ScrapeResult{
					Success: false,
					Errors:  []string{"Skipped item: bad price", "can't decode feed"},
				}, nil).Once()
				scr.On("Cleanup", mock.Anything).Return(assert.AnError).Once()
			},
			wantError: "Scraping failed: Skipped item: bad price, can't decode feed",
		},
		"scraper returns empty result": {
			setup: func(scr *mocks.Scraper) {
				scr.On("ScrapeProperties", mock.Anything).Return(nil, nil).Once()
				scr.On("Cleanup", mock.Anything).Return(nil).Once()
			},
			wantError: "Scraping failed: empty result",
		},
		"scraper returns error": {
			setup: func(scr *mocks.Scraper) {
				scr.On("ScrapeProperties", mock.Anything).Return(nil, assert.AnError).Once()
				scr.On("Cleanup", mock.Anything).Return(nil).Once()
			},
			wantError: "Scraping failed: " + assert.AnError.Error(),
		},
		"unknown site": {
			setup:      func(_ *mocks.Scraper) {},
			factoryErr: fmt.Errorf("unknown site %q", site),
			wantError:  `Scraping failed: unknown site "suumo"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			scr := mocks.NewScraper(t)
			tt.setup(scr)

			factory := factoryOf(scr)
			if tt.factoryErr != nil {
				factory = func(string) (pipeline.Scraper, error) { return nil, tt.factoryErr }
			}

			// translator and store have no expectations, any call fails the test
			pip := pipeline.NewPipeline(
				factory,
				mocks.NewTranslator(t),
				mocks.NewPropertyStore(t),
				&logger,
				pipeline.WithClock(fakeClock{now: now}),
			)

			got, err := pip.ProcessSite(context.TODO(), site)

			require.NoError(t, err, "shouldn't return any error")
			assert.Equal(t, wantSummary(func(s *models.RunSummary) {
				s.Success = false
				s.Errors = []string{tt.wantError}
			}), got, "should abort run")
		})
	}
}

func TestUnitProcessSiteListingFailures(t *testing.T) {
	t.Run("mixed batch persistence", func(t *testing.T) {
		scr := mocks.NewScraper(t)
		translator := mocks.NewTranslator(t)
		store := mocks.NewPropertyStore(t)

		scr.On("ScrapeProperties", mock.Anything).Return(successfulScrape(listings...), nil).Once()
		scr.On("Cleanup", mock.Anything).Return(nil).Once()
		mockTranslations(translator, listings...)
		for _, l := range listings {
			store.On("FindByURL", mock.Anything, l.URL).Return(nil, nil).Once()
		}
		store.On("Create", mock.Anything, translated(listings[0])).Return(&models.Property{ID: 1}, nil).Once()
		store.On("Create", mock.Anything, translated(listings[1])).Return(nil, assert.AnError).Once()
		store.On("Create", mock.Anything, translated(listings[2])).Return(&models.Property{ID: 3}, nil).Once()

		pip := pipeline.NewPipeline(factoryOf(scr), translator, store, &logger, pipeline.WithClock(fakeClock{now: now}))

		got, err := pip.ProcessSite(context.TODO(), site)

		require.NoError(t, err, "shouldn't return any error")
		assert.False(t, got.Success, "should not succeed")
		assert.Equal(t, 2, got.ProcessedCount, "should count persisted listings")
		assert.Equal(t, []string{
			fmt.Sprintf("Database error for %s: can't create property: %s", listings[1].URL, assert.AnError),
		}, got.Errors, "should record database error")
	})

	t.Run("lookup and update failures", func(t *testing.T) {
		scr := mocks.NewScraper(t)
		translator := mocks.NewTranslator(t)
		store := mocks.NewPropertyStore(t)

		scr.On("ScrapeProperties", mock.Anything).Return(successfulScrape(listings...), nil).Once()
		scr.On("Cleanup", mock.Anything).Return(nil).Once()
		mockTranslations(translator, listings...)
		store.On("FindByURL", mock.Anything, listings[0].URL).Return(nil, assert.AnError).Once()
		store.On("FindByURL", mock.Anything, listings[1].URL).Return(&models.Property{ID: 7}, nil).Once()
		store.On("Update", mock.Anything, int64(7), translated(listings[1])).Return(nil, nil).Once()
		store.On("FindByURL", mock.Anything, listings[2].URL).Return(&models.Property{ID: 8}, nil).Once()
		store.On("Update", mock.Anything, int64(8), translated(listings[2])).Return(nil, assert.AnError).Once()

		pip := pipeline.NewPipeline(factoryOf(scr), translator, store, &logger, pipeline.WithClock(fakeClock{now: now}))

		got, err := pip.ProcessSite(context.TODO(), site)

		require.NoError(t, err, "shouldn't return any error")
		assert.Zero(t, got.ProcessedCount, "should not count failed listings")
		assert.Equal(t, []string{
			fmt.Sprintf("Database error for %s: can't find property: %s", listings[0].URL, assert.AnError),
			fmt.Sprintf("Database error for %s: can't update property 7: %s", listings[1].URL, pipeline.ErrPropertyVanished),
			fmt.Sprintf("Database error for %s: can't update property 8: %s", listings[2].URL, assert.AnError),
		}, got.Errors, "should record every database error")
	})

	t.Run("translation panic of single listing", func(t *testing.T) {
		scr := mocks.NewScraper(t)
		translator := mocks.NewTranslator(t)
		store := mocks.NewPropertyStore(t)

		crashed := models.TranslatedListing{
			Listing:           listings[0],
			TranslationStatus: models.StatusFailed,
			Failure:           fmt.Errorf("translation panicked: %v", "boom"),
		}

		scr.On("ScrapeProperties", mock.Anything).Return(successfulScrape(listings[:2]...), nil).Once()
		scr.On("Cleanup", mock.Anything).Return(nil).Once()
		translator.On("TranslateBatch", mock.Anything, listings[:2]).
			Return([]models.TranslatedListing{crashed, translated(listings[1])}, nil).Once()
		store.On("FindByURL", mock.Anything, listings[1].URL).Return(nil, nil).Once()
		store.On("Create", mock.Anything, translated(listings[1])).Return(&models.Property{ID: 2}, nil).Once()

		pip := pipeline.NewPipeline(factoryOf(scr), translator, store, &logger, pipeline.WithClock(fakeClock{now: now}))

		got, err := pip.ProcessSite(context.TODO(), site)

		require.NoError(t, err, "shouldn't return any error")
		assert.Equal(t, 1, got.ProcessedCount, "should continue after panic")
		assert.Equal(t, []string{
			fmt.Sprintf("Translation error for %s: translation panicked: boom", listings[0].URL),
		}, got.Errors, "should record translation error")
	})

	t.Run("translator panic", func(t *testing.T) {
		scr := mocks.NewScraper(t)
		translator := mocks.NewTranslator(t)

		scr.On("ScrapeProperties", mock.Anything).Return(successfulScrape(listings[:2]...), nil).Once()
		scr.On("Cleanup", mock.Anything).Return(nil).Once()
		translator.On("TranslateBatch", mock.Anything, listings[:2]).
			Return(func(context.Context, []models.Listing) ([]models.TranslatedListing, error) { panic("boom") }).Once()

		// store has no expectations, nothing may be persisted
		pip := pipeline.NewPipeline(factoryOf(scr), translator, mocks.NewPropertyStore(t), &logger, pipeline.WithClock(fakeClock{now: now}))

		got, err := pip.ProcessSite(context.TODO(), site)

		require.NoError(t, err, "shouldn't return any error")
		assert.Zero(t, got.ProcessedCount, "should not persist anything")
		assert.Equal(t, []string{
			fmt.Sprintf("Translation error for %s: translation panicked: boom", listings[0].URL),
			fmt.Sprintf("Translation error for %s: translation panicked: boom", listings[1].URL),
		}, got.Errors, "should record translation error of every listing")
	})
}

func TestUnitProcessSiteTranslatesInOneBatch(t *testing.T) {
	scr := mocks.NewScraper(t)
	translator := mocks.NewTranslator(t)
	store := mocks.NewPropertyStore(t)

	var persisted []string

	scr.On("ScrapeProperties", mock.Anything).Return(successfulScrape(listings...), nil).Once()
	scr.On("Cleanup", mock.Anything).Return(nil).Once()
	mockTranslations(translator, listings...)
	store.On("FindByURL", mock.Anything, mock.AnythingOfType("string")).Return(nil, nil).Times(len(listings))
	store.On("Create", mock.Anything, mock.AnythingOfType("models.TranslatedListing")).
		Run(func(args mock.Arguments) {
			persisted = append(persisted, args.Get(1).(models.TranslatedListing).URL)
		}).
		Return(&models.Property{ID: 1}, nil).Times(len(listings))

	pip := pipeline.NewPipeline(factoryOf(scr), translator, store, &logger, pipeline.WithClock(fakeClock{now: now}))

	got, err := pip.ProcessSite(context.TODO(), site)

	require.NoError(t, err, "shouldn't return any error")
	translator.AssertNumberOfCalls(t, "TranslateBatch", 1)
	assert.Equal(t, lo.Map(listings, func(l models.Listing, _ int) string { return l.URL }), persisted,
		"should persist listings sequentially in scrape order")
	assert.Equal(t, len(listings), got.ProcessedCount, "should process every listing")
}

func TestUnitProcessSiteBatchCancelled(t *testing.T) {
	scr := mocks.NewScraper(t)
	translator := mocks.NewTranslator(t)

	partial := []models.TranslatedListing{
		translated(listings[0]),
		{Listing: listings[1], TranslationStatus: models.StatusPending},
		{Listing: listings[2], TranslationStatus: models.StatusPending},
	}

	scr.On("ScrapeProperties", mock.Anything).Return(successfulScrape(listings...), nil).Once()
	scr.On("Cleanup", mock.Anything).Return(nil).Once()
	translator.On("TranslateBatch", mock.Anything, listings).Return(partial, context.Canceled).Once()

	// store has no expectations, nothing may be persisted
	pip := pipeline.NewPipeline(factoryOf(scr), translator, mocks.NewPropertyStore(t), &logger, pipeline.WithClock(fakeClock{now: now}))

	got, err := pip.ProcessSite(context.TODO(), site)

	require.NoError(t, err, "shouldn't return any error")
	assert.Zero(t, got.ProcessedCount, "should not persist anything")
	assert.Equal(t, []string{"Run cancelled: context canceled"}, got.Errors, "should record cancellation")
	assert.False(t, got.Success, "cancelled run should not succeed")
}

func TestUnitProcessSiteCleanupFailure(t *testing.T) {
	scr := mocks.NewScraper(t)
	translator := mocks.NewTranslator(t)
	store := mocks.NewPropertyStore(t)

	scr.On("ScrapeProperties", mock.Anything).Return(successfulScrape(listings[0]), nil).Once()
	scr.On("Cleanup", mock.Anything).Return(assert.AnError).Once()
	mockTranslations(translator, listings[0])
	store.On("FindByURL", mock.Anything, listings[0].URL).Return(nil, nil).Once()
	store.On("Create", mock.Anything, translated(listings[0])).Return(&models.Property{ID: 1}, nil).Once()

	pip := pipeline.NewPipeline(factoryOf(scr), translator, store, &logger, pipeline.WithClock(fakeClock{now: now}))

	got, err := pip.ProcessSite(context.TODO(), site)

	require.NoError(t, err, "shouldn't return any error")
	assert.True(t, got.Success, "cleanup failure should not alter summary")
	assert.Empty(t, got.Errors, "cleanup failure should not be recorded")
}

func TestUnitProcessSiteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	scr := mocks.NewScraper(t)
	translator := mocks.NewTranslator(t)
	store := mocks.NewPropertyStore(t)

	scr.On("ScrapeProperties", mock.Anything).Return(successfulScrape(listings...), nil).Once()
	scr.On("Cleanup", mock.Anything).Return(nil).Once()
	mockTranslations(translator, listings...)
	store.On("FindByURL", mock.Anything, listings[0].URL).Return(nil, nil).Once()
	store.On("Create", mock.Anything, translated(listings[0])).
		Run(func(mock.Arguments) { cancel() }).
		Return(&models.Property{ID: 1}, nil).Once()

	pip := pipeline.NewPipeline(factoryOf(scr), translator, store, &logger, pipeline.WithClock(fakeClock{now: now}))

	got, err := pip.ProcessSite(ctx, site)

	require.NoError(t, err, "shouldn't return any error")
	assert.Equal(t, 1, got.ProcessedCount, "should keep listings processed before cancellation")
	assert.Equal(t, []string{"Run cancelled: context canceled"}, got.Errors, "should record cancellation")
	assert.False(t, got.Success, "cancelled run should not succeed")
}

func TestUnitProcessSiteAlreadyRunning(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	scr := mocks.NewScraper(t)
	scr.On("ScrapeProperties", mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(successfulScrape(), nil).Once()
	scr.On("Cleanup", mock.Anything).Return(nil).Once()

	pip := pipeline.NewPipeline(factoryOf(scr), mocks.NewTranslator(t), mocks.NewPropertyStore(t), &logger)

	done := make(chan *models.RunSummary)
	go func() {
		summary, _ := pip.ProcessSite(context.TODO(), site)
		done <- summary
	}()
	<-started

	_, err := pip.ProcessSite(context.TODO(), site)
	assert.ErrorIs(t, err, platform.ErrAlreadyRunning, "should reject concurrent run of the same site")

	close(release)
	first := <-done
	require.NotNil(t, first, "first run should finish")
	assert.True(t, first.Success, "first run should succeed")
	assert.NotNil(t, first.FinishedAt, "should set finish time")
	assert.False(t, first.StartedAt.IsZero(), "should set start time")
}
