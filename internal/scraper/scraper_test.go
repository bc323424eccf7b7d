package scraper_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MichalMitros/property-translation-pipeline/internal/decoder"
	"github.com/MichalMitros/property-translation-pipeline/internal/fetcher"
	"github.com/MichalMitros/property-translation-pipeline/internal/platform/models"
	"github.com/MichalMitros/property-translation-pipeline/internal/platform/models/modelstesting"
	"github.com/MichalMitros/property-translation-pipeline/internal/scraper"
	"github.com/MichalMitros/property-translation-pipeline/internal/scraper/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// reusable test data
var (
	logger  = zerolog.Nop()
	site    = "suumo"
	feedURL = "https://feeds.example.jp/suumo.xml"
)

func decodeInto(results ...models.ParsingResult) func(context.Context, io.Reader, chan<- models.ParsingResult) error {
	return func(_ context.Context, _ io.Reader, out chan<- models.ParsingResult) error {
		for _, r := range results {
			out <- r
		}
		return nil
	}
}

func TestUnitScrapeProperties(t *testing.T) {
	first := modelstesting.FakeListing()
	second := modelstesting.FakeListing()

	tests := map[string]struct {
		setup func(f *mocks.Fetcher, d *mocks.Decoder)
		want  *models.ScrapeResult
	}{
		"success with skipped items": {
			setup: func(f *mocks.Fetcher, d *mocks.Decoder) {
				f.On("FetchFile", mock.Anything, feedURL).Return(io.NopCloser(strings.NewReader("")), nil).Once()
				d.On("Decode", mock.Anything, mock.Anything, mock.Anything).Return(decodeInto(
					models.ParsingResult{Listing: first},
					models.ParsingResult{Error: decoder.ErrMissingURL},
					models.ParsingResult{Listing: second},
				)).Once()
			},
			want: &models.ScrapeResult{
				Success:      true,
				Data:         []models.Listing{withSite(first), withSite(second)},
				Errors:       []string{"Skipped item: listing has no link"},
				ScrapedCount: 2,
				SkippedCount: 1,
			},
		},
		"fetch failure": {
			setup: func(f *mocks.Fetcher, _ *mocks.Decoder) {
				f.On("FetchFile", mock.Anything, feedURL).Return(nil, fetcher.ErrStatusNotOK).Once()
			},
			want: &models.ScrapeResult{
				Success: false,
				Errors:  []string{"can't fetch feed of suumo: response status is not 200 OK"},
			},
		},
		"decode failure": {
			setup: func(f *mocks.Fetcher, d *mocks.Decoder) {
				f.On("FetchFile", mock.Anything, feedURL).Return(io.NopCloser(strings.NewReader("")), nil).Once()
				d.On("Decode", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError).Once()
			},
			want: &models.ScrapeResult{
				Success: false,
				Data:    []models.Listing{},
				Errors:  []string{"can't decode feed of suumo: " + assert.AnError.Error()},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			fet := mocks.NewFetcher(t)
			dec := mocks.NewDecoder(t)
			tt.setup(fet, dec)

			scr := scraper.NewFeedScraper(site, feedURL, fet, dec, &logger)

			got, err := scr.ScrapeProperties(context.Background())

			require.NoError(t, err, "should not return error")
			assert.Equal(t, tt.want, got, "should return scrape result")
		})
	}
}

func TestUnitScrapePropertiesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fet := mocks.NewFetcher(t)
	fet.On("FetchFile", mock.Anything, feedURL).Return(nil, context.Canceled).Once()

	got, err := scraper.NewFeedScraper(site, feedURL, fet, mocks.NewDecoder(t), &logger).ScrapeProperties(ctx)

	assert.ErrorIs(t, err, context.Canceled, "should return context error")
	assert.Nil(t, got, "should not return result")
}

func TestUnitCleanup(t *testing.T) {
	fet := mocks.NewFetcher(t)
	fet.On("CloseIdleConnections").Return().Once()

	err := scraper.NewFeedScraper(site, feedURL, fet, mocks.NewDecoder(t), &logger).Cleanup(context.Background())

	assert.NoError(t, err, "should not return error")
}

func TestUnitRegistry(t *testing.T) {
	feed := `<rss><channel><item><link>https://www.example.jp/p/1</link><title>東京</title><location>港区</location></item></channel></rss>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(feed))
	}))
	t.Cleanup(srv.Close)

	registry := scraper.NewRegistry(
		map[string]string{"suumo": srv.URL, "homes": srv.URL + "/homes"},
		fetcher.NewFetcher(srv.Client(), "test/0.0.0"),
		decoder.Decoder{},
		&logger,
	)

	assert.Equal(t, []string{"homes", "suumo"}, registry.Sites(), "should list sites")

	_, err := registry.Scraper("athome")
	assert.ErrorIs(t, err, scraper.ErrUnknownSite, "should reject unknown site")

	scr, err := registry.Scraper(" SUUMO ")
	require.NoError(t, err, "should find site case insensitively")

	got, err := scr.ScrapeProperties(context.Background())

	require.NoError(t, err, "should not return error")
	assert.True(t, got.Success, "should succeed")
	require.Len(t, got.Data, 1, "should scrape one listing")
	assert.Equal(t, "suumo", got.Data[0].SourceWebsite, "should set source website")
	assert.Equal(t, "港区", got.Data[0].Location, "should decode location")
}

func withSite(l models.Listing) models.Listing {
	l.SourceWebsite = site
	return l
}
