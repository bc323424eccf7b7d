package scraper

import (
	"context"
	"fmt"
	"io"

	"github.com/MichalMitros/property-translation-pipeline/internal/platform/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

//go:generate mockery --name Fetcher --filename fetcher.go
//go:generate mockery --name Decoder --filename decoder.go

// Fetcher fetches feed file.
type Fetcher interface {
	FetchFile(context.Context, string) (io.ReadCloser, error)
	CloseIdleConnections()
}

// Decoder decodes xml feed file into parsing results.
type Decoder interface {
	Decode(context.Context, io.Reader, chan<- models.ParsingResult) error
}

// FeedScraper scrapes listings of one site from its xml feed.
type FeedScraper struct {
	site    string
	feedURL string
	fetcher Fetcher
	decoder Decoder
	logger  *zerolog.Logger
}

// NewFeedScraper returns new FeedScraper.
func NewFeedScraper(site, feedURL string, fetcher Fetcher, decoder Decoder, logger *zerolog.Logger) *FeedScraper {
	return &FeedScraper{
		site:    site,
		feedURL: feedURL,
		fetcher: fetcher,
		decoder: decoder,
		logger:  logger,
	}
}

// ScrapeProperties fetches and decodes the feed. Items which can't be decoded are skipped
// and reported in result errors. Fetching or decoding failure is reported with Success=false.
// Error is returned only when ctx is done.
func (s *FeedScraper) ScrapeProperties(ctx context.Context) (*models.ScrapeResult, error) {
	xmlFile, err := s.fetcher.FetchFile(ctx, s.feedURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return &models.ScrapeResult{
			Success: false,
			Errors:  []string{fmt.Sprintf("can't fetch feed of %s: %s", s.site, err)},
		}, nil
	}
	defer xmlFile.Close()

	result := &models.ScrapeResult{
		Data:   []models.Listing{},
		Errors: []string{},
	}
	parsingResults := make(chan models.ParsingResult)

	errGroup, egCtx := errgroup.WithContext(ctx)

	// decode feed file.
	errGroup.Go(func() error {
		defer close(parsingResults)
		if err := s.decoder.Decode(egCtx, xmlFile, parsingResults); err != nil {
			return fmt.Errorf("can't decode feed of %s: %w", s.site, err)
		}
		return nil
	})

	// collect decoding results.
	errGroup.Go(func() error {
		for parsed := range parsingResults {
			if parsed.Error != nil {
				result.SkippedCount++
				result.Errors = append(result.Errors, fmt.Sprintf("Skipped item: %s", parsed.Error))
				continue
			}
			parsed.Listing.SourceWebsite = s.site
			result.Data = append(result.Data, parsed.Listing)
		}
		return nil
	})

	err = errGroup.Wait()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	result.ScrapedCount = len(result.Data)
	result.Success = err == nil
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
	}

	s.logger.Info().
		Str("site", s.site).
		Bool("success", result.Success).
		Int("scraped", result.ScrapedCount).
		Int("skipped", result.SkippedCount).
		Msg("feed scraped")

	return result, nil
}

// Cleanup releases idle http connections.
func (s *FeedScraper) Cleanup(_ context.Context) error {
	s.fetcher.CloseIdleConnections()
	return nil
}
