package scraper

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Registry builds scrapers of registered sites.
type Registry struct {
	feeds   map[string]string
	fetcher Fetcher
	decoder Decoder
	logger  *zerolog.Logger
}

// NewRegistry returns new Registry with feeds mapping site names to feed urls.
func NewRegistry(feeds map[string]string, fetcher Fetcher, decoder Decoder, logger *zerolog.Logger) *Registry {
	return &Registry{
		feeds:   feeds,
		fetcher: fetcher,
		decoder: decoder,
		logger:  logger,
	}
}

// Scraper returns scraper of site.
func (r *Registry) Scraper(site string) (*FeedScraper, error) {
	name := strings.ToLower(strings.TrimSpace(site))
	feedURL, ok := r.feeds[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownSite, site)
	}

	return NewFeedScraper(name, feedURL, r.fetcher, r.decoder, r.logger), nil
}

// Sites returns registered site names in alphabetical order.
func (r *Registry) Sites() []string {
	sites := lo.Keys(r.feeds)
	slices.Sort(sites)
	return sites
}
