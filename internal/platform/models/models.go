package models

import (
	"strings"
	"time"
)

// TranslationStatus is the outcome of translating one listing.
type TranslationStatus string

const (
	// StatusPending means translation was not attempted yet.
	StatusPending TranslationStatus = "pending"
	// StatusComplete means every non-empty source field has a translation.
	StatusComplete TranslationStatus = "complete"
	// StatusPartial means some, but not all, non-empty source fields were translated.
	StatusPartial TranslationStatus = "partial"
	// StatusFailed means no non-empty source field was translated.
	StatusFailed TranslationStatus = "failed"
)

// ParsingResult contains listing decoded from a feed with decoding error if there is any.
type ParsingResult struct {
	Listing Listing
	Error   error
}

// Listing is a scraped real-estate listing in its source language.
type Listing struct {
	URL           string
	Title         string
	Location      string
	Description   *string
	Price         *int64
	SizeSqm       *float64
	PropertyType  string
	Images        []string
	ListingDate   *time.Time
	SourceWebsite string
}

// TranslatedListing is a Listing with its english counterparts.
type TranslatedListing struct {
	Listing

	TitleEn           *string
	LocationEn        *string
	DescriptionEn     *string
	TranslationStatus TranslationStatus

	// Failure is set when translating the listing crashed. Such record is never persisted.
	Failure error `json:"-"`
}

// ComputeStatus derives translation status from source and translated fields.
func (t TranslatedListing) ComputeStatus() TranslationStatus {
	var description string
	if t.Description != nil {
		description = *t.Description
	}

	pairs := [][2]string{
		{t.Title, deref(t.TitleEn)},
		{t.Location, deref(t.LocationEn)},
		{description, deref(t.DescriptionEn)},
	}

	complete := true
	translatedAny := false
	for _, pair := range pairs {
		present := strings.TrimSpace(pair[0]) != ""
		translated := strings.TrimSpace(pair[1]) != ""
		if present && !translated {
			complete = false
		}
		if present && translated {
			translatedAny = true
		}
	}

	switch {
	case complete:
		return StatusComplete
	case !translatedAny:
		return StatusFailed
	default:
		return StatusPartial
	}
}

// ScrapeResult is a result of scraping one site.
type ScrapeResult struct {
	Success      bool
	Data         []Listing
	Errors       []string
	ScrapedCount int
	SkippedCount int
}

// Property is a persisted listing.
type Property struct {
	TranslatedListing

	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RunSummary is a result of processing one site.
type RunSummary struct {
	Site           string     `json:"site"`
	Success        bool       `json:"success"`
	ProcessedCount int        `json:"processedCount"`
	Errors         []string   `json:"errors"`
	ScrapedCount   int        `json:"scrapedCount"`
	SkippedCount   int        `json:"skippedCount"`
	StartedAt      time.Time  `json:"startedAt"`
	FinishedAt     *time.Time `json:"finishedAt,omitempty"`
}

// CacheStats holds translation cache counters.
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
