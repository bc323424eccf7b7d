package decoder

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MichalMitros/property-translation-pipeline/internal/platform/models"
	"github.com/samber/lo"
)

var listingDateLayouts = []string{time.RFC3339, "2006-01-02", "2006/01/02"}

// Listing is model for listing items in feed files.
type Listing struct {
	URL          string   `xml:"link"`
	Title        string   `xml:"title"`
	Location     string   `xml:"location"`
	Description  *string  `xml:"description"`
	Price        string   `xml:"price"`
	SizeSqm      string   `xml:"size_sqm"`
	PropertyType string   `xml:"property_type"`
	Images       []string `xml:"image"`
	ListingDate  string   `xml:"listing_date"`
}

func toAppListing(listing *Listing) (models.Listing, error) {
	result := models.Listing{
		URL:          strings.TrimSpace(listing.URL),
		Title:        listing.Title,
		Location:     listing.Location,
		Description:  listing.Description,
		PropertyType: strings.TrimSpace(listing.PropertyType),
		Images: lo.FilterMap(listing.Images, func(img string, _ int) (string, bool) {
			img = strings.TrimSpace(img)
			return img, img != ""
		}),
	}

	if result.URL == "" {
		return result, ErrMissingURL
	}

	price, err := parsePrice(listing.Price)
	if err != nil {
		return result, fmt.Errorf("can't parse price of %s: %w", result.URL, err)
	}
	result.Price = price

	size, err := parseSize(listing.SizeSqm)
	if err != nil {
		return result, fmt.Errorf("can't parse size of %s: %w", result.URL, err)
	}
	result.SizeSqm = size

	date, err := parseDate(listing.ListingDate)
	if err != nil {
		return result, fmt.Errorf("can't parse listing date of %s: %w", result.URL, err)
	}
	result.ListingDate = date

	return result, nil
}

// parsePrice parses yen amounts like "¥12,800,000" or "12800000円".
func parsePrice(raw string) (*int64, error) {
	cleaned := strings.NewReplacer(",", "", "¥", "", "￥", "", "円", "", " ", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return nil, nil
	}

	price, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return nil, err
	}

	return &price, nil
}

// parseSize parses areas like "45.5" or "45.5m²".
func parseSize(raw string) (*float64, error) {
	cleaned := strings.NewReplacer("m²", "", "㎡", "", "sqm", "", " ", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return nil, nil
	}

	size, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil, err
	}

	return &size, nil
}

func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var lastErr error
	for _, layout := range listingDateLayouts {
		date, err := time.Parse(layout, raw)
		if err == nil {
			return lo.ToPtr(date.UTC()), nil
		}
		lastErr = err
	}

	return nil, lastErr
}
