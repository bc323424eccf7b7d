package decoder

import (
	"context"
	"encoding/xml"
	"errors"
	"html"
	"io"

	"github.com/MichalMitros/property-translation-pipeline/internal/platform/models"
	"github.com/samber/lo"
)

// Decoder decodes xml feed files into listings.
type Decoder struct{}

// Decode decodes listings from xmlFile and returns each listing with decoding error into output channel.
// Malformed xml stops decoding and is returned as error.
func (d Decoder) Decode(ctx context.Context, xmlFile io.Reader, output chan<- models.ParsingResult) error {
	dec := xml.NewDecoder(xmlFile)
	dec.Strict = true

	for {
		token, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		element, ok := token.(xml.StartElement)
		if !ok || element.Name.Local != "item" {
			continue
		}

		var listing Listing
		if err := dec.DecodeElement(&listing, &element); err != nil {
			return err
		}

		unescapeListingFields(&listing)
		result, err := toAppListing(&listing)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case output <- models.ParsingResult{
			Listing: result,
			Error:   err,
		}:
		}
	}
}

// unescapeListingFields unescapes html characters from listing title, location and description.
func unescapeListingFields(listing *Listing) {
	listing.Title = html.UnescapeString(listing.Title)
	listing.Location = html.UnescapeString(listing.Location)
	if listing.Description != nil {
		listing.Description = lo.ToPtr(html.UnescapeString(*listing.Description))
	}
}
