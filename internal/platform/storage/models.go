package storage

import (
	"strings"

	"github.com/MichalMitros/property-translation-pipeline/internal/platform/models"

	pgmodels "github.com/MichalMitros/property-translation-pipeline/internal/platform/storage/gen/postgres/public/model"
)

//go:generate make -C ../../../ generate-db

// ToDBProperty converts models.TranslatedListing into postgres property model.
func ToDBProperty(listing *models.TranslatedListing) *pgmodels.Properties {
	return &pgmodels.Properties{
		URL:               listing.URL,
		Title:             listing.Title,
		TitleEn:           listing.TitleEn,
		Location:          listing.Location,
		LocationEn:        listing.LocationEn,
		Description:       listing.Description,
		DescriptionEn:     listing.DescriptionEn,
		Price:             listing.Price,
		SizeSqm:           listing.SizeSqm,
		PropertyType:      listing.PropertyType,
		Images:            toDBImages(listing.Images),
		ListingDate:       listing.ListingDate,
		SourceWebsite:     listing.SourceWebsite,
		TranslationStatus: string(listing.TranslationStatus),
	}
}

// FromDBProperty converts postgres property model into models.Property.
func FromDBProperty(property *pgmodels.Properties) *models.Property {
	return &models.Property{
		ID:        property.ID,
		CreatedAt: property.CreatedAt,
		UpdatedAt: property.UpdatedAt,
		TranslatedListing: models.TranslatedListing{
			Listing: models.Listing{
				URL:           property.URL,
				Title:         property.Title,
				Location:      property.Location,
				Description:   property.Description,
				Price:         property.Price,
				SizeSqm:       property.SizeSqm,
				PropertyType:  property.PropertyType,
				Images:        fromDBImages(property.Images),
				ListingDate:   property.ListingDate,
				SourceWebsite: property.SourceWebsite,
			},
			TitleEn:           property.TitleEn,
			LocationEn:        property.LocationEn,
			DescriptionEn:     property.DescriptionEn,
			TranslationStatus: models.TranslationStatus(property.TranslationStatus),
		},
	}
}

// toDBImages joins image urls with new lines.
func toDBImages(urls []string) string {
	return strings.Join(urls, "\n")
}

func fromDBImages(images string) []string {
	if images == "" {
		return []string{}
	}
	return strings.Split(images, "\n")
}
