package modelstesting

import (
	"math/rand"
	"time"

	"github.com/MichalMitros/property-translation-pipeline/internal/platform/models"
	"github.com/go-faker/faker/v4"
	"github.com/samber/lo"
)

// FakeListing returns models.Listing with fake data and random number of fake images.
func FakeListing(ops ...func(l *models.Listing)) models.Listing {
	listing := models.Listing{
		URL:           faker.URL() + "/" + faker.UUIDDigit(),
		Title:         faker.Sentence(),
		Location:      faker.Word(),
		Description:   lo.ToPtr(faker.Paragraph()),
		Price:         lo.ToPtr(rand.Int63n(100_000_000)),
		SizeSqm:       lo.ToPtr(float64(rand.Intn(200) + 10)),
		PropertyType:  faker.Word(),
		Images:        fakeImages(),
		ListingDate:   lo.ToPtr(time.Date(2024, time.March, rand.Intn(28)+1, 0, 0, 0, 0, time.UTC)),
		SourceWebsite: faker.Word(),
	}

	for _, op := range ops {
		op(&listing)
	}

	return listing
}

// FakeTranslatedListing returns completely translated models.TranslatedListing with fake data.
func FakeTranslatedListing(ops ...func(l *models.TranslatedListing)) models.TranslatedListing {
	listing := models.TranslatedListing{
		Listing:           FakeListing(),
		TitleEn:           lo.ToPtr(faker.Sentence()),
		LocationEn:        lo.ToPtr(faker.Word()),
		DescriptionEn:     lo.ToPtr(faker.Paragraph()),
		TranslationStatus: models.StatusComplete,
	}

	for _, op := range ops {
		op(&listing)
	}

	return listing
}

func fakeImages() []string {
	imagesLen := rand.Intn(5)
	images := make([]string, 0, imagesLen)
	for range imagesLen {
		images = append(images, faker.URL())
	}

	return images
}
