package helpers

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MichalMitros/property-translation-pipeline/internal/decoder"
	"github.com/MichalMitros/property-translation-pipeline/internal/platform/models"
	"github.com/MichalMitros/property-translation-pipeline/internal/platform/models/modelstesting"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

const (
	contentType = "Content-Type"

	// TranslationPrefix is prepended to every text by translation server.
	TranslationPrefix = "en: "
)

// PrepareMockedHTTPServer is helper function for mocking feed server.
// Returns function for setting feed file to return, feed number is from 0 to len(feedFiles) exclusive.
func PrepareMockedHTTPServer(t *testing.T, feedFiles [][]byte, statusCode int) (*httptest.Server, func(int)) {
	t.Helper()

	var feedFileToReturnIx atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, _ *http.Request) {
		wrt.Header().Add(contentType, "application/xml")
		wrt.WriteHeader(statusCode)
		_, _ = wrt.Write(feedFiles[feedFileToReturnIx.Load()])
	}))

	t.Cleanup(func() {
		srv.Close()
	})

	return srv, func(i int) { feedFileToReturnIx.Store(int32(i)) }
}

// PrepareTranslationServer is helper function for mocking Cloud Translation API.
// Every text is translated by prefixing it with TranslationPrefix. Returns number of handled requests.
func PrepareTranslationServer(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var requests atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
		requests.Add(1)

		var body struct {
			Contents []string `json:"contents"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			wrt.WriteHeader(http.StatusBadRequest)
			return
		}

		type translation struct {
			TranslatedText string `json:"translatedText"`
		}
		wrt.Header().Add(contentType, "application/json")
		_ = json.NewEncoder(wrt).Encode(map[string][]translation{
			"translations": lo.Map(body.Contents, func(text string, _ int) translation {
				return translation{TranslatedText: TranslationPrefix + text}
			}),
		})
	}))

	t.Cleanup(func() {
		srv.Close()
	})

	return srv, &requests
}

// DeleteRMQQueueOnCleanup is helper function deleting RMQ queue after test is finished.
func DeleteRMQQueueOnCleanup(t *testing.T, channel *amqp.Channel, queueName string) {
	t.Helper()

	t.Cleanup(func() {
		if _, err := channel.QueueDelete(queueName, false, false, true); err != nil {
			require.FailNow(t, "can't delete queue", queueName, err)
		}
	})
}

// GenerateTestData generates n listings with URLs ending with numbers in [1;n].
func GenerateTestData(t *testing.T, n int, site string) []models.Listing {
	t.Helper()

	results := make([]models.Listing, n)

	for ix := range n {
		results[ix] = modelstesting.FakeListing(func(l *models.Listing) {
			l.URL = "https://" + site + ".example.jp/listings/" + strconv.Itoa(ix+1)
			l.SourceWebsite = site
			l.SizeSqm = lo.ToPtr(float64(ix + 20))
		})
	}

	return results
}

// ListingsToXML is helper function which converts listings to feed xml and returns them as byte slice.
func ListingsToXML(t *testing.T, listings []models.Listing) []byte {
	t.Helper()

	var buf bytes.Buffer
	encoder := xml.NewEncoder(&buf)

	for ix := range listings {
		err := encoder.EncodeElement(toDecoderListing(&listings[ix]), xml.StartElement{Name: xml.Name{Local: "item"}})
		if err != nil {
			require.FailNow(t, "can't encode listing to xml", err)
		}
	}

	if err := encoder.Close(); err != nil {
		require.FailNow(t, "can't close xml encoder", err)
	}

	return buf.Bytes()
}

// WaitForSummary is blocking helper function, returns next run summary.
func WaitForSummary(t *testing.T, summaries <-chan *models.RunSummary) *models.RunSummary {
	t.Helper()

	select {
	case summary := <-summaries:
		return summary
	case <-time.After(30 * time.Second):
		require.FailNow(t, "site processing didn't finish in time")
		return nil
	}
}

func toDecoderListing(listing *models.Listing) *decoder.Listing {
	result := &decoder.Listing{
		URL:          listing.URL,
		Title:        listing.Title,
		Location:     listing.Location,
		Description:  listing.Description,
		PropertyType: listing.PropertyType,
		Images:       listing.Images,
	}
	if listing.Price != nil {
		result.Price = strconv.FormatInt(*listing.Price, 10) + "円"
	}
	if listing.SizeSqm != nil {
		result.SizeSqm = strconv.FormatFloat(*listing.SizeSqm, 'f', -1, 64) + "㎡"
	}
	if listing.ListingDate != nil {
		result.ListingDate = listing.ListingDate.Format("2006-01-02")
	}

	return result
}
