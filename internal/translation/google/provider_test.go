package google_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MichalMitros/property-translation-pipeline/internal/platform"
	"github.com/MichalMitros/property-translation-pipeline/internal/translation/google"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitTranslate(t *testing.T) {
	var gotBody map[string]any
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"translations":[{"translatedText":"Tokyo apartment"}]}`))
	}))
	defer server.Close()

	provider := google.NewProvider(server.Client(), "my-project", "", google.WithBaseURL(server.URL))

	got, err := provider.Translate(context.Background(), []string{"東京のアパート"}, "ja", "en")

	require.NoError(t, err, "should not return error")
	assert.Equal(t, []string{"Tokyo apartment"}, got, "should return translations")
	assert.Equal(t, "/v3/projects/my-project/locations/global:translateText", gotPath, "should call translateText")
	assert.Equal(t, map[string]any{
		"contents":           []any{"東京のアパート"},
		"mimeType":           "text/plain",
		"sourceLanguageCode": "ja",
		"targetLanguageCode": "en",
	}, gotBody, "should send request body")
}

func TestUnitTranslateErrors(t *testing.T) {
	tests := map[string]struct {
		status    int
		body      string
		wantCode  platform.Code
		wantCheck func(error) bool
	}{
		"rate limit": {
			status:    http.StatusTooManyRequests,
			body:      `{"error":{"code":429,"message":"Quota exceeded","status":"RESOURCE_EXHAUSTED"}}`,
			wantCode:  platform.CodeRateLimit,
			wantCheck: platform.IsRateLimit,
		},
		"unauthorized": {
			status:    http.StatusUnauthorized,
			body:      `{"error":{"code":401,"message":"bad token","status":"UNAUTHENTICATED"}}`,
			wantCode:  platform.CodeAuth,
			wantCheck: platform.IsAuth,
		},
		"forbidden": {
			status:    http.StatusForbidden,
			body:      `{"error":{"code":403,"message":"denied","status":"PERMISSION_DENIED"}}`,
			wantCode:  platform.CodeAuth,
			wantCheck: platform.IsAuth,
		},
		"server error": {
			status:    http.StatusServiceUnavailable,
			body:      `{"error":{"code":503,"message":"backend","status":"UNAVAILABLE"}}`,
			wantCode:  platform.CodeNetwork,
			wantCheck: platform.IsNetwork,
		},
		"bad request": {
			status:    http.StatusBadRequest,
			body:      `{"error":{"code":400,"message":"invalid","status":"INVALID_ARGUMENT"}}`,
			wantCode:  platform.CodeUnknown,
			wantCheck: func(err error) bool { return err != nil },
		},
		"translations count mismatch": {
			status:    http.StatusOK,
			body:      `{"translations":[]}`,
			wantCode:  platform.CodeUnknown,
			wantCheck: func(err error) bool { return err != nil },
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			provider := google.NewProvider(server.Client(), "p", "us-central1", google.WithBaseURL(server.URL))

			got, err := provider.Translate(context.Background(), []string{"渋谷区"}, "ja", "en")

			assert.Nil(t, got, "should not return translations")
			assert.True(t, tt.wantCheck(err), "should classify error")
			assert.Equal(t, tt.wantCode, platform.CodeOf(err), "should set error code")
		})
	}
}

func TestUnitTranslateTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	provider := google.NewProvider(&http.Client{Timeout: time.Second}, "p", "", google.WithBaseURL(url))

	_, err := provider.Translate(context.Background(), []string{"渋谷区"}, "ja", "en")

	assert.True(t, platform.IsNetwork(err), "should return network error")
}

func TestUnitNewAuthorizedClient(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := google.NewAuthorizedClient(context.Background(), filepath.Join(t.TempDir(), "missing.json"), time.Second)

		assert.True(t, platform.IsAuth(err), "should return auth error")
	})

	t.Run("invalid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "creds.json")
		require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600), "should write file")

		_, err := google.NewAuthorizedClient(context.Background(), path, time.Second)

		assert.True(t, platform.IsAuth(err), "should return auth error")
	})
}
