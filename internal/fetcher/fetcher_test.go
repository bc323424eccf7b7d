package fetcher_test

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MichalMitros/property-translation-pipeline/internal/fetcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userAgent   = "test/0.0.0"
	response    = "<items></items>"
	endpoint    = "/feed.xml"
	contentType = "Content-Type"
)

func TestUnitFetchFile(t *testing.T) {
	wantHeaders := map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "application/xml",
		"Accept-Encoding": "gzip",
	}

	writeGzip := func(wrt http.ResponseWriter) {
		compressedWrt := gzip.NewWriter(wrt)
		_, _ = compressedWrt.Write([]byte(response))
		_ = compressedWrt.Close()
	}

	tests := map[string]struct {
		serverHandler http.Handler
		wantBody      string
		wantErr       error
	}{
		"ok xml": {
			serverHandler: http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
				validateHeaders(t, req.Header, wantHeaders)
				wrt.Header().Add(contentType, "application/xml")
				_, _ = wrt.Write([]byte(response))
			}),
			wantBody: response,
		},
		"ok text xml with charset": {
			serverHandler: http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
				validateHeaders(t, req.Header, wantHeaders)
				wrt.Header().Add(contentType, "text/xml; charset=utf-8")
				_, _ = wrt.Write([]byte(response))
			}),
			wantBody: response,
		},
		"ok gzip file": {
			serverHandler: http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
				validateHeaders(t, req.Header, wantHeaders)
				wrt.Header().Add(contentType, "application/gzip")
				writeGzip(wrt)
			}),
			wantBody: response,
		},
		"ok gzip content encoding": {
			serverHandler: http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
				validateHeaders(t, req.Header, wantHeaders)
				wrt.Header().Add(contentType, "application/xml")
				wrt.Header().Add("Content-Encoding", "gzip")
				writeGzip(wrt)
			}),
			wantBody: response,
		},
		"bad status error": {
			serverHandler: http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
				validateHeaders(t, req.Header, wantHeaders)
				wrt.WriteHeader(http.StatusInternalServerError)
			}),
			wantErr: fetcher.ErrStatusNotOK,
		},
		"bad content type error": {
			serverHandler: http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
				validateHeaders(t, req.Header, wantHeaders)
				wrt.Header().Add(contentType, "text/html")
				_, _ = wrt.Write([]byte(response))
			}),
			wantErr: fetcher.ErrContentTypeNotSupported,
		},
		"zip archive error": {
			serverHandler: http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
				validateHeaders(t, req.Header, wantHeaders)
				wrt.Header().Add(contentType, "application/zip")
				_, _ = wrt.Write([]byte("PK\x03\x04"))
			}),
			wantErr: fetcher.ErrContentTypeNotSupported,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(tt.serverHandler)
			t.Cleanup(func() {
				srv.Close()
			})

			fet := fetcher.NewFetcher(srv.Client(), userAgent)
			resp, err := fet.FetchFile(context.TODO(), srv.URL+endpoint)

			require.ErrorIs(t, err, tt.wantErr, "should return correct error")

			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, readAndClose(t, resp), "should return correct response")
			}
			fet.CloseIdleConnections()
		})
	}
}

// readAndClose reads ReadCloser, closes it and returns result as string.
func readAndClose(t *testing.T, reader io.ReadCloser) string {
	t.Helper()

	if !assert.NotNil(t, reader, "reader shouldn't be nil") {
		return ""
	}

	result, err := io.ReadAll(reader)
	if !assert.NoError(t, err, "can't read reader") {
		return ""
	}

	assert.NoError(t, reader.Close(), "can't close reader")

	return string(result)
}

func validateHeaders(t *testing.T, headers http.Header, expected map[string]string) {
	t.Helper()

	for header, expectedValue := range expected {
		assert.Equalf(t, expectedValue, headers.Get(header), "request should contain correct value for header %s", header)
	}
}
