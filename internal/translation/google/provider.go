package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/MichalMitros/property-translation-pipeline/internal/platform"
	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
)

const (
	// DefaultBaseURL is Cloud Translation API endpoint.
	DefaultBaseURL = "https://translation.googleapis.com"
	// DefaultLocation is the location used when none is configured.
	DefaultLocation = "global"

	scope = "https://www.googleapis.com/auth/cloud-translation"
)

type translateRequest struct {
	Contents           []string `json:"contents"`
	MimeType           string   `json:"mimeType"`
	SourceLanguageCode string   `json:"sourceLanguageCode"`
	TargetLanguageCode string   `json:"targetLanguageCode"`
}

type translateResponse struct {
	Translations []struct {
		TranslatedText string `json:"translatedText"`
	} `json:"translations"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Option is custom configuration of Provider.
type Option func(p *Provider)

// Provider translates texts with Cloud Translation v3 REST API.
type Provider struct {
	http      *resty.Client
	projectID string
	location  string
}

// NewProvider returns new Provider sending requests with httpClient,
// which is expected to authorize them (see NewAuthorizedClient).
func NewProvider(httpClient *http.Client, projectID, location string, ops ...Option) *Provider {
	if location == "" {
		location = DefaultLocation
	}

	p := &Provider{
		http:      resty.NewWithClient(httpClient).SetBaseURL(DefaultBaseURL),
		projectID: projectID,
		location:  location,
	}

	for _, op := range ops {
		op(p)
	}

	return p
}

// WithBaseURL sets custom API endpoint.
func WithBaseURL(url string) Option {
	return func(p *Provider) {
		p.http.SetBaseURL(url)
	}
}

// NewAuthorizedClient returns http.Client authorizing requests with service account from
// credentialsFile or, when it's empty, with application default credentials.
func NewAuthorizedClient(ctx context.Context, credentialsFile string, timeout time.Duration) (*http.Client, error) {
	var (
		creds *googleoauth.Credentials
		err   error
	)

	if credentialsFile != "" {
		data, readErr := os.ReadFile(credentialsFile)
		if readErr != nil {
			return nil, platform.NewAuthError("can't read credentials file", readErr)
		}
		creds, err = googleoauth.CredentialsFromJSON(ctx, data, scope)
	} else {
		creds, err = googleoauth.FindDefaultCredentials(ctx, scope)
	}
	if err != nil {
		return nil, platform.NewAuthError("can't load credentials", err)
	}

	client := oauth2.NewClient(ctx, creds.TokenSource)
	client.Timeout = timeout

	return client, nil
}

// Translate translates texts in one request.
func (p *Provider) Translate(ctx context.Context, texts []string, from, to string) ([]string, error) {
	var (
		result translateResponse
		failed apiError
	)

	resp, err := p.http.R().
		SetContext(ctx).
		SetBody(translateRequest{
			Contents:           texts,
			MimeType:           "text/plain",
			SourceLanguageCode: from,
			TargetLanguageCode: to,
		}).
		SetResult(&result).
		SetError(&failed).
		Post(fmt.Sprintf("/v3/projects/%s/locations/%s:translateText", p.projectID, p.location))
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, platform.NewAuthError("can't obtain access token", err)
		}
		return nil, platform.NewNetworkError("can't call translation api", err)
	}

	if resp.IsError() {
		return nil, classify(resp.StatusCode(), failed)
	}

	if len(result.Translations) != len(texts) {
		return nil, platform.NewError(
			platform.CodeUnknown,
			fmt.Sprintf("translation api returned %d translations for %d texts", len(result.Translations), len(texts)),
			nil,
		)
	}

	out := make([]string, 0, len(texts))
	for _, t := range result.Translations {
		out = append(out, t.TranslatedText)
	}

	return out, nil
}

func classify(status int, body apiError) error {
	cause := fmt.Errorf("status %d %s: %s", status, body.Error.Status, body.Error.Message)

	switch {
	case status == http.StatusTooManyRequests:
		return platform.NewRateLimitError("translation api rate limit exceeded", cause)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return platform.NewAuthError("translation api rejected credentials", cause)
	case status >= http.StatusInternalServerError:
		return platform.NewNetworkError("translation api unavailable", cause)
	default:
		return platform.NewError(platform.CodeUnknown, "translation api request failed", cause)
	}
}
