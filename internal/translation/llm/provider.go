package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/MichalMitros/property-translation-pipeline/internal/platform"
	"github.com/sashabaranov/go-openai"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = openai.GPT4oMini

var languageNames = map[string]string{
	"ja": "Japanese",
	"en": "English",
}

// Provider translates texts with an OpenAI compatible chat completion endpoint.
// It serves as a fallback path when the primary provider fails.
type Provider struct {
	client *openai.Client
	model  string
}

// NewProvider returns new Provider. Empty baseURL means OpenAI API.
func NewProvider(apiKey, baseURL, model string) *Provider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultModel
	}

	return &Provider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Translate translates texts one completion at a time.
func (p *Provider) Translate(ctx context.Context, texts []string, from, to string) ([]string, error) {
	out := make([]string, 0, len(texts))
	for _, text := range texts {
		translated, err := p.translate(ctx, text, from, to)
		if err != nil {
			return nil, err
		}
		out = append(out, translated)
	}

	return out, nil
}

func (p *Provider) translate(ctx context.Context, text, from, to string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt(from, to),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
	})
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", platform.NewError(platform.CodeUnknown, "chat completion returned no choices", nil)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func systemPrompt(from, to string) string {
	return fmt.Sprintf(
		"You translate real-estate listings from %s to %s. Reply with the translation only, without quotes or notes.",
		languageName(from),
		languageName(to),
	)
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

func classify(err error) error {
	status := 0

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch {
	case status == http.StatusTooManyRequests:
		return platform.NewRateLimitError("chat completion rate limit exceeded", err)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return platform.NewAuthError("chat completion rejected credentials", err)
	case status == 0 || status >= http.StatusInternalServerError:
		return platform.NewNetworkError("can't call chat completion", err)
	default:
		return platform.NewError(platform.CodeUnknown, "chat completion failed", err)
	}
}
