package provider

import (
	"context"
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	DefaultAnthropicURL = "https://api.anthropic.com/"
	anthropicVersion    = "2023-06-01"
)

// AnthropicAdapter calls the Anthropic Messages API.
type AnthropicAdapter struct {
	baseURL    string
	httpClient *http.Client
}

// NewAnthropicAdapter creates an adapter. An empty baseURL selects the
// public endpoint; a nil httpClient selects a client without timeout.
func NewAnthropicAdapter(baseURL string, httpClient *http.Client) *AnthropicAdapter {
	if baseURL == "" {
		baseURL = DefaultAnthropicURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &AnthropicAdapter{baseURL: baseURL, httpClient: httpClient}
}

func (a *AnthropicAdapter) Send(ctx context.Context, modelID, content, apiKey string) (string, error) {
	if apiKey == "" {
		return "", ErrMissingCredential
	}

	// The key is per call, so the SDK client is too.
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(a.baseURL),
		option.WithHTTPClient(a.httpClient),
		option.WithHeader("anthropic-version", anthropicVersion),
		option.WithMaxRetries(0),
	)

	msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: MaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(content)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", newStatusError("Anthropic", apiErr.StatusCode, err)
		}
		return "", &ProviderError{Provider: "Anthropic", Err: err}
	}

	if len(msg.Content) == 0 {
		return "", &MalformedResponseError{Provider: "Anthropic", Reason: "no content blocks"}
	}
	first := msg.Content[0]
	if first.Type != "text" {
		return "", &MalformedResponseError{Provider: "Anthropic", Reason: "first content block is " + first.Type}
	}
	return first.Text, nil
}
