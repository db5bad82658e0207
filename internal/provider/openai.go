package provider

import (
	"context"
	"errors"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

const DefaultOpenAIURL = "https://api.openai.com/v1"

// OpenAIAdapter calls the OpenAI Chat Completions API.
type OpenAIAdapter struct {
	baseURL    string
	httpClient *http.Client
}

func NewOpenAIAdapter(baseURL string, httpClient *http.Client) *OpenAIAdapter {
	if baseURL == "" {
		baseURL = DefaultOpenAIURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &OpenAIAdapter{baseURL: baseURL, httpClient: httpClient}
}

func (a *OpenAIAdapter) Send(ctx context.Context, modelID, content, apiKey string) (string, error) {
	if apiKey == "" {
		return "", ErrMissingCredential
	}

	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = a.baseURL
	clientConfig.HTTPClient = a.httpClient
	client := openai.NewClientWithConfig(clientConfig)

	// max_completion_tokens is accepted by every chat model, max_tokens is
	// refused by the o-series.
	req := openai.ChatCompletionRequest{
		Model: modelID,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
		MaxCompletionTokens: MaxTokens,
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
			return "", newStatusError("OpenAI", apiErr.HTTPStatusCode, err)
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
			return "", newStatusError("OpenAI", reqErr.HTTPStatusCode, err)
		}
		return "", &ProviderError{Provider: "OpenAI", Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &MalformedResponseError{Provider: "OpenAI", Reason: "no choices"}
	}
	return resp.Choices[0].Message.Content, nil
}
