// Package provider translates a single user message into a vendor chat
// request and extracts the reply text from the vendor response.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Rorical/MultiChat/internal/models"
)

// MaxTokens is the reply budget sent with every request.
const MaxTokens = 1024

var (
	ErrUnknownModel      = errors.New("unknown model")
	ErrMissingCredential = errors.New("missing API key")
)

// Adapter sends one message to a vendor and returns the reply text.
type Adapter interface {
	Send(ctx context.Context, modelID, content, apiKey string) (string, error)
}

// ProviderError is returned when the vendor answers with a non-success
// status, or when no response was received at all.
type ProviderError struct {
	Provider   string
	StatusCode int
	Status     string // HTTP status text, e.g. "Unauthorized"
	Err        error
}

func newStatusError(provider string, code int, cause error) *ProviderError {
	status := http.StatusText(code)
	if status == "" {
		// Vendor-specific codes such as Anthropic's 529.
		status = "HTTP " + strconv.Itoa(code)
	}
	return &ProviderError{
		Provider:   provider,
		StatusCode: code,
		Status:     status,
		Err:        cause,
	}
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 && e.Err != nil {
		return fmt.Sprintf("%s API error: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Status)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// MalformedResponseError reports a success response missing the reply.
type MalformedResponseError struct {
	Provider string
	Reason   string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s API error: malformed response: %s", e.Provider, e.Reason)
}

// Router picks the adapter for a model id by looking up the model's
// provider in the catalog.
type Router struct {
	catalog  map[string]models.Provider
	adapters map[models.Provider]Adapter
}

func NewRouter(catalog []models.Model, adapters map[models.Provider]Adapter) *Router {
	byID := make(map[string]models.Provider, len(catalog))
	for _, m := range catalog {
		byID[m.ID] = m.Provider
	}
	return &Router{catalog: byID, adapters: adapters}
}

func (r *Router) Send(ctx context.Context, modelID, content, apiKey string) (string, error) {
	p, ok := r.catalog[modelID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownModel, modelID)
	}
	adapter, ok := r.adapters[p]
	if !ok {
		return "", fmt.Errorf("%w: no adapter for provider %q", ErrUnknownModel, p)
	}
	return adapter.Send(ctx, modelID, content, apiKey)
}
