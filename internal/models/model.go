package models

type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// Model is a selectable LLM endpoint. It is a value: updating the API key
// produces a new Model rather than mutating a shared one.
type Model struct {
	ID       string
	Name     string
	Provider Provider
	APIKey   string
}

func (m Model) HasCredential() bool {
	return m.APIKey != ""
}

// WithAPIKey returns a copy of m carrying key.
func (m Model) WithAPIKey(key string) Model {
	m.APIKey = key
	return m
}

// ConversationState is a read-only snapshot of the conversation.
type ConversationState struct {
	Messages      []Message
	Models        []Model
	SelectedModel Model
	IsLoading     bool
}

// ModelName returns the display name for id, falling back to the id itself.
func (s ConversationState) ModelName(id string) string {
	for _, m := range s.Models {
		if m.ID == id {
			return m.Name
		}
	}
	return id
}
