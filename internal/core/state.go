package core

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Rorical/MultiChat/internal/models"
)

var (
	ErrCredentialMissing = errors.New("no API key for the selected model")
	ErrSendInFlight      = errors.New("a message is already being sent")
	ErrEmptyMessage      = errors.New("message is empty")
	ErrEmptyCredential   = errors.New("API key is empty")
	ErrUnknownModel      = errors.New("unknown model")
)

// ChatState manages the conversation state. Messages are append-only and
// isLoading is set only between an accepted send and its resolution.
type ChatState struct {
	mu         sync.RWMutex
	messages   []models.Message
	catalog    []models.Model // replaced wholesale on update, never mutated in place
	selectedID string
	isLoading  bool
	lastError  error
}

func NewChatState(catalog []models.Model, selectedID string) (*ChatState, error) {
	if len(catalog) == 0 {
		return nil, errors.New("empty model catalog")
	}

	owned := make([]models.Model, len(catalog))
	copy(owned, catalog)

	if selectedID == "" {
		selectedID = owned[0].ID
	}
	if indexOf(owned, selectedID) < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, selectedID)
	}

	return &ChatState{
		messages:   make([]models.Message, 0),
		catalog:    owned,
		selectedID: selectedID,
	}, nil
}

func indexOf(catalog []models.Model, id string) int {
	for i, m := range catalog {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// Snapshot returns a copy safe to hand to other goroutines.
func (cs *ChatState) Snapshot() models.ConversationState {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	messages := make([]models.Message, len(cs.messages))
	copy(messages, cs.messages)
	catalog := make([]models.Model, len(cs.catalog))
	copy(catalog, cs.catalog)

	return models.ConversationState{
		Messages:      messages,
		Models:        catalog,
		SelectedModel: cs.catalog[indexOf(cs.catalog, cs.selectedID)],
		IsLoading:     cs.isLoading,
	}
}

func (cs *ChatState) SelectedModel() models.Model {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.catalog[indexOf(cs.catalog, cs.selectedID)]
}

func (cs *ChatState) Model(id string) (models.Model, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	i := indexOf(cs.catalog, id)
	if i < 0 {
		return models.Model{}, false
	}
	return cs.catalog[i], true
}

func (cs *ChatState) IsLoading() bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.isLoading
}

func (cs *ChatState) GetLastError() error {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.lastError
}

// BeginSend accepts a send atomically: it rejects while another send is in
// flight or when the selected model has no key; otherwise it appends the
// user message, sets isLoading and returns the model to call.
func (cs *ChatState) BeginSend(content string) (models.Model, error) {
	if strings.TrimSpace(content) == "" {
		return models.Model{}, ErrEmptyMessage
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.isLoading {
		return models.Model{}, ErrSendInFlight
	}
	selected := cs.catalog[indexOf(cs.catalog, cs.selectedID)]
	if !selected.HasCredential() {
		return selected, ErrCredentialMissing
	}

	cs.isLoading = true
	cs.lastError = nil
	cs.messages = append(cs.messages, models.NewUserMessage(content))
	return selected, nil
}

// FinishWithReply appends the assistant reply and leaves the in-flight state.
func (cs *ChatState) FinishWithReply(content, modelID string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.isLoading = false
	cs.lastError = nil
	cs.messages = append(cs.messages, models.NewAssistantMessage(content, modelID))
}

// FinishWithError leaves the in-flight state without appending anything.
func (cs *ChatState) FinishWithError(err error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.isLoading = false
	cs.lastError = err
}

func (cs *ChatState) SelectModel(id string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.isLoading {
		return ErrSendInFlight
	}
	if indexOf(cs.catalog, id) < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownModel, id)
	}
	cs.selectedID = id
	return nil
}

// SetCredential replaces the model with the given id by a copy carrying
// key. Other models are untouched.
func (cs *ChatState) SetCredential(id, key string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	i := indexOf(cs.catalog, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownModel, id)
	}

	next := make([]models.Model, len(cs.catalog))
	copy(next, cs.catalog)
	next[i] = next[i].WithAPIKey(key)
	cs.catalog = next
	return nil
}
