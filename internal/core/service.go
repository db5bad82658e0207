package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Rorical/MultiChat/internal/eventbus"
	"github.com/Rorical/MultiChat/internal/models"
	"github.com/Rorical/MultiChat/internal/provider"
)

const defaultStateRetryInterval = 250 * time.Millisecond

// CredentialStore persists API keys per model id.
type CredentialStore interface {
	Save(modelID, apiKey string) error
	Hydrate(catalog []models.Model) ([]models.Model, error)
}

type Options struct {
	Adapter       provider.Adapter
	Credentials   CredentialStore
	EventBus      *eventbus.EventBus // nil disables publishing
	Logger        *slog.Logger
	Catalog       []models.Model
	SelectedModel string
}

// ChatService is the conversation controller. It owns the ChatState and
// sequences each send: credential check, adapter call, reply or error.
type ChatService struct {
	adapter   provider.Adapter
	creds     CredentialStore
	state     *ChatState
	eventBus  *eventbus.EventBus
	logger    *slog.Logger
	sessionID string
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	stateRetrying      atomic.Bool
	stateDirty         atomic.Bool
	stateRetryInterval time.Duration
}

func NewChatService(opts Options) (*ChatService, error) {
	if opts.Adapter == nil {
		return nil, errors.New("adapter is required")
	}
	if opts.Credentials == nil {
		return nil, errors.New("credential store is required")
	}

	catalog, err := opts.Credentials.Hydrate(opts.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	state, err := NewChatState(catalog, opts.SelectedModel)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "chat", "session", sessionID)

	ctx, cancel := context.WithCancel(context.Background())

	service := &ChatService{
		adapter:   opts.Adapter,
		creds:     opts.Credentials,
		state:     state,
		eventBus:  opts.EventBus,
		logger:    logger,
		sessionID: sessionID,
		ctx:       ctx,
		cancel:    cancel,

		stateRetryInterval: defaultStateRetryInterval,
	}

	selected := state.SelectedModel()
	logger.Info("chat session started", "model", selected.ID, "has_key", selected.HasCredential())

	return service, nil
}

// Start pushes the initial state and runs the event loop in a goroutine.
func (cs *ChatService) Start() {
	if cs.eventBus == nil {
		return
	}
	cs.pushStateToUI()
	cs.wg.Add(1)
	go cs.eventLoop()
}

// Stop cancels in-flight calls and waits for the event loop and sends to
// return.
func (cs *ChatService) Stop() {
	cs.cancel()
	cs.wg.Wait()
}

func (cs *ChatService) SessionID() string {
	return cs.sessionID
}

func (cs *ChatService) eventLoop() {
	defer cs.wg.Done()
	for {
		select {
		case <-cs.ctx.Done():
			return
		case event, ok := <-cs.eventBus.UIToCore():
			if !ok {
				return
			}
			cs.handleUIEvent(event)
		}
	}
}

func (cs *ChatService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SendMessageEvent:
		// Accept on the loop so later intents see the send; only the
		// provider call runs off it.
		model, err := cs.acceptSend(e.Message)
		if err != nil {
			if errors.Is(err, ErrSendInFlight) {
				cs.notify(eventbus.NotificationError, "Error", "A reply is still pending; wait for it before sending.")
			} else if !errors.Is(err, ErrCredentialMissing) {
				cs.logger.Debug("send rejected", "error", err)
			}
			return
		}
		cs.wg.Add(1)
		go func() {
			defer cs.wg.Done()
			cs.completeSend(cs.ctx, model, e.Message)
		}()
	case eventbus.SelectModelEvent:
		if err := cs.SelectModel(e.ModelID); err != nil {
			cs.notify(eventbus.NotificationError, "Error", err.Error())
		}
	case eventbus.SaveCredentialEvent:
		// SaveCredential reports its own failures.
		_ = cs.SaveCredential(e.ModelID, e.APIKey)
	}
}

// SendMessage sends content to the selected model. It returns an error only
// when the send is not accepted (ErrEmptyMessage, ErrSendInFlight,
// ErrCredentialMissing). Provider failures are reported as notifications
// and leave the user message unanswered.
func (cs *ChatService) SendMessage(ctx context.Context, content string) error {
	model, err := cs.acceptSend(content)
	if err != nil {
		return err
	}
	cs.completeSend(ctx, model, content)
	return nil
}

// acceptSend appends the user message and enters the loading state, or
// asks for a credential when the selected model has none.
func (cs *ChatService) acceptSend(content string) (models.Model, error) {
	model, err := cs.state.BeginSend(content)
	if errors.Is(err, ErrCredentialMissing) {
		cs.logger.Info("credential required", "model", model.ID)
		cs.publish(eventbus.CredentialRequestEvent{ModelID: model.ID, ModelName: model.Name})
		return model, err
	}
	if err != nil {
		return model, err
	}
	cs.pushStateToUI()
	return model, nil
}

// completeSend calls the provider for an accepted send and resolves it.
func (cs *ChatService) completeSend(ctx context.Context, model models.Model, content string) {
	cs.logger.Info("sending message", "model", model.ID, "provider", model.Provider, "length", len(content))

	reply, err := cs.adapter.Send(ctx, model.ID, content, model.APIKey)
	if err != nil {
		cs.state.FinishWithError(err)
		cs.logger.Warn("provider call failed", "model", model.ID, "error", err)
		cs.notify(eventbus.NotificationError, "Error", err.Error())
		cs.pushStateToUI()
		return
	}

	cs.state.FinishWithReply(reply, model.ID)
	cs.logger.Info("reply received", "model", model.ID, "length", len(reply))
	cs.pushStateToUI()
}

// SelectModel swaps the selected model. The conversation is kept.
func (cs *ChatService) SelectModel(id string) error {
	if err := cs.state.SelectModel(id); err != nil {
		return err
	}
	cs.logger.Info("model selected", "model", id)
	cs.pushStateToUI()
	return nil
}

// SaveCredential persists key for modelID and updates that model only. The
// message that triggered the prompt is not resent.
func (cs *ChatService) SaveCredential(modelID, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		cs.notify(eventbus.NotificationError, "Error", ErrEmptyCredential.Error())
		return ErrEmptyCredential
	}

	model, ok := cs.state.Model(modelID)
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownModel, modelID)
		cs.notify(eventbus.NotificationError, "Error", err.Error())
		return err
	}

	if err := cs.creds.Save(modelID, key); err != nil {
		cs.logger.Error("failed to persist credential", "model", modelID, "error", err)
		cs.notify(eventbus.NotificationError, "Error", err.Error())
		return err
	}
	if err := cs.state.SetCredential(modelID, key); err != nil {
		return err
	}

	cs.logger.Info("credential saved", "model", modelID)
	cs.notify(eventbus.NotificationInfo, "API Key Saved",
		fmt.Sprintf("Your %s API key has been saved locally.", model.Name))
	cs.pushStateToUI()
	return nil
}

// ReloadCredentials re-reads every model's key from the store, picking up
// keys saved by another process.
func (cs *ChatService) ReloadCredentials() error {
	current := cs.state.Snapshot().Models
	hydrated, err := cs.creds.Hydrate(current)
	if err != nil {
		return err
	}
	for _, m := range hydrated {
		if err := cs.state.SetCredential(m.ID, m.APIKey); err != nil {
			return err
		}
	}
	cs.logger.Debug("credentials reloaded")
	cs.pushStateToUI()
	return nil
}

// State returns a read-only snapshot of the conversation.
func (cs *ChatService) State() models.ConversationState {
	return cs.state.Snapshot()
}

// LastError returns the failure of the most recent send, if any.
func (cs *ChatService) LastError() error {
	return cs.state.GetLastError()
}

func (cs *ChatService) notify(variant eventbus.NotificationVariant, title, description string) {
	cs.publish(eventbus.NotificationEvent{Title: title, Description: description, Variant: variant})
}

// pushStateToUI publishes the current snapshot. A dropped snapshot is
// retried until one gets through, so the UI never stays on a stale
// loading state.
func (cs *ChatService) pushStateToUI() {
	if cs.eventBus == nil {
		return
	}
	err := cs.eventBus.SendToUI(eventbus.StateUpdateEvent{State: cs.state.Snapshot()})
	if err == nil {
		return
	}
	cs.logger.Warn("failed to send state to UI", "error", err)
	cs.stateDirty.Store(true)
	cs.retryStatePush()
}

func (cs *ChatService) retryStatePush() {
	if cs.ctx.Err() != nil {
		return
	}
	if !cs.stateRetrying.CompareAndSwap(false, true) {
		return
	}
	cs.wg.Add(1)
	go func() {
		defer cs.wg.Done()

		ticker := time.NewTicker(cs.stateRetryInterval)
		defer ticker.Stop()
		for {
			select {
			case <-cs.ctx.Done():
				cs.stateRetrying.Store(false)
				return
			case <-ticker.C:
				cs.stateDirty.Store(false)
				err := cs.eventBus.SendToUI(eventbus.StateUpdateEvent{State: cs.state.Snapshot()})
				if errors.Is(err, eventbus.ErrBusClosed) {
					cs.stateRetrying.Store(false)
					return
				}
				if err != nil {
					continue
				}
				cs.logger.Debug("state resent to UI")
				cs.stateRetrying.Store(false)
				// A push failed after this snapshot was taken.
				if !cs.stateDirty.Load() || !cs.stateRetrying.CompareAndSwap(false, true) {
					return
				}
			}
		}
	}()
}

func (cs *ChatService) publish(event eventbus.CoreEvent) {
	if cs.eventBus == nil {
		return
	}
	if err := cs.eventBus.SendToUI(event); err != nil {
		cs.logger.Warn("failed to send event to UI", "event", fmt.Sprintf("%T", event), "error", err)
	}
}
