package eventbus

import (
	"errors"
	"sync"
	"time"

	"github.com/Rorical/MultiChat/internal/models"
)

var (
	ErrCircuitOpen = errors.New("circuit breaker is open")
	ErrBusClosed   = errors.New("event bus is closed")
)

// UIEvent represents events sent from UI to Core
type UIEvent interface {
	UIEvent()
}

// CoreEvent represents events sent from Core to UI
type CoreEvent interface {
	CoreEvent()
}

// SendMessageEvent - UI requests core to send a message
type SendMessageEvent struct {
	Message string
}

func (e SendMessageEvent) UIEvent() {}

// SelectModelEvent - UI switches the selected model
type SelectModelEvent struct {
	ModelID string
}

func (e SelectModelEvent) UIEvent() {}

// SaveCredentialEvent - UI submits an API key for a model
type SaveCredentialEvent struct {
	ModelID string
	APIKey  string
}

func (e SaveCredentialEvent) UIEvent() {}

// StateUpdateEvent - Core pushes a full conversation snapshot to UI
type StateUpdateEvent struct {
	State models.ConversationState
}

func (e StateUpdateEvent) CoreEvent() {}

// CredentialRequestEvent - Core asks UI to prompt for the selected model's key
type CredentialRequestEvent struct {
	ModelID   string
	ModelName string
}

func (e CredentialRequestEvent) CoreEvent() {}

type NotificationVariant int

const (
	NotificationInfo NotificationVariant = iota
	NotificationError
)

// NotificationEvent - Core reports a non-fatal outcome to the user
type NotificationEvent struct {
	Title       string
	Description string
	Variant     NotificationVariant
}

func (e NotificationEvent) CoreEvent() {}

// EventBusError represents errors in event processing
type EventBusError struct {
	Operation string
	Err       error
	Timestamp time.Time
}

func (e EventBusError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}

func (e EventBusError) Unwrap() error {
	return e.Err
}

// CircuitBreakerState represents the state of circuit breaker
type CircuitBreakerState int

const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// CircuitBreaker stops delivery after repeated send failures and lets a
// trial send through once resetTimeout has passed.
type CircuitBreaker struct {
	mu              sync.Mutex
	maxFailures     int
	resetTimeout    time.Duration
	failureCount    int
	lastFailureTime time.Time
	state           CircuitBreakerState
	now             func() time.Time
}

func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
		now:          time.Now,
	}
}

func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitOpen && cb.now().Sub(cb.lastFailureTime) > cb.resetTimeout {
		cb.state = CircuitHalfOpen
	}
	return cb.state == CircuitOpen
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount = 0
	cb.state = CircuitClosed
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	cb.lastFailureTime = cb.now()

	if cb.failureCount >= cb.maxFailures || cb.state == CircuitHalfOpen {
		cb.state = CircuitOpen
	}
}

func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// EventBus handles communication between UI and Core with circuit breaker
type EventBus struct {
	mu             sync.RWMutex
	closed         bool
	uiToCore       chan UIEvent
	coreToUI       chan CoreEvent
	errorCallback  func(EventBusError)
	circuitBreaker *CircuitBreaker
}

func NewEventBus() *EventBus {
	return &EventBus{
		uiToCore:       make(chan UIEvent, 100),
		coreToUI:       make(chan CoreEvent, 100),
		circuitBreaker: NewCircuitBreaker(5, 30*time.Second),
	}
}

func (eb *EventBus) SetErrorCallback(callback func(EventBusError)) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.errorCallback = callback
}

func (eb *EventBus) reportError(operation string, err error) {
	eb.circuitBreaker.RecordFailure()
	eb.notifyError(operation, err)
}

// notifyError calls the error callback without counting a failure.
func (eb *EventBus) notifyError(operation string, err error) {
	busError := EventBusError{
		Operation: operation,
		Err:       err,
		Timestamp: time.Now(),
	}

	eb.mu.RLock()
	callback := eb.errorCallback
	eb.mu.RUnlock()
	if callback != nil {
		callback(busError)
	}
}

func (eb *EventBus) SendToCore(event UIEvent) error {
	return eb.deliver("SendToCore", errors.New("UI to Core channel is full"), func() bool {
		select {
		case eb.uiToCore <- event:
			return true
		default:
			return false
		}
	})
}

func (eb *EventBus) SendToUI(event CoreEvent) error {
	return eb.deliver("SendToUI", errors.New("Core to UI channel is full"), func() bool {
		select {
		case eb.coreToUI <- event:
			return true
		default:
			return false
		}
	})
}

// deliver runs a non-blocking send while holding the read lock so Close
// cannot close the channel underneath it.
func (eb *EventBus) deliver(operation string, fullErr error, send func() bool) error {
	// Rejections while open do not extend the open window.
	if eb.circuitBreaker.IsOpen() {
		eb.notifyError(operation, ErrCircuitOpen)
		return ErrCircuitOpen
	}

	eb.mu.RLock()
	if eb.closed {
		eb.mu.RUnlock()
		return ErrBusClosed
	}
	ok := send()
	eb.mu.RUnlock()

	if !ok {
		eb.reportError(operation, fullErr)
		return fullErr
	}
	eb.circuitBreaker.RecordSuccess()
	return nil
}

func (eb *EventBus) UIToCore() <-chan UIEvent {
	return eb.uiToCore
}

func (eb *EventBus) CoreToUI() <-chan CoreEvent {
	return eb.coreToUI
}

func (eb *EventBus) GetCircuitBreakerState() CircuitBreakerState {
	return eb.circuitBreaker.State()
}

// Close closes both channels. Sends after Close return ErrBusClosed.
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if eb.closed {
		return
	}
	eb.closed = true
	close(eb.uiToCore)
	close(eb.coreToUI)
}
