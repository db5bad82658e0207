package dispatcher

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/MultiChat/internal/eventbus"
	"github.com/Rorical/MultiChat/internal/update"
)

// EventDispatcher handles routing events between core and UI
type EventDispatcher struct {
	eventBus *eventbus.EventBus
	logger   *slog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewEventDispatcher(eventBus *eventbus.EventBus, logger *slog.Logger) *EventDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &EventDispatcher{
		eventBus: eventBus,
		logger:   logger.With("component", "dispatcher"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start routes bus delivery failures to the log.
func (ed *EventDispatcher) Start() {
	ed.eventBus.SetErrorCallback(func(err eventbus.EventBusError) {
		ed.logger.Warn("event bus delivery failed",
			"operation", err.Operation,
			"error", err.Err,
			"circuit", ed.eventBus.GetCircuitBreakerState(),
		)
	})
}

func (ed *EventDispatcher) Stop() {
	ed.cancel()
}

func (ed *EventDispatcher) GetEventBus() *eventbus.EventBus {
	return ed.eventBus
}

// ListenForCoreEvents waits for the next core event. The UI re-issues it
// after handling each event; it yields nil once the bus is closed or the
// dispatcher stops.
func (ed *EventDispatcher) ListenForCoreEvents() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ed.ctx.Done():
			return nil
		case event, ok := <-ed.eventBus.CoreToUI():
			if !ok {
				return nil
			}
			return update.CoreEventMsg{Event: event}
		}
	}
}
