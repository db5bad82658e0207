package dispatcher

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/MultiChat/internal/eventbus"
	"github.com/Rorical/MultiChat/internal/logging"
	"github.com/Rorical/MultiChat/internal/update"
)

func TestListenForCoreEvents(t *testing.T) {
	eb := eventbus.NewEventBus()
	defer eb.Close()
	disp := NewEventDispatcher(eb, logging.Discard())
	defer disp.Stop()

	event := eventbus.NotificationEvent{Title: "API Key Saved"}
	require.NoError(t, eb.SendToUI(event))

	msg := disp.ListenForCoreEvents()()
	assert.Equal(t, update.CoreEventMsg{Event: event}, msg)
}

func TestListenForCoreEvents_Closed(t *testing.T) {
	eb := eventbus.NewEventBus()
	disp := NewEventDispatcher(eb, logging.Discard())
	eb.Close()

	assert.Nil(t, disp.ListenForCoreEvents()())
}

func TestListenForCoreEvents_Stopped(t *testing.T) {
	eb := eventbus.NewEventBus()
	defer eb.Close()
	disp := NewEventDispatcher(eb, logging.Discard())
	disp.Stop()

	assert.Nil(t, disp.ListenForCoreEvents()())
}

func TestStartLogsDeliveryFailures(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "text", slog.LevelDebug)
	require.NoError(t, err)

	eb := eventbus.NewEventBus()
	defer eb.Close()
	disp := NewEventDispatcher(eb, logger)
	disp.Start()

	var sendErr error
	for i := 0; i < 101 && sendErr == nil; i++ {
		sendErr = eb.SendToCore(eventbus.SendMessageEvent{Message: "Hi"})
	}
	require.Error(t, sendErr)

	assert.Contains(t, buf.String(), "event bus delivery failed")
	assert.Contains(t, buf.String(), "operation=SendToCore")
}
