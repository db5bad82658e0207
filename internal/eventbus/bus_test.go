package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_Delivers(t *testing.T) {
	eb := NewEventBus()
	defer eb.Close()

	require.NoError(t, eb.SendToCore(SendMessageEvent{Message: "Hi"}))
	require.NoError(t, eb.SendToUI(CredentialRequestEvent{ModelID: "o1", ModelName: "OpenAI O1"}))

	assert.Equal(t, SendMessageEvent{Message: "Hi"}, <-eb.UIToCore())
	assert.Equal(t, CredentialRequestEvent{ModelID: "o1", ModelName: "OpenAI O1"}, <-eb.CoreToUI())
}

func TestEventBus_FullChannelOpensCircuit(t *testing.T) {
	eb := NewEventBus()
	defer eb.Close()

	var reported []EventBusError
	eb.SetErrorCallback(func(e EventBusError) { reported = append(reported, e) })

	for i := 0; i < cap(eb.coreToUI); i++ {
		require.NoError(t, eb.SendToUI(NotificationEvent{Title: "fill"}))
	}
	for i := 0; i < 5; i++ {
		assert.Error(t, eb.SendToUI(NotificationEvent{Title: "overflow"}))
	}

	assert.Equal(t, CircuitOpen, eb.GetCircuitBreakerState())
	assert.ErrorIs(t, eb.SendToUI(NotificationEvent{}), ErrCircuitOpen)
	require.Len(t, reported, 6)
	assert.Equal(t, "SendToUI", reported[0].Operation)
}

func TestEventBus_SendAfterClose(t *testing.T) {
	eb := NewEventBus()
	eb.Close()
	eb.Close()

	assert.ErrorIs(t, eb.SendToUI(NotificationEvent{}), ErrBusClosed)
	assert.ErrorIs(t, eb.SendToCore(SelectModelEvent{ModelID: "o1"}), ErrBusClosed)
}

func TestCircuitBreaker_HalfOpenAfterTimeout(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(2, time.Minute)
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	assert.False(t, cb.IsOpen())
	cb.RecordFailure()
	assert.True(t, cb.IsOpen())

	now = now.Add(2 * time.Minute)
	assert.False(t, cb.IsOpen())
	assert.Equal(t, CircuitHalfOpen, cb.State())

	cb.RecordFailure()
	assert.True(t, cb.IsOpen(), "a failed trial reopens the circuit")

	now = now.Add(2 * time.Minute)
	assert.False(t, cb.IsOpen())
	cb.RecordSuccess()
	assert.Equal(t, CircuitClosed, cb.State())
}

func TestEventBus_RejectedSendsDoNotExtendOpenCircuit(t *testing.T) {
	eb := NewEventBus()
	defer eb.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	eb.circuitBreaker.now = func() time.Time { return now }

	for i := 0; i < cap(eb.coreToUI); i++ {
		require.NoError(t, eb.SendToUI(NotificationEvent{Title: "fill"}))
	}
	for i := 0; i < 5; i++ {
		assert.Error(t, eb.SendToUI(NotificationEvent{Title: "overflow"}))
	}
	require.Equal(t, CircuitOpen, eb.GetCircuitBreakerState())

	// Keep retrying through the open window.
	for i := 0; i < 5; i++ {
		now = now.Add(5 * time.Second)
		assert.ErrorIs(t, eb.SendToUI(NotificationEvent{}), ErrCircuitOpen)
	}

	<-eb.CoreToUI()
	now = now.Add(6 * time.Second)
	require.NoError(t, eb.SendToUI(NotificationEvent{Title: "after"}))
	assert.Equal(t, CircuitClosed, eb.GetCircuitBreakerState())
}
