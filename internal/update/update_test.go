package update

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/MultiChat/internal/eventbus"
	"github.com/Rorical/MultiChat/internal/models"
)

func newTestModel(withKey bool) models.AppModel {
	catalog := []models.Model{
		{ID: "A", Name: "Model A", Provider: models.ProviderAnthropic},
		{ID: "B", Name: "Model B", Provider: models.ProviderOpenAI},
	}
	if withKey {
		catalog[0].APIKey = "sk-a"
	}
	m := models.NewAppModel()
	m.State = models.ConversationState{Models: catalog, SelectedModel: catalog[0]}
	return m
}

func newBus(t *testing.T) *eventbus.EventBus {
	t.Helper()
	eb := eventbus.NewEventBus()
	t.Cleanup(eb.Close)
	return eb
}

func nextUIEvent(t *testing.T, eb *eventbus.EventBus) eventbus.UIEvent {
	t.Helper()
	select {
	case ev := <-eb.UIToCore():
		return ev
	default:
		t.Fatal("expected a UI event")
		return nil
	}
}

func assertNoUIEvent(t *testing.T, eb *eventbus.EventBus) {
	t.Helper()
	select {
	case ev := <-eb.UIToCore():
		t.Fatalf("unexpected UI event %#v", ev)
	default:
	}
}

func TestEnterSendsMessage(t *testing.T) {
	eb := newBus(t)
	m := newTestModel(true)
	m.Input.SetValue("Hello")

	HandleKeyMsgWithEventBus(&m, tea.KeyMsg{Type: tea.KeyEnter}, eb)

	assert.Equal(t, eventbus.SendMessageEvent{Message: "Hello"}, nextUIEvent(t, eb))
	assert.Equal(t, "Hello", m.Input.Value(), "kept until core accepts the send")

	accepted := m.State
	accepted.Messages = []models.Message{models.NewUserMessage("Hello")}
	accepted.IsLoading = true
	HandleCoreEvent(&m, CoreEventMsg{Event: eventbus.StateUpdateEvent{State: accepted}})

	assert.Empty(t, m.Input.Value())
	assert.Empty(t, m.PendingInput)
}

func TestRejectedSendKeepsInput(t *testing.T) {
	eb := newBus(t)
	m := newTestModel(true)
	m.State.Messages = []models.Message{models.NewUserMessage("earlier")}
	m.Input.SetValue("Hello")

	HandleKeyMsgWithEventBus(&m, tea.KeyMsg{Type: tea.KeyEnter}, eb)
	nextUIEvent(t, eb)

	// Core refuses the send and the in-flight reply lands instead.
	HandleCoreEvent(&m, CoreEventMsg{Event: eventbus.NotificationEvent{
		Title:       "Error",
		Description: "A reply is still pending; wait for it before sending.",
		Variant:     eventbus.NotificationError,
	}})
	done := m.State
	done.Messages = append([]models.Message{}, m.State.Messages...)
	done.Messages = append(done.Messages, models.NewAssistantMessage("reply", "A"))
	HandleCoreEvent(&m, CoreEventMsg{Event: eventbus.StateUpdateEvent{State: done}})

	assert.Equal(t, "Hello", m.Input.Value())
	assert.Empty(t, m.PendingInput)
}

func TestEnterWithoutKeyKeepsInput(t *testing.T) {
	eb := newBus(t)
	m := newTestModel(false)
	m.Input.SetValue("Hello")

	HandleKeyMsgWithEventBus(&m, tea.KeyMsg{Type: tea.KeyEnter}, eb)

	assert.Equal(t, eventbus.SendMessageEvent{Message: "Hello"}, nextUIEvent(t, eb))
	HandleCoreEvent(&m, CoreEventMsg{Event: eventbus.CredentialRequestEvent{ModelID: "A", ModelName: "Model A"}})

	assert.Equal(t, "Hello", m.Input.Value())
	assert.Equal(t, models.ModeCredential, m.Mode)
}

func TestEnterIgnoredWhileLoading(t *testing.T) {
	eb := newBus(t)
	m := newTestModel(true)
	m.State.IsLoading = true
	m.Input.SetValue("Hello")

	HandleKeyMsgWithEventBus(&m, tea.KeyMsg{Type: tea.KeyEnter}, eb)

	assertNoUIEvent(t, eb)
	assert.Equal(t, "Hello", m.Input.Value())
}

func TestEnterIgnoresBlankInput(t *testing.T) {
	eb := newBus(t)
	m := newTestModel(true)
	m.Input.SetValue("   ")

	HandleKeyMsgWithEventBus(&m, tea.KeyMsg{Type: tea.KeyEnter}, eb)

	assertNoUIEvent(t, eb)
}

func TestModelPicker(t *testing.T) {
	eb := newBus(t)
	m := newTestModel(true)

	HandleKeyMsgWithEventBus(&m, tea.KeyMsg{Type: tea.KeyCtrlO}, eb)
	require.Equal(t, models.ModeModelPicker, m.Mode)
	assert.Equal(t, 0, m.PickerIndex)

	HandleKeyMsgWithEventBus(&m, tea.KeyMsg{Type: tea.KeyDown}, eb)
	HandleKeyMsgWithEventBus(&m, tea.KeyMsg{Type: tea.KeyDown}, eb)
	assert.Equal(t, 1, m.PickerIndex, "index stays inside the catalog")

	HandleKeyMsgWithEventBus(&m, tea.KeyMsg{Type: tea.KeyEnter}, eb)
	assert.Equal(t, models.ModeChat, m.Mode)
	assert.Equal(t, eventbus.SelectModelEvent{ModelID: "B"}, nextUIEvent(t, eb))
}

func TestModelPickerEscCancels(t *testing.T) {
	eb := newBus(t)
	m := newTestModel(true)

	HandleKeyMsgWithEventBus(&m, tea.KeyMsg{Type: tea.KeyCtrlO}, eb)
	HandleKeyMsgWithEventBus(&m, tea.KeyMsg{Type: tea.KeyDown}, eb)
	HandleKeyMsgWithEventBus(&m, tea.KeyMsg{Type: tea.KeyEsc}, eb)

	assert.Equal(t, models.ModeChat, m.Mode)
	assertNoUIEvent(t, eb)
}

func TestCredentialDialog(t *testing.T) {
	eb := newBus(t)
	m := newTestModel(false)

	HandleCoreEvent(&m, CoreEventMsg{Event: eventbus.CredentialRequestEvent{ModelID: "A", ModelName: "Model A"}})
	require.Equal(t, models.ModeCredential, m.Mode)
	assert.Equal(t, "A", m.CredentialModelID)

	HandleKeyMsgWithEventBus(&m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("sk-test")}, eb)
	assert.Equal(t, "sk-test", m.KeyInput.Value())
	assert.NotContains(t, m.KeyInput.View(), "sk-test", "the key is masked")

	HandleKeyMsgWithEventBus(&m, tea.KeyMsg{Type: tea.KeyEnter}, eb)
	assert.Equal(t, eventbus.SaveCredentialEvent{ModelID: "A", APIKey: "sk-test"}, nextUIEvent(t, eb))
	assert.Equal(t, models.ModeChat, m.Mode)
	assert.Empty(t, m.KeyInput.Value())
}

func TestCredentialDialogRejectsEmptyKey(t *testing.T) {
	eb := newBus(t)
	m := newTestModel(false)
	OpenCredentialDialog(&m, "A")

	HandleKeyMsgWithEventBus(&m, tea.KeyMsg{Type: tea.KeyEnter}, eb)

	assertNoUIEvent(t, eb)
	assert.Equal(t, models.ModeCredential, m.Mode)
}

func TestCredentialDialogEsc(t *testing.T) {
	eb := newBus(t)
	m := newTestModel(false)
	HandleKeyMsgWithEventBus(&m, tea.KeyMsg{Type: tea.KeyCtrlK}, eb)
	require.Equal(t, models.ModeCredential, m.Mode)

	HandleKeyMsgWithEventBus(&m, tea.KeyMsg{Type: tea.KeyEsc}, eb)

	assert.Equal(t, models.ModeChat, m.Mode)
	assertNoUIEvent(t, eb)
}

func TestStateUpdateStartsSpinner(t *testing.T) {
	m := newTestModel(true)
	loading := m.State
	loading.IsLoading = true

	cmd := HandleCoreEvent(&m, CoreEventMsg{Event: eventbus.StateUpdateEvent{State: loading}})
	assert.NotNil(t, cmd)
	assert.Equal(t, "Waiting for Model A", m.Status)

	done := loading
	done.IsLoading = false
	assert.Nil(t, HandleCoreEvent(&m, CoreEventMsg{Event: eventbus.StateUpdateEvent{State: done}}))
	assert.Equal(t, "Ready", m.Status)
}

func TestNotificationsExpire(t *testing.T) {
	m := newTestModel(true)
	HandleCoreEvent(&m, CoreEventMsg{Event: eventbus.NotificationEvent{
		Title:       "Error",
		Description: "Anthropic API error: Unauthorized",
		Variant:     eventbus.NotificationError,
	}})
	require.Len(t, m.Notifications, 1)
	assert.True(t, m.Notifications[0].IsError)
	assert.Equal(t, "Error: Anthropic API error: Unauthorized", m.Status)

	HandleTickMsg(&m, time.Now())
	assert.Len(t, m.Notifications, 1)

	HandleTickMsg(&m, time.Now().Add(NotificationTTL+time.Second))
	assert.Empty(t, m.Notifications)
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(true)
	m.Mode = models.ModeCredential
	cmd := HandleKeyMsgWithEventBus(&m, tea.KeyMsg{Type: tea.KeyCtrlC}, newBus(t))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestWindowSize(t *testing.T) {
	m := newTestModel(true)
	HandleUpdateWithEventBus(&m, tea.WindowSizeMsg{Width: 100, Height: 40}, newBus(t))
	assert.Equal(t, 100, m.Width)
	assert.Equal(t, 40, m.Height)
}
