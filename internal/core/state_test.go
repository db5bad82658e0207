package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/MultiChat/internal/models"
)

func testCatalog() []models.Model {
	return []models.Model{
		{ID: "A", Name: "Model A", Provider: models.ProviderAnthropic},
		{ID: "B", Name: "Model B", Provider: models.ProviderOpenAI, APIKey: "sk-b"},
	}
}

func TestNewChatState(t *testing.T) {
	state, err := NewChatState(testCatalog(), "")
	require.NoError(t, err)
	snap := state.Snapshot()
	assert.Equal(t, "A", snap.SelectedModel.ID)
	assert.Empty(t, snap.Messages)
	assert.False(t, snap.IsLoading)

	_, err = NewChatState(testCatalog(), "C")
	assert.ErrorIs(t, err, ErrUnknownModel)

	_, err = NewChatState(nil, "")
	assert.Error(t, err)
}

func TestChatState_BeginSendWithoutCredential(t *testing.T) {
	state, err := NewChatState(testCatalog(), "A")
	require.NoError(t, err)

	model, err := state.BeginSend("Hello")
	assert.ErrorIs(t, err, ErrCredentialMissing)
	assert.Equal(t, "A", model.ID)
	assert.Empty(t, state.Snapshot().Messages)
	assert.False(t, state.IsLoading())
}

func TestChatState_SingleFlight(t *testing.T) {
	state, err := NewChatState(testCatalog(), "B")
	require.NoError(t, err)

	model, err := state.BeginSend("first")
	require.NoError(t, err)
	assert.Equal(t, "sk-b", model.APIKey)
	assert.True(t, state.IsLoading())

	_, err = state.BeginSend("second")
	assert.ErrorIs(t, err, ErrSendInFlight)
	assert.ErrorIs(t, state.SelectModel("A"), ErrSendInFlight)
	assert.Len(t, state.Snapshot().Messages, 1)

	state.FinishWithReply("reply", "B")
	assert.False(t, state.IsLoading())

	_, err = state.BeginSend("second")
	require.NoError(t, err)
}

func TestChatState_EmptyMessage(t *testing.T) {
	state, err := NewChatState(testCatalog(), "B")
	require.NoError(t, err)

	_, err = state.BeginSend("   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.False(t, state.IsLoading())
}

func TestChatState_AppendOnly(t *testing.T) {
	state, err := NewChatState(testCatalog(), "B")
	require.NoError(t, err)

	previous := []models.Message{}
	steps := []func(){
		func() { _, _ = state.BeginSend("one") },
		func() { state.FinishWithReply("r1", "B") },
		func() { _, _ = state.BeginSend("two") },
		func() { state.FinishWithError(assert.AnError) },
		func() { _ = state.SelectModel("A") },
		func() { _, _ = state.BeginSend("three") },
	}
	for _, step := range steps {
		step()
		current := state.Snapshot().Messages
		require.GreaterOrEqual(t, len(current), len(previous))
		assert.Equal(t, previous, current[:len(previous)])
		previous = current
	}

	assert.Equal(t, []models.Message{
		{Role: models.User, Content: "one"},
		{Role: models.Assistant, Content: "r1", ModelID: "B"},
		{Role: models.User, Content: "two"},
	}, previous)
	assert.Equal(t, assert.AnError, state.GetLastError())
}

func TestChatState_SetCredentialTouchesOneModel(t *testing.T) {
	state, err := NewChatState(testCatalog(), "A")
	require.NoError(t, err)

	before := state.Snapshot()
	require.NoError(t, state.SetCredential("A", "sk-a"))
	after := state.Snapshot()

	assert.Equal(t, "sk-a", after.Models[0].APIKey)
	assert.Equal(t, "sk-b", after.Models[1].APIKey)
	assert.Equal(t, "sk-a", after.SelectedModel.APIKey)
	assert.Empty(t, before.Models[0].APIKey, "earlier snapshots are not mutated")

	assert.ErrorIs(t, state.SetCredential("C", "x"), ErrUnknownModel)
}

func TestChatState_SelectModelKeepsMessages(t *testing.T) {
	state, err := NewChatState(testCatalog(), "B")
	require.NoError(t, err)
	_, err = state.BeginSend("Hi")
	require.NoError(t, err)
	state.FinishWithReply("Hello", "B")

	require.NoError(t, state.SelectModel("A"))
	snap := state.Snapshot()
	assert.Equal(t, "A", snap.SelectedModel.ID)
	assert.Len(t, snap.Messages, 2)

	assert.ErrorIs(t, state.SelectModel("C"), ErrUnknownModel)
}
