package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/stretchr/testify/assert"

	"github.com/Rorical/MultiChat/internal/models"
)

func conversation() models.ConversationState {
	catalog := []models.Model{
		{ID: "A", Name: "Model A", Provider: models.ProviderAnthropic, APIKey: "sk-a"},
		{ID: "B", Name: "Model B", Provider: models.ProviderOpenAI},
	}
	return models.ConversationState{
		Models:        catalog,
		SelectedModel: catalog[1],
		Messages: []models.Message{
			models.NewUserMessage("Hi"),
			models.NewAssistantMessage("Hello from A", "A"),
			models.NewUserMessage("Hi again"),
			models.NewAssistantMessage("Hello from B", "B"),
		},
	}
}

func TestRenderMessagesLabelsEachReply(t *testing.T) {
	out := RenderMessages(conversation(), 80, NewMarkdownRenderer("notty"))

	assert.Contains(t, out, "You: Hi")
	assert.Contains(t, out, "Hello from A")
	assert.Contains(t, out, "Hello from B")
	assert.Less(t, strings.Index(out, "Model A"), strings.Index(out, "Hello from A"))
	assert.Less(t, strings.Index(out, "Model B"), strings.Index(out, "Hello from B"))
}

func TestRenderMessagesEmpty(t *testing.T) {
	state := conversation()
	state.Messages = nil
	assert.Contains(t, RenderMessages(state, 80, nil), "Start a conversation with Model B.")
}

func TestMarkdownRendererNilFallsBack(t *testing.T) {
	var r *MarkdownRenderer
	assert.Equal(t, "**bold**", r.Render("**bold**", 80))
}

func TestMarkdownRendererCachesPerWidth(t *testing.T) {
	r := NewMarkdownRenderer("notty")
	state := conversation()

	first := RenderMessages(state, 80, r)
	misses := r.misses
	assert.Positive(t, misses)

	for i := 0; i < 3; i++ {
		assert.Equal(t, first, RenderMessages(state, 80, r))
	}
	assert.Equal(t, misses, r.misses, "unchanged frames must not re-render")

	RenderMessages(state, 60, r)
	assert.Equal(t, 2*misses, r.misses, "a width change re-renders every reply")
}

func TestRenderInputWhileLoading(t *testing.T) {
	input := textinput.New()
	input.SetValue("draft")
	out := RenderInput(input, true, 60)
	assert.Contains(t, out, "Waiting for reply")
	assert.NotContains(t, out, "draft")
}

func TestRenderModelPicker(t *testing.T) {
	state := conversation()
	out := RenderModelPicker(state.Models, "B", 0, 80)
	assert.Contains(t, out, "Model A (anthropic)")
	assert.Contains(t, out, "Model B (openai)")
	assert.Contains(t, out, "current")
}

func TestRenderCredentialDialogMasksKey(t *testing.T) {
	input := textinput.New()
	input.EchoMode = textinput.EchoPassword
	input.Focus()
	input.SetValue("sk-secret")

	out := RenderCredentialDialog("Model A", input, 80)
	assert.Contains(t, out, "API key for Model A")
	assert.NotContains(t, out, "sk-secret")
}

func TestRenderNotifications(t *testing.T) {
	assert.Empty(t, RenderNotifications(nil, 80))

	out := RenderNotifications([]models.Notification{{
		Title:       "API Key Saved",
		Description: "Your Model A API key has been saved locally.",
		ExpiresAt:   time.Now().Add(time.Second),
	}}, 100)
	assert.Contains(t, out, "API Key Saved")
	assert.Contains(t, out, "saved locally")
}

func TestKeyBadge(t *testing.T) {
	state := conversation()
	assert.Contains(t, KeyBadge(state.Models[0]), "key")
	assert.Contains(t, KeyBadge(state.Models[1]), "no key")
}
