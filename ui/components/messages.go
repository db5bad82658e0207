package components

import (
	"strings"

	"github.com/Rorical/MultiChat/internal/models"
	"github.com/Rorical/MultiChat/ui/styles"
)

// RenderMessages renders the transcript. Each assistant reply is labelled
// with the model that produced it, not the currently selected one.
func RenderMessages(state models.ConversationState, width int, md *MarkdownRenderer) string {
	if len(state.Messages) == 0 {
		return styles.SystemStyle().Render("Start a conversation with "+state.SelectedModel.Name+".") + "\n\n"
	}

	var b strings.Builder

	userStyle := styles.UserStyle().Width(max(width-4, 10))
	assistantStyle := styles.AssistantStyle()
	labelStyle := styles.AssistantLabelStyle()

	for _, msg := range state.Messages {
		switch msg.Role {
		case models.User:
			b.WriteString(userStyle.Render("You: "+msg.Content) + "\n\n")
		case models.Assistant:
			b.WriteString(labelStyle.Render(state.ModelName(msg.ModelID)) + "\n")
			b.WriteString(assistantStyle.Render(md.Render(msg.Content, width-6)) + "\n\n")
		}
	}

	return b.String()
}
