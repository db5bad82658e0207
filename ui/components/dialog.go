package components

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/Rorical/MultiChat/ui/styles"
)

// RenderCredentialDialog prompts for the API key of modelName. The input
// is expected to be in password echo mode.
func RenderCredentialDialog(modelName string, input textinput.Model, width int) string {
	body := styles.DialogTitleStyle().Render("API key for "+modelName) + "\n\n" +
		"The key is stored locally and sent only to the model's provider.\n\n" +
		input.View() + "\n\n" +
		styles.HintStyle().Render("enter save · esc cancel")
	return styles.DialogStyle(width).Render(body)
}
