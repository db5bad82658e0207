package components

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/Rorical/MultiChat/ui/styles"
)

func RenderInput(input textinput.Model, loading bool, width int) string {
	if loading {
		return styles.DisabledInputStyle(width).Render("Waiting for reply...")
	}
	return styles.InputStyle(width).Render(input.View())
}
