package components

import (
	"github.com/charmbracelet/bubbles/spinner"

	"github.com/Rorical/MultiChat/ui/styles"
)

const keyHints = "enter send · ctrl+o model · ctrl+k key · ctrl+c quit"

func RenderStatus(status string, loading bool, spin spinner.Model, width int) string {
	statusContent := status
	if loading {
		statusContent = spin.View() + " " + status
	}
	return styles.StatusStyle(width).Render(statusContent + "  " + keyHints)
}
