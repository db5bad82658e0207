package components

import (
	"strings"

	"github.com/Rorical/MultiChat/internal/models"
	"github.com/Rorical/MultiChat/ui/styles"
)

// RenderModelPicker lists the catalog with the highlighted row at index.
func RenderModelPicker(catalog []models.Model, selectedID string, index int, width int) string {
	var b strings.Builder
	b.WriteString(styles.DialogTitleStyle().Render("Select a model") + "\n\n")

	for i, m := range catalog {
		line := m.Name + " (" + string(m.Provider) + ") " + KeyBadge(m)
		if m.ID == selectedID {
			line += " ·  current"
		}
		if i == index {
			b.WriteString(styles.PickerSelectedStyle().Render(line) + "\n")
		} else {
			b.WriteString(styles.PickerItemStyle().Render(line) + "\n")
		}
	}

	b.WriteString("\n" + styles.HintStyle().Render("↑/↓ move · enter select · esc cancel"))
	return styles.DialogStyle(width).Render(b.String())
}
