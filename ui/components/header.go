package components

import (
	"github.com/Rorical/MultiChat/internal/models"
	"github.com/Rorical/MultiChat/ui/styles"
)

func RenderHeader(model models.Model, width int) string {
	return styles.HeaderStyle(width).Render("MultiChat · " + model.Name + " " + KeyBadge(model))
}

// KeyBadge shows whether a model has a stored API key.
func KeyBadge(model models.Model) string {
	if model.HasCredential() {
		return styles.KeyPresentStyle().Render("[key ✓]")
	}
	return styles.KeyMissingStyle().Render("[no key]")
}
