package components

import (
	"strings"

	"github.com/Rorical/MultiChat/internal/models"
	"github.com/Rorical/MultiChat/ui/styles"
)

func RenderNotifications(notes []models.Notification, width int) string {
	if len(notes) == 0 {
		return ""
	}
	var b strings.Builder
	for _, n := range notes {
		body := styles.ToastTitleStyle(n.IsError).Render(n.Title)
		if n.Description != "" {
			body += "\n" + n.Description
		}
		b.WriteString(styles.ToastStyle(n.IsError, width).Render(body) + "\n")
	}
	return b.String()
}
