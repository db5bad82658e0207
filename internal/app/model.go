package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/MultiChat/internal/models"
	"github.com/Rorical/MultiChat/internal/update"
	"github.com/Rorical/MultiChat/ui/components"
)

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		update.TickCmd(),
		m.appModel.Input.Focus(),
		m.dispatcher.ListenForCoreEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle core events and continue listening
	if coreEvent, ok := msg.(update.CoreEventMsg); ok {
		cmd := update.HandleCoreEvent(&m.appModel, coreEvent)
		return m, tea.Batch(cmd, m.dispatcher.ListenForCoreEvents())
	}

	// Handle other events through the event bus
	cmd := update.HandleUpdateWithEventBus(&m.appModel, msg, m.dispatcher.GetEventBus())
	return m, cmd
}

func (m *AppModel) View() string {
	am := m.appModel
	state := am.State

	var b strings.Builder

	b.WriteString(components.RenderHeader(state.SelectedModel, am.Width))
	b.WriteString("\n\n")
	b.WriteString(components.RenderMessages(state, am.Width, m.markdown))
	b.WriteString(components.RenderNotifications(am.Notifications, am.Width))

	switch am.Mode {
	case models.ModeModelPicker:
		b.WriteString(components.RenderModelPicker(state.Models, state.SelectedModel.ID, am.PickerIndex, am.Width))
	case models.ModeCredential:
		b.WriteString(components.RenderCredentialDialog(state.ModelName(am.CredentialModelID), am.KeyInput, am.Width))
	default:
		b.WriteString(components.RenderInput(am.Input, state.IsLoading, am.Width))
	}
	b.WriteString("\n")
	b.WriteString(components.RenderStatus(am.Status, state.IsLoading, am.Spinner, am.Width))

	return b.String()
}
