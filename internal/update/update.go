package update

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/MultiChat/internal/eventbus"
	"github.com/Rorical/MultiChat/internal/models"
)

func HandleUpdateWithEventBus(appModel *models.AppModel, msg tea.Msg, eb *eventbus.EventBus) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsgWithEventBus(appModel, msg, eb)
	case tea.WindowSizeMsg:
		HandleWindowSizeMsg(appModel, msg)
		return nil
	case TickMsg:
		return HandleTickMsg(appModel, time.Time(msg))
	case spinner.TickMsg:
		return HandleSpinnerTick(appModel, msg)
	case CoreEventMsg:
		return HandleCoreEvent(appModel, msg)
	}

	// Cursor blink and other input-internal messages.
	var cmd tea.Cmd
	if appModel.Mode == models.ModeCredential {
		appModel.KeyInput, cmd = appModel.KeyInput.Update(msg)
	} else {
		appModel.Input, cmd = appModel.Input.Update(msg)
	}
	return cmd
}
