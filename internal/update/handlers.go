package update

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/MultiChat/internal/eventbus"
	"github.com/Rorical/MultiChat/internal/models"
)

// NotificationTTL is how long a notification stays on screen.
const NotificationTTL = 4 * time.Second

// HandleKeyMsgWithEventBus handles keyboard input using event bus
func HandleKeyMsgWithEventBus(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus) tea.Cmd {
	if keyMsg.Type == tea.KeyCtrlC {
		return tea.Quit
	}

	switch appModel.Mode {
	case models.ModeModelPicker:
		return handlePickerKey(appModel, keyMsg, eb)
	case models.ModeCredential:
		return handleCredentialKey(appModel, keyMsg, eb)
	}

	switch keyMsg.Type {
	case tea.KeyEnter:
		return submitInput(appModel, eb)
	case tea.KeyCtrlO:
		appModel.Mode = models.ModeModelPicker
		appModel.PickerIndex = selectedIndex(appModel.State)
		return nil
	case tea.KeyCtrlK:
		return OpenCredentialDialog(appModel, appModel.State.SelectedModel.ID)
	}

	var cmd tea.Cmd
	appModel.Input, cmd = appModel.Input.Update(keyMsg)
	return cmd
}

func submitInput(appModel *models.AppModel, eb *eventbus.EventBus) tea.Cmd {
	// Input is disabled while a reply is pending.
	if appModel.State.IsLoading {
		return nil
	}
	content := appModel.Input.Value()
	if strings.TrimSpace(content) == "" {
		return nil
	}

	if err := eb.SendToCore(eventbus.SendMessageEvent{Message: content}); err != nil {
		appModel.Status = "Error sending message: " + err.Error()
		return nil
	}

	// The input is cleared once core shows the message appended.
	appModel.PendingInput = content
	appModel.PendingIndex = len(appModel.State.Messages)
	return nil
}

// settlePending clears the input when state shows the pending text was
// accepted. Any other outcome keeps the text for resubmission.
func settlePending(appModel *models.AppModel, state models.ConversationState) {
	if appModel.PendingInput == "" {
		return
	}
	i := appModel.PendingIndex
	accepted := i < len(state.Messages) &&
		state.Messages[i].Role == models.User &&
		state.Messages[i].Content == appModel.PendingInput
	if accepted && appModel.Input.Value() == appModel.PendingInput {
		appModel.Input.Reset()
	}
	appModel.PendingInput = ""
}

func handlePickerKey(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus) tea.Cmd {
	count := len(appModel.State.Models)
	switch keyMsg.String() {
	case "esc":
		appModel.Mode = models.ModeChat
	case "up", "k":
		if appModel.PickerIndex > 0 {
			appModel.PickerIndex--
		}
	case "down", "j":
		if appModel.PickerIndex < count-1 {
			appModel.PickerIndex++
		}
	case "enter":
		appModel.Mode = models.ModeChat
		if appModel.PickerIndex < 0 || appModel.PickerIndex >= count {
			return nil
		}
		id := appModel.State.Models[appModel.PickerIndex].ID
		if id == appModel.State.SelectedModel.ID {
			return nil
		}
		if err := eb.SendToCore(eventbus.SelectModelEvent{ModelID: id}); err != nil {
			appModel.Status = "Error selecting model: " + err.Error()
		}
	}
	return nil
}

func handleCredentialKey(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus) tea.Cmd {
	switch keyMsg.Type {
	case tea.KeyEsc:
		closeCredentialDialog(appModel)
		return appModel.Input.Focus()
	case tea.KeyEnter:
		key := appModel.KeyInput.Value()
		if strings.TrimSpace(key) == "" {
			return nil
		}
		if err := eb.SendToCore(eventbus.SaveCredentialEvent{ModelID: appModel.CredentialModelID, APIKey: key}); err != nil {
			appModel.Status = "Error saving key: " + err.Error()
			return nil
		}
		closeCredentialDialog(appModel)
		return appModel.Input.Focus()
	}

	var cmd tea.Cmd
	appModel.KeyInput, cmd = appModel.KeyInput.Update(keyMsg)
	return cmd
}

// OpenCredentialDialog switches to the masked key prompt for modelID.
func OpenCredentialDialog(appModel *models.AppModel, modelID string) tea.Cmd {
	appModel.Mode = models.ModeCredential
	appModel.CredentialModelID = modelID
	appModel.KeyInput.Reset()
	appModel.Input.Blur()
	return appModel.KeyInput.Focus()
}

func closeCredentialDialog(appModel *models.AppModel) {
	appModel.Mode = models.ModeChat
	appModel.CredentialModelID = ""
	appModel.KeyInput.Reset()
	appModel.KeyInput.Blur()
}

func selectedIndex(state models.ConversationState) int {
	for i, m := range state.Models {
		if m.ID == state.SelectedModel.ID {
			return i
		}
	}
	return 0
}

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.StateUpdateEvent:
		wasLoading := appModel.State.IsLoading
		settlePending(appModel, event.State)
		appModel.State = event.State

		if event.State.IsLoading {
			appModel.Status = "Waiting for " + event.State.SelectedModel.Name
			if !wasLoading {
				return appModel.Spinner.Tick
			}
		} else {
			appModel.Status = "Ready"
		}

	case eventbus.CredentialRequestEvent:
		appModel.PendingInput = ""
		appModel.Status = "API key required for " + event.ModelName
		return OpenCredentialDialog(appModel, event.ModelID)

	case eventbus.NotificationEvent:
		appModel.Notifications = append(appModel.Notifications, models.Notification{
			Title:       event.Title,
			Description: event.Description,
			IsError:     event.Variant == eventbus.NotificationError,
			ExpiresAt:   time.Now().Add(NotificationTTL),
		})
		if event.Variant == eventbus.NotificationError {
			appModel.Status = "Error: " + event.Description
		}
	}

	return nil
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
	appModel.Input.Width = max(sizeMsg.Width-8, 10)
	appModel.KeyInput.Width = max(sizeMsg.Width-16, 10)
}

// HandleTickMsg drops expired notifications.
func HandleTickMsg(appModel *models.AppModel, now time.Time) tea.Cmd {
	kept := appModel.Notifications[:0]
	for _, n := range appModel.Notifications {
		if now.Before(n.ExpiresAt) {
			kept = append(kept, n)
		}
	}
	appModel.Notifications = kept
	return TickCmd()
}

// HandleSpinnerTick advances the spinner while loading and lets the tick
// loop die once the reply arrives.
func HandleSpinnerTick(appModel *models.AppModel, msg spinner.TickMsg) tea.Cmd {
	if !appModel.State.IsLoading {
		return nil
	}
	var cmd tea.Cmd
	appModel.Spinner, cmd = appModel.Spinner.Update(msg)
	return cmd
}
