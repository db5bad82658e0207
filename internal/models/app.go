package models

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
)

type Mode int

const (
	ModeChat Mode = iota
	ModeModelPicker
	ModeCredential
)

// Notification is the terminal rendition of a toast.
type Notification struct {
	Title       string
	Description string
	IsError     bool
	ExpiresAt   time.Time
}

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	State             ConversationState // Last snapshot pushed by core
	Input             textinput.Model   // Chat input
	KeyInput          textinput.Model   // Masked credential input
	Spinner           spinner.Model     // Shown while a send is in flight
	Mode              Mode
	PickerIndex       int    // Highlighted row in the model picker
	CredentialModelID string // Model the credential dialog saves for
	Notifications     []Notification
	PendingInput      string // Submitted text awaiting acceptance by core
	PendingIndex      int    // Message index the pending text will occupy
	Status            string // Status bar text
	Width             int    // Terminal width
	Height            int    // Terminal height
}

func NewAppModel() AppModel {
	input := textinput.New()
	input.Placeholder = "Message..."
	input.Prompt = "> "
	input.CharLimit = 8192
	input.Focus()

	keyInput := textinput.New()
	keyInput.Placeholder = "Enter your API key"
	keyInput.Prompt = "key: "
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.EchoCharacter = '•'

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return AppModel{
		Input:    input,
		KeyInput: keyInput,
		Spinner:  spin,
		Mode:     ModeChat,
		Status:   "Ready",
		Width:    80,
	}
}
