package styles

import "github.com/charmbracelet/lipgloss"

var (
	accent    = lipgloss.Color("62")
	userColor = lipgloss.Color("39")
	botColor  = lipgloss.Color("214")
	muted     = lipgloss.Color("241")
	errColor  = lipgloss.Color("196")
	okColor   = lipgloss.Color("42")
)

func HeaderStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("230")).
		Background(accent).
		Bold(true).
		Padding(0, 1).
		Width(width)
}

func InputStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Width(width - 4)
}

// DisabledInputStyle is the input frame while a reply is pending.
func DisabledInputStyle(width int) lipgloss.Style {
	return InputStyle(width).
		BorderForeground(muted).
		Foreground(muted)
}

func StatusStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(muted).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Width(width)
}

func SystemStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Padding(0, 2)
}

func UserStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(userColor).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(userColor).
		Padding(0, 1).
		MarginLeft(2)
}

func AssistantStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(botColor).
		MarginLeft(2)
}

// AssistantLabelStyle renders the model name above a reply.
func AssistantLabelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(botColor).
		Bold(true).
		MarginLeft(2)
}

func DialogStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Width(min(width-4, 72))
}

func DialogTitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)
}

func HintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(muted)
}

func PickerItemStyle() lipgloss.Style {
	return lipgloss.NewStyle().PaddingLeft(2)
}

func PickerSelectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(accent).
		Bold(true).
		PaddingLeft(1).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(accent)
}

func KeyPresentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(okColor)
}

func KeyMissingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(errColor)
}

func ToastStyle(isError bool, width int) lipgloss.Style {
	border := okColor
	if isError {
		border = errColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(min(width-4, 60))
}

func ToastTitleStyle(isError bool) lipgloss.Style {
	color := okColor
	if isError {
		color = errColor
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true)
}
