package tui

import (
	"github.com/charmbracelet/lipgloss"

	"deskshell/internal/model"
)

type palette struct {
	fg, bg lipgloss.Color
}

var palettes = map[string]palette{
	"dark":      {fg: "#FAFAFA", bg: "#7D56F4"},
	"light":     {fg: "#1F1F1F", bg: "#D7D7FF"},
	"solarized": {fg: "#FDF6E3", bg: "#268BD2"},
	"dracula":   {fg: "#F8F8F2", bg: "#BD93F9"},
}

func (m *AppModel) titleStyle() lipgloss.Style {
	p, ok := palettes[m.desktop.Theme()]
	if !ok {
		p = palettes["dark"]
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(p.fg).
		Background(p.bg).
		Padding(0, 1).
		Width(max(m.width, 1)).
		MaxHeight(1)
}

func (m *AppModel) View() string {
	if m.quitting {
		return ""
	}
	title := "deskshell " + model.Version + "  " + m.desktop.Username() + "@" + m.shell.Env("HOSTNAME") + "  " + m.shell.Cwd()
	if m.shell.Busy() {
		title += "  [running]"
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.titleStyle().Render(title), m.screen.Render())
}
