package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m *AppModel) Init() tea.Cmd {
	return tea.SetWindowTitle("deskshell")
}

// Update handles events.
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		rows := max(1, msg.Height-chromeHeight)
		m.screen.Resize(rows, msg.Width)
		m.shell.SetViewport(rows, msg.Width)

	case tea.KeyMsg:
		if data := keyBytes(msg); data != "" {
			m.shell.HandleInput(data)
		}

	case runMsg:
		msg()
	}

	if m.quitting {
		return m, tea.Quit
	}
	return m, nil
}

var specialKeys = map[tea.KeyType]string{
	tea.KeyUp:        "\x1b[A",
	tea.KeyDown:      "\x1b[B",
	tea.KeyRight:     "\x1b[C",
	tea.KeyLeft:      "\x1b[D",
	tea.KeyHome:      "\x1b[H",
	tea.KeyEnd:       "\x1b[F",
	tea.KeyPgUp:      "\x1b[5~",
	tea.KeyPgDown:    "\x1b[6~",
	tea.KeyDelete:    "\x1b[3~",
	tea.KeyCtrlLeft:  "\x1b[1;5D",
	tea.KeyCtrlRight: "\x1b[1;5C",
	tea.KeyShiftTab:  "\x1b[Z",
	tea.KeySpace:     " ",
}

// keyBytes turns a key event back into the bytes a terminal sends for it.
func keyBytes(msg tea.KeyMsg) string {
	prefix := ""
	if msg.Alt {
		prefix = "\x1b"
	}
	switch {
	case msg.Type == tea.KeyRunes:
		return prefix + string(msg.Runes)
	case msg.Type >= 0 && msg.Type <= 127:
		// control characters, enter, tab, escape and backspace carry their
		// own code
		return prefix + string(rune(msg.Type))
	}
	if seq, ok := specialKeys[msg.Type]; ok {
		return prefix + seq
	}
	return ""
}
