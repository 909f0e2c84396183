// Package tui runs a deskshell terminal as a bubbletea program. The shell
// writes into a virtual Screen which View draws below a title bar.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"deskshell/internal/desktop"
	"deskshell/internal/history"
	"deskshell/internal/sched"
	"deskshell/internal/shell"
	"deskshell/internal/vfs"
)

// chromeHeight is the number of rows View uses around the screen.
const chromeHeight = 1

type Options struct {
	FS       vfs.Provider
	Desktop  *desktop.Desktop
	History  history.Store
	Logger   zerolog.Logger
	Hostname string
	Rows     int
	Cols     int

	// Scheduler defaults to timers posting to the program, see Attach.
	Scheduler sched.Scheduler
}

// AppModel holds the TUI state.
type AppModel struct {
	shell   *shell.Shell
	screen  *Screen
	desktop *desktop.Desktop
	logger  zerolog.Logger

	width, height int
	send          func(tea.Msg)
	quitting      bool
}

// runMsg carries a scheduled callback onto the program goroutine.
type runMsg func()

// New builds the model and prints the greeting. Attach must be called with
// the program before it runs when no scheduler is given.
func New(opts Options) *AppModel {
	m := &AppModel{
		desktop: opts.Desktop,
		logger:  opts.Logger,
		width:   opts.Cols,
		height:  opts.Rows + chromeHeight,
	}
	m.screen = NewScreen(opts.Rows, opts.Cols)

	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = sched.NewTimers(m.post)
	}
	m.shell = shell.New(shell.Options{
		FS:        opts.FS,
		Host:      opts.Desktop,
		History:   opts.History,
		Scheduler: scheduler,
		Output:    m.screen.Write,
		Logger:    opts.Logger,
		Hostname:  opts.Hostname,
		Rows:      opts.Rows,
		Cols:      opts.Cols,
		OnExit:    func() { m.quitting = true },
	})
	m.shell.Start()
	return m
}

// Attach routes scheduled callbacks through p.
func (m *AppModel) Attach(p *tea.Program) {
	m.send = p.Send
}

func (m *AppModel) post(fn func()) {
	if m.send == nil {
		m.logger.Warn().Msg("scheduled callback dropped, no program attached")
		return
	}
	m.send(runMsg(fn))
}
