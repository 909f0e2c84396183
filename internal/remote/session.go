package remote

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/rs/zerolog"

	"deskshell/internal/keys"
	"deskshell/internal/lineedit"
	"deskshell/internal/sched"
	"deskshell/internal/term"
)

// StepDelay separates the lines of the connection banner.
const StepDelay = 300 * time.Millisecond

const banner = "OpenSSH_9.6p1"

type state int

const (
	connecting state = iota
	connected
	closed
)

type Options struct {
	Host      *Host
	User      string
	Scheduler sched.Scheduler
	Output    func(string)
	OnExit    func() // called once when the connection is closed or aborted
	Logger    zerolog.Logger
	Now       func() time.Time
	Cols      int
}

// Session is a simulated login shell on a remote host. It owns the terminal
// input from Connect until it closes.
type Session struct {
	host   *Host
	user   string
	home   string
	cwd    string
	tree   *Node
	sched  sched.Scheduler
	output func(string)
	onExit func()
	logger zerolog.Logger
	now    func() time.Time
	cols   int

	state   state
	aborted bool
	line    lineedit.Buffer
	pending []func()
}

var bindings = struct {
	Interrupt, EOF, Clear, Kill, DeleteWord, Home, End, Backspace key.Binding
}{
	Interrupt:  key.NewBinding(key.WithKeys("ctrl+c")),
	EOF:        key.NewBinding(key.WithKeys("ctrl+d")),
	Clear:      key.NewBinding(key.WithKeys("ctrl+l")),
	Kill:       key.NewBinding(key.WithKeys("ctrl+u")),
	DeleteWord: key.NewBinding(key.WithKeys("ctrl+w")),
	Home:       key.NewBinding(key.WithKeys("home", "ctrl+a")),
	End:        key.NewBinding(key.WithKeys("end", "ctrl+e")),
	Backspace:  key.NewBinding(key.WithKeys("backspace", "ctrl+h")),
}

func NewSession(opts Options) *Session {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	home := Home(opts.User)
	return &Session{
		host:   opts.Host,
		user:   opts.User,
		home:   home,
		cwd:    home,
		tree:   opts.Host.Tree(opts.User),
		sched:  opts.Scheduler,
		output: opts.Output,
		onExit: opts.OnExit,
		logger: opts.Logger.With().Str("host", opts.Host.Hostname).Str("user", opts.User).Logger(),
		now:    now,
		cols:   max(opts.Cols, 20),
	}
}

func (s *Session) Connected() bool { return s.state == connected }
func (s *Session) Closed() bool    { return s.state == closed }

// Aborted reports whether the connection was interrupted before the login.
func (s *Session) Aborted() bool { return s.aborted }
func (s *Session) Cwd() string     { return s.cwd }

// Connect prints the connection banner one line at a time, then the motd and
// the first prompt. It returns immediately.
func (s *Session) Connect() {
	h := s.host
	steps := []string{
		"Remote protocol version 2.0, remote software version " + banner,
		"Key exchange: curve25519-sha256",
		"Host key fingerprint is " + h.Fingerprint(),
		fmt.Sprintf("Authenticated to %s as '%s' (publickey).", h.Hostname, s.user),
	}

	s.writeLine(fmt.Sprintf("Connecting to %s (%s) port 22...", h.Hostname, h.Address))
	for i, text := range steps {
		s.pending = append(s.pending, s.sched.AfterFunc(time.Duration(i+1)*StepDelay, func() {
			s.writeLine(text)
		}))
	}
	s.pending = append(s.pending, s.sched.AfterFunc(time.Duration(len(steps)+1)*StepDelay, s.login))
}

func (s *Session) login() {
	s.pending = nil
	s.state = connected

	var sb strings.Builder
	sb.WriteString(term.Newline)
	sb.WriteString(crlf(s.host.Motd))
	sb.WriteString(term.Newline + term.Newline)
	last := s.now().Add(-14 * time.Hour).UTC()
	fmt.Fprintf(&sb, "Last login: %s from 192.168.1.10%s", last.Format("Mon Jan _2 15:04:05 2006"), term.Newline)
	s.output(sb.String())
	s.redraw()
	s.logger.Info().Msg("ssh session established")
}

// SetViewport records the terminal width used to lay out ls output.
func (s *Session) SetViewport(rows, cols int) {
	s.cols = max(cols, 20)
}

// HandleInput processes raw terminal input.
func (s *Session) HandleInput(data string) {
	for _, k := range keys.Decode(data) {
		switch s.state {
		case connecting:
			if key.Matches(k, bindings.Interrupt) {
				s.abort()
			}
		case connected:
			s.handleKey(k)
		}
		if s.state == closed {
			return
		}
	}
}

func (s *Session) handleKey(k keys.Key) {
	switch {
	case k.Type == keys.Enter:
		s.output(s.line.Leave(""))
		input := s.line.String()
		s.line.Reset()
		s.execute(input)
		if s.state == closed {
			return
		}
	case key.Matches(k, bindings.Interrupt):
		s.output(s.line.Leave("^C"))
		s.line.Reset()
	case key.Matches(k, bindings.EOF):
		if s.line.Len() == 0 {
			s.output("logout" + term.Newline)
			s.disconnect()
			return
		}
		s.line.Delete()
	case key.Matches(k, bindings.Clear):
		var sb strings.Builder
		term.ClearScreen(&sb)
		s.output(sb.String())
		s.line.Forget()
	case key.Matches(k, bindings.Kill):
		s.line.KillToStart()
	case key.Matches(k, bindings.DeleteWord):
		s.line.DeleteWordBack()
	case key.Matches(k, bindings.Home):
		s.line.Home()
	case key.Matches(k, bindings.End):
		s.line.End()
	case key.Matches(k, bindings.Backspace):
		s.line.Backspace()
	case k.Type == keys.Delete:
		s.line.Delete()
	case k.Type == keys.Left:
		s.line.Left()
	case k.Type == keys.Right:
		s.line.Right()
	case k.IsPrintable():
		s.line.Insert(string(k.Rune))
	default:
		return
	}
	s.redraw()
}

func (s *Session) execute(input string) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return
	}
	name, args := fields[0], fields[1:]
	s.logger.Debug().Str("command", name).Msg("remote command")

	switch name {
	case "exit", "logout":
		s.output("logout" + term.Newline)
		s.disconnect()
		return
	case "clear":
		var sb strings.Builder
		term.ClearScreen(&sb)
		s.output(sb.String())
		return
	}

	cmd, ok := commands[name]
	if !ok {
		s.writeLine(name + ": command not found")
		return
	}
	out := cmd(s, args)
	if out == "" {
		return
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	s.output(crlf(out))
}

func (s *Session) abort() {
	for _, cancel := range s.pending {
		cancel()
	}
	s.pending = nil
	s.output("^C" + term.Newline + "ssh: connection to " + s.host.Hostname + " aborted" + term.Newline)
	s.aborted = true
	s.close()
}

func (s *Session) disconnect() {
	s.writeLine("Connection to " + s.host.Hostname + " closed.")
	s.logger.Info().Msg("ssh session closed")
	s.close()
}

func (s *Session) close() {
	s.state = closed
	if s.onExit != nil {
		s.onExit()
	}
}

func (s *Session) prompt() string {
	short, _, _ := strings.Cut(s.host.Hostname, ".")
	sign := "$ "
	if s.user == "root" {
		sign = "# "
	}
	return term.Bold(s.user+"@"+short, term.Green) + ":" + term.Bold(s.displayCwd(), term.Blue) + sign
}

func (s *Session) displayCwd() string {
	switch {
	case s.cwd == s.home:
		return "~"
	case strings.HasPrefix(s.cwd, s.home+"/"):
		return "~" + s.cwd[len(s.home):]
	}
	return s.cwd
}

func (s *Session) redraw() {
	s.output(s.line.Render(s.prompt(), s.cols))
}

func (s *Session) writeLine(text string) {
	s.output(crlf(text) + term.Newline)
}

func crlf(s string) string {
	return strings.ReplaceAll(s, "\n", term.Newline)
}
