// Package shell is the interactive command interpreter of the desktop
// terminal. It owns line editing, history, completion and the environment,
// runs pipelines of builtins and hands the terminal over to the editor, ssh
// sessions and ping while they run.
package shell

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"deskshell/internal/completion"
	"deskshell/internal/history"
	"deskshell/internal/lineedit"
	"deskshell/internal/model"
	"deskshell/internal/parser"
	"deskshell/internal/remote"
	"deskshell/internal/sched"
	"deskshell/internal/term"
	"deskshell/internal/vfs"
)

// Host is the desktop the shell runs in.
type Host interface {
	Username() string
	Processes() []model.Process
	SetTheme(name string) bool
	Apps() []model.AppInfo
	Launch(appID string) error
}

// owner takes over the terminal input, see Shell.HandleInput.
type owner interface {
	HandleInput(data string)
	SetViewport(rows, cols int)
}

type Options struct {
	FS        vfs.Provider
	Host      Host
	History   history.Store
	Scheduler sched.Scheduler
	Output    func(string)
	Logger    zerolog.Logger

	Hostname string
	Home     string // defaults to /home/<username>
	Rows     int
	Cols     int

	// Batch disables the commands that need a terminal (edit, ssh).
	Batch bool
	// OnIdle is called when a command that owned the terminal finished.
	OnIdle func()
	// OnExit is called by the exit builtin. Without it exit fails.
	OnExit func()

	Now  func() time.Time
	Rand *rand.Rand // ping round trip jitter
}

// Shell is one terminal session. It is not safe for concurrent use: input,
// resizes and scheduled callbacks must all run on the same goroutine.
type Shell struct {
	fs        vfs.Provider
	host      Host
	history   *history.History
	completer *completion.Engine
	sched     sched.Scheduler
	output    func(string)
	logger    zerolog.Logger
	now       func() time.Time
	rng       *rand.Rand
	batch     bool
	onIdle    func()
	onExit    func()
	started   time.Time

	user     string
	hostname string
	home     string
	cwd      string
	oldpwd   string
	env      map[string]string
	aliases  map[string]string

	line       lineedit.Buffer
	navigating bool
	rows, cols int

	owner owner
	// tty is true while the running command writes to the terminal rather
	// than to a pipe or a file.
	tty bool

	// resume holds the rest of the command line while the owner runs.
	resume *resumption
}

// resumption is the part of a command line after an interactive command.
// op joins that command to rest.
type resumption struct {
	rest []parser.ChainedPipeline
	op   parser.ChainOp
}

func New(opts Options) *Shell {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	rng := opts.Rand
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>32))
	}
	user := opts.Host.Username()
	home := opts.Home
	if home == "" {
		home = remote.Home(user)
	}
	hostname := opts.Hostname
	if hostname == "" {
		hostname = "desktop"
	}

	s := &Shell{
		fs:       opts.FS,
		host:     opts.Host,
		history:  history.New(opts.History, opts.Logger),
		sched:    opts.Scheduler,
		output:   opts.Output,
		logger:   opts.Logger,
		now:      now,
		rng:      rng,
		batch:    opts.Batch,
		onIdle:   opts.OnIdle,
		onExit:   opts.OnExit,
		started:  now(),
		user:     user,
		hostname: hostname,
		home:     home,
		cwd:      home,
		env: map[string]string{
			"HOME":     home,
			"USER":     user,
			"LOGNAME":  user,
			"HOSTNAME": hostname,
			"SHELL":    "/bin/dsh",
			"PATH":     "/usr/local/bin:/usr/bin:/bin",
			"TERM":     "xterm-256color",
			"PWD":      home,
		},
		aliases: map[string]string{
			"ll": "ls -l",
			"la": "ls -la",
		},
	}
	if !s.fs.Exists(home) {
		s.cwd = "/"
		s.env["PWD"] = "/"
	}
	s.completer = completion.New(s.commandNames, s.fs)
	s.setViewport(opts.Rows, opts.Cols)
	return s
}

// Start prints the greeting and the first prompt.
func (s *Shell) Start() {
	s.print("deskshell " + model.Version + ", type 'help' for the list of commands.\n")
	s.redraw()
}

func (s *Shell) Cwd() string               { return s.cwd }
func (s *Shell) Env(name string) string    { return s.env[name] }
func (s *Shell) History() *history.History { return s.history }

// Busy reports whether a command owns the terminal.
func (s *Shell) Busy() bool { return s.owner != nil }

// SetViewport resizes the terminal. The owner of the input, if any, is
// resized too.
func (s *Shell) SetViewport(rows, cols int) {
	s.setViewport(rows, cols)
	if s.owner != nil {
		s.owner.SetViewport(s.rows, s.cols)
	}
}

func (s *Shell) setViewport(rows, cols int) {
	if rows <= 0 {
		rows = 24
	}
	if cols <= 0 {
		cols = 80
	}
	s.rows, s.cols = rows, cols
}

// take gives the terminal to o until release is called.
func (s *Shell) take(o owner) {
	s.owner = o
}

// release returns the terminal to the shell. The rest of the command line
// runs, then the prompt is shown again. ok is the outcome of the command
// that owned the terminal.
func (s *Shell) release(clear, ok bool) {
	s.owner = nil
	if clear {
		var sb strings.Builder
		term.ClearScreen(&sb)
		s.output(sb.String())
	}
	if r := s.resume; r != nil {
		s.resume = nil
		if ok || r.op != parser.ChainAnd {
			s.runChain(r.rest)
		} else {
			s.logger.Debug().Msg("command failed, skipping the rest of the chain")
		}
		if s.owner != nil {
			return
		}
	}
	if !s.batch {
		s.redraw()
	}
	if s.onIdle != nil {
		s.onIdle()
	}
}

func (s *Shell) prompt() string {
	sign := "$ "
	if s.user == "root" {
		sign = "# "
	}
	return term.Bold(s.user+"@"+s.hostname, term.Green) + ":" + term.Bold(s.displayPath(s.cwd), term.Blue) + sign
}

// displayPath abbreviates the home directory to "~".
func (s *Shell) displayPath(p string) string {
	switch {
	case p == s.home:
		return "~"
	case strings.HasPrefix(p, s.home+"/"):
		return "~" + p[len(s.home):]
	}
	return p
}

func (s *Shell) redraw() {
	s.output(s.line.Render(s.prompt(), s.cols))
}

// print writes command output, translating line endings. Output that does
// not end a line gets a line ending so the prompt starts on its own line.
func (s *Shell) print(out string) {
	if out == "" {
		return
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	s.output(strings.ReplaceAll(out, "\n", term.Newline))
}

func (s *Shell) resolve(p string) string {
	return vfs.Resolve(s.cwd, s.home, p)
}
