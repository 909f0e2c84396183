package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"

	"deskshell/internal/config"
	"deskshell/internal/desktop"
	"deskshell/internal/history"
	"deskshell/internal/logging"
	"deskshell/internal/model"
	"deskshell/internal/remote"
	"deskshell/internal/sched"
	"deskshell/internal/shell"
	"deskshell/internal/storage"
	"deskshell/internal/tui"
	"deskshell/internal/vfs"
	"deskshell/internal/web"
)

const themeKey = "theme"

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "deskshell",
		Repository: "deskshell",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not check for updates: %v\n", err)
		return
	}

	if res.Outdated {
		fmt.Printf("A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("Download it from https://github.com/deskshell/deskshell/releases")
	} else {
		fmt.Printf("You are using the latest version: %s\n", currentVer)
	}
}

// app is everything the three modes share.
type app struct {
	settings config.Settings
	logger   zerolog.Logger
	fs       vfs.Provider
	desktop  *desktop.Desktop
	db       *storage.DB
	closers  []io.Closer
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: deskshell [options]\n\n")
		fmt.Fprintf(os.Stderr, "deskshell is a simulated desktop terminal: a shell with a virtual\n")
		fmt.Fprintf(os.Stderr, "filesystem, a modal text editor and simulated ssh hosts.\n")
		fmt.Fprintf(os.Stderr, "Settings are read from DESKSHELL_* environment variables.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  deskshell                  # Start the terminal (TUI)\n")
		fmt.Fprintf(os.Stderr, "  deskshell --web            # Serve the terminal to the browser\n")
		fmt.Fprintf(os.Stderr, "  deskshell -e 'ls | wc -l'  # Run a command line and exit\n")
		fmt.Fprintf(os.Stderr, "  deskshell --root ~/sandbox # Use a real directory as /\n")
	}

	webFlag := pflag.BoolP("web", "w", false, "Serve the terminal over HTTP")
	addrFlag := pflag.String("addr", "", "Listen address of the web mode (default from DESKSHELL_WEB_ADDR)")
	execFlag := pflag.StringP("exec", "e", "", "Run a command line without a terminal and exit")
	userFlag := pflag.String("user", "", "Desktop user name")
	hostFlag := pflag.String("hostname", "", "Hostname shown in the prompt")
	rootFlag := pflag.String("root", "", "Directory exposed as / instead of the in-memory demo filesystem")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("deskshell version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	override(&settings.Username, *userFlag)
	override(&settings.Hostname, *hostFlag)
	override(&settings.RootDir, *rootFlag)
	override(&settings.WebAddr, *addrFlag)

	a, err := setup(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.close()

	switch {
	case *execFlag != "":
		err = a.runExec(*execFlag)
	case *webFlag:
		err = a.runWeb()
	default:
		err = a.runTui()
	}
	if err != nil {
		a.logger.Error().Err(err).Msg("deskshell failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		a.close()
		os.Exit(1)
	}
}

func override(dst *string, flag string) {
	if flag != "" {
		*dst = flag
	}
}

func setup(settings config.Settings) (*app, error) {
	a := &app{settings: settings}

	logger, logFile, err := logging.Open(settings.LogPath, settings.LogLevel)
	if err != nil {
		return nil, err
	}
	a.logger = logger
	a.closers = append(a.closers, logFile)

	a.db, err = storage.Open(settings.HistoryPath)
	if err != nil {
		a.close()
		return nil, err
	}
	a.closers = append(a.closers, a.db)

	if settings.RootDir != "" {
		a.fs = vfs.NewOS(settings.RootDir)
	} else {
		a.fs = vfs.NewMemory()
	}
	if err := desktop.Seed(a.fs, remote.Home(settings.Username)); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to seed the home directory: %w", err)
	}

	theme := settings.Theme
	if _, err := a.db.Get(themeKey, &theme); err != nil {
		logger.Warn().Err(err).Msg("failed to load the saved theme")
	}
	a.desktop = desktop.New(settings.Username, theme, logging.For(logger, "desktop"))

	logger.Info().
		Str("version", model.Version).
		Str("user", settings.Username).
		Str("root", settings.RootDir).
		Msg("deskshell started")
	return a, nil
}

func (a *app) close() {
	if a.db != nil && a.desktop != nil {
		if err := a.db.Put(themeKey, a.desktop.Theme()); err != nil {
			a.logger.Warn().Err(err).Msg("failed to save the theme")
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i].Close()
	}
	a.closers = nil
	a.desktop = nil
}

func (a *app) runTui() error {
	m := tui.New(tui.Options{
		FS:       a.fs,
		Desktop:  a.desktop,
		History:  storage.NewHistoryStore(a.db),
		Logger:   logging.For(a.logger, "shell"),
		Hostname: a.settings.Hostname,
		Rows:     a.settings.Rows,
		Cols:     a.settings.Cols,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.Attach(p)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal failed: %w", err)
	}
	return nil
}

func (a *app) runWeb() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := web.New(web.Options{
		FS:       a.fs,
		Desktop:  a.desktop,
		Logger:   logging.For(a.logger, "web"),
		Hostname: a.settings.Hostname,
		Rows:     a.settings.Rows,
		Cols:     a.settings.Cols,
	})
	fmt.Printf("Starting deskshell web server at http://%s\n", a.settings.WebAddr)
	return srv.ListenAndServe(ctx, a.settings.WebAddr)
}

// runExec runs one command line the way it would run in the terminal and
// waits for the commands that keep running, like ping.
func (a *app) runExec(line string) error {
	loop := sched.NewLoop()
	sh := shell.New(shell.Options{
		FS:        a.fs,
		Host:      a.desktop,
		History:   &history.MemoryStore{},
		Scheduler: sched.NewTimers(loop.Post),
		Output: func(out string) {
			fmt.Print(strings.ReplaceAll(out, "\r\n", "\n"))
		},
		Logger:   logging.For(a.logger, "shell"),
		Hostname: a.settings.Hostname,
		Rows:     a.settings.Rows,
		Cols:     a.settings.Cols,
		Batch:    true,
		OnIdle:   loop.Stop,
		OnExit:   loop.Stop,
	})
	sh.Run(line)
	if sh.Busy() {
		loop.Run()
	}
	return nil
}
