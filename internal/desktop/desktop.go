// Package desktop is the demo desktop the terminal runs in: a few installed
// applications, a process table and a seeded home directory.
package desktop

import (
	"errors"
	"slices"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"deskshell/internal/model"
)

var ErrUnknownApp = errors.New("application not found")

// Themes are the names accepted by SetTheme, the first one is the default.
var Themes = []string{"dark", "light", "solarized", "dracula"}

type app struct {
	info   model.AppInfo
	memory int64
}

var apps = []app{
	{model.AppInfo{ID: "terminal", Name: "Terminal"}, 24 * humanize.MiByte},
	{model.AppInfo{ID: "files", Name: "Files"}, 38 * humanize.MiByte},
	{model.AppInfo{ID: "notes", Name: "Notes"}, 17 * humanize.MiByte},
	{model.AppInfo{ID: "calculator", Name: "Calculator"}, 9 * humanize.MiByte},
	{model.AppInfo{ID: "browser", Name: "Browser"}, 212 * humanize.MiByte},
	{model.AppInfo{ID: "settings", Name: "Settings"}, 14 * humanize.MiByte},
}

// Desktop implements shell.Host. It is shared by every terminal of a
// process and safe for concurrent use.
type Desktop struct {
	mu     sync.Mutex
	user   string
	theme  string
	procs  []model.Process
	logger zerolog.Logger
}

// New returns a desktop with a running terminal. An unknown theme falls back
// to the default one.
func New(user, theme string, logger zerolog.Logger) *Desktop {
	d := &Desktop{user: user, theme: Themes[0], logger: logger}
	if slices.Contains(Themes, theme) {
		d.theme = theme
	}
	d.start(apps[0])
	return d
}

func (d *Desktop) Username() string { return d.user }

func (d *Desktop) Theme() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.theme
}

func (d *Desktop) SetTheme(name string) bool {
	if !slices.Contains(Themes, name) {
		return false
	}
	d.mu.Lock()
	d.theme = name
	d.mu.Unlock()
	d.logger.Info().Str("theme", name).Msg("theme changed")
	return true
}

func (d *Desktop) Apps() []model.AppInfo {
	out := make([]model.AppInfo, len(apps))
	for i, a := range apps {
		out[i] = a.info
	}
	return out
}

// Processes returns a copy of the process table in launch order.
func (d *Desktop) Processes() []model.Process {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.procs)
}

// Launch starts appID. Launching an application that already runs brings
// it back from minimized instead of starting a second copy.
func (d *Desktop) Launch(appID string) error {
	i := slices.IndexFunc(apps, func(a app) bool { return a.info.ID == appID })
	if i < 0 {
		return ErrUnknownApp
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for j := range d.procs {
		if d.procs[j].AppID == appID {
			d.procs[j].Status = "running"
			return nil
		}
	}
	d.start(apps[i])
	return nil
}

// Minimize marks a running application as minimized. It reports whether
// the application was running.
func (d *Desktop) Minimize(appID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for j := range d.procs {
		if d.procs[j].AppID == appID {
			d.procs[j].Status = "minimized"
			return true
		}
	}
	return false
}

// start must be called with mu held, or before d is shared.
func (d *Desktop) start(a app) {
	p := model.Process{
		ID:          uuid.NewString()[:8],
		AppID:       a.info.ID,
		Status:      "running",
		MemoryUsage: a.memory,
	}
	d.procs = append(d.procs, p)
	d.logger.Debug().Str("app", p.AppID).Str("pid", p.ID).Msg("application started")
}
