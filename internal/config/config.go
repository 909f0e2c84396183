// Package config loads the settings of deskshell from the environment.
// Every field can be set with a DESKSHELL_ prefixed variable, for example
// DESKSHELL_WEB_ADDR; command line flags override them in main.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/kelseyhightower/envconfig"
)

const (
	Prefix  = "DESKSHELL"
	appName = "deskshell"
)

// Settings names its variables with split_words: an envconfig tag would
// also match the unprefixed name, and HOSTNAME or USERNAME are set in most
// shells.
type Settings struct {
	Username string `split_words:"true"`
	Hostname string `split_words:"true" default:"desktop"`
	Theme    string `split_words:"true" default:"dark"`

	// RootDir is an OS directory exposed as "/". Empty means an in-memory
	// demo filesystem.
	RootDir     string `split_words:"true"`
	HistoryPath string `split_words:"true"`
	LogPath     string `split_words:"true"`
	LogLevel    string `split_words:"true" default:"info"`

	WebAddr string `split_words:"true" default:"localhost:8080"`
	Rows    int    `split_words:"true" default:"24"`
	Cols    int    `split_words:"true" default:"80"`
}

// Load reads the environment and fills in the XDG based defaults.
func Load() (Settings, error) {
	var s Settings
	if err := envconfig.Process(Prefix, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	if s.Username == "" {
		s.Username = os.Getenv("USER")
	}
	if s.Username == "" {
		s.Username = "user"
	}
	if s.HistoryPath == "" {
		s.HistoryPath = filepath.Join(xdg.DataHome, appName, "state.db")
	}
	if s.LogPath == "" {
		s.LogPath = filepath.Join(xdg.CacheHome, appName, appName+".log")
	}
	if s.Rows <= 0 || s.Cols <= 0 {
		return Settings{}, fmt.Errorf("invalid viewport %dx%d", s.Cols, s.Rows)
	}
	return s, nil
}
