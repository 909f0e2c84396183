package config

import (
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv("USER", "ada")
	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ada", s.Username)
	assert.Equal(t, "desktop", s.Hostname)
	assert.Equal(t, "dark", s.Theme)
	assert.Empty(t, s.RootDir)
	assert.Equal(t, "localhost:8080", s.WebAddr)
	assert.Equal(t, 24, s.Rows)
	assert.Equal(t, 80, s.Cols)
	assert.Equal(t, filepath.Join(xdg.DataHome, "deskshell", "state.db"), s.HistoryPath)
	assert.Equal(t, filepath.Join(xdg.CacheHome, "deskshell", "deskshell.log"), s.LogPath)
}

func TestEnvironment(t *testing.T) {
	t.Setenv("DESKSHELL_USERNAME", "grace")
	t.Setenv("DESKSHELL_HOSTNAME", "lab")
	t.Setenv("DESKSHELL_ROOT_DIR", "/srv/desk")
	t.Setenv("DESKSHELL_HISTORY_PATH", "/tmp/h.db")
	t.Setenv("DESKSHELL_COLS", "120")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "grace", s.Username)
	assert.Equal(t, "lab", s.Hostname)
	assert.Equal(t, "/srv/desk", s.RootDir)
	assert.Equal(t, "/tmp/h.db", s.HistoryPath)
	assert.Equal(t, 120, s.Cols)
}

func TestInvalid(t *testing.T) {
	t.Setenv("DESKSHELL_ROWS", "many")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DESKSHELL_ROWS", "0")
	_, err = Load()
	assert.EqualError(t, err, "invalid viewport 80x0")
}

func TestUserFallback(t *testing.T) {
	t.Setenv("USER", "")
	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "user", s.Username)
}
