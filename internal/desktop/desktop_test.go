package desktop

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deskshell/internal/vfs"
)

func TestNewDesktop(t *testing.T) {
	d := New("ada", "light", zerolog.Nop())
	assert.Equal(t, "ada", d.Username())
	assert.Equal(t, "light", d.Theme())

	procs := d.Processes()
	require.Len(t, procs, 1)
	assert.Equal(t, "terminal", procs[0].AppID)
	assert.Len(t, procs[0].ID, 8)

	assert.Equal(t, "dark", New("ada", "neon", zerolog.Nop()).Theme())
}

func TestSetTheme(t *testing.T) {
	d := New("ada", "", zerolog.Nop())
	assert.True(t, d.SetTheme("dracula"))
	assert.Equal(t, "dracula", d.Theme())
	assert.False(t, d.SetTheme("neon"))
	assert.Equal(t, "dracula", d.Theme())
}

func TestLaunch(t *testing.T) {
	d := New("ada", "", zerolog.Nop())
	require.NoError(t, d.Launch("notes"))
	assert.ErrorIs(t, d.Launch("nope"), ErrUnknownApp)

	procs := d.Processes()
	require.Len(t, procs, 2)
	assert.Equal(t, "notes", procs[1].AppID)
	assert.NotEqual(t, procs[0].ID, procs[1].ID)

	assert.True(t, d.Minimize("notes"))
	assert.Equal(t, "minimized", d.Processes()[1].Status)
	require.NoError(t, d.Launch("notes"))
	assert.Len(t, d.Processes(), 2, "a running application is not started twice")
	assert.Equal(t, "running", d.Processes()[1].Status)

	assert.False(t, d.Minimize("calculator"))
}

func TestProcessesIsACopy(t *testing.T) {
	d := New("ada", "", zerolog.Nop())
	procs := d.Processes()
	procs[0].Status = "crashed"
	assert.Equal(t, "running", d.Processes()[0].Status)
}

func TestSeed(t *testing.T) {
	fs := vfs.NewMemory()
	require.NoError(t, Seed(fs, "/home/ada"))

	for _, p := range []string{"/tmp", "/home/ada/Documents", "/home/ada/projects/hello"} {
		info, err := fs.Stat(p)
		require.NoError(t, err, p)
		assert.True(t, info.IsDirectory, p)
	}
	content, err := fs.Read("/home/ada/projects/hello/main.go")
	require.NoError(t, err)
	assert.Contains(t, content, "hello, world")

	// an existing home is left alone
	require.NoError(t, fs.Write("/home/ada/README.md", "mine\n"))
	require.NoError(t, Seed(fs, "/home/ada"))
	content, _ = fs.Read("/home/ada/README.md")
	assert.Equal(t, "mine\n", content)
}
