package vfs

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) *BillyFS {
	t.Helper()
	fs := NewMemory()
	require.NoError(t, fs.Mkdir("/home"))
	require.NoError(t, fs.Mkdir("/home/ada"))
	require.NoError(t, fs.Write("/home/ada/file10.txt", "ten"))
	require.NoError(t, fs.Write("/home/ada/file2.txt", "two"))
	require.NoError(t, fs.Mkdir("/home/ada/docs"))
	return fs
}

func TestReadWrite(t *testing.T) {
	fs := seeded(t)

	content, err := fs.Read("/home/ada/file2.txt")
	require.NoError(t, err)
	assert.Equal(t, "two", content)

	require.NoError(t, fs.Write("/home/ada/file2.txt", "deux"))
	content, err = fs.Read("/home/ada/file2.txt")
	require.NoError(t, err)
	assert.Equal(t, "deux", content)

	_, err = fs.Read("/home/ada/missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = fs.Read("/home/ada/docs")
	assert.ErrorIs(t, err, ErrIsDir)

	err = fs.Write("/nowhere/x.txt", "x")
	assert.ErrorIs(t, err, ErrNotFound)

	err = fs.Write("/home/ada/docs", "x")
	assert.ErrorIs(t, err, ErrIsDir)
}

func TestListNaturalOrder(t *testing.T) {
	fs := seeded(t)

	entries, err := fs.List("/home/ada")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"docs", "file2.txt", "file10.txt"}, names)
	assert.True(t, entries[0].IsDirectory)
	assert.Equal(t, "/home/ada/file2.txt", entries[1].Path)
	assert.EqualValues(t, 3, entries[1].Size)

	_, err = fs.List("/home/ada/file2.txt")
	assert.ErrorIs(t, err, ErrNotDir)
}

func TestMkdirDeleteMove(t *testing.T) {
	fs := seeded(t)

	assert.ErrorIs(t, fs.Mkdir("/home/ada/docs"), ErrExists)
	assert.ErrorIs(t, fs.Mkdir("/a/b"), ErrNotFound)

	require.NoError(t, fs.Write("/home/ada/docs/x.md", "x"))
	assert.ErrorIs(t, fs.Delete("/home/ada/docs"), ErrNotEmpty)

	require.NoError(t, fs.Move("/home/ada/docs/x.md", "/home/ada/y.md"))
	assert.False(t, fs.Exists("/home/ada/docs/x.md"))
	assert.True(t, fs.Exists("/home/ada/y.md"))
	assert.ErrorIs(t, fs.Move("/home/ada/y.md", "/home/ada/file2.txt"), ErrExists)

	require.NoError(t, fs.Write("/home/ada/docs/x.md", "x"))
	assert.ErrorIs(t, fs.Move("/home/ada/docs", "/home/ada/docs/sub"), ErrInSubtree)
	assert.True(t, fs.Exists("/home/ada/docs/x.md"))

	require.NoError(t, fs.Delete("/home/ada/docs/x.md"))
	require.NoError(t, fs.Delete("/home/ada/docs"))
	assert.False(t, fs.Exists("/home/ada/docs"))
	assert.ErrorIs(t, fs.Delete("/home/ada/docs"), ErrNotFound)
}

func TestInSubtree(t *testing.T) {
	assert.True(t, InSubtree("/a", "/a"))
	assert.True(t, InSubtree("/a", "/a/b/c"))
	assert.True(t, InSubtree("/", "/a"))
	assert.False(t, InSubtree("/a", "/ab"))
	assert.False(t, InSubtree("/a/b", "/a"))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		cwd, p, expected string
	}{
		{"/home/ada", "", "/home/ada"},
		{"/home/ada", "docs", "/home/ada/docs"},
		{"/home/ada", "..", "/home"},
		{"/home/ada", "../../..", "/"},
		{"/home/ada", "/etc/", "/etc"},
		{"/tmp", "~", "/home/ada"},
		{"/tmp", "~/docs", "/home/ada/docs"},
	}

	for _, tt := range tests {
		t.Run(tt.p, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(tt.cwd, "/home/ada", tt.p))
		})
	}
}

func TestMessage(t *testing.T) {
	fs := seeded(t)
	_, err := fs.Read("/home/ada/nope")
	assert.Equal(t, "No such file or directory", Message(err))
	_, err = fs.Read("/home/ada/docs")
	assert.Equal(t, "Is a directory", Message(err))
}

func TestLockedConcurrentWrites(t *testing.T) {
	fs := NewLocked(seeded(t))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := fmt.Sprintf("/home/ada/f%d", i)
			assert.NoError(t, fs.Write(name, "x"))
			assert.True(t, fs.Exists(name))
		}()
	}
	wg.Wait()

	entries, err := fs.List("/home/ada")
	require.NoError(t, err)
	assert.Len(t, entries, 3+8)
}
