package desktop

import (
	"errors"
	"fmt"
	"path"

	"deskshell/internal/vfs"
)

var seedDirs = []string{
	"Documents",
	"Downloads",
	"projects",
	"projects/hello",
}

var seedFiles = []struct {
	path    string
	content string
}{
	{".bashrc", "export EDITOR=nano\nalias gs='git status'\n"},
	{"README.md", "# Welcome\n\nThis is your home directory. Type `help` to list the commands,\n`edit README.md` to change this file or `ssh devbox` to log in to a\nremote machine.\n"},
	{"notes.txt", "groceries\n- apples\n- coffee\n- bread\n\ncall the dentist on monday\n"},
	{"Documents/todo.txt", "finish the quarterly report\nreview pull requests\nwater the plants\n"},
	{"Documents/numbers.csv", "month,amount\njan,120\nfeb,95\nmar,143\napr,95\n"},
	{"projects/hello/main.go", "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hello, world\")\n}\n"},
	{"projects/hello/go.mod", "module hello\n\ngo 1.24\n"},
	{"projects/hello/Makefile", "run:\n\tgo run .\n"},
	{"projects/notes.md", "# Ideas\n\n* a shell that runs in the browser\n* syntax highlighting in the editor\n"},
}

// Seed creates home and fills it with the demo files, unless it already
// exists. /tmp is created too.
func Seed(fs vfs.Provider, home string) error {
	if err := mkdirAll(fs, "/tmp"); err != nil {
		return err
	}
	if fs.Exists(home) {
		return nil
	}
	if err := mkdirAll(fs, home); err != nil {
		return err
	}
	for _, d := range seedDirs {
		if err := fs.Mkdir(path.Join(home, d)); err != nil {
			return fmt.Errorf("failed to seed %s: %w", d, err)
		}
	}
	for _, f := range seedFiles {
		if err := fs.Write(path.Join(home, f.path), f.content); err != nil {
			return fmt.Errorf("failed to seed %s: %w", f.path, err)
		}
	}
	return nil
}

func mkdirAll(fs vfs.Provider, p string) error {
	if p == "/" || fs.Exists(p) {
		return nil
	}
	if err := mkdirAll(fs, path.Dir(p)); err != nil {
		return err
	}
	if err := fs.Mkdir(p); err != nil && !errors.Is(err, vfs.ErrExists) {
		return fmt.Errorf("failed to create %s: %w", p, err)
	}
	return nil
}
