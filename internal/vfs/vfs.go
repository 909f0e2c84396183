// Package vfs is the filesystem the shell and the editor operate on.
//
// Paths are absolute and slash separated. Implementations report failures
// with the sentinel errors below, wrapped with the offending path.
package vfs

import (
	"errors"
	"io/fs"
	"path"
	"strings"

	"deskshell/internal/model"
)

var (
	ErrNotFound  = fs.ErrNotExist
	ErrExists    = fs.ErrExist
	ErrIsDir     = errors.New("is a directory")
	ErrNotDir    = errors.New("not a directory")
	ErrNotEmpty  = errors.New("directory not empty")
	ErrInSubtree = errors.New("destination is inside the source")
)

// Provider is the set of filesystem operations available to the shell.
type Provider interface {
	Read(p string) (string, error)
	Write(p, content string) error
	List(p string) ([]model.FileEntry, error)
	Stat(p string) (model.FileEntry, error)
	Mkdir(p string) error
	Delete(p string) error
	Move(from, to string) error
	Exists(p string) bool
}

// InSubtree reports whether p is dir or lies below it. Both paths are clean
// and absolute.
func InSubtree(dir, p string) bool {
	return dir == "/" || p == dir || strings.HasPrefix(p, dir+"/")
}

// Resolve returns the absolute, cleaned form of p relative to cwd. "~" and
// "~/..." are expanded to home.
func Resolve(cwd, home, p string) string {
	switch {
	case p == "":
		return path.Clean(cwd)
	case p == "~":
		return path.Clean(home)
	case strings.HasPrefix(p, "~/"):
		return path.Join(home, p[2:])
	case strings.HasPrefix(p, "/"):
		return path.Clean(p)
	}
	return path.Join(cwd, p)
}

// Message converts an error returned by a Provider into the POSIX flavored
// text shown after "<cmd>: <operand>: ".
func Message(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "No such file or directory"
	case errors.Is(err, ErrIsDir):
		return "Is a directory"
	case errors.Is(err, ErrNotDir):
		return "Not a directory"
	case errors.Is(err, ErrExists):
		return "File exists"
	case errors.Is(err, ErrNotEmpty):
		return "Directory not empty"
	case errors.Is(err, ErrInSubtree):
		return "Invalid argument"
	}
	return "Input/output error"
}
