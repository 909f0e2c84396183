package vfs

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/maruel/natural"

	"deskshell/internal/model"
)

const (
	filePerm = 0o644
	dirPerm  = 0o755
)

// BillyFS implements Provider on top of a billy filesystem.
type BillyFS struct {
	fs billy.Filesystem
}

// NewMemory returns an empty in-memory filesystem.
func NewMemory() *BillyFS {
	return &BillyFS{fs: memfs.New()}
}

// NewOS exposes the OS directory root as "/".
func NewOS(root string) *BillyFS {
	return &BillyFS{fs: osfs.New(root)}
}

// New wraps an existing billy filesystem.
func New(fs billy.Filesystem) *BillyFS {
	return &BillyFS{fs: fs}
}

func (b *BillyFS) Read(p string) (string, error) {
	p = path.Clean(p)
	info, err := b.fs.Stat(p)
	if err != nil {
		return "", wrap(p, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s: %w", p, ErrIsDir)
	}
	data, err := util.ReadFile(b.fs, p)
	if err != nil {
		return "", wrap(p, err)
	}
	return string(data), nil
}

// Write creates or truncates the file p. The parent directory must exist.
func (b *BillyFS) Write(p, content string) error {
	p = path.Clean(p)
	if err := b.requireDir(path.Dir(p)); err != nil {
		return err
	}
	if info, err := b.fs.Stat(p); err == nil && info.IsDir() {
		return fmt.Errorf("%s: %w", p, ErrIsDir)
	}
	if err := util.WriteFile(b.fs, p, []byte(content), filePerm); err != nil {
		return wrap(p, err)
	}
	return nil
}

// List returns the entries of directory p in natural order.
func (b *BillyFS) List(p string) ([]model.FileEntry, error) {
	p = path.Clean(p)
	if err := b.requireDir(p); err != nil {
		return nil, err
	}
	infos, err := b.fs.ReadDir(p)
	if err != nil {
		return nil, wrap(p, err)
	}

	entries := make([]model.FileEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, toEntry(path.Join(p, info.Name()), info))
	}
	sort.Slice(entries, func(i, j int) bool { return natural.Less(entries[i].Name, entries[j].Name) })
	return entries, nil
}

func (b *BillyFS) Stat(p string) (model.FileEntry, error) {
	p = path.Clean(p)
	if p == "/" {
		return model.FileEntry{Name: "/", Path: "/", IsDirectory: true}, nil
	}
	info, err := b.fs.Stat(p)
	if err != nil {
		return model.FileEntry{}, wrap(p, err)
	}
	return toEntry(p, info), nil
}

// Mkdir creates a single directory. The parent must exist and p must not.
func (b *BillyFS) Mkdir(p string) error {
	p = path.Clean(p)
	if b.Exists(p) {
		return fmt.Errorf("%s: %w", p, ErrExists)
	}
	if err := b.requireDir(path.Dir(p)); err != nil {
		return err
	}
	if err := b.fs.MkdirAll(p, dirPerm); err != nil {
		return wrap(p, err)
	}
	return nil
}

// Delete removes a file or an empty directory.
func (b *BillyFS) Delete(p string) error {
	p = path.Clean(p)
	info, err := b.fs.Stat(p)
	if err != nil {
		return wrap(p, err)
	}
	if info.IsDir() {
		children, err := b.fs.ReadDir(p)
		if err != nil {
			return wrap(p, err)
		}
		if len(children) > 0 {
			return fmt.Errorf("%s: %w", p, ErrNotEmpty)
		}
	}
	if err := b.fs.Remove(p); err != nil {
		return wrap(p, err)
	}
	return nil
}

// Move renames from to to. The destination must not exist.
func (b *BillyFS) Move(from, to string) error {
	from, to = path.Clean(from), path.Clean(to)
	if !b.Exists(from) {
		return fmt.Errorf("%s: %w", from, ErrNotFound)
	}
	if InSubtree(from, to) {
		return fmt.Errorf("%s: %w", to, ErrInSubtree)
	}
	if b.Exists(to) {
		return fmt.Errorf("%s: %w", to, ErrExists)
	}
	if err := b.requireDir(path.Dir(to)); err != nil {
		return err
	}
	if err := b.fs.Rename(from, to); err != nil {
		return wrap(from, err)
	}
	return nil
}

func (b *BillyFS) Exists(p string) bool {
	p = path.Clean(p)
	if p == "/" {
		return true
	}
	_, err := b.fs.Stat(p)
	return err == nil
}

func (b *BillyFS) requireDir(p string) error {
	if p == "/" {
		return nil
	}
	info, err := b.fs.Stat(p)
	if err != nil {
		return wrap(p, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", p, ErrNotDir)
	}
	return nil
}

func toEntry(p string, info os.FileInfo) model.FileEntry {
	e := model.FileEntry{
		Name:        info.Name(),
		Path:        p,
		IsDirectory: info.IsDir(),
		ModifiedAt:  info.ModTime(),
	}
	if !e.IsDirectory {
		e.Size = info.Size()
	}
	return e
}

func wrap(p string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", p, err)
}
