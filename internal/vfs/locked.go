package vfs

import (
	"sync"

	"deskshell/internal/model"
)

// Locked serializes the calls to a Provider shared by several shells, each
// running on its own goroutine.
type Locked struct {
	mu sync.Mutex
	p  Provider
}

func NewLocked(p Provider) *Locked {
	return &Locked{p: p}
}

func (l *Locked) Read(p string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Read(p)
}

func (l *Locked) Write(p, content string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Write(p, content)
}

func (l *Locked) List(p string) ([]model.FileEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.List(p)
}

func (l *Locked) Stat(p string) (model.FileEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Stat(p)
}

func (l *Locked) Mkdir(p string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Mkdir(p)
}

func (l *Locked) Delete(p string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Delete(p)
}

func (l *Locked) Move(from, to string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Move(from, to)
}

func (l *Locked) Exists(p string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Exists(p)
}
