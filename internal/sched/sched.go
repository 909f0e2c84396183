// Package sched runs delayed callbacks without breaking the single threaded
// model of a shell: every callback runs on the goroutine that owns the shell.
package sched

import (
	"sort"
	"sync"
	"time"
)

// Scheduler runs fn once after d. The returned cancel func prevents fn from
// running if it has not run yet; calling it more than once is harmless.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

// Every calls fn each interval until cancelled. It is built on AfterFunc so
// it follows the same ownership rules.
func Every(s Scheduler, interval time.Duration, fn func()) (cancel func()) {
	var (
		mu      sync.Mutex
		stopped bool
		current func()
	)

	var tick func()
	tick = func() {
		mu.Lock()
		if stopped {
			mu.Unlock()
			return
		}
		mu.Unlock()

		fn()

		mu.Lock()
		defer mu.Unlock()
		if !stopped {
			current = s.AfterFunc(interval, tick)
		}
	}

	mu.Lock()
	current = s.AfterFunc(interval, tick)
	mu.Unlock()

	return func() {
		mu.Lock()
		defer mu.Unlock()
		stopped = true
		if current != nil {
			current()
		}
	}
}

// Manual is a Scheduler driven by Advance. It is meant for tests.
type Manual struct {
	now     time.Duration
	seq     int
	pending []*timer
}

type timer struct {
	at        time.Duration
	seq       int
	fn        func()
	cancelled bool
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) func() {
	m.seq++
	t := &timer{at: m.now + d, seq: m.seq, fn: fn}
	m.pending = append(m.pending, t)
	return func() { t.cancelled = true }
}

// Advance moves the clock forward by d and runs every due callback in
// order. Callbacks scheduled while advancing run too when they fall due.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		next := m.next(target)
		if next == nil {
			break
		}
		m.now = next.at
		next.fn()
	}
	m.now = target
}

// Pending returns the number of callbacks that have not run or been
// cancelled.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.pending {
		if !t.cancelled {
			n++
		}
	}
	return n
}

func (m *Manual) next(until time.Duration) *timer {
	live := m.pending[:0]
	for _, t := range m.pending {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	m.pending = live

	sort.SliceStable(m.pending, func(i, j int) bool {
		if m.pending[i].at != m.pending[j].at {
			return m.pending[i].at < m.pending[j].at
		}
		return m.pending[i].seq < m.pending[j].seq
	})
	if len(m.pending) == 0 || m.pending[0].at > until {
		return nil
	}
	t := m.pending[0]
	m.pending = m.pending[1:]
	return t
}

// Post forwards callbacks to the goroutine that owns the shell. Frontends
// implement it with a channel send or a bubbletea message.
type Post func(fn func())

// Timers is a Scheduler backed by time.AfterFunc whose callbacks are handed
// to post instead of running on the timer goroutine.
type Timers struct {
	post Post
}

func NewTimers(post Post) *Timers {
	return &Timers{post: post}
}

func (s *Timers) AfterFunc(d time.Duration, fn func()) func() {
	var (
		mu        sync.Mutex
		cancelled bool
	)
	t := time.AfterFunc(d, func() {
		s.post(func() {
			mu.Lock()
			c := cancelled
			mu.Unlock()
			if !c {
				fn()
			}
		})
	})
	return func() {
		mu.Lock()
		cancelled = true
		mu.Unlock()
		t.Stop()
	}
}

// Loop serializes posted callbacks onto the goroutine calling Run.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

func NewLoop() *Loop {
	return &Loop{queue: make(chan func(), 64), done: make(chan struct{})}
}

// Post queues fn. Posting after Stop is a no-op.
func (l *Loop) Post(fn func()) {
	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// Run executes queued callbacks until Stop is called.
func (l *Loop) Run() {
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-l.done:
			return
		}
	}
}

func (l *Loop) Stop() {
	l.once.Do(func() { close(l.done) })
}
