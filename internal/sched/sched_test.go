package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualRunsInOrder(t *testing.T) {
	var m Manual
	var got []string

	m.AfterFunc(2*time.Second, func() { got = append(got, "b") })
	m.AfterFunc(time.Second, func() { got = append(got, "a") })
	cancel := m.AfterFunc(time.Second, func() { got = append(got, "cancelled") })
	m.AfterFunc(2*time.Second, func() { got = append(got, "c") })
	cancel()

	m.Advance(1500 * time.Millisecond)
	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, 2, m.Pending())

	m.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 0, m.Pending())
}

func TestManualRunsCallbacksScheduledWhileAdvancing(t *testing.T) {
	var m Manual
	var got []int

	m.AfterFunc(time.Second, func() {
		got = append(got, 1)
		m.AfterFunc(time.Second, func() { got = append(got, 2) })
	})

	m.Advance(5 * time.Second)
	assert.Equal(t, []int{1, 2}, got)
}

func TestEvery(t *testing.T) {
	var m Manual
	ticks := 0

	var cancel func()
	cancel = Every(&m, time.Second, func() {
		ticks++
		if ticks == 3 {
			cancel()
		}
	})

	m.Advance(10 * time.Second)
	assert.Equal(t, 3, ticks)
	assert.Equal(t, 0, m.Pending())
}

func TestTimersPostOntoLoop(t *testing.T) {
	loop := NewLoop()
	go loop.Run()
	defer loop.Stop()

	s := NewTimers(loop.Post)
	fired := make(chan struct{})
	s.AfterFunc(10*time.Millisecond, func() { close(fired) })

	cancelled := make(chan struct{}, 1)
	cancel := s.AfterFunc(10*time.Millisecond, func() { cancelled <- struct{}{} })
	cancel()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		require.Fail(t, "callback did not run")
	}

	// the cancelled callback must not have run
	done := make(chan struct{})
	loop.Post(func() { close(done) })
	<-done
	assert.Empty(t, cancelled)
}
