package shell

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deskshell/internal/remote"
)

// afterClear returns what was printed after the last screen clear.
func afterClear(out string) string {
	i := strings.LastIndex(out, "\x1b[2J")
	if i < 0 {
		return ""
	}
	return plain(out[i:])
}

func TestEditSavesAndReturnsToThePrompt(t *testing.T) {
	h := newHarness(t)
	h.typed("edit notes.txt\r")
	require.True(t, h.sh.Busy())

	h.out.Reset()
	h.sh.HandleInput("x\x13\x11") // type, ctrl+s, ctrl+q
	assert.False(t, h.sh.Busy())
	assert.Equal(t, 1, h.idle)
	assert.True(t, strings.HasSuffix(afterClear(h.out.String()), prompt))
	assert.Zero(t, h.clock.Pending(), "the status message timer is cancelled")

	content, err := h.fs.Read("/home/ada/notes.txt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(content, "xapple pie\n"), content)

	assert.Equal(t, prompt+"pwd\n/home/ada\n"+prompt, h.typed("pwd\r"), "the shell has the keyboard again")
}

func TestEditKeysAfterTheCommandGoToTheEditor(t *testing.T) {
	h := newHarness(t)
	h.typed("nano new.txt\rhi\x13\x11")
	assert.False(t, h.sh.Busy())
	content, err := h.fs.Read("/home/ada/new.txt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(content, "hi"), content)
}

func TestEditDiscardChanges(t *testing.T) {
	h := newHarness(t)
	h.typed("edit todo.txt\rx\x11")
	require.True(t, h.sh.Busy(), "unsaved changes ask for confirmation")
	h.typed("n")
	assert.False(t, h.sh.Busy())

	content, _ := h.fs.Read("/home/ada/todo.txt")
	assert.Equal(t, "buy milk\n", content)
}

func TestEditErrors(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "edit: projects: Is a directory\n", h.exec("edit projects"))
	assert.Equal(t, "usage: edit <file>\n", h.exec("edit"))
	assert.False(t, h.sh.Busy())

	h.sh.batch = true
	assert.Equal(t, "edit: not available without a terminal\n", h.exec("edit notes.txt"))
}

func TestChainResumesAfterTheEditor(t *testing.T) {
	h := newHarness(t)
	h.exec("edit notes.txt ; echo after")
	require.True(t, h.sh.Busy())
	h.out.Reset()
	h.sh.HandleInput("\x11")
	assert.Equal(t, "after\n"+prompt, afterClear(h.out.String()))
	assert.False(t, h.sh.Busy())
	assert.Equal(t, 1, h.idle)
}

func TestAbortedSshSkipsTheAndChain(t *testing.T) {
	h := newHarness(t)
	h.typed("ssh devbox && echo after\r")
	require.True(t, h.sh.Busy())
	out := h.typed("\x03")
	assert.Contains(t, out, "ssh: connection to devbox.lan aborted\n")
	assert.NotContains(t, out, "after")
	assert.True(t, strings.HasSuffix(out, prompt))

	h.typed("ssh devbox ; echo after\r")
	out = h.typed("\x03")
	assert.Contains(t, out, "aborted\nafter\n"+prompt)
	assert.False(t, h.sh.Busy())
}

func TestSsh(t *testing.T) {
	h := newHarness(t)
	out := h.typed("ssh web-01\r")
	assert.Contains(t, out, "Connecting to web-01.prod.internal (10.0.1.11) port 22...")
	require.True(t, h.sh.Busy())

	h.out.Reset()
	h.clock.Advance(5 * remote.StepDelay)
	assert.True(t, strings.HasSuffix(plain(h.out.String()), "ada@web-01:~$ "))

	out = h.typed("hostname\r")
	assert.Contains(t, out, "web-01.prod.internal\n")

	out = h.typed("exit\r")
	assert.Contains(t, out, "logout\nConnection to web-01.prod.internal closed.\n")
	assert.True(t, strings.HasSuffix(out, prompt))
	assert.False(t, h.sh.Busy())
	assert.Equal(t, 1, h.idle)
}

func TestSshAsAnotherUser(t *testing.T) {
	h := newHarness(t)
	h.typed("ssh root@db-01\r")
	h.out.Reset()
	h.clock.Advance(5 * remote.StepDelay)
	assert.True(t, strings.HasSuffix(plain(h.out.String()), "root@db-01:~# "))

	// ctrl+d on an empty line logs out
	h.typed("\x04")
	assert.False(t, h.sh.Busy())
}

func TestSshErrors(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "ssh: Could not resolve hostname nowhere: Name or service not known\n"+
		"Known hosts: db-01, devbox, web-01\n", h.exec("ssh nowhere"))
	assert.Equal(t, "usage: ssh [user@]hostname\n", h.exec("ssh"))
	assert.Equal(t, "ssh: invalid user name in '@devbox'\n", h.exec("ssh @devbox"))

	h.sh.batch = true
	assert.Equal(t, "ssh: not available without a terminal\n", h.exec("ssh devbox"))
}

func TestPingCompletes(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "PING devbox.lan (192.168.1.20) 56(84) bytes of data.\n", h.exec("ping -c 3 devbox"))
	require.True(t, h.sh.Busy())

	h.out.Reset()
	h.clock.Advance(PingInterval)
	assert.True(t, strings.HasPrefix(plain(h.out.String()),
		"64 bytes from devbox.lan (192.168.1.20): icmp_seq=1 ttl=64 time=0."))

	h.clock.Advance(2 * PingInterval)
	out := plain(h.out.String())
	assert.Contains(t, out, "icmp_seq=3")
	assert.Contains(t, out, "\n--- devbox.lan ping statistics ---\n")
	assert.Contains(t, out, "3 packets transmitted, 3 received, 0% packet loss, time 2003ms\n")
	assert.Contains(t, out, "rtt min/avg/max/mdev = 0.")
	assert.True(t, strings.HasSuffix(out, prompt))
	assert.False(t, h.sh.Busy())
	assert.Zero(t, h.clock.Pending())
	assert.Equal(t, 1, h.idle)
}

func TestPingInterrupt(t *testing.T) {
	h := newHarness(t)
	h.typed("ping web-01\r")
	h.clock.Advance(2 * PingInterval)

	out := h.typed("\x03")
	assert.True(t, strings.HasPrefix(out, "^C\n--- web-01.prod.internal ping statistics ---\n"), out)
	assert.Contains(t, out, "2 packets transmitted, 2 received, 0% packet loss, time 1002ms\n")
	assert.False(t, h.sh.Busy())
	assert.Zero(t, h.clock.Pending())

	h.out.Reset()
	h.clock.Advance(5 * PingInterval)
	assert.Empty(t, h.out.String(), "no samples after the summary")
}

func TestPingLocalhost(t *testing.T) {
	h := newHarness(t)
	h.exec("ping -c 1 desktop")
	h.out.Reset()
	h.clock.Advance(PingInterval)
	assert.Contains(t, plain(h.out.String()), "64 bytes from localhost (127.0.0.1): icmp_seq=1 ttl=64 time=0.0")
}

func TestChainResumesAfterPing(t *testing.T) {
	h := newHarness(t)
	h.exec("ping -c 1 localhost ; echo after")
	require.True(t, h.sh.Busy())
	assert.NotContains(t, h.out.String(), "after")

	h.out.Reset()
	h.clock.Advance(PingInterval)
	out := plain(h.out.String())
	assert.Contains(t, out, "1 packets transmitted, 1 received")
	assert.Equal(t, 1, strings.Count(out, "after\n"))
	assert.True(t, strings.HasSuffix(out, "after\n"+prompt), out)
	assert.False(t, h.sh.Busy())
	assert.Equal(t, 1, h.idle)
}

func TestChainRunsSeveralPings(t *testing.T) {
	h := newHarness(t)
	h.exec("ping -c 1 localhost && ping -c 1 devbox ; echo after")
	h.clock.Advance(PingInterval)
	assert.True(t, h.sh.Busy(), "the second ping runs")
	assert.Zero(t, h.idle)
	assert.NotContains(t, h.out.String(), "after")

	h.clock.Advance(PingInterval)
	out := plain(h.out.String())
	assert.Contains(t, out, "--- devbox.lan ping statistics ---")
	assert.True(t, strings.HasSuffix(out, "after\n"+prompt), out)
	assert.Equal(t, 1, h.idle)
}

func TestPingWithoutRepliesSkipsTheAndChain(t *testing.T) {
	h := newHarness(t)
	h.typed("ping web-01 && echo after\r")
	out := h.typed("\x03")
	assert.Contains(t, out, "0 received")
	assert.NotContains(t, out, "after")
	assert.True(t, strings.HasSuffix(out, prompt))

	h.typed("ping web-01 ; echo after\r")
	out = h.typed("\x03")
	assert.True(t, strings.HasSuffix(out, "after\n"+prompt), out)
	assert.False(t, h.sh.Busy())
}

func TestPingErrors(t *testing.T) {
	h := newHarness(t)
	tests := []struct {
		line     string
		expected string
	}{
		{"ping", "ping: usage error: Destination address required\n"},
		{"ping -c 0 devbox", "ping: invalid count of packets to transmit: '0'\n"},
		{"ping nowhere", "ping: nowhere: Name or service not known\nKnown hosts: db-01, devbox, web-01, localhost\n"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, h.exec(tt.line), tt.line)
	}
	assert.False(t, h.sh.Busy())
}

func TestPingStats(t *testing.T) {
	lo, hi, avg, mdev := stats([]float64{1, 2, 3})
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 3.0, hi)
	assert.Equal(t, 2.0, avg)
	assert.InDelta(t, 0.816, mdev, 0.001)

	assert.Equal(t, "0.512", formatRTT(0.5123))
	assert.Equal(t, "5.12", formatRTT(5.123))
	assert.Equal(t, "51.2", formatRTT(51.23))
}
