package shell

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"

	"deskshell/internal/keys"
	"deskshell/internal/remote"
	"deskshell/internal/sched"
)

// PingInterval is the time between two echo requests.
const PingInterval = time.Second

const defaultPingCount = 4

type pingTarget struct {
	name    string
	address string
	latency time.Duration
}

// resolvePing finds a simulated host, or the local machine.
func (s *Shell) resolvePing(name string) (pingTarget, bool) {
	switch strings.ToLower(name) {
	case "localhost", "127.0.0.1", s.hostname:
		return pingTarget{name: "localhost", address: "127.0.0.1", latency: 40 * time.Microsecond}, true
	}
	h, ok := remote.Lookup(name)
	if !ok {
		return pingTarget{}, false
	}
	return pingTarget{name: h.Hostname, address: h.Address, latency: h.Latency}, true
}

// pinger owns the terminal while echo requests are sent. Ctrl+C stops it
// early, the summary is printed either way.
type pinger struct {
	sh     *Shell
	target pingTarget
	count  int
	sent   int
	rtts   []float64 // milliseconds
	cancel func()
	done   bool
}

func ping(sh *Shell, args []string, _ string) (string, error) {
	flags := newFlags("ping")
	count := flags.IntP("count", "c", defaultPingCount, "")
	if err := parseFlags(flags, args); err != nil {
		return "", err
	}
	if flags.NArg() == 0 {
		return "", failf("ping: usage error: Destination address required")
	}
	if *count < 1 {
		return "", failf("ping: invalid count of packets to transmit: '%d'", *count)
	}

	name := flags.Arg(0)
	target, ok := sh.resolvePing(name)
	if !ok {
		return "", failf("ping: %s: Name or service not known\nKnown hosts: %s",
			name, strings.Join(append(remote.Names(), "localhost"), ", "))
	}

	p := &pinger{sh: sh, target: target, count: *count}
	sh.take(p)
	sh.print(fmt.Sprintf("PING %s (%s) 56(84) bytes of data.", target.name, target.address))
	p.cancel = sched.Every(sh.sched, PingInterval, p.tick)
	return "", nil
}

func (p *pinger) tick() {
	if p.done {
		return
	}
	p.sent++
	// jitter of +-20% around the typical latency
	ms := float64(p.target.latency) / float64(time.Millisecond) * (0.8 + 0.4*p.sh.rng.Float64())
	p.rtts = append(p.rtts, ms)
	p.sh.print(fmt.Sprintf("64 bytes from %s (%s): icmp_seq=%d ttl=64 time=%s ms",
		p.target.name, p.target.address, p.sent, formatRTT(ms)))

	if p.sent >= p.count {
		p.finish()
	}
}

func (p *pinger) HandleInput(data string) {
	for _, k := range keys.Decode(data) {
		if key.Matches(k, bindings.Interrupt) {
			p.sh.output("^C")
			p.finish()
			return
		}
	}
}

func (p *pinger) SetViewport(int, int) {}

func (p *pinger) finish() {
	if p.done {
		return
	}
	p.done = true
	p.cancel()
	p.sh.print(p.summary())
	// like ping, success means at least one reply
	p.sh.release(false, len(p.rtts) > 0)
}

func (p *pinger) summary() string {
	received := len(p.rtts)
	loss := 0
	if p.sent > 0 {
		loss = (p.sent - received) * 100 / p.sent
	}
	elapsed := 0
	if p.sent > 0 {
		elapsed = (p.sent-1)*int(PingInterval/time.Millisecond) + p.sent
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n--- %s ping statistics ---\n", p.target.name)
	fmt.Fprintf(&sb, "%d packets transmitted, %d received, %d%% packet loss, time %dms\n", p.sent, received, loss, elapsed)
	if received > 0 {
		lo, hi, avg, mdev := stats(p.rtts)
		fmt.Fprintf(&sb, "rtt min/avg/max/mdev = %.3f/%.3f/%.3f/%.3f ms\n", lo, avg, hi, mdev)
	}
	return sb.String()
}

// stats returns min, max, mean and the standard deviation of xs.
func stats(xs []float64) (lo, hi, avg, mdev float64) {
	lo, hi = xs[0], xs[0]
	var sum, sq float64
	for _, x := range xs {
		lo, hi = min(lo, x), max(hi, x)
		sum += x
		sq += x * x
	}
	n := float64(len(xs))
	avg = sum / n
	mdev = math.Sqrt(max(0, sq/n-avg*avg))
	return lo, hi, avg, mdev
}

func formatRTT(ms float64) string {
	switch {
	case ms < 1:
		return fmt.Sprintf("%.3f", ms)
	case ms < 10:
		return fmt.Sprintf("%.2f", ms)
	}
	return fmt.Sprintf("%.1f", ms)
}
