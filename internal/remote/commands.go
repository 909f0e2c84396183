package remote

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"deskshell/internal/term"
	"deskshell/internal/vfs"
)

type command func(s *Session, args []string) string

var commands = map[string]command{
	"ls":       (*Session).ls,
	"cat":      (*Session).cat,
	"cd":       (*Session).cd,
	"pwd":      func(s *Session, _ []string) string { return s.cwd },
	"whoami":   func(s *Session, _ []string) string { return s.user },
	"hostname": func(s *Session, _ []string) string { return s.host.Hostname },
	"uname":    (*Session).uname,
	"uptime":   func(s *Session, _ []string) string { return s.uptimeLine() },
	"date":     func(s *Session, _ []string) string { return s.now().UTC().Format("Mon Jan _2 15:04:05 MST 2006") },
	"echo":     func(_ *Session, args []string) string { return strings.Join(args, " ") + "\n" },
	"id":       (*Session).id,
	"ps":       (*Session).ps,
	"df":       (*Session).df,
	"free":     (*Session).free,
	"w":        (*Session).w,
	"help":     (*Session).help,
}

func (s *Session) resolve(p string) string {
	return vfs.Resolve(s.cwd, s.home, p)
}

func (s *Session) ls(args []string) string {
	all := false
	var targets []string
	for _, a := range args {
		if strings.HasPrefix(a, "-") {
			all = all || strings.Contains(a, "a")
			continue
		}
		targets = append(targets, a)
	}
	if len(targets) == 0 {
		targets = []string{"."}
	}

	var out []string
	for _, t := range targets {
		n, ok := s.tree.Lookup(s.resolve(t))
		if !ok {
			out = append(out, fmt.Sprintf("ls: cannot access '%s': No such file or directory", t))
			continue
		}
		if !n.IsDir() {
			out = append(out, t)
			continue
		}
		var names []string
		if all {
			names = append(names, term.Bold(".", term.Blue), term.Bold("..", term.Blue))
		}
		for _, name := range n.Names() {
			if strings.HasPrefix(name, ".") && !all {
				continue
			}
			if n.Children[name].IsDir() {
				name = term.Bold(name, term.Blue)
			}
			names = append(names, name)
		}
		if len(targets) > 1 {
			out = append(out, t+":")
		}
		if len(names) > 0 {
			out = append(out, s.columns(names))
		}
	}
	return strings.Join(out, "\n")
}

// columns fills lines up to the terminal width, two blanks between names.
func (s *Session) columns(names []string) string {
	var (
		lines []string
		cur   string
		width int
	)
	for _, name := range names {
		w := ansi.StringWidth(name)
		if width > 0 && width+2+w > s.cols {
			lines = append(lines, cur)
			cur, width = "", 0
		}
		if width > 0 {
			cur += "  "
			width += 2
		}
		cur += name
		width += w
	}
	return strings.Join(append(lines, cur), "\n")
}

func (s *Session) cat(args []string) string {
	var out []string
	for _, a := range args {
		n, ok := s.tree.Lookup(s.resolve(a))
		switch {
		case !ok:
			out = append(out, "cat: "+a+": No such file or directory")
		case n.IsDir():
			out = append(out, "cat: "+a+": Is a directory")
		default:
			out = append(out, n.Content)
		}
	}
	return strings.Join(out, "\n")
}

func (s *Session) cd(args []string) string {
	target := s.home
	if len(args) > 0 {
		target = s.resolve(args[0])
	}
	n, ok := s.tree.Lookup(target)
	switch {
	case !ok:
		return "bash: cd: " + args[0] + ": No such file or directory"
	case !n.IsDir():
		return "bash: cd: " + args[0] + ": Not a directory"
	}
	s.cwd = target
	return ""
}

func (s *Session) uname(args []string) string {
	if len(args) > 0 && args[0] == "-a" {
		short, _, _ := strings.Cut(s.host.Hostname, ".")
		return fmt.Sprintf("Linux %s %s #1 SMP PREEMPT_DYNAMIC x86_64 GNU/Linux", short, s.host.Kernel)
	}
	return "Linux"
}

func (s *Session) id(_ []string) string {
	if s.user == "root" {
		return "uid=0(root) gid=0(root) groups=0(root)"
	}
	return fmt.Sprintf("uid=1000(%[1]s) gid=1000(%[1]s) groups=1000(%[1]s),27(sudo)", s.user)
}

func (s *Session) uptimeLine() string {
	up := s.host.Uptime
	days := int(up / (24 * time.Hour))
	rest := up % (24 * time.Hour)
	return fmt.Sprintf(" %s up %d days, %2d:%02d,  1 user,  load average: 0.08, 0.03, 0.01",
		s.now().UTC().Format("15:04:05"), days, int(rest/time.Hour), int(rest%time.Hour/time.Minute))
}

func (s *Session) ps(_ []string) string {
	return strings.Join([]string{
		"    PID TTY          TIME CMD",
		"   4242 pts/0    00:00:00 bash",
		"   4311 pts/0    00:00:00 ps",
	}, "\n")
}

func (s *Session) df(_ []string) string {
	h := s.host
	return fmt.Sprintf("%-15s %6s %6s %6s %4s %s\n%-15s %6s %6s %6s %3d%% %s",
		"Filesystem", "Size", "Used", "Avail", "Use%", "Mounted on",
		"/dev/sda1", humanize.IBytes(h.DiskSize), humanize.IBytes(h.DiskUsed),
		humanize.IBytes(h.DiskSize-h.DiskUsed), int(h.DiskUsed*100/h.DiskSize), "/")
}

func (s *Session) free(_ []string) string {
	total := s.host.MemTotal
	used := total / 3
	cache := total / 5
	return fmt.Sprintf("%-6s %10s %10s %10s %10s\n%-6s %10s %10s %10s %10s",
		"", "total", "used", "free", "buff/cache",
		"Mem:", humanize.IBytes(total), humanize.IBytes(used), humanize.IBytes(total-used-cache), humanize.IBytes(cache))
}

func (s *Session) w(_ []string) string {
	return strings.Join([]string{
		s.uptimeLine(),
		"USER     TTY      FROM             LOGIN@   IDLE WHAT",
		fmt.Sprintf("%-8s pts/0    192.168.1.10     %s   0.00s w", s.user, s.now().UTC().Format("15:04")),
	}, "\n")
}

func (s *Session) help(_ []string) string {
	return "Available commands: ls, cat, cd, pwd, whoami, hostname, uname, uptime, date, echo, id, clear, ps, df, free, w, help, exit, logout"
}
