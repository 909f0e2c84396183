package shell

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"

	"deskshell/internal/model"
	"deskshell/internal/term"
)

var systemCommands = &registry{
	name: "System",
	commands: map[string]command{
		"clear":    {clearCmd, "clear the screen"},
		"history":  {historyCmd, "show the command history (-c clears it)"},
		"whoami":   {whoami, "print the user name"},
		"hostname": {hostname, "print the host name"},
		"date":     {date, "print the date and time"},
		"uptime":   {uptime, "show how long the session has been running"},
		"uname":    {uname, "print system information (-a all)"},
		"env":      {env, "print the environment"},
		"export":   {export, "set environment variables (export NAME=value)"},
		"unset":    {unset, "remove environment variables"},
		"alias":    {alias, "define or list aliases (alias name=value)"},
		"unalias":  {unalias, "remove aliases"},
		"which":    {which, "locate a command"},
		"help":     {help, "list the available commands"},
		"true":     {trueCmd, "do nothing, successfully"},
		"false":    {falseCmd, "do nothing, unsuccessfully"},
		"exit":     {exit, "close the terminal"},
	},
}

// clearCmd writes the clear sequence like any other output when it goes to a
// pipe or a file.
func clearCmd(sh *Shell, _ []string, _ string) (string, error) {
	var sb strings.Builder
	term.ClearScreen(&sb)
	if !sh.tty {
		return sb.String(), nil
	}
	sh.output(sb.String())
	return "", nil
}

func historyCmd(sh *Shell, args []string, _ string) (string, error) {
	flags := newFlags("history")
	wipe := flags.BoolP("clear", "c", false, "")
	if err := parseFlags(flags, args); err != nil {
		return "", err
	}
	if *wipe {
		sh.history.Clear()
		return "", nil
	}
	var out []string
	for i, entry := range sh.history.Entries() {
		out = append(out, fmt.Sprintf("%5d  %s", i+1, entry))
	}
	return joinLines(out), nil
}

func whoami(sh *Shell, _ []string, _ string) (string, error) {
	return sh.user + "\n", nil
}

func hostname(sh *Shell, _ []string, _ string) (string, error) {
	return sh.hostname + "\n", nil
}

func date(sh *Shell, _ []string, _ string) (string, error) {
	return sh.now().Format("Mon Jan _2 15:04:05 MST 2006") + "\n", nil
}

func uptime(sh *Shell, _ []string, _ string) (string, error) {
	now := sh.now()
	up := now.Sub(sh.started)
	var since string
	switch {
	case up < time.Hour:
		since = fmt.Sprintf("%d min", int(up/time.Minute))
	case up < 24*time.Hour:
		since = fmt.Sprintf("%d:%02d", int(up/time.Hour), int(up%time.Hour/time.Minute))
	default:
		days := int(up / (24 * time.Hour))
		rest := up % (24 * time.Hour)
		since = fmt.Sprintf("%d %s, %d:%02d", days, plural(days, "day", "days"), int(rest/time.Hour), int(rest%time.Hour/time.Minute))
	}
	return fmt.Sprintf(" %s up %s,  1 user,  load average: 0.00, 0.01, 0.05\n", now.Format("15:04:05"), since), nil
}

func uname(sh *Shell, args []string, _ string) (string, error) {
	flags := newFlags("uname")
	all := flags.BoolP("all", "a", false, "")
	if err := parseFlags(flags, args); err != nil {
		return "", err
	}
	if *all {
		return fmt.Sprintf("DeskOS %s %s #1 SMP deskshell x86_64 GNU/Linux\n", sh.hostname, model.Version), nil
	}
	return "DeskOS\n", nil
}

func env(sh *Shell, _ []string, _ string) (string, error) {
	var out []string
	for k, v := range sh.env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return joinLines(out), nil
}

func export(sh *Shell, args []string, _ string) (string, error) {
	if len(args) == 0 {
		var out []string
		for k, v := range sh.env {
			out = append(out, fmt.Sprintf("declare -x %s=%q", k, v))
		}
		sort.Strings(out)
		return joinLines(out), nil
	}

	var msgs []string
	for _, a := range args {
		name, value, ok := strings.Cut(a, "=")
		if !validName(name) {
			msgs = append(msgs, fmt.Sprintf("export: `%s': not a valid identifier", a))
			continue
		}
		if !ok {
			// export NAME keeps the current value, or defines it empty
			value = sh.env[name]
		}
		sh.env[name] = value
	}
	return "", failures(msgs)
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func unset(sh *Shell, args []string, _ string) (string, error) {
	for _, a := range args {
		delete(sh.env, a)
	}
	return "", nil
}

func alias(sh *Shell, args []string, _ string) (string, error) {
	if len(args) == 0 {
		var out []string
		for name, value := range sh.aliases {
			out = append(out, fmt.Sprintf("alias %s='%s'", name, value))
		}
		sort.Strings(out)
		return joinLines(out), nil
	}

	var (
		out  []string
		msgs []string
	)
	for _, a := range args {
		name, value, ok := strings.Cut(a, "=")
		if !ok {
			v, found := sh.aliases[name]
			if !found {
				msgs = append(msgs, "alias: "+name+": not found")
				continue
			}
			out = append(out, fmt.Sprintf("alias %s='%s'", name, v))
			continue
		}
		if name == "" {
			msgs = append(msgs, fmt.Sprintf("alias: `%s': invalid alias name", a))
			continue
		}
		sh.aliases[name] = value
	}
	return joinLines(out), failures(msgs)
}

func unalias(sh *Shell, args []string, _ string) (string, error) {
	if len(args) == 0 {
		return "", failf("unalias: usage: unalias name [name ...]")
	}
	var msgs []string
	for _, a := range args {
		if _, ok := sh.aliases[a]; !ok {
			msgs = append(msgs, "unalias: "+a+": not found")
			continue
		}
		delete(sh.aliases, a)
	}
	return "", failures(msgs)
}

func which(sh *Shell, args []string, _ string) (string, error) {
	var (
		out  []string
		msgs []string
	)
	for _, a := range args {
		switch {
		case sh.aliases[a] != "":
			out = append(out, a+": aliased to "+sh.aliases[a])
		case isBuiltin(a):
			out = append(out, "/usr/bin/"+a)
		default:
			msgs = append(msgs, "which: no "+a+" in ("+sh.env["PATH"]+")")
		}
	}
	return joinLines(out), failures(msgs)
}

func isBuiltin(name string) bool {
	if _, ok := lookup(name); ok {
		return true
	}
	_, ok := specials[name]
	return ok
}

func help(_ *Shell, args []string, _ string) (string, error) {
	if len(args) > 0 {
		for _, r := range registries {
			if c, ok := r.commands[args[0]]; ok {
				return args[0] + ": " + c.summary + "\n", nil
			}
		}
		if summary, ok := specialHelp[args[0]]; ok {
			return args[0] + ": " + summary + "\n", nil
		}
		return "", failf("help: no help topics match '%s'", args[0])
	}

	var out []string
	for _, r := range registries {
		out = append(out, term.Bold(r.name, nil))
		for _, name := range r.names() {
			out = append(out, fmt.Sprintf("  %-10s %s", name, r.commands[name].summary))
		}
	}
	out = append(out, term.Bold("Interactive", nil))
	names := make([]string, 0, len(specialHelp))
	for name := range specialHelp {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
	for _, name := range names {
		out = append(out, fmt.Sprintf("  %-10s %s", name, specialHelp[name]))
	}
	return joinLines(out), nil
}

var specialHelp = map[string]string{
	"edit": "edit a file in the full screen editor (also nano)",
	"ssh":  "open a session on a remote host (ssh [user@]host)",
	"ping": "send echo requests to a host (-c count)",
}

func trueCmd(_ *Shell, _ []string, _ string) (string, error) {
	return "", nil
}

func falseCmd(_ *Shell, _ []string, _ string) (string, error) {
	return "", ErrStatus
}

func exit(sh *Shell, _ []string, _ string) (string, error) {
	if sh.onExit == nil {
		return "", failf("exit: no terminal to close")
	}
	sh.logger.Debug().Msg("exit requested")
	sh.onExit()
	return "", nil
}
