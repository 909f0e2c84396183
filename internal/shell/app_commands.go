package shell

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
)

var appCommands = &registry{
	name: "Desktop",
	commands: map[string]command{
		"ps":    {ps, "list running applications"},
		"theme": {theme, "switch the desktop theme"},
		"open":  {open, "launch an application"},
		"apps":  {apps, "list the installed applications"},
	},
}

func ps(sh *Shell, _ []string, _ string) (string, error) {
	procs := sh.host.Processes()
	out := []string{fmt.Sprintf("%-10s %-14s %-10s %8s", "PID", "APP", "STATUS", "MEM")}
	for _, p := range procs {
		out = append(out, fmt.Sprintf("%-10s %-14s %-10s %8s", p.ID, p.AppID, p.Status, humanize.Bytes(uint64(p.MemoryUsage))))
	}
	return joinLines(out), nil
}

func theme(sh *Shell, args []string, _ string) (string, error) {
	if len(args) != 1 {
		return "", failf("usage: theme <name>")
	}
	if !sh.host.SetTheme(args[0]) {
		return "", failf("theme: unknown theme '%s'", args[0])
	}
	return "Theme set to " + args[0] + "\n", nil
}

func open(sh *Shell, args []string, _ string) (string, error) {
	if len(args) == 0 {
		return "", failf("usage: open <app>")
	}
	var msgs []string
	for _, id := range args {
		if err := sh.host.Launch(id); err != nil {
			msgs = append(msgs, "open: "+id+": "+err.Error())
		}
	}
	return "", failures(msgs)
}

func apps(sh *Shell, _ []string, _ string) (string, error) {
	list := sh.host.Apps()
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	var out []string
	for _, a := range list {
		out = append(out, fmt.Sprintf("%-14s %s", a.ID, a.Name))
	}
	return joinLines(out), nil
}
