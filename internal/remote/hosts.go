// Package remote simulates interactive ssh sessions on a fixed set of
// hosts.
package remote

import (
	"crypto/sha256"
	"encoding/base64"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"
)

// Node is a file (Children == nil) or a directory of the simulated tree.
type Node struct {
	Content  string
	Children map[string]*Node
}

func (n *Node) IsDir() bool { return n.Children != nil }

// Names returns the children names in natural order.
func (n *Node) Names() []string {
	names := make([]string, 0, len(n.Children))
	for name := range n.Children {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
	return names
}

// Lookup walks an absolute path.
func (n *Node) Lookup(p string) (*Node, bool) {
	cur := n
	for _, part := range strings.Split(strings.Trim(path.Clean(p), "/"), "/") {
		if part == "" {
			continue
		}
		if !cur.IsDir() {
			return nil, false
		}
		next, ok := cur.Children[part]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Host is a machine reachable with ssh and ping.
type Host struct {
	Name     string // short name accepted by ssh and ping
	Hostname string
	Address  string
	OS       string
	Kernel   string
	Motd     string
	Latency  time.Duration // typical round trip for ping
	Uptime   time.Duration
	MemTotal uint64
	DiskSize uint64
	DiskUsed uint64

	dirs  []string
	files []file // "{home}" is replaced by the user's home
}

type file struct {
	path, content string
}

// Fingerprint returns the host key fingerprint shown while connecting.
func (h *Host) Fingerprint() string {
	sum := sha256.Sum256([]byte(h.Hostname + h.Address))
	return "SHA256:" + base64.RawStdEncoding.EncodeToString(sum[:])
}

// Tree builds the simulated filesystem as seen by user.
func (h *Host) Tree(user string) *Node {
	home := Home(user)
	root := &Node{Children: map[string]*Node{}}

	mkdirAll := func(p string) *Node {
		cur := root
		for _, part := range strings.Split(strings.Trim(p, "/"), "/") {
			if part == "" {
				continue
			}
			next, ok := cur.Children[part]
			if !ok {
				next = &Node{Children: map[string]*Node{}}
				cur.Children[part] = next
			}
			cur = next
		}
		return cur
	}

	mkdirAll(home)
	for _, d := range h.dirs {
		mkdirAll(strings.ReplaceAll(d, "{home}", home))
	}
	for _, f := range h.files {
		p := strings.ReplaceAll(f.path, "{home}", home)
		dir := mkdirAll(path.Dir(p))
		dir.Children[path.Base(p)] = &Node{Content: strings.ReplaceAll(f.content, "{hostname}", h.Hostname)}
	}
	return root
}

// Home returns the home directory of user on every simulated host.
func Home(user string) string {
	if user == "root" {
		return "/root"
	}
	return "/home/" + user
}

const gib = 1 << 30

var hosts = []*Host{
	{
		Name:     "devbox",
		Hostname: "devbox.lan",
		Address:  "192.168.1.20",
		OS:       "Ubuntu 24.04.1 LTS",
		Kernel:   "6.8.0-45-generic",
		Latency:  800 * time.Microsecond,
		Uptime:   12*24*time.Hour + 3*time.Hour + 41*time.Minute,
		MemTotal: 32 * gib,
		DiskSize: 512 * gib,
		DiskUsed: 187 * gib,
		Motd: "Welcome to Ubuntu 24.04.1 LTS (GNU/Linux 6.8.0-45-generic x86_64)\n\n" +
			" * Documentation:  https://help.ubuntu.com\n\n" +
			"3 updates can be applied immediately.",
		dirs: []string{"{home}/projects", "/tmp", "/var/log"},
		files: []file{
			{"{home}/README.md", "# devbox\n\nScratch machine for the team. Please clean up /tmp."},
			{"{home}/projects/todo.txt", "- fix flaky test\n- bump go version\n- write docs"},
			{"{home}/projects/main.go", "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hello from {hostname}\")\n}"},
			{"{home}/.bashrc", "export PATH=$HOME/bin:$PATH\nalias ll='ls -l'"},
			{"/etc/hostname", "{hostname}"},
			{"/etc/os-release", "NAME=\"Ubuntu\"\nVERSION=\"24.04.1 LTS (Noble Numbat)\"\nID=ubuntu"},
			{"/var/log/syslog", "Oct 19 09:12:01 devbox CRON[2211]: (root) CMD (run-parts /etc/cron.hourly)\nOct 19 09:15:44 devbox sshd[2290]: Accepted publickey"},
		},
	},
	{
		Name:     "web-01",
		Hostname: "web-01.prod.internal",
		Address:  "10.0.1.11",
		OS:       "Debian GNU/Linux 12 (bookworm)",
		Kernel:   "6.1.0-26-amd64",
		Latency:  14 * time.Millisecond,
		Uptime:   87*24*time.Hour + 19*time.Hour,
		MemTotal: 8 * gib,
		DiskSize: 80 * gib,
		DiskUsed: 52 * gib,
		Motd: "Debian GNU/Linux 12 (bookworm)\n\n" +
			"*** Production web server. All sessions are recorded. ***",
		dirs: []string{"/var/www/html", "/etc/nginx/sites-enabled", "/var/log/nginx"},
		files: []file{
			{"{home}/notes.txt", "deploys happen from CI only"},
			{"/var/www/html/index.html", "<!doctype html>\n<html><body><h1>It works!</h1></body></html>"},
			{"/etc/nginx/nginx.conf", "user www-data;\nworker_processes auto;\ninclude /etc/nginx/sites-enabled/*;"},
			{"/etc/nginx/sites-enabled/default", "server {\n\tlisten 80 default_server;\n\troot /var/www/html;\n}"},
			{"/var/log/nginx/access.log", "10.0.0.5 - - [19/Oct/2026:09:01:12 +0000] \"GET / HTTP/1.1\" 200 612"},
			{"/etc/hostname", "{hostname}"},
		},
	},
	{
		Name:     "db-01",
		Hostname: "db-01.prod.internal",
		Address:  "10.0.2.15",
		OS:       "Rocky Linux 9.4 (Blue Onyx)",
		Kernel:   "5.14.0-427.13.1.el9_4.x86_64",
		Latency:  21 * time.Millisecond,
		Uptime:   203*24*time.Hour + 2*time.Hour,
		MemTotal: 64 * gib,
		DiskSize: 2048 * gib,
		DiskUsed: 1391 * gib,
		Motd: "Rocky Linux 9.4\n\n" +
			"Authorized access only. Ask the DBA team before restarting postgres.",
		dirs: []string{"/var/lib/pgsql/16/data", "/backups"},
		files: []file{
			{"{home}/.psql_history", "select count(*) from orders;\n\\dt"},
			{"/backups/README", "nightly dumps are shipped off-site at 02:00 UTC"},
			{"/var/lib/pgsql/16/data/PG_VERSION", "16"},
			{"/etc/hostname", "{hostname}"},
		},
	},
}

// Lookup finds a host by short name, hostname or address.
func Lookup(name string) (*Host, bool) {
	name = strings.ToLower(name)
	for _, h := range hosts {
		if name == h.Name || name == h.Hostname || name == h.Address {
			return h, true
		}
	}
	return nil, false
}

// Names returns the short names of all hosts.
func Names() []string {
	names := make([]string, 0, len(hosts))
	for _, h := range hosts {
		names = append(names, h.Name)
	}
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
	return names
}
