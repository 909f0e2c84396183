package shell

import (
	"errors"
	"strings"

	"deskshell/internal/editor"
	"deskshell/internal/remote"
	"deskshell/internal/vfs"
)

func edit(sh *Shell, args []string, _ string) (string, error) {
	if len(args) != 1 {
		return "", failf("usage: edit <file>")
	}
	if sh.batch {
		return "", failf("edit: not available without a terminal")
	}

	p := sh.resolve(args[0])
	content, err := sh.fs.Read(p)
	switch {
	case errors.Is(err, vfs.ErrNotFound):
		// a new file, created on the first save
		content = ""
	case err != nil:
		return "", failf("%s", fsError("edit", args[0], err))
	}

	e := editor.New(editor.Options{
		Path:      p,
		Content:   content,
		FS:        sh.fs,
		Scheduler: sh.sched,
		Output:    sh.output,
		OnExit:    func() { sh.release(true, true) },
		Logger:    sh.logger,
		Rows:      sh.rows,
		Cols:      sh.cols,
	})
	sh.take(e)
	e.Start()
	return "", nil
}

func ssh(sh *Shell, args []string, _ string) (string, error) {
	if len(args) != 1 {
		return "", failf("usage: ssh [user@]hostname")
	}
	if sh.batch {
		return "", failf("ssh: not available without a terminal")
	}

	user, hostname := sh.user, args[0]
	if u, h, ok := strings.Cut(args[0], "@"); ok {
		user, hostname = u, h
	}
	host, ok := remote.Lookup(hostname)
	if !ok {
		return "", failf("ssh: Could not resolve hostname %s: Name or service not known\nKnown hosts: %s",
			hostname, strings.Join(remote.Names(), ", "))
	}
	if user == "" {
		return "", failf("ssh: invalid user name in '%s'", args[0])
	}

	var session *remote.Session
	session = remote.NewSession(remote.Options{
		Host:      host,
		User:      user,
		Scheduler: sh.sched,
		Output:    sh.output,
		OnExit:    func() { sh.release(false, !session.Aborted()) },
		Logger:    sh.logger,
		Now:       sh.now,
		Cols:      sh.cols,
	})
	sh.take(session)
	session.Connect()
	return "", nil
}
