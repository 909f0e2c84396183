// Package web serves the deskshell terminal to a browser. Every websocket
// connection gets its own shell running on its own event loop; the desktop
// and the filesystem are shared.
package web

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"deskshell/internal/desktop"
	"deskshell/internal/history"
	"deskshell/internal/model"
	"deskshell/internal/remote"
	"deskshell/internal/sched"
	"deskshell/internal/shell"
	"deskshell/internal/vfs"
)

//go:embed static/*
var staticFS embed.FS

const (
	readLimit = 1 << 20
	maxRows   = 200
	maxCols   = 500

	shutdownTimeout = 5 * time.Second
)

type Options struct {
	FS       vfs.Provider
	Desktop  *desktop.Desktop
	Logger   zerolog.Logger
	Hostname string
	Rows     int
	Cols     int
}

// Server keeps the shared state of the browser terminals.
type Server struct {
	fs       vfs.Provider
	desktop  *desktop.Desktop
	logger   zerolog.Logger
	hostname string
	rows     int
	cols     int

	mu       sync.Mutex
	sessions map[string]time.Time
}

// New wraps the filesystem in a lock since each session writes to it from
// its own goroutine.
func New(opts Options) *Server {
	return &Server{
		fs:       vfs.NewLocked(opts.FS),
		desktop:  opts.Desktop,
		logger:   opts.Logger,
		hostname: opts.Hostname,
		rows:     opts.Rows,
		cols:     opts.Cols,
		sessions: make(map[string]time.Time),
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	subFS, _ := fs.Sub(staticFS, "static")
	r.Get("/ws", s.handleTerminal)
	r.Get("/api/info", s.handleInfo)
	r.Handle("/*", http.FileServer(http.FS(subFS)))
	return r
}

// ListenAndServe runs until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info().Str("addr", addr).Msg("web server listening")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type infoResponse struct {
	Version  string   `json:"version"`
	User     string   `json:"user"`
	Hostname string   `json:"hostname"`
	Theme    string   `json:"theme"`
	Sessions int      `json:"sessions"`
	Hosts    []string `json:"hosts"`
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	n := len(s.sessions)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(infoResponse{
		Version:  model.Version,
		User:     s.desktop.Username(),
		Hostname: s.hostname,
		Theme:    s.desktop.Theme(),
		Sessions: n,
		Hosts:    remote.Names(),
	}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to write info response")
	}
}

// Messages sent as text frames. Terminal data travels in binary frames.
type sessionInfo struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Rows int    `json:"rows"`
	Cols int    `json:"cols"`
}

type controlMsg struct {
	Type string `json:"type"`
	Data string `json:"data"`
	Cols int    `json:"cols"`
	Rows int    `json:"rows"`
}

func (s *Server) handleTerminal(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(readLimit)

	id := uuid.NewString()
	log := s.logger.With().Str("session", id).Str("remote", r.RemoteAddr).Logger()
	s.track(id, true)
	defer s.track(id, false)
	log.Info().Msg("web session opened")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	loop := sched.NewLoop()
	go loop.Run()
	defer loop.Stop()

	sh := shell.New(shell.Options{
		FS:        s.fs,
		Host:      s.desktop,
		History:   &history.MemoryStore{},
		Scheduler: sched.NewTimers(loop.Post),
		Output: func(out string) {
			if err := conn.Write(ctx, websocket.MessageBinary, []byte(out)); err != nil {
				log.Debug().Err(err).Msg("terminal write failed")
			}
		},
		Logger:   log,
		Hostname: s.hostname,
		Rows:     s.rows,
		Cols:     s.cols,
		OnExit:   cancel,
	})

	info, _ := json.Marshal(sessionInfo{Type: "session_info", ID: id, Rows: s.rows, Cols: s.cols})
	if err := conn.Write(ctx, websocket.MessageText, info); err != nil {
		log.Debug().Err(err).Msg("failed to send session info")
		return
	}
	loop.Post(sh.Start)

	reason := s.relay(ctx, conn, loop, sh, log)
	log.Info().Str("reason", reason).Msg("web session closed")
	conn.Close(websocket.StatusNormalClosure, reason)
}

// relay feeds the browser messages to the shell loop until the connection
// drops or the shell exits.
func (s *Server) relay(ctx context.Context, conn *websocket.Conn, loop *sched.Loop, sh *shell.Shell, log zerolog.Logger) string {
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return "exit"
			}
			return "disconnected"
		}

		if typ == websocket.MessageBinary {
			input := string(data)
			loop.Post(func() { sh.HandleInput(input) })
			continue
		}

		var msg controlMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Debug().Err(err).Msg("ignoring malformed control message")
			continue
		}
		switch msg.Type {
		case "resize":
			rows, cols := clamp(msg.Rows, 1, maxRows), clamp(msg.Cols, 1, maxCols)
			loop.Post(func() { sh.SetViewport(rows, cols) })
		case "input":
			loop.Post(func() { sh.HandleInput(msg.Data) })
		default:
			log.Debug().Str("type", msg.Type).Msg("unknown control message")
		}
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func (s *Server) track(id string, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if open {
		s.sessions[id] = time.Now()
	} else {
		delete(s.sessions, id)
	}
}
