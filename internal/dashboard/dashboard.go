// Package dashboard serves a local, read-only HTTP+WebSocket view over a
// single internal/vcs repository: the current status, the first-parent
// commit log, and individual commit bodies, pushing updates to connected
// clients when the repository changes on disk.
//
// This is not a remote protocol server — no smart/dumb transfer, no
// packfile negotiation. It is an observability surface over the engine,
// the way the teacher's internal/server is an observability surface over
// gitcore rather than a git remote implementation itself.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rybkr/bit/internal/vcs"
)

const broadcastChannelSize = 64

// Dashboard holds all state for one running `bit serve` instance.
type Dashboard struct {
	repo   *vcs.Repository
	addr   string
	logger *slog.Logger

	httpServer *http.Server

	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]*sync.Mutex

	broadcast chan Update

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	clientWg sync.WaitGroup
}

// Update is one WebSocket push: whichever fields are non-nil changed.
type Update struct {
	Status *vcs.Status  `json:"status,omitempty"`
	Log    []CommitView `json:"log,omitempty"`
}

// CommitView is the JSON projection of a vcs.Commit for API responses.
type CommitView struct {
	Digest    string   `json:"digest"`
	Tree      string   `json:"tree"`
	Parents   []string `json:"parents,omitempty"`
	Author    string   `json:"author"`
	Committer string   `json:"committer"`
	Message   string   `json:"message"`
}

// New constructs a Dashboard bound to repo, listening on addr.
func New(repo *vcs.Repository, addr string) *Dashboard {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dashboard{
		repo:      repo,
		addr:      addr,
		logger:    repo.Logger(),
		clients:   make(map[*websocket.Conn]*sync.Mutex),
		broadcast: make(chan Update, broadcastChannelSize),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start builds the route table and blocks serving HTTP until the server
// exits or encounters a fatal error. Call Shutdown from another goroutine
// (e.g. a signal handler) to stop it cleanly.
func (d *Dashboard) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", d.handleStatus)
	mux.HandleFunc("/api/log", d.handleLog)
	mux.HandleFunc("/api/commits/", d.handleCommit)
	mux.HandleFunc("/ws", d.handleWebSocket)

	d.httpServer = &http.Server{
		Addr:         d.addr,
		Handler:      requestLogger(d.logger, mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // WebSocket connections are long-lived
		IdleTimeout:  120 * time.Second,
	}

	d.wg.Add(1)
	go d.handleBroadcast()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.startWatcher(); err != nil {
			d.logger.Error("dashboard: watcher failed", "err", err)
		}
	}()

	d.logger.Info("dashboard starting", "addr", "http://"+d.addr)
	err := d.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP listener and all background
// goroutines, then force-closes any remaining WebSocket connections.
func (d *Dashboard) Shutdown() {
	if d.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := d.httpServer.Shutdown(ctx); err != nil {
			d.logger.Error("dashboard: HTTP shutdown error", "err", err)
		}
	}

	d.cancel()
	d.wg.Wait()

	d.clientsMu.Lock()
	for conn := range d.clients {
		_ = conn.Close()
	}
	d.clients = make(map[*websocket.Conn]*sync.Mutex)
	d.clientsMu.Unlock()
	d.clientWg.Wait()
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("dashboard request", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
	})
}
