package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/mergerun-td/internal/core"
	"github.com/vovakirdan/mergerun-td/internal/engine"
	"github.com/vovakirdan/mergerun-td/internal/storage"
)

// shutdownGrace bounds how long open sessions get to finish on shutdown.
const shutdownGrace = 10 * time.Second

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	Address     string        // host:port to listen on, e.g. ":23234"
	HostKeyPath string        // generated under ~/.mergerun/host_key when empty
	DBPath      string        // run history database
	IdleTimeout time.Duration // idle connections are closed after this
	TickMs      int64         // simulation step of every served run
	Stage       int           // 0-based stage new runs start on
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.mergerun/runs.db",
		IdleTimeout: 30 * time.Minute,
		TickMs:      core.DefaultTickMs,
	}
}

// SSHServer serves runs over SSH. Each connection plays its own run
// against a shared engine; finished runs go to a shared history.
type SSHServer struct {
	config SSHServerConfig
	engine *engine.Engine
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
	active atomic.Int64
	closed sync.Once
}

// NewSSHServer creates a new SSH server. A nil logger logs to stderr.
func NewSSHServer(e *engine.Engine, cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "mergerun-ssh"})
	}

	hostKeyPath, err := resolveHostKey(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	srv := &SSHServer{config: cfg, engine: e, logger: logger}
	if store, openErr := storage.Open(cfg.DBPath); openErr != nil {
		logger.Warn("could not open run database, history disabled", "error", openErr)
	} else {
		srv.store = store
	}

	// Middlewares run last to first: sessions are counted and logged,
	// non-terminal clients are refused, then the program starts.
	srv.server, err = wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.programFor),
			activeterm.Middleware(),
			srv.trackSessions,
		),
	)
	if err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}
	return srv, nil
}

// resolveHostKey returns the host key location, creating its directory.
func resolveHostKey(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot get home directory: %w", err)
		}
		path = filepath.Join(home, ".mergerun", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("cannot create host key directory: %w", err)
	}
	return path, nil
}

// programFor picks the screen for a connection: "ssh host history"
// browses the run history, anything else starts a run.
func (s *SSHServer) programFor(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()
	opts := []tea.ProgramOption{tea.WithAltScreen()}

	if cmd := sess.Command(); len(cmd) > 0 && cmd[0] == "history" {
		return NewHistoryModel(s.store, len(s.engine.Tables().Stages), pty.Window.Width, pty.Window.Height), opts
	}

	cfg := core.RuntimeConfig{
		ScreenW: pty.Window.Width,
		ScreenH: pty.Window.Height,
		TickMs:  s.config.TickMs,
		Stage:   s.config.Stage,
		Player:  sess.User(),
	}
	return NewModel(s.engine, s.store, cfg, s.logger.With("user", sess.User())), opts
}

// trackSessions logs connects and disconnects with the live session count.
func (s *SSHServer) trackSessions(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		started := time.Now()
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"active", s.active.Add(1),
		)
		defer func() {
			s.logger.Info("session ended",
				"user", sess.User(),
				"duration", time.Since(started).Round(time.Second),
				"active", s.active.Add(-1),
			)
		}()
		next(sess)
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.closeStore()
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...", "active", s.active.Load())
		return s.Shutdown()
	}
}

// Shutdown stops accepting connections and waits briefly for open ones.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	defer s.closeStore()
	return s.server.Shutdown(ctx)
}

func (s *SSHServer) closeStore() {
	s.closed.Do(func() {
		if s.store != nil {
			s.store.Close()
		}
	})
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
