package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/multegula/internal/core"
	"github.com/vovakirdan/multegula/internal/games/multegula"
	"github.com/vovakirdan/multegula/internal/multiplayer"
	"github.com/vovakirdan/multegula/internal/registry"
	"github.com/vovakirdan/multegula/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.multegula/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the simulation rate of local and online games.
	TickRate int

	// Logger receives server and coordinator logs. Nil logs to stderr.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.multegula/scores.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    30,
	}
}

// SSHServer serves Multegula over SSH. Every session gets its own menu;
// online arenas are shared through one coordinator.
type SSHServer struct {
	config      SSHServerConfig
	server      *ssh.Server
	store       *storage.Store
	logger      *log.Logger
	sessions    *multiplayer.SessionRegistry
	coordinator *multiplayer.Coordinator
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "multegula-ssh",
		})
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage
	}

	coordCfg := multiplayer.DefaultCoordinatorConfig()
	if cfg.TickRate > 0 {
		coordCfg.TickRate = cfg.TickRate
	}
	sessions := multiplayer.NewSessionRegistry()
	coordinator := multiplayer.NewCoordinator(coordCfg, multegula.NewOnlineMatch, sessions)
	coordinator.SetLogger(logger.WithPrefix("coordinator"))
	if store != nil {
		coordinator.SetResultSaver(store)
	}

	srv := &SSHServer{
		config:      cfg,
		store:       store,
		logger:      logger,
		sessions:    sessions,
		coordinator: coordinator,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".multegula", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	id := multiplayer.SessionID(fmt.Sprintf("%s-%d", sshSession.User(), time.Now().UnixNano()))
	session := multiplayer.NewChannelSession(id, 128)
	s.sessions.Register(session)

	go func() {
		<-sshSession.Context().Done()
		s.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: id})
		session.Close()
		s.sessions.Unregister(id)
	}()

	model := NewSessionModel(s.store, cfg, sshSession.User(), session, s.coordinator)
	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)
	s.coordinator.Start()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.coordinator.Stop()
	err := s.server.Shutdown(ctx)
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionScreen is the part of a session currently on screen.
type sessionScreen int

const (
	screenTitle sessionScreen = iota
	screenMenu
	screenGame
	screenScores
	screenLobby
	screenMatch
)

// SessionModel manages the full flow of one SSH session:
// title -> menu -> local game, scoreboard or online lobby -> menu.
type SessionModel struct {
	store       *storage.Store
	config      core.RuntimeConfig
	username    string
	session     *multiplayer.ChannelSession
	coordinator *multiplayer.Coordinator

	current    sessionScreen
	title      TitleModel
	menu       MenuModel
	game       Model
	scoreboard ScoreboardModel
	lobby      OnlineLobbyModel
	match      OnlineMatchModel
	quitting   bool
}

// NewSessionModel creates a new session model. coordinator may be nil, in
// which case the online entry is hidden.
func NewSessionModel(
	store *storage.Store,
	cfg core.RuntimeConfig,
	username string,
	session *multiplayer.ChannelSession,
	coordinator *multiplayer.Coordinator,
) SessionModel {
	return SessionModel{
		store:       store,
		config:      cfg,
		username:    username,
		session:     session,
		coordinator: coordinator,
		title:       NewTitleModel(cfg),
		menu:        NewMenuModel(store, cfg, coordinator != nil && session != nil),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.title.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	var cmd tea.Cmd
	switch m.current {
	case screenTitle:
		cmd = m.updateTitle(msg)
	case screenMenu:
		cmd = m.updateMenu(msg)
	case screenGame:
		cmd = m.updateGame(msg)
	case screenScores:
		cmd = m.updateScores(msg)
	case screenLobby:
		cmd = m.updateLobby(msg)
	case screenMatch:
		cmd = m.updateMatch(msg)
	}
	return m, cmd
}

func (m *SessionModel) toMenu() tea.Cmd {
	m.current = screenMenu
	m.menu = NewMenuModel(m.store, m.config, m.coordinator != nil && m.session != nil)
	return m.menu.Init()
}

func (m *SessionModel) updateTitle(msg tea.Msg) tea.Cmd {
	next, cmd := m.title.Update(msg)
	m.title = next.(TitleModel)

	switch {
	case m.title.IsQuitting():
		m.quitting = true
		return tea.Quit
	case m.title.Done():
		return m.toMenu()
	}
	return cmd
}

func (m *SessionModel) updateMenu(msg tea.Msg) tea.Cmd {
	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return tea.Quit

	case m.menu.WantsScoreboard():
		m.current = screenScores
		m.scoreboard = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH, m.username)
		return m.scoreboard.Init()

	case m.menu.Selected() != nil:
		item := m.menu.Selected()
		if item.Online {
			m.current = screenLobby
			m.lobby = NewOnlineLobbyModel(m.username, m.session.ID(), m.coordinator,
				m.session.Events(), m.config.ScreenW, m.config.ScreenH)
			return m.lobby.Init()
		}

		game, err := registry.Create(item.GameID)
		if err != nil {
			// The menu only lists registered modes.
			return m.toMenu()
		}
		m.config.Seed = time.Now().UnixNano()
		m.current = screenGame
		m.game = NewModel(game, m.store, m.config, m.username)
		return m.game.Init()
	}
	return cmd
}

func (m *SessionModel) updateGame(msg tea.Msg) tea.Cmd {
	next, cmd := m.game.Update(msg)
	m.game = next.(Model)

	switch {
	case m.game.IsQuitting():
		m.quitting = true
		return tea.Quit
	case m.game.BackToMenu():
		return m.toMenu()
	}
	return cmd
}

func (m *SessionModel) updateScores(msg tea.Msg) tea.Cmd {
	next, cmd := m.scoreboard.Update(msg)
	m.scoreboard = next.(ScoreboardModel)

	switch {
	case m.scoreboard.IsQuitting():
		m.quitting = true
		return tea.Quit
	case m.scoreboard.IsGoingBack():
		return m.toMenu()
	}
	return cmd
}

func (m *SessionModel) updateLobby(msg tea.Msg) tea.Cmd {
	next, cmd := m.lobby.Update(msg)
	m.lobby = next.(OnlineLobbyModel)

	switch {
	case m.lobby.IsQuitting():
		m.quitting = true
		return tea.Quit
	case m.lobby.BackToMenu():
		return m.toMenu()
	case m.lobby.State() == OnlineStateInMatch:
		m.current = screenMatch
		m.match = NewOnlineMatchModel(m.coordinator, m.session.ID(), m.lobby.Started(), m.session.Events())
		return m.match.Init()
	}
	return cmd
}

func (m *SessionModel) updateMatch(msg tea.Msg) tea.Cmd {
	next, cmd := m.match.Update(msg)
	m.match = next.(OnlineMatchModel)

	switch {
	case m.match.IsQuitting():
		m.quitting = true
		return tea.Quit
	case m.match.BackToMenu():
		return m.toMenu()
	}
	return cmd
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.current {
	case screenTitle:
		return m.title.View()
	case screenMenu:
		return m.menu.View()
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scoreboard.View()
	case screenLobby:
		return m.lobby.View()
	case screenMatch:
		return m.match.View()
	}
	return ""
}
