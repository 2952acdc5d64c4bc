// Package tui provides the terminal front end of the brawler: local play,
// character select, match history, and an SSH server via Wish where
// sessions can also fight each other online.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
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

	"github.com/vovakirdan/tui-brawl/internal/core"
	"github.com/vovakirdan/tui-brawl/internal/games/brawl"
	"github.com/vovakirdan/tui-brawl/internal/multiplayer"
	"github.com/vovakirdan/tui-brawl/internal/registry"
	"github.com/vovakirdan/tui-brawl/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.arcade/host_key.
	HostKeyPath string

	// DBPath is the path to the match history database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the simulation rate of every match, local or online.
	TickRate int

	// Logger receives server, session and match logs. Nil logs to stderr.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.arcade/brawl.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
	}
}

// SSHServer wraps a Wish SSH server for the brawler.
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
			Prefix:          "brawl-ssh",
		})
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open history database", "error", err)
		// Continue without storage
	}

	sessions := multiplayer.NewSessionRegistry()
	coordCfg := multiplayer.DefaultCoordinatorConfig()
	coordCfg.TickRate = cfg.TickRate
	coordinator := multiplayer.NewCoordinator(coordCfg, nil, sessions)
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

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".arcade", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
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

	username := sshSession.User()
	id := multiplayer.SessionID(fmt.Sprintf("%s-%d", username, time.Now().UnixNano()))
	session := multiplayer.NewChannelSession(id, 0)
	s.sessions.Register(session)

	go func() {
		<-sshSession.Context().Done()
		s.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: id})
		session.Close()
		s.sessions.Unregister(id)
	}()

	model := NewSessionModel(s.store, cfg, username).
		WithLogger(s.logger.With("user", username)).
		WithOnline(session, s.coordinator)

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
			"sessions", s.sessions.Count(),
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
	s.logger.Info("starting SSH server", "address", s.config.Address, "tick_rate", s.config.TickRate)
	s.coordinator.Start()

	// Setup signal handling for graceful shutdown
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

// sessionState is the screen a SessionModel is showing.
type sessionState int

const (
	sessionMenu sessionState = iota
	sessionSelect
	sessionFight
	sessionHistory
	sessionOnline
)

// SessionModel manages the full session flow:
// menu -> character select -> fight or online -> menu.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	store       *storage.Store
	config      core.RuntimeConfig
	username    string
	logger      *log.Logger
	session     *multiplayer.ChannelSession // Nil without online play
	coordinator coordinatorSender

	state    sessionState
	menu     MenuModel
	selector CharacterSelectModel
	fight    Model
	history  HistoryModel
	online   OnlineModel

	pendingGame string // Game to start once a character is picked
	quitting    bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig, username string) SessionModel {
	return SessionModel{
		store:    store,
		config:   cfg,
		username: username,
		logger:   log.New(io.Discard),
		menu:     NewMenuModel(cfg, false),
	}
}

// WithLogger returns the session logging to logger.
func (m SessionModel) WithLogger(logger *log.Logger) SessionModel {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// WithOnline enables the online menu entry. Events for session are pumped
// into the model for as long as it lives.
func (m SessionModel) WithOnline(session *multiplayer.ChannelSession, coordinator coordinatorSender) SessionModel {
	m.session = session
	m.coordinator = coordinator
	m.menu = NewMenuModel(m.config, m.hasOnline())
	return m
}

func (m SessionModel) hasOnline() bool {
	return m.session != nil && m.coordinator != nil
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.hasOnline() {
		return tea.Batch(m.menu.Init(), listen(m.session))
	}
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height

	case sessionEventMsg:
		next := listen(m.session)
		if m.state != sessionOnline {
			// Leftovers of a match this session already left.
			return m, next
		}
		model, cmd := m.updateOnline(msg.evt)
		return model, tea.Batch(cmd, next)

	case sessionClosedMsg:
		return m, nil
	}

	switch m.state {
	case sessionSelect:
		return m.updateSelect(msg)
	case sessionFight:
		return m.updateFight(msg)
	case sessionHistory:
		return m.updateHistory(msg)
	case sessionOnline:
		return m.updateOnline(msg)
	default:
		return m.updateMenu(msg)
	}
}

// toMenu shows a fresh main menu.
func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.state = sessionMenu
	m.pendingGame = ""
	m.menu = NewMenuModel(m.config, m.hasOnline())
	return m, m.menu.Init()
}

func (m SessionModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		return m.quit()
	}

	if m.menu.WantsHistory() {
		m.state = sessionHistory
		m.history = NewHistoryModel(m.store, m.config.ScreenW, m.config.ScreenH)
		return m, m.history.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		switch {
		case selected.Kind == MenuItemGame && selected.GameID == brawl.IDDemo:
			return m.startFight(selected.GameID, nil)
		case selected.Kind == MenuItemGame:
			m.pendingGame = selected.GameID
		}
		return m.toSelect()
	}

	return m, cmd
}

func (m SessionModel) toSelect() (tea.Model, tea.Cmd) {
	start, explicit := brawl.PlayerCharacter()
	m.state = sessionSelect
	m.selector = NewCharacterSelectModel(m.config, start, !explicit)
	return m, m.selector.Init()
}

// updateSelect handles character select. The pick either starts the
// pending local game or opens the online lobby.
func (m SessionModel) updateSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	newSel, cmd := m.selector.Update(msg)
	if sel, ok := newSel.(CharacterSelectModel); ok {
		m.selector = sel
	}

	switch {
	case m.selector.IsQuitting():
		return m.quit()
	case m.selector.IsGoingBack():
		return m.toMenu()
	}

	kind, _, chosen := m.selector.Chosen()
	if !chosen {
		return m, cmd
	}
	if m.pendingGame == "" {
		m.state = sessionOnline
		m.online = NewOnlineModel(m.session.ID(), m.username, kind, m.coordinator, m.config)
		return m, m.online.Init()
	}
	return m.startFight(m.pendingGame, &kind)
}

// startFight creates the game and hands the screen to a fight model.
func (m SessionModel) startFight(gameID string, kind *brawl.Kind) (tea.Model, tea.Cmd) {
	created, err := registry.Create(gameID)
	if err != nil {
		m.logger.Error("cannot create game", "game", gameID, "err", err)
		return m.toMenu()
	}
	game, ok := created.(*brawl.Game)
	if !ok {
		m.logger.Error("not a brawl game", "game", gameID)
		return m.toMenu()
	}
	if kind != nil {
		game.ChoosePlayer(*kind)
	}

	m.pendingGame = gameID
	m.state = sessionFight
	m.fight = NewModel(game, m.store, m.config).WithLogger(m.logger).WithUsername(m.username)
	return m, m.fight.Init()
}

// updateFight handles updates during a local match.
func (m SessionModel) updateFight(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.fight.Update(msg)
	if fight, ok := newModel.(Model); ok {
		m.fight = fight
	}

	switch {
	case m.fight.IsQuitting():
		return m.quit()
	case m.fight.BackToSelect() && m.pendingGame == brawl.IDDemo:
		return m.toMenu()
	case m.fight.BackToSelect():
		return m.toSelect()
	}

	return m, cmd
}

// updateHistory handles the match history screen.
func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.history.Update(msg)
	if history, ok := newModel.(HistoryModel); ok {
		m.history = history
	}

	switch {
	case m.history.IsQuitting():
		return m.quit()
	case m.history.IsGoingBack():
		return m.toMenu()
	}
	return m, cmd
}

// updateOnline handles the lobby and the online match.
func (m SessionModel) updateOnline(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.online.Update(msg)
	if online, ok := newModel.(OnlineModel); ok {
		m.online = online
	}

	switch {
	case m.online.IsQuitting():
		return m.quit()
	case m.online.BackToMenu():
		return m.toMenu()
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case sessionSelect:
		return m.selector.View()
	case sessionFight:
		return m.fight.View()
	case sessionHistory:
		return m.history.View()
	case sessionOnline:
		return m.online.View()
	default:
		return m.menu.View()
	}
}
