package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-brawl/internal/core"
	"github.com/vovakirdan/tui-brawl/internal/games/brawl"
	"github.com/vovakirdan/tui-brawl/internal/storage"
)

// helpMinHeight is the smallest terminal that still shows the key help.
const helpMinHeight = 12

// Model is the Bubble Tea model for one local brawl: the player against the
// CPU, or two CPUs in demo mode.
type Model struct {
	game      *brawl.Game
	screen    *core.Screen
	store     *storage.Store
	logger    *log.Logger
	username  string
	config    core.RuntimeConfig
	loop      int64
	held      *core.HeldInput
	keyMapper *KeyMapper
	help      help.Model
	gameState core.GameState
	saved     bool // Whether the finished match has been recorded
	quitting  bool
	back      bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game *brawl.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		game:      game,
		screen:    core.NewScreen(cfg.ScreenW, arenaHeight(cfg.ScreenH)),
		store:     store,
		logger:    log.New(io.Discard),
		config:    cfg,
		loop:      nextLoop(),
		held:      core.NewHeldInput(cfg.TickRate),
		keyMapper: NewKeyMapper(),
		help:      h,
	}
}

// WithLogger returns the model logging match events to logger.
func (m Model) WithLogger(logger *log.Logger) Model {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// WithUsername returns the model recording matches under username.
func (m Model) WithUsername(username string) Model {
	m.username = username
	return m
}

// Init starts the match and the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	if err := m.game.LoadError(); err != nil {
		m.logger.Warn("brawl config not loaded, using defaults", "err", err)
	}
	m.logMatchStart()
	return tickCmd(m.loop, m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, arenaHeight(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionNone:
		return m, nil

	case core.ActionBack:
		if m.gameState.GameOver || m.gameState.Paused {
			m.back = true
			return m, tea.Quit
		}
		return m, nil

	case core.ActionRestart:
		if m.gameState.GameOver {
			m.rematch()
		}
		return m, nil
	}

	m.held.Press(action)
	return m, nil
}

// rematch starts a new match with the same characters.
func (m *Model) rematch() {
	m.config.Seed = time.Now().UnixNano()
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	m.saved = false
	m.held.Release()
	m.logMatchStart()
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.held.Frame())
	m.gameState = result.State

	if !m.gameState.Paused {
		m.logEvents(m.game.Snapshot())
	}

	if m.gameState.GameOver && !m.saved {
		m.saveMatch()
		m.saved = true
	}

	return m, tickCmd(m.loop, m.config.TickRate)
}

func (m Model) logMatchStart() {
	kinds := m.game.Kinds()
	m.logger.Info("match started", "mode", m.game.ID(), "player", kinds[0], "opponent", kinds[1], "seed", m.config.Seed)
}

func (m Model) logEvents(snap brawl.Snapshot) {
	for _, e := range snap.Events {
		switch e.Kind {
		case brawl.EventKO:
			f := snap.Fighters[e.Slot]
			m.logger.Info("ko", "tick", snap.Tick, "fighter", f.Name, "slot", e.Slot, "stocks", f.Stocks)
		case brawl.EventMatchOver:
			m.logger.Info("match over", "tick", snap.Tick, "winner", m.game.WinnerName())
		}
	}
}

// saveMatch records the finished match. Storage errors never stop play.
func (m Model) saveMatch() {
	if m.store == nil {
		return
	}
	rec := recordFromSummary(m.game.Summary(), m.username)
	if _, err := m.store.SaveMatch(rec); err != nil {
		m.logger.Warn("cannot save match", "err", err)
	}
}

// recordFromSummary converts a finished local match for storage.
func recordFromSummary(s brawl.Summary, username string) storage.MatchRecord {
	return storage.MatchRecord{
		Mode:     s.Mode,
		Username: username,
		Player:   s.Player.Key(),
		Opponent: s.Opponent.Key(),
		Winner:   s.Winner,
		Ticks:    s.Ticks,
		Stocks:   s.StocksLeft,
		Damage:   s.Damage,
		KOs:      s.KOs,
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".arcade", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot create screenshot directory", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.back {
		return ""
	}

	m.game.Render(m.screen)
	view := RenderScreen(m.screen)
	if m.screen.Height() < m.config.ScreenH {
		view += "\n" + hintStyle.Render(m.help.View(m.keyMapper.Keys()))
	}
	return view
}

// arenaHeight leaves the last row for the help line on terminals tall
// enough to spare it.
func arenaHeight(h int) int {
	if h > helpMinHeight {
		return h - 1
	}
	return h
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToSelect returns true if user asked to pick other characters.
func (m Model) BackToSelect() bool {
	return m.back
}

// Run starts the Bubble Tea program for one local game. It reports whether
// the player asked to go back to character select.
func Run(game *brawl.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) (back bool, err error) {
	model := NewModel(game, store, cfg).WithLogger(logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(Model)
	return ok && m.BackToSelect(), nil
}
