package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-brawl/internal/core"
	"github.com/vovakirdan/tui-brawl/internal/registry"
)

// MenuItemKind tells what a menu entry opens.
type MenuItemKind int

const (
	MenuItemGame MenuItemKind = iota
	MenuItemOnline
	MenuItemHistory
)

// MenuItem represents a selectable entry in the main menu.
type MenuItem struct {
	GameID string // Set for MenuItemGame
	Title  string
	Hint   string
	Kind   MenuItemKind
}

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	items       []MenuItem
	cursor      int
	width       int
	height      int
	config      core.RuntimeConfig
	keyMapper   *KeyMapper
	quitting    bool
	selected    *MenuItem // Set when user selects an entry
	openHistory bool      // True if user pressed Tab for the history
}

// NewMenuModel creates a new menu model. The online entry only shows up on
// SSH sessions, where a coordinator exists.
func NewMenuModel(cfg core.RuntimeConfig, online bool) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games)+2)

	for _, g := range games {
		hint := "you vs CPU"
		if strings.HasSuffix(g.ID, "_demo") {
			hint = "watch two CPUs"
		}
		items = append(items, MenuItem{
			GameID: g.ID,
			Title:  g.Title,
			Hint:   hint,
			Kind:   MenuItemGame,
		})
	}

	if online {
		items = append(items, MenuItem{Title: "Online", Hint: "host or join a match", Kind: MenuItemOnline})
	}
	items = append(items, MenuItem{Title: "Match History", Hint: "recent matches", Kind: MenuItemHistory})

	return MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionHistory:
		m.openHistory = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  B R A W L  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Mage  ·  Ninja  ·  Tank", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		title := fmt.Sprintf("%-16s", item.Title)
		if i == m.cursor {
			cursor = "> "
			title = accentStyle.Render(title)
		}
		line := cursor + title
		if item.Hint != "" {
			line += " " + hintStyle.Render(item.Hint)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Tab: History  |  Q: Quit"
	b.WriteString(centerText(hintStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsHistory returns true if user requested the match history.
func (m MenuModel) WantsHistory() bool {
	return m.openHistory || (m.selected != nil && m.selected.Kind == MenuItemHistory)
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID       string
	Config       core.RuntimeConfig
	WantsHistory bool
	Quit         bool
}

// RunMenu runs the local menu and returns the selection result.
func RunMenu(cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(cfg, false),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}

	switch {
	case m.WantsHistory():
		result.WantsHistory = true
	case m.IsQuitting():
		result.Quit = true
	case m.Selected() != nil && m.Selected().Kind == MenuItemGame:
		result.GameID = m.Selected().GameID
	default:
		result.Quit = true
	}

	return result, nil
}
