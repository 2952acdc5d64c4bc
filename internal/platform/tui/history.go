package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-brawl/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show the view list sidebar
	sidebarWidth       = 20  // Width of the view list sidebar
	maxMatches         = 100 // Max matches to load
)

// HistoryView is one of the tables the history screen can show.
type HistoryView int

const (
	HistoryRecent HistoryView = iota
	HistoryCharacters
	historyViewCount
)

func (v HistoryView) String() string {
	switch v {
	case HistoryRecent:
		return "Recent Matches"
	case HistoryCharacters:
		return "Characters"
	default:
		return "Unknown"
	}
}

// HistoryKeyMap defines the key bindings for the history screen.
type HistoryKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	NextView key.Binding
	PrevView key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextView, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextView, k.PrevView},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev view"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next view"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev view"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for the match history screen.
type HistoryModel struct {
	view        HistoryView
	store       *storage.Store
	matches     []storage.MatchRecord
	stats       []storage.CharacterStats
	loadErr     error
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool // True if user pressed back (not quit)
	showSidebar bool // Whether to show the view list sidebar
}

// NewHistoryModel creates a new history model.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false
	h.Width = width

	m := HistoryModel{
		store:       store,
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.load()
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// columns returns the table layout of the current view.
func (m *HistoryModel) columns() []table.Column {
	if m.view == HistoryCharacters {
		return []table.Column{
			{Title: "Character", Width: 10},
			{Title: "Played", Width: 7},
			{Title: "Won", Width: 5},
			{Title: "Lost", Width: 5},
			{Title: "Drawn", Width: 6},
			{Title: "Avg Dmg", Width: 8},
		}
	}

	cols := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Mode", Width: 10},
		{Title: "Fighters", Width: 16},
		{Title: "Result", Width: 10},
		{Title: "KOs", Width: 5},
	}

	// Players only matter once online matches exist; give them the spare room.
	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}
	if spare := tableWidth - 63; spare >= 12 {
		cols = append(cols, table.Column{Title: "Players", Width: min(spare, 24)})
	}
	return cols
}

// createTable creates a new table with the columns of the current view.
func (m *HistoryModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load reads both views from the store.
func (m *HistoryModel) load() {
	m.matches, m.stats, m.loadErr = nil, nil, nil
	if m.store == nil {
		return
	}

	matches, err := m.store.RecentMatches(maxMatches)
	if err != nil {
		m.loadErr = err
		return
	}
	stats, err := m.store.CharacterStats()
	if err != nil {
		m.loadErr = err
		return
	}
	m.matches, m.stats = matches, stats
}

// updateTableRows fills the table from the loaded data of the current view.
func (m *HistoryModel) updateTableRows() {
	var rows []table.Row
	switch m.view {
	case HistoryRecent:
		rows = make([]table.Row, len(m.matches))
		for i, r := range m.matches {
			rows[i] = matchRow(r)
		}
	case HistoryCharacters:
		rows = make([]table.Row, len(m.stats))
		for i, c := range m.stats {
			rows[i] = table.Row{
				c.Character,
				fmt.Sprintf("%d", c.Matches),
				fmt.Sprintf("%d", c.Wins),
				fmt.Sprintf("%d", c.Losses),
				fmt.Sprintf("%d", c.Draws()),
				fmt.Sprintf("%.1f%%", c.AvgDamage),
			}
		}
	}

	cols := len(m.table.Columns())
	for i := range rows {
		rows[i] = rows[i][:min(len(rows[i]), cols)]
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// matchRow formats one match for the recent matches table.
func matchRow(r storage.MatchRecord) table.Row {
	result := "Draw"
	switch r.Winner {
	case 0:
		result = "P1 wins"
	case 1:
		result = "P2 wins"
	}
	if r.EndReason != "" {
		result += "*"
	}

	players := ""
	if r.Username != "" || r.OpponentUser != "" {
		players = fmt.Sprintf("%s vs %s", orDash(r.Username), orDash(r.OpponentUser))
	}

	return table.Row{
		r.CreatedAt.Format("Jan 02 15:04"),
		r.Mode,
		fmt.Sprintf("%s vs %s", r.Player, r.Opponent),
		result,
		fmt.Sprintf("%d-%d", r.KOs[0], r.KOs[1]),
		players,
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// setView switches to v and rebuilds the table for it.
func (m *HistoryModel) setView(v HistoryView) {
	m.view = (v + historyViewCount) % historyViewCount
	m.table = m.createTable()
	m.updateTableRows()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextView), key.Matches(msg, m.keys.Right):
			m.setView(m.view + 1)
			return m, nil

		case key.Matches(msg, m.keys.PrevView), key.Matches(msg, m.keys.Left):
			m.setView(m.view - 1)
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "MATCH HISTORY - " + m.view.String()
	b.WriteString(titleStyle.MarginBottom(1).Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the table with a sidebar listing the views.
func (m HistoryModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Views\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for v := range historyViewCount {
		cursor := "  "
		style := lipgloss.NewStyle()
		if v == m.view {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + v.String()))
		sidebar.WriteString("\n")
	}
	if n := len(m.matches); n > 0 {
		sidebar.WriteString("\n")
		sidebar.WriteString(hintStyle.Render(fmt.Sprintf("%d matches", n)))
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ", tableStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout renders the view tabs above the table.
func (m HistoryModel) renderNarrowLayout() string {
	var b strings.Builder

	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, 0, historyViewCount)
	for v := range historyViewCount {
		if v == m.view {
			tabs = append(tabs, activeTabStyle.Render(v.String()))
		} else {
			tabs = append(tabs, hintStyle.Render(" "+v.String()+" "))
		}
	}

	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 {
		tabLine = fmt.Sprintf("< %s >", m.view)
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m HistoryModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	if m.loadErr != nil {
		return errorStyle.Padding(2, 4).Render("Cannot read history:\n" + m.loadErr.Error())
	}
	if len(m.table.Rows()) == 0 {
		return emptyStyle.Render("No matches recorded yet.\nFinish a match to see it here!")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunHistory runs the history screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunHistory(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewHistoryModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(HistoryModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
