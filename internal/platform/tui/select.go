package tui

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-brawl/internal/core"
	"github.com/vovakirdan/tui-brawl/internal/games/brawl"
)

// Card layout constants
const (
	cardWidth = 22
	barWidth  = 8
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Width(cardWidth).
			Padding(0, 1)
	activeCardStyle = cardStyle.
			BorderForeground(lipgloss.Color("229"))
	barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// SelectKeyMap defines the key bindings for character select.
type SelectKeyMap struct {
	Left   key.Binding
	Right  key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SelectKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Select, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k SelectKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultSelectKeyMap returns default key bindings.
func DefaultSelectKeyMap() SelectKeyMap {
	return SelectKeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a", "prev"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d", "next"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "fight"),
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

// characterCard is the summary shown for one roster entry.
type characterCard struct {
	kind    brawl.Kind
	name    string
	special string
	speed   float64
	weight  float64
	jump    float64
	power   float64 // Heavy attack damage
}

// CharacterSelectModel is the Bubble Tea model for picking a fighter.
// The last card is the random pick.
type CharacterSelectModel struct {
	cards    []characterCard
	cursor   int
	width    int
	height   int
	keys     SelectKeyMap
	help     help.Model
	chosen   bool
	kind     brawl.Kind
	random   bool
	back     bool
	quitting bool
	loadErr  error
}

// NewCharacterSelectModel builds the cards from the current tuning. The
// cursor starts on start unless random is set.
func NewCharacterSelectModel(cfg core.RuntimeConfig, start brawl.Kind, random bool) CharacterSelectModel {
	_, chars, err := brawl.LoadTuning()

	cards := make([]characterCard, 0, len(brawl.Roster))
	cursor := len(brawl.Roster)
	for i, k := range brawl.Roster {
		def := chars.Get(k)
		cards = append(cards, characterCard{
			kind:    k,
			name:    def.Name,
			special: def.Special.String(),
			speed:   def.MaxSpeed,
			weight:  def.Weight,
			jump:    def.JumpVelocity,
			power:   def.HeavyDamage(),
		})
		if !random && k == start {
			cursor = i
		}
	}

	h := help.New()
	h.Width = cfg.ScreenW

	return CharacterSelectModel{
		cards:   cards,
		cursor:  cursor,
		width:   cfg.ScreenW,
		height:  cfg.ScreenH,
		keys:    DefaultSelectKeyMap(),
		help:    h,
		loadErr: err,
	}
}

// Init initializes the select model.
func (m CharacterSelectModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for character select.
func (m CharacterSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := len(m.cards) + 1
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.back = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Left):
			m.cursor = (m.cursor + n - 1) % n

		case key.Matches(msg, m.keys.Right):
			m.cursor = (m.cursor + 1) % n

		case key.Matches(msg, m.keys.Select):
			m.chosen = true
			if m.cursor == len(m.cards) {
				m.random = true
				m.kind = brawl.Roster[rand.Intn(len(brawl.Roster))]
			} else {
				m.kind = m.cards[m.cursor].kind
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}

	return m, nil
}

// View renders the character cards.
func (m CharacterSelectModel) View() string {
	if m.quitting || m.back || m.chosen {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("CHOOSE YOUR FIGHTER"), m.width))
	b.WriteString("\n\n")

	rendered := make([]string, 0, len(m.cards)+1)
	for i, c := range m.cards {
		rendered = append(rendered, m.renderCard(c, i == m.cursor))
	}
	rendered = append(rendered, m.renderRandomCard(m.cursor == len(m.cards)))

	row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	if lipgloss.Width(row) > m.width {
		// Too narrow for every card: show the focused one alone.
		row = rendered[m.cursor]
	}
	for _, line := range strings.Split(row, "\n") {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if m.loadErr != nil {
		b.WriteString("\n")
		b.WriteString(centerText(errorStyle.Render("config: "+m.loadErr.Error()+" (using defaults)"), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(hintStyle.Render(m.help.View(m.keys)), m.width))
	return b.String()
}

func (m CharacterSelectModel) renderCard(c characterCard, active bool) string {
	maxSpeed, maxWeight, maxJump, maxPower := 0.0, 0.0, 0.0, 0.0
	for _, o := range m.cards {
		maxSpeed = max(maxSpeed, o.speed)
		maxWeight = max(maxWeight, o.weight)
		maxJump = max(maxJump, o.jump)
		maxPower = max(maxPower, o.power)
	}

	var b strings.Builder
	name := c.name
	if active {
		name = accentStyle.Render(name)
	}
	b.WriteString(name)
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("special: " + c.special))
	b.WriteString("\n\n")
	b.WriteString(statLine("Speed", c.speed, maxSpeed))
	b.WriteString(statLine("Weight", c.weight, maxWeight))
	b.WriteString(statLine("Jump", c.jump, maxJump))
	b.WriteString(statLine("Power", c.power, maxPower))

	body := strings.TrimSuffix(b.String(), "\n")
	if active {
		return activeCardStyle.Render(body)
	}
	return cardStyle.Render(body)
}

func (m CharacterSelectModel) renderRandomCard(active bool) string {
	name := "Random"
	if active {
		name = accentStyle.Render(name)
	}
	body := name + "\n" + hintStyle.Render("any fighter") + "\n\n\n   ? ? ?\n\n"
	if active {
		return activeCardStyle.Render(body)
	}
	return cardStyle.Render(body)
}

// statLine renders one stat as a bar relative to the roster maximum.
func statLine(label string, v, top float64) string {
	n := barWidth
	if top > 0 {
		n = int(v/top*barWidth + 0.5)
	}
	n = max(1, min(n, barWidth))
	return fmt.Sprintf("%-7s%s%s\n", label,
		barStyle.Render(strings.Repeat("■", n)),
		hintStyle.Render(strings.Repeat("·", barWidth-n)))
}

// Chosen reports the picked character. random is true when the player took
// the random card; kind then holds the draw.
func (m CharacterSelectModel) Chosen() (kind brawl.Kind, random, ok bool) {
	return m.kind, m.random, m.chosen
}

// IsGoingBack returns true if user wants to go back to menu.
func (m CharacterSelectModel) IsGoingBack() bool {
	return m.back
}

// IsQuitting returns true if user wants to quit entirely.
func (m CharacterSelectModel) IsQuitting() bool {
	return m.quitting
}

// SelectResult holds the outcome of the character select screen.
type SelectResult struct {
	Kind   brawl.Kind
	Random bool
	Chosen bool
	Back   bool
	Quit   bool
}

// RunCharacterSelect runs the character select screen.
func RunCharacterSelect(cfg core.RuntimeConfig) (SelectResult, error) {
	start, explicit := brawl.PlayerCharacter()
	p := tea.NewProgram(
		NewCharacterSelectModel(cfg, start, !explicit),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return SelectResult{}, err
	}

	m, ok := finalModel.(CharacterSelectModel)
	if !ok {
		return SelectResult{Quit: true}, nil
	}

	kind, random, chosen := m.Chosen()
	return SelectResult{
		Kind:   kind,
		Random: random,
		Chosen: chosen,
		Back:   m.IsGoingBack(),
		Quit:   m.IsQuitting(),
	}, nil
}
