package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-brawl/internal/core"
	"github.com/vovakirdan/tui-brawl/internal/games/brawl"
	"github.com/vovakirdan/tui-brawl/internal/multiplayer"
)

// joinCodeLen is the length of a lobby code.
const joinCodeLen = 6

// OnlineState represents the current state of the online matchmaking flow.
type OnlineState int

const (
	OnlineStateChooseMode    OnlineState = iota // Choose Host or Join
	OnlineStateHostWaiting                      // Hosting, waiting for joiner
	OnlineStateJoinEnterCode                    // Entering join code
	OnlineStateJoinWaiting                      // Waiting to connect to host
	OnlineStateInMatch                          // In active match
	OnlineStateMatchEnded                       // Match has ended
)

// coordinatorSender is the part of the coordinator the lobby talks to.
type coordinatorSender interface {
	Send(msg multiplayer.CoordinatorMessage)
}

// sessionEventMsg wraps an event read from the session for Bubble Tea.
type sessionEventMsg struct {
	evt multiplayer.SessionEvent
}

// sessionClosedMsg is delivered once the session stops producing events.
type sessionClosedMsg struct{}

// listen waits for the next coordinator event of session.
func listen(session *multiplayer.ChannelSession) tea.Cmd {
	return func() tea.Msg {
		evt, ok := session.Next()
		if !ok {
			return sessionClosedMsg{}
		}
		return sessionEventMsg{evt: evt}
	}
}

// OnlineModel handles the online flow: hosting or joining a lobby, playing
// the match the server simulates, and the rematch prompt after it.
type OnlineModel struct {
	state       OnlineState
	width       int
	height      int
	tickRate    int
	keyMapper   *KeyMapper
	sessionID   multiplayer.SessionID
	username    string
	kind        brawl.Kind
	coordinator coordinatorSender

	// Host state
	lobbyCode string

	// Join state
	joinCodeInput string
	joinError     string

	// Match state
	matchID multiplayer.MatchID
	side    multiplayer.Side
	names   [2]string
	view    *brawl.View
	screen  *core.Screen
	snap    brawl.Snapshot

	// Result state
	ended         multiplayer.MatchEndedEvent
	rematchSent   bool
	opponentReady bool
	opponentLeft  bool
	backToMenu    bool
	quitting      bool
}

// NewOnlineModel creates the online flow for one SSH session. kind is the
// fighter the player picked before entering the lobby.
func NewOnlineModel(
	sessionID multiplayer.SessionID,
	username string,
	kind brawl.Kind,
	coordinator coordinatorSender,
	cfg core.RuntimeConfig,
) OnlineModel {
	return OnlineModel{
		state:       OnlineStateChooseMode,
		width:       cfg.ScreenW,
		height:      cfg.ScreenH,
		tickRate:    cfg.TickRate,
		keyMapper:   NewKeyMapper(),
		sessionID:   sessionID,
		username:    username,
		kind:        kind,
		coordinator: coordinator,
		screen:      core.NewScreen(cfg.ScreenW, cfg.ScreenH),
	}
}

// Init initializes the lobby model. Events arrive through the session pump.
func (m OnlineModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = msg.Code
		m.state = OnlineStateHostWaiting
		return m, nil

	case multiplayer.LobbyErrorEvent:
		m.joinError = msg.Message
		switch m.state {
		case OnlineStateJoinWaiting:
			m.state = OnlineStateJoinEnterCode
		case OnlineStateHostWaiting:
			m.state = OnlineStateChooseMode
			m.lobbyCode = ""
		}
		return m, nil

	case multiplayer.MatchStartedEvent:
		m.startMatch(msg)
		return m, nil

	case multiplayer.SnapshotEvent:
		if msg.MatchID == m.matchID && m.view != nil {
			m.snap = msg.Snapshot
			m.view.Observe(m.snap)
		}
		return m, nil

	case multiplayer.MatchEndedEvent:
		if msg.MatchID != m.matchID {
			return m, nil
		}
		m.ended = msg
		m.state = OnlineStateMatchEnded
		m.rematchSent = false
		m.opponentReady = false
		m.opponentLeft = msg.Reason != multiplayer.MatchEndReasonCompleted
		return m, nil

	case multiplayer.RematchStatusEvent:
		if msg.MatchID != m.matchID {
			return m, nil
		}
		m.opponentReady = m.opponentReady || msg.OpponentReady
		m.opponentLeft = m.opponentLeft || msg.OpponentLeft
		return m, nil
	}
	return m, nil
}

// startMatch prepares the arena view for a new match or a rematch.
func (m *OnlineModel) startMatch(evt multiplayer.MatchStartedEvent) {
	m.matchID = evt.MatchID
	m.side = evt.Side
	m.names = evt.Names
	m.state = OnlineStateInMatch
	m.snap = brawl.Snapshot{}
	m.ended = multiplayer.MatchEndedEvent{}

	labels := evt.Names
	labels[evt.Side.Slot()] += " (you)"
	m.view = brawl.NewView("Brawl Online", labels, evt.Stage, evt.Frame, m.tickRate)
	m.view.Footer = "R rematch  |  B back to menu  |  Q quit"
}

func (m OnlineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.handleChooseModeKey(msg)
	case OnlineStateHostWaiting:
		return m.handleHostWaitingKey(msg)
	case OnlineStateJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	case OnlineStateJoinWaiting:
		return m.handleJoinWaitingKey(msg)
	case OnlineStateInMatch:
		return m.handleMatchKey(msg)
	case OnlineStateMatchEnded:
		return m.handleMatchEndedKey(msg)
	}

	return m, nil
}

// quit leaves whatever the session is part of and ends the program.
func (m OnlineModel) quit() (tea.Model, tea.Cmd) {
	switch m.state {
	case OnlineStateHostWaiting:
		m.coordinator.Send(multiplayer.CancelLobbyMsg{SessionID: m.sessionID, Code: m.lobbyCode})
	case OnlineStateInMatch, OnlineStateMatchEnded:
		m.coordinator.Send(multiplayer.LeaveMatchMsg{SessionID: m.sessionID, MatchID: m.matchID})
	}
	m.quitting = true
	return m, tea.Quit
}

func (m OnlineModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "H", "1":
		m.joinError = ""
		m.coordinator.Send(multiplayer.CreateLobbyMsg{
			SessionID: m.sessionID,
			Username:  m.username,
			Kind:      m.kind,
		})
		return m, nil
	case "j", "J", "2":
		m.state = OnlineStateJoinEnterCode
		m.joinCodeInput = ""
		m.joinError = ""
		return m, nil
	case "esc", "b":
		m.backToMenu = true
		return m, nil
	case "q":
		return m.quit()
	}

	return m, nil
}

func (m OnlineModel) handleHostWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.coordinator.Send(multiplayer.CancelLobbyMsg{
			SessionID: m.sessionID,
			Code:      m.lobbyCode,
		})
		m.lobbyCode = ""
		m.state = OnlineStateChooseMode
		return m, nil
	case "q":
		return m.quit()
	}

	return m, nil
}

func (m OnlineModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc":
		m.state = OnlineStateChooseMode
		return m, nil
	case "enter":
		if len(m.joinCodeInput) == joinCodeLen {
			m.state = OnlineStateJoinWaiting
			m.joinError = ""
			m.coordinator.Send(multiplayer.JoinLobbyMsg{
				SessionID: m.sessionID,
				Username:  m.username,
				Kind:      m.kind,
				Code:      m.joinCodeInput,
			})
		}
	case "backspace":
		if m.joinCodeInput != "" {
			m.joinCodeInput = m.joinCodeInput[:len(m.joinCodeInput)-1]
		}
	default:
		// Accept alphanumeric input for code
		if len(key) == 1 && len(m.joinCodeInput) < joinCodeLen {
			c := strings.ToUpper(key)
			if (c[0] >= 'A' && c[0] <= 'Z') || (c[0] >= '0' && c[0] <= '9') {
				m.joinCodeInput += c
			}
		}
	}

	return m, nil
}

func (m OnlineModel) handleJoinWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		// The join is either answered by now or will fail with an error
		// the code entry shows.
		m.state = OnlineStateJoinEnterCode
		return m, nil
	}
	return m, nil
}

// handleMatchKey forwards fight keys to the server. Esc forfeits; there is
// no pause in an online match.
func (m OnlineModel) handleMatchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.coordinator.Send(multiplayer.LeaveMatchMsg{SessionID: m.sessionID, MatchID: m.matchID})
		m.backToMenu = true
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		return m.quit()
	}

	switch action {
	case core.ActionLeft, core.ActionRight, core.ActionJump,
		core.ActionLight, core.ActionHeavy, core.ActionSpecial:
		m.coordinator.Send(multiplayer.PlayerInputMsg{
			MatchID: m.matchID,
			Side:    m.side,
			Actions: []core.Action{action},
		})
	}
	return m, nil
}

func (m OnlineModel) handleMatchEndedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r", "R":
		if !m.opponentLeft && !m.rematchSent {
			m.rematchSent = true
			m.coordinator.Send(multiplayer.ReadyForRematchMsg{SessionID: m.sessionID, MatchID: m.matchID})
		}
		return m, nil
	case "b", "B", "esc":
		m.coordinator.Send(multiplayer.LeaveMatchMsg{SessionID: m.sessionID, MatchID: m.matchID})
		m.backToMenu = true
		return m, nil
	case "q", "Q":
		return m.quit()
	}
	return m, nil
}

// View renders the current state.
func (m OnlineModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.viewChooseMode()
	case OnlineStateHostWaiting:
		return m.viewHostWaiting()
	case OnlineStateJoinEnterCode:
		return m.viewJoinEnterCode()
	case OnlineStateJoinWaiting:
		return m.viewJoinWaiting()
	case OnlineStateInMatch:
		return m.viewArena("")
	case OnlineStateMatchEnded:
		return m.viewMatchEnded()
	}
	return ""
}

func (m OnlineModel) viewChooseMode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("ONLINE BRAWL"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("Fighting as %s", accentStyle.Render(m.kind.Key())), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("[H] Host a match", m.width))
	b.WriteString("\n")
	b.WriteString(centerText("[J] Join a match", m.width))
	b.WriteString("\n")

	if m.joinError != "" {
		b.WriteString("\n")
		b.WriteString(centerText(errorStyle.Render(m.joinError), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(hintStyle.Render("Esc: Back  |  Q: Quit"), m.width))

	return b.String()
}

func (m OnlineModel) viewHostWaiting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("HOSTING MATCH"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Share this code with your opponent:", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(accentStyle.Render(fmt.Sprintf("[ %s ]", m.lobbyCode)), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Waiting for player to join...", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(hintStyle.Render("Esc: Cancel  |  Q: Quit"), m.width))

	return b.String()
}

func (m OnlineModel) viewJoinEnterCode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("JOIN MATCH"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Enter the match code:", m.width))
	b.WriteString("\n\n")

	codeDisplay := m.joinCodeInput
	if len(codeDisplay) < joinCodeLen {
		codeDisplay += "_" + strings.Repeat(" ", joinCodeLen-1-len(m.joinCodeInput))
	}
	b.WriteString(centerText(fmt.Sprintf("[ %s ]", codeDisplay), m.width))
	b.WriteString("\n")

	if m.joinError != "" {
		b.WriteString("\n")
		b.WriteString(centerText(errorStyle.Render("Error: "+m.joinError), m.width))
	}

	b.WriteString("\n\n")
	b.WriteString(centerText(hintStyle.Render("Enter: Connect  |  Esc: Back"), m.width))

	return b.String()
}

func (m OnlineModel) viewJoinWaiting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("CONNECTING"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("Joining match: %s", m.joinCodeInput), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Please wait...", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(hintStyle.Render("Esc: Cancel"), m.width))

	return b.String()
}

// viewArena draws the latest snapshot with an optional status line under it.
func (m OnlineModel) viewArena(status string) string {
	if m.view == nil {
		return ""
	}
	h := m.height
	if status != "" && h > helpMinHeight {
		h--
	}
	m.screen.Resize(m.width, h)
	m.view.Draw(m.screen, m.snap, false)

	out := RenderScreen(m.screen)
	if status != "" && h < m.height {
		out += "\n" + centerText(status, m.width)
	}
	return out
}

func (m OnlineModel) viewMatchEnded() string {
	if m.ended.Reason == multiplayer.MatchEndReasonCompleted {
		return m.viewArena(m.rematchStatus())
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("MATCH OVER"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.endText(), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("KOs  %d - %d", m.ended.KOs[0], m.ended.KOs[1]), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(hintStyle.Render("B: Back to menu  |  Q: Quit"), m.width))
	return b.String()
}

// endText explains an early end from this session's point of view.
func (m OnlineModel) endText() string {
	reason := m.ended.Reason.String()
	switch w := m.ended.Winner; {
	case w == m.side.Slot():
		return reason + " - you win"
	case w == 0 || w == 1:
		return fmt.Sprintf("%s - %s wins", reason, m.names[w])
	}
	return reason
}

func (m OnlineModel) rematchStatus() string {
	switch {
	case m.opponentLeft:
		return errorStyle.Render("Opponent left - no rematch")
	case m.rematchSent && m.opponentReady:
		return accentStyle.Render("Starting rematch...")
	case m.rematchSent:
		return hintStyle.Render("Waiting for opponent...")
	case m.opponentReady:
		return accentStyle.Render("Opponent wants a rematch! Press R")
	default:
		return ""
	}
}

// State returns the current online state.
func (m OnlineModel) State() OnlineState {
	return m.state
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineModel) IsQuitting() bool {
	return m.quitting
}

// MatchID returns the match ID if a match was started.
func (m OnlineModel) MatchID() multiplayer.MatchID {
	return m.matchID
}

// Side returns which side this session plays.
func (m OnlineModel) Side() multiplayer.Side {
	return m.side
}

// LobbyCode returns the lobby code.
func (m OnlineModel) LobbyCode() string {
	return m.lobbyCode
}
