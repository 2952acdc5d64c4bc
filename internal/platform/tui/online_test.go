package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-brawl/internal/config"
	"github.com/vovakirdan/tui-brawl/internal/core"
	"github.com/vovakirdan/tui-brawl/internal/games/brawl"
	"github.com/vovakirdan/tui-brawl/internal/multiplayer"
)

// recordingCoordinator keeps every message the lobby sends.
type recordingCoordinator struct {
	sent []multiplayer.CoordinatorMessage
}

func (c *recordingCoordinator) Send(msg multiplayer.CoordinatorMessage) {
	c.sent = append(c.sent, msg)
}

func (c *recordingCoordinator) last(t *testing.T) multiplayer.CoordinatorMessage {
	t.Helper()
	if len(c.sent) == 0 {
		t.Fatal("nothing was sent to the coordinator")
	}
	return c.sent[len(c.sent)-1]
}

func newTestOnline(t *testing.T) (OnlineModel, *recordingCoordinator) {
	t.Helper()
	coord := &recordingCoordinator{}
	cfg := core.RuntimeConfig{ScreenW: 100, ScreenH: 30, TickRate: 60}
	return NewOnlineModel("s1", "alice", brawl.Ninja, coord, cfg), coord
}

// send runs msg through Update and returns the resulting model.
func send(t *testing.T, m OnlineModel, msg tea.Msg) OnlineModel {
	t.Helper()
	next, _ := m.Update(msg)
	om, ok := next.(OnlineModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return om
}

func typeText(t *testing.T, m OnlineModel, s string) OnlineModel {
	t.Helper()
	for _, r := range s {
		m = send(t, m, runeKey(r))
	}
	return m
}

func testMatchStart(side multiplayer.Side) (multiplayer.MatchStartedEvent, *brawl.Match) {
	cfg := config.DefaultBrawlConfig()
	chars, _ := brawl.NewCharacters(cfg)
	rules := brawl.NewRules(cfg)
	match := brawl.NewMatch(rules, [2]*brawl.CharacterDef{chars.Get(brawl.Ninja), chars.Get(brawl.Tank)})
	return multiplayer.MatchStartedEvent{
		MatchID: "m1",
		Code:    "ABCDEF",
		Side:    side,
		Names:   [2]string{"alice", "bob"},
		Kinds:   [2]brawl.Kind{brawl.Ninja, brawl.Tank},
		Stage:   rules.Stage,
		Frame:   cfg.Stage.View,
	}, match
}

func TestOnlineHostFlow(t *testing.T) {
	m, coord := newTestOnline(t)

	m = send(t, m, runeKey('h'))
	create, ok := coord.last(t).(multiplayer.CreateLobbyMsg)
	if !ok {
		t.Fatalf("expected CreateLobbyMsg, got %T", coord.last(t))
	}
	if create.Username != "alice" || create.Kind != brawl.Ninja || create.SessionID != "s1" {
		t.Errorf("unexpected create message %+v", create)
	}

	m = send(t, m, multiplayer.LobbyCreatedEvent{Code: "QWERTY"})
	if m.State() != OnlineStateHostWaiting || m.LobbyCode() != "QWERTY" {
		t.Fatalf("state = %v code = %q after lobby created", m.State(), m.LobbyCode())
	}
	if !strings.Contains(m.View(), "QWERTY") {
		t.Error("host view should show the lobby code")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := coord.last(t).(multiplayer.CancelLobbyMsg); !ok {
		t.Fatalf("expected CancelLobbyMsg, got %T", coord.last(t))
	}
	if m.State() != OnlineStateChooseMode || m.BackToMenu() {
		t.Errorf("cancel should return to host/join choice, state = %v", m.State())
	}
}

func TestOnlineJoinFlow(t *testing.T) {
	m, coord := newTestOnline(t)

	m = send(t, m, runeKey('j'))
	if m.State() != OnlineStateJoinEnterCode {
		t.Fatalf("state = %v after j", m.State())
	}

	// Too short: enter does nothing.
	m = typeText(t, m, "ab1")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(coord.sent) != 0 {
		t.Fatalf("short code was sent: %+v", coord.sent)
	}

	m = typeText(t, m, "c2d9") // 9 is dropped, the code is full
	m = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m = typeText(t, m, "e")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	join, ok := coord.last(t).(multiplayer.JoinLobbyMsg)
	if !ok {
		t.Fatalf("expected JoinLobbyMsg, got %T", coord.last(t))
	}
	if join.Code != "AB1C2E" || join.Kind != brawl.Ninja {
		t.Errorf("unexpected join message %+v", join)
	}
	if m.State() != OnlineStateJoinWaiting {
		t.Fatalf("state = %v after enter", m.State())
	}

	m = send(t, m, multiplayer.LobbyErrorEvent{Message: "Lobby not found"})
	if m.State() != OnlineStateJoinEnterCode {
		t.Errorf("error should return to code entry, state = %v", m.State())
	}
	if !strings.Contains(m.View(), "Lobby not found") {
		t.Error("code entry should show the error")
	}
}

func TestOnlineMatchInput(t *testing.T) {
	m, coord := newTestOnline(t)
	start, match := testMatchStart(multiplayer.SideGuest)

	m = send(t, m, start)
	if m.State() != OnlineStateInMatch || m.Side() != multiplayer.SideGuest {
		t.Fatalf("state = %v side = %v after start", m.State(), m.Side())
	}

	m = send(t, m, multiplayer.SnapshotEvent{MatchID: "m1", Snapshot: match.Step([2]brawl.Intent{})})
	if out := m.View(); !strings.Contains(out, "bob") || !strings.Contains(out, "(you)") {
		t.Errorf("arena view should label both players:\n%s", out)
	}

	m = send(t, m, runeKey('x'))
	in, ok := coord.last(t).(multiplayer.PlayerInputMsg)
	if !ok {
		t.Fatalf("expected PlayerInputMsg, got %T", coord.last(t))
	}
	if in.Side != multiplayer.SideGuest || in.MatchID != "m1" ||
		len(in.Actions) != 1 || in.Actions[0] != core.ActionHeavy {
		t.Errorf("unexpected input message %+v", in)
	}

	// Pause and rematch keys are not forwarded.
	n := len(coord.sent)
	m = send(t, m, runeKey('p'))
	m = send(t, m, runeKey('r'))
	if len(coord.sent) != n {
		t.Errorf("non-fight keys reached the coordinator: %+v", coord.sent[n:])
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := coord.last(t).(multiplayer.LeaveMatchMsg); !ok {
		t.Fatalf("esc should forfeit, got %T", coord.last(t))
	}
	if !m.BackToMenu() {
		t.Error("forfeit should go back to the menu")
	}
}

func TestOnlineIgnoresOtherMatches(t *testing.T) {
	m, _ := newTestOnline(t)
	start, match := testMatchStart(multiplayer.SideHost)
	m = send(t, m, start)

	snap := match.Step([2]brawl.Intent{})
	m = send(t, m, multiplayer.SnapshotEvent{MatchID: "other", Snapshot: snap})
	if m.snap.Tick != 0 {
		t.Errorf("snapshot of another match was kept")
	}
	m = send(t, m, multiplayer.MatchEndedEvent{MatchID: "other"})
	if m.State() != OnlineStateInMatch {
		t.Errorf("end of another match changed state to %v", m.State())
	}
}

func TestOnlineRematch(t *testing.T) {
	m, coord := newTestOnline(t)
	start, _ := testMatchStart(multiplayer.SideHost)
	m = send(t, m, start)

	m = send(t, m, multiplayer.MatchEndedEvent{MatchID: "m1", Reason: multiplayer.MatchEndReasonCompleted, Winner: 0})
	if m.State() != OnlineStateMatchEnded {
		t.Fatalf("state = %v after match end", m.State())
	}

	m = send(t, m, multiplayer.RematchStatusEvent{MatchID: "m1", OpponentReady: true})
	if !strings.Contains(m.View(), "Press R") {
		t.Error("view should prompt for the rematch the opponent asked for")
	}

	m = send(t, m, runeKey('r'))
	m = send(t, m, runeKey('r'))
	ready := 0
	for _, msg := range coord.sent {
		if _, ok := msg.(multiplayer.ReadyForRematchMsg); ok {
			ready++
		}
	}
	if ready != 1 {
		t.Errorf("sent %d rematch requests, expected 1", ready)
	}

	next := start
	next.MatchID = "m2"
	m = send(t, m, next)
	if m.State() != OnlineStateInMatch || m.MatchID() != "m2" {
		t.Errorf("rematch should start m2, state = %v match = %v", m.State(), m.MatchID())
	}
}

func TestOnlineEarlyEnd(t *testing.T) {
	m, coord := newTestOnline(t)
	start, _ := testMatchStart(multiplayer.SideGuest)
	m = send(t, m, start)

	m = send(t, m, multiplayer.MatchEndedEvent{MatchID: "m1", Reason: multiplayer.MatchEndReasonDisconnect, Winner: 1})
	out := m.View()
	if !strings.Contains(out, "Opponent disconnected") || !strings.Contains(out, "you win") {
		t.Errorf("early end view:\n%s", out)
	}

	n := len(coord.sent)
	m = send(t, m, runeKey('r'))
	if len(coord.sent) != n {
		t.Error("no rematch is possible after a disconnect")
	}

	m = send(t, m, runeKey('b'))
	if !m.BackToMenu() {
		t.Error("b should go back to the menu")
	}
}

func TestOnlineQuitLeavesMatch(t *testing.T) {
	m, coord := newTestOnline(t)
	start, _ := testMatchStart(multiplayer.SideHost)
	m = send(t, m, start)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !next.(OnlineModel).IsQuitting() || cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := coord.last(t).(multiplayer.LeaveMatchMsg); !ok {
		t.Errorf("quitting mid-match should leave it, got %T", coord.last(t))
	}
}
