package multiplayer

import (
	"testing"

	"github.com/vovakirdan/tui-brawl/internal/config"
	"github.com/vovakirdan/tui-brawl/internal/core"
	"github.com/vovakirdan/tui-brawl/internal/games/brawl"
)

// testArenas builds arenas from the built-in tuning so tests never read
// config files.
func testArenas(kinds [2]brawl.Kind) (Arena, error) {
	cfg := config.DefaultBrawlConfig()
	chars, err := brawl.NewCharacters(cfg)
	if err != nil {
		return Arena{}, err
	}
	rules := brawl.NewRules(cfg)
	return Arena{
		Match: brawl.NewMatch(rules, [2]*brawl.CharacterDef{chars.Get(kinds[0]), chars.Get(kinds[1])}),
		Stage: rules.Stage,
		Frame: cfg.Stage.View,
	}, nil
}

func newTestOnlineMatch(t *testing.T) (*OnlineMatch, [2]*ChannelSession) {
	t.Helper()
	arena, err := testArenas([2]brawl.Kind{brawl.Mage, brawl.Tank})
	if err != nil {
		t.Fatalf("testArenas() failed: %v", err)
	}
	sessions := [2]*ChannelSession{NewChannelSession("host", 8), NewChannelSession("guest", 8)}
	players := [2]Player{
		{Session: sessions[0], Username: "alice", Kind: brawl.Mage},
		{Session: sessions[1], Username: "bob", Kind: brawl.Tank},
	}
	return NewOnlineMatch("m1", "ABCDEF", arena, players, 60), sessions
}

func TestOnlineMatchBroadcastsSnapshots(t *testing.T) {
	m, sessions := newTestOnlineMatch(t)

	if _, over := m.runTick(); over {
		t.Fatal("fresh match ended after one tick")
	}
	for _, s := range sessions {
		select {
		case evt := <-s.snaps:
			if evt.MatchID != "m1" || evt.Snapshot.Tick != 1 {
				t.Errorf("%s got %+v", s.ID(), evt)
			}
		default:
			t.Errorf("%s got no snapshot", s.ID())
		}
	}
}

func TestOnlineMatchHeldInput(t *testing.T) {
	m, _ := newTestOnlineMatch(t)
	start := m.arena.Match.Fighter(1).Pos.X

	m.SendInput(PlayerInputMsg{MatchID: "m1", Side: SideGuest, Actions: []core.Action{core.ActionLeft}})
	m.runTick()
	first := m.arena.Match.Fighter(1).Pos.X
	if first >= start {
		t.Fatalf("guest pressing left: x %v -> %v", start, first)
	}

	// No key-up arrives over the wire; the press keeps the fighter moving
	m.runTick()
	if second := m.arena.Match.Fighter(1).Pos.X; second >= first {
		t.Errorf("held key stopped after one tick: x %v -> %v", first, second)
	}
	if host := m.arena.Match.Fighter(0).Pos.X; host != m.arena.Stage.Spawns[0].X {
		t.Errorf("host moved without input: x = %v", host)
	}
}

func TestOnlineMatchIgnoresBadSide(t *testing.T) {
	m, _ := newTestOnlineMatch(t)
	m.SendInput(PlayerInputMsg{MatchID: "m1", Side: Side(5), Actions: []core.Action{core.ActionJump}})
	m.runTick() // Must not panic
}

func TestOnlineMatchForfeit(t *testing.T) {
	m, sessions := newTestOnlineMatch(t)

	r := m.forfeit(sessions[0].ID(), MatchEndReasonForfeit)
	if r.Winner != SideGuest.Slot() || r.Reason != MatchEndReasonForfeit {
		t.Errorf("host forfeit = %+v, expected the guest to win", r)
	}
	r = m.forfeit(sessions[1].ID(), MatchEndReasonDisconnect)
	if r.Winner != SideHost.Slot() {
		t.Errorf("guest disconnect winner = %d, expected the host", r.Winner)
	}
	if r.Stocks[0] == 0 || r.Stocks[1] == 0 {
		t.Errorf("result should carry the remaining stocks, got %v", r.Stocks)
	}
}

func TestOnlineMatchStartEvent(t *testing.T) {
	m, _ := newTestOnlineMatch(t)

	evt := m.StartEvent(SideGuest)
	if evt.Side != SideGuest || evt.Code != "ABCDEF" || evt.MatchID != "m1" {
		t.Errorf("StartEvent() = %+v", evt)
	}
	if evt.Names != [2]string{"alice", "bob"} || evt.Kinds != [2]brawl.Kind{brawl.Mage, brawl.Tank} {
		t.Errorf("players = %v %v", evt.Names, evt.Kinds)
	}
	if evt.Frame.Right <= evt.Frame.Left {
		t.Errorf("frame = %+v", evt.Frame)
	}
}

func TestDefaultArenaFactory(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	arena, err := DefaultArenaFactory([2]brawl.Kind{brawl.Ninja, brawl.Ninja})
	if err != nil {
		t.Fatalf("DefaultArenaFactory() failed: %v", err)
	}
	f := arena.Match.Fighters()
	if f[0].Def.Kind != brawl.Ninja || f[1].Def.Kind != brawl.Ninja {
		t.Errorf("fighters = %s, %s", f[0].Def.Kind, f[1].Def.Kind)
	}
	if arena.Stage.GroundY == 0 {
		t.Error("arena has no stage")
	}
}

func TestSide(t *testing.T) {
	if SideHost.Other() != SideGuest || SideGuest.Other() != SideHost {
		t.Error("Other() should swap sides")
	}
	if SideHost.String() != "Host" || Side(9).String() != "Unknown" {
		t.Error("unexpected side names")
	}
}
