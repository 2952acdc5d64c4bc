package brawl

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-brawl/internal/config"
	"github.com/vovakirdan/tui-brawl/internal/core"
)

func newTestView(t *testing.T) (*View, *Match) {
	t.Helper()
	cfg := config.DefaultBrawlConfig()
	m := newTestMatch(t, Ninja, Tank)
	v := NewView("Brawl Online", [2]string{"alice", "bob"}, m.rules.Stage, cfg.Stage.View, 60)
	return v, m
}

func TestViewDrawsBareSnapshot(t *testing.T) {
	v, m := newTestView(t)

	scr := core.NewScreen(80, 24)
	v.Draw(scr, m.Step([2]Intent{}), false)
	out := scr.String()

	for _, want := range []string{"Brawl Online", "alice", "bob", "Ninja", "Tank"} {
		if !strings.Contains(out, want) {
			t.Errorf("view is missing %q:\n%s", want, out)
		}
	}
}

func TestViewFlashOnHit(t *testing.T) {
	v, _ := newTestView(t)

	v.Observe(Snapshot{Events: []Event{{Kind: EventHit, Slot: 1, Attacker: 0}}})
	if v.flash != flashFrames {
		t.Fatalf("flash = %d after a hit, expected %d", v.flash, flashFrames)
	}
	for range flashFrames {
		v.Observe(Snapshot{})
	}
	if v.flash != 0 {
		t.Errorf("flash should fade out, got %d", v.flash)
	}
}

func TestViewWinnerName(t *testing.T) {
	v, m := newTestView(t)
	snap := m.Snapshot()

	if got := v.WinnerName(snap); got != "Draw" {
		t.Errorf("running match winner = %q", got)
	}
	snap.Result = Result{Over: true, Winner: 1}
	if got := v.WinnerName(snap); got != "Tank (bob)" {
		t.Errorf("winner = %q, expected Tank (bob)", got)
	}
	snap.Result.Winner = NoWinner
	if got := v.WinnerName(snap); got != "Draw" {
		t.Errorf("draw = %q", got)
	}
}

func TestViewMatchOverFooter(t *testing.T) {
	v, m := newTestView(t)
	v.Footer = "B back to lobby"

	snap := m.Snapshot()
	snap.Result = Result{Over: true, Winner: 0}
	scr := core.NewScreen(80, 24)
	v.Draw(scr, snap, false)

	out := scr.String()
	if !strings.Contains(out, "WINS!") || !strings.Contains(out, "B back to lobby") {
		t.Errorf("match-over box missing:\n%s", out)
	}
}
