package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-brawl/internal/storage"
)

func newTestHistory(t *testing.T, width int, recs ...storage.MatchRecord) HistoryModel {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	for _, r := range recs {
		if _, err := store.SaveMatch(r); err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}
	return NewHistoryModel(store, width, 30)
}

func updateHistory(t *testing.T, m HistoryModel, msg tea.Msg) HistoryModel {
	t.Helper()
	next, _ := m.Update(msg)
	hm, ok := next.(HistoryModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return hm
}

func TestHistoryEmpty(t *testing.T) {
	m := newTestHistory(t, 100)
	if !strings.Contains(m.View(), "No matches recorded yet") {
		t.Error("empty history should say so")
	}
}

func TestHistoryRows(t *testing.T) {
	m := newTestHistory(t, 120,
		storage.MatchRecord{Mode: "brawl", Player: "mage", Opponent: "tank", Winner: 0, KOs: [2]int{3, 1}},
		storage.MatchRecord{Mode: "online", Player: "ninja", Opponent: "mage", Winner: 1,
			EndReason: "forfeit", Username: "alice", OpponentUser: "bob"},
	)

	rows := m.table.Rows()
	if len(rows) != 2 {
		t.Fatalf("recent view has %d rows, expected 2", len(rows))
	}
	if n := len(m.table.Columns()); n != 6 {
		t.Fatalf("wide table has %d columns, expected 6 with players", n)
	}

	var online []string
	for _, r := range rows {
		if r[1] == "online" {
			online = r
		}
	}
	if online == nil {
		t.Fatal("online match missing from the table")
	}
	if online[3] != "P2 wins*" || online[5] != "alice vs bob" {
		t.Errorf("online row = %v", online)
	}
}

func TestHistoryNarrowDropsPlayers(t *testing.T) {
	m := newTestHistory(t, 60, storage.MatchRecord{Mode: "brawl", Player: "mage", Opponent: "tank"})

	if n := len(m.table.Columns()); n != 5 {
		t.Errorf("narrow table has %d columns, expected 5", n)
	}
	for _, r := range m.table.Rows() {
		if len(r) != 5 {
			t.Errorf("row %v does not match the columns", r)
		}
	}
}

func TestHistorySwitchViews(t *testing.T) {
	m := newTestHistory(t, 100, storage.MatchRecord{Mode: "brawl", Player: "mage", Opponent: "tank", Winner: 0})

	m = updateHistory(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.view != HistoryCharacters {
		t.Fatalf("tab moved to %v", m.view)
	}
	if n := len(m.table.Rows()); n != 2 {
		t.Errorf("characters view has %d rows, expected mage and tank", n)
	}

	m = updateHistory(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.view != HistoryRecent {
		t.Errorf("tab should wrap to %v, got %v", HistoryRecent, m.view)
	}
	m = updateHistory(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.view != HistoryCharacters {
		t.Errorf("shift+tab should wrap to %v, got %v", HistoryCharacters, m.view)
	}

	m = updateHistory(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.IsGoingBack() || m.IsQuitting() {
		t.Error("esc should go back")
	}
}
