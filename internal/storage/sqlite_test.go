package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-brawl/internal/multiplayer"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	rec := MatchRecord{
		Mode:     "brawl",
		Username: "alice",
		Player:   "ninja",
		Opponent: "tank",
		Winner:   0,
		Ticks:    3120,
		Stocks:   [2]int{2, 0},
		Damage:   [2]float64{211.5, 98},
		KOs:      [2]int{3, 1},
	}
	id, err := store.SaveMatch(rec)
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}

	got, err := store.MatchByID(id)
	if err != nil {
		t.Fatalf("MatchByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("MatchByID() returned nothing for a saved match")
	}

	rec.ID = id
	rec.CreatedAt = got.CreatedAt
	if *got != rec {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", *got, rec)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be filled in by the database")
	}
}

func TestStoreMatchByIDMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.MatchByID(42)
	if err != nil {
		t.Fatalf("MatchByID() failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for a missing match, got %+v", got)
	}
}

func TestStoreSaveMatchRejectsBadWinner(t *testing.T) {
	store := openTestStore(t)

	for _, w := range []int{-2, 2} {
		if _, err := store.SaveMatch(MatchRecord{Mode: "brawl", Player: "mage", Opponent: "tank", Winner: w}); err == nil {
			t.Errorf("SaveMatch() with winner %d should fail", w)
		}
	}
}

func TestStoreRecentMatches(t *testing.T) {
	store := openTestStore(t)

	for i := range 25 {
		_, err := store.SaveMatch(MatchRecord{Mode: "brawl", Player: "mage", Opponent: "tank", Winner: WinnerDraw, Ticks: i})
		if err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}

	recent, err := store.RecentMatches(10)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(recent) != 10 {
		t.Fatalf("expected 10 matches, got %d", len(recent))
	}
	if recent[0].Ticks != 24 {
		t.Errorf("newest match first: got ticks %d, expected 24", recent[0].Ticks)
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].ID >= recent[i-1].ID {
			t.Fatalf("matches out of order: %d before %d", recent[i-1].ID, recent[i].ID)
		}
	}

	all, err := store.RecentMatches(0)
	if err != nil {
		t.Fatalf("RecentMatches(0) failed: %v", err)
	}
	if len(all) != 20 {
		t.Errorf("default limit should be 20, got %d", len(all))
	}
}

func TestStoreCharacterStats(t *testing.T) {
	store := openTestStore(t)

	matches := []MatchRecord{
		{Player: "mage", Opponent: "tank", Winner: 0, Damage: [2]float64{100, 50}},
		{Player: "mage", Opponent: "tank", Winner: 1, Damage: [2]float64{60, 120}},
		{Player: "ninja", Opponent: "mage", Winner: WinnerDraw, Damage: [2]float64{80, 80}},
		{Player: "ninja", Opponent: "ninja", Winner: 0, Damage: [2]float64{90, 30}},
	}
	for _, m := range matches {
		m.Mode = "brawl"
		if _, err := store.SaveMatch(m); err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}

	stats, err := store.CharacterStats()
	if err != nil {
		t.Fatalf("CharacterStats() failed: %v", err)
	}

	want := []CharacterStats{
		{Character: "mage", Matches: 3, Wins: 1, Losses: 1, AvgDamage: 80},
		{Character: "ninja", Matches: 3, Wins: 1, Losses: 1, AvgDamage: 200.0 / 3},
		{Character: "tank", Matches: 2, Wins: 1, Losses: 1, AvgDamage: 85},
	}
	if len(stats) != len(want) {
		t.Fatalf("expected %d rows, got %+v", len(want), stats)
	}
	for i, w := range want {
		got := stats[i]
		if got.Character != w.Character || got.Matches != w.Matches || got.Wins != w.Wins || got.Losses != w.Losses {
			t.Errorf("row %d = %+v, expected %+v", i, got, w)
		}
		if diff := got.AvgDamage - w.AvgDamage; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("%s avg damage = %v, expected %v", w.Character, got.AvgDamage, w.AvgDamage)
		}
	}
	if d := stats[0].Draws(); d != 1 {
		t.Errorf("mage draws = %d, expected 1", d)
	}
}

func TestStoreClearHistory(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveMatch(MatchRecord{Mode: "brawl", Player: "tank", Opponent: "mage"}); err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	if err := store.ClearHistory(); err != nil {
		t.Fatalf("ClearHistory() failed: %v", err)
	}

	recent, err := store.RecentMatches(10)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("expected empty history, got %d matches", len(recent))
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.arcade/brawl.db")
	if err != nil {
		t.Fatalf("Open() with ~ failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".arcade", "brawl.db")); err != nil {
		t.Errorf("database not created under HOME: %v", err)
	}
}

func TestStoreSaveMatchResult(t *testing.T) {
	store := openTestStore(t)

	err := store.SaveMatchResult(multiplayer.MatchResultData{
		MatchID:   "match-ABCDEF-1",
		Code:      "ABCDEF",
		Usernames: [2]string{"alice", "bob"},
		Kinds:     [2]string{"ninja", "mage"},
		Winner:    1,
		EndReason: multiplayer.MatchEndReasonForfeit.String(),
		Ticks:     900,
		Stocks:    [2]int{3, 2},
		Damage:    [2]float64{12, 40},
		KOs:       [2]int{1, 0},
	})
	if err != nil {
		t.Fatalf("SaveMatchResult() failed: %v", err)
	}

	recent, err := store.RecentMatches(1)
	if err != nil || len(recent) != 1 {
		t.Fatalf("RecentMatches() = %v, %v", recent, err)
	}
	got := recent[0]
	if got.Mode != ModeOnline || got.Username != "alice" || got.OpponentUser != "bob" {
		t.Errorf("players = %+v", got)
	}
	if got.Player != "ninja" || got.Opponent != "mage" || got.Winner != 1 {
		t.Errorf("outcome = %+v", got)
	}
	if got.EndReason != "Opponent forfeited" {
		t.Errorf("end reason = %q", got.EndReason)
	}
}

func TestStoreSaveMatchResultCompleted(t *testing.T) {
	store := openTestStore(t)

	err := store.SaveMatchResult(multiplayer.MatchResultData{
		Kinds:     [2]string{"tank", "tank"},
		Winner:    WinnerDraw,
		EndReason: multiplayer.MatchEndReasonCompleted.String(),
	})
	if err != nil {
		t.Fatalf("SaveMatchResult() failed: %v", err)
	}
	recent, _ := store.RecentMatches(1)
	if len(recent) != 1 || recent[0].EndReason != "" {
		t.Errorf("a normal finish should store no end reason, got %+v", recent)
	}
}
