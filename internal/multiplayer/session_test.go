package multiplayer

import (
	"testing"
	"time"

	"github.com/vovakirdan/tui-brawl/internal/games/brawl"
)

func TestChannelSessionSnapshotsLatestWins(t *testing.T) {
	s := NewChannelSession("s1", 4)

	for tick := 1; tick <= 5; tick++ {
		s.Send(SnapshotEvent{MatchID: "m", Snapshot: brawl.Snapshot{Tick: tick}})
	}

	evt, ok := s.Next()
	if !ok {
		t.Fatal("Next() reported a closed session")
	}
	snap, isSnap := evt.(SnapshotEvent)
	if !isSnap || snap.Snapshot.Tick != 5 {
		t.Fatalf("Next() = %#v, expected the tick 5 snapshot", evt)
	}
	select {
	case stale := <-s.snaps:
		t.Errorf("stale snapshot kept: tick %d", stale.Snapshot.Tick)
	default:
	}
}

func TestChannelSessionKeepsLifecycleEvents(t *testing.T) {
	s := NewChannelSession("s1", 1)

	codes := []string{"AAAAAA", "BBBBBB", "CCCCCC", "DDDDDD"}
	for _, code := range codes {
		s.Send(LobbyCreatedEvent{Code: code})
	}

	for _, want := range codes {
		evt, ok := s.Next()
		if !ok {
			t.Fatal("Next() reported a closed session")
		}
		if got := evt.(LobbyCreatedEvent).Code; got != want {
			t.Fatalf("got %s, expected %s in order", got, want)
		}
	}
}

func TestChannelSessionLifecycleFirst(t *testing.T) {
	s := NewChannelSession("s1", 4)
	s.Send(SnapshotEvent{MatchID: "m"})
	s.Send(MatchEndedEvent{MatchID: "m"})

	evt, _ := s.Next()
	if _, ok := evt.(MatchEndedEvent); !ok {
		t.Errorf("expected the end of match before the snapshot, got %T", evt)
	}
}

func TestChannelSessionClose(t *testing.T) {
	s := NewChannelSession("s1", 4)
	s.Close()
	s.Close() // Safe to repeat

	s.Send(LobbyErrorEvent{Message: "ignored"})

	done := make(chan bool)
	go func() {
		_, ok := s.Next()
		done <- ok
	}()
	select {
	case ok := <-done:
		if ok {
			t.Error("Next() on a closed session should report false")
		}
	case <-time.After(time.Second):
		t.Fatal("Next() blocked on a closed session")
	}
}

func TestSessionRegistry(t *testing.T) {
	r := NewSessionRegistry()
	a, b := NewChannelSession("a", 1), NewChannelSession("b", 1)
	r.Register(a)
	r.Register(b)

	if r.Count() != 2 {
		t.Fatalf("Count() = %d, expected 2", r.Count())
	}
	if got, ok := r.Get("a"); !ok || got.ID() != "a" {
		t.Errorf("Get(a) = %v, %v", got, ok)
	}

	r.Unregister("a")
	if _, ok := r.Get("a"); ok {
		t.Error("unregistered session still found")
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %d, expected 1", r.Count())
	}
}
