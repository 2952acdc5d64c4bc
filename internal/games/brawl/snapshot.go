package brawl

import "github.com/vovakirdan/tui-brawl/internal/core"

// EventKind tags a match Event.
type EventKind int

const (
	EventHit EventKind = iota
	EventKO
	EventMatchOver
	EventSpecial
)

func (k EventKind) String() string {
	switch k {
	case EventHit:
		return "hit"
	case EventKO:
		return "ko"
	case EventMatchOver:
		return "match-over"
	case EventSpecial:
		return "special"
	default:
		return "unknown"
	}
}

// Event is something that happened during one tick.
type Event struct {
	Kind     EventKind
	Slot     int     // Fighter the event happened to (defender, KO'd fighter, winner)
	Attacker int     // EventHit only
	Damage   float64 // EventHit only
	HitboxID int     // EventHit only
	Effect   EffectKind
}

// NoWinner is Result.Winner while the match runs and after a draw.
const NoWinner = -1

// Result is the match-over signal.
type Result struct {
	Over   bool
	Winner int // Slot of the winner, NoWinner for a draw
}

// FighterView is the read-only part of a fighter a renderer needs.
type FighterView struct {
	Slot      int
	Kind      Kind
	Name      string
	Pos       core.Vec
	Vel       core.Vec
	Box       core.Box
	Facing    Facing
	Action    ActionState
	Percent   float64
	Stocks    int
	Cooldowns [moveCount]int
	Grounded  bool
}

// Snapshot is the state of the match after a tick. It shares nothing with
// the match, so holding on to it is safe.
type Snapshot struct {
	Tick        int
	Fighters    [2]FighterView
	Hitboxes    []Hitbox
	Projectiles []Projectile
	Events      []Event
	Result      Result
}

func viewOf(f Fighter) FighterView {
	return FighterView{
		Slot:      f.Slot,
		Kind:      f.Def.Kind,
		Name:      f.Def.Name,
		Pos:       f.Pos,
		Vel:       f.Vel,
		Box:       f.Hurtbox(),
		Facing:    f.Facing,
		Action:    f.Action,
		Percent:   f.Percent,
		Stocks:    f.Stocks,
		Cooldowns: f.Cooldowns,
		Grounded:  f.Grounded,
	}
}

// Snapshot captures the current state of the match.
func (m *Match) Snapshot() Snapshot {
	s := Snapshot{
		Tick:        m.tick,
		Hitboxes:    append([]Hitbox(nil), m.hitboxes...),
		Projectiles: append([]Projectile(nil), m.projectiles...),
		Events:      append([]Event(nil), m.events...),
		Result:      m.result,
	}
	for i, f := range m.fighters {
		s.Fighters[i] = viewOf(f)
	}
	return s
}

// HitsOn counts the hit events landed on slot in this snapshot.
func (s Snapshot) HitsOn(slot int) int {
	n := 0
	for _, e := range s.Events {
		if e.Kind == EventHit && e.Slot == slot {
			n++
		}
	}
	return n
}
