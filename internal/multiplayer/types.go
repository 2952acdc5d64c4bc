// Package multiplayer runs brawl matches between two SSH sessions.
// A Coordinator pairs sessions through join codes and hosts an authoritative
// OnlineMatch per pair; sessions only send key presses and draw the
// snapshots they get back.
package multiplayer

import (
	"github.com/vovakirdan/tui-brawl/internal/config"
	"github.com/vovakirdan/tui-brawl/internal/games/brawl"
)

// SessionID uniquely identifies a player's session (e.g., SSH connection).
type SessionID string

// MatchID uniquely identifies an online match.
type MatchID string

// Side is the match slot a session plays. The lobby host always fights in
// slot 0, the joiner in slot 1.
type Side int

const (
	SideHost  Side = 0
	SideGuest Side = 1
)

// Slot returns the brawl fighter slot of the side.
func (s Side) Slot() int {
	return int(s)
}

// Other returns the opposing side.
func (s Side) Other() Side {
	return 1 - s
}

// String returns a human-readable name for the side.
func (s Side) String() string {
	switch s {
	case SideHost:
		return "Host"
	case SideGuest:
		return "Guest"
	default:
		return "Unknown"
	}
}

// Player describes one participant as the lobby knows it.
type Player struct {
	Session  SessionHandle
	Username string
	Kind     brawl.Kind
}

// Arena is everything a fresh online match needs: the simulation and the
// stage framing clients draw it with.
type Arena struct {
	Match *brawl.Match
	Stage brawl.Stage
	Frame config.ViewConfig
}

// ArenaFactory builds the arena for a pair of characters.
type ArenaFactory func(kinds [2]brawl.Kind) (Arena, error)

// DefaultArenaFactory loads the brawl tuning the same way local games do.
// Config errors fall back to the defaults.
func DefaultArenaFactory(kinds [2]brawl.Kind) (Arena, error) {
	cfg, chars, _ := brawl.LoadTuning()
	rules := brawl.NewRules(cfg)
	return Arena{
		Match: brawl.NewMatch(rules, [2]*brawl.CharacterDef{chars.Get(kinds[0]), chars.Get(kinds[1])}),
		Stage: rules.Stage,
		Frame: cfg.Stage.View,
	}, nil
}
