package brawl

import "github.com/vovakirdan/tui-brawl/internal/core"

// Facing is the direction a fighter looks in.
type Facing int

const (
	FacingRight Facing = 1
	FacingLeft  Facing = -1
)

// Sign returns +1 for right and -1 for left.
func (f Facing) Sign() float64 {
	if f == FacingLeft {
		return -1
	}
	return 1
}

func (f Facing) String() string {
	if f == FacingLeft {
		return "left"
	}
	return "right"
}

// Fighter is the full per-fighter state. The match owns both fighters and
// hands out copies.
type Fighter struct {
	Slot    int
	Def     *CharacterDef
	Pos     core.Vec // Feet: bottom-center of the hurtbox
	Vel     core.Vec
	Percent float64
	Stocks  int
	Facing  Facing
	Action  ActionState

	ActionTimer   int // Frames left in a timed state
	AttackElapsed int // Frames since the current attack started
	Cooldowns     [moveCount]int
	Grounded      bool
	LastHitBy     int // ID of the hitbox that landed last, 0 for none
}

// NewFighter places a fighter of def at a spawn point, facing the stage center.
func NewFighter(slot int, def *CharacterDef, spawn core.Vec, facing Facing, stocks int) Fighter {
	return Fighter{
		Slot:     slot,
		Def:      def,
		Pos:      spawn,
		Stocks:   stocks,
		Facing:   facing,
		Action:   Idle,
		Grounded: false,
	}
}

// Hurtbox returns the region that can be hit.
func (f Fighter) Hurtbox() core.Box {
	w, h := f.Def.Width, f.Def.Height
	return core.BoxAt(f.Pos.X-w/2, f.Pos.Y-h, w, h)
}

// Center returns the middle of the hurtbox.
func (f Fighter) Center() core.Vec {
	return core.V(f.Pos.X, f.Pos.Y-f.Def.Height/2)
}

// Alive reports whether the fighter still has stocks.
func (f Fighter) Alive() bool {
	return f.Action != Dead
}

// Ready reports whether move m is off cooldown.
func (f Fighter) Ready(m Move) bool {
	return f.Cooldowns[m] == 0
}

// CanAttack reports whether m would start if pressed now.
func (f Fighter) CanAttack(m Move) bool {
	return f.Action.AllowsAttack() && f.Ready(m)
}

// CanJump reports whether a jump would start if pressed now.
func (f Fighter) CanJump() bool {
	return f.Action.AllowsJump() && f.Grounded
}
