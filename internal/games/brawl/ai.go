package brawl

import (
	"math"

	"github.com/vovakirdan/tui-brawl/internal/config"
)

// Command is the single action the CPU picks each tick.
type Command int

const (
	CmdIdle Command = iota
	CmdMoveLeft
	CmdMoveRight
	CmdJump
	CmdLight
	CmdHeavy
	CmdSpecial
)

func (c Command) String() string {
	switch c {
	case CmdMoveLeft:
		return "move-left"
	case CmdMoveRight:
		return "move-right"
	case CmdJump:
		return "jump"
	case CmdLight:
		return "light"
	case CmdHeavy:
		return "heavy"
	case CmdSpecial:
		return "special"
	default:
		return "idle"
	}
}

// Intent converts the command to the per-tick input the match consumes.
func (c Command) Intent() Intent {
	switch c {
	case CmdMoveLeft:
		return Intent{Move: -1}
	case CmdMoveRight:
		return Intent{Move: 1}
	case CmdJump:
		return Intent{Jump: true}
	case CmdLight:
		return Intent{Light: true}
	case CmdHeavy:
		return Intent{Heavy: true}
	case CmdSpecial:
		return Intent{Special: true}
	default:
		return Intent{}
	}
}

// AITuning are the thresholds the CPU policy compares against.
type AITuning struct {
	PreferredRange  float64 // Horizontal distance the CPU attacks from
	JumpThreshold   float64 // Jump when the opponent is higher than this
	EdgeMargin      float64 // Never walk closer than this to a floor edge
	ProjectileRange float64 // Max distance for firing a projectile
	FinishPercent   float64 // Prefer heavy once the opponent is this damaged
	UseSpecial      bool
	FloorLeft       float64
	FloorRight      float64
}

// NewAITuning derives the CPU thresholds for a difficulty level in [0, 1].
func NewAITuning(ac config.AIConfig, s Stage, level float64) AITuning {
	return AITuning{
		PreferredRange:  ac.PreferredRange,
		JumpThreshold:   ac.JumpThreshold,
		EdgeMargin:      ac.EdgeMargin,
		ProjectileRange: ac.ProjectileRange,
		FinishPercent:   config.Lerp(ac.FinishPercentEasy, ac.FinishPercentHard, level),
		UseSpecial:      level >= ac.SpecialLevel,
		FloorLeft:       s.FloorLeft,
		FloorRight:      s.FloorRight,
	}
}

// Decide is the CPU policy. It is a pure function of the two fighters and
// the tuning: no memory, no randomness, no look-ahead.
//
// Rules, first match wins:
//  1. cannot act (hitstun, dead, or nothing left to fight): idle
//  2. off the stage: head back toward the floor
//  3. opponent above by more than the jump threshold: jump
//  4. out of range: fire or blink if the special covers the gap, else approach
//  5. in range but facing away, and not overlapping: turn
//  6. in range: heavy to finish, otherwise light, heavy, special by readiness
func Decide(self, opp Fighter, t AITuning) Command {
	if !self.Alive() || !opp.Alive() || self.Action == Hitstun {
		return CmdIdle
	}

	if !self.Grounded && (self.Pos.X < t.FloorLeft || self.Pos.X > t.FloorRight) {
		return toward(self.Pos.X, (t.FloorLeft+t.FloorRight)/2)
	}

	dx := opp.Pos.X - self.Pos.X
	above := self.Pos.Y - opp.Pos.Y
	dist := math.Abs(dx)

	if above > t.JumpThreshold && self.CanJump() {
		return CmdJump
	}

	if dist > t.PreferredRange {
		if t.UseSpecial && facingToward(self, dx) && self.CanAttack(MoveSpecial) && specialCovers(self, dist, t) {
			return CmdSpecial
		}
		return approach(self, dx, t)
	}

	// Swings start at the body center, so an opponent overlapping it can be
	// hit either way; turning around would only step past it.
	if !facingToward(self, dx) && dist >= opp.Def.Width/2 {
		return toward(self.Pos.X, opp.Pos.X)
	}

	if !self.Action.AllowsAttack() {
		return CmdIdle
	}
	if opp.Percent >= t.FinishPercent && self.Ready(MoveHeavy) {
		return CmdHeavy
	}
	switch {
	case self.Ready(MoveLight):
		return CmdLight
	case self.Ready(MoveHeavy):
		return CmdHeavy
	case t.UseSpecial && self.Ready(MoveSpecial):
		return CmdSpecial
	}
	return CmdIdle
}

// specialCovers reports whether the special reaches an opponent dist away.
func specialCovers(self Fighter, dist float64, t AITuning) bool {
	def := self.Def
	switch def.Special {
	case SpecialProjectile:
		return dist <= t.ProjectileRange
	case SpecialTeleport:
		return dist >= def.TeleportDistance && dist <= def.TeleportDistance+t.PreferredRange
	default:
		return false
	}
}

func facingToward(self Fighter, dx float64) bool {
	return dx == 0 || (dx > 0) == (self.Facing == FacingRight)
}

// approach walks toward the opponent unless that would step past the edge
// margin of the floor.
func approach(self Fighter, dx float64, t AITuning) Command {
	if dx == 0 {
		return CmdIdle
	}
	dir := 1.0
	if dx < 0 {
		dir = -1
	}
	next := self.Pos.X + dir*self.Def.MaxSpeed
	if (dir < 0 && next < t.FloorLeft+t.EdgeMargin) || (dir > 0 && next > t.FloorRight-t.EdgeMargin) {
		return CmdIdle
	}
	if dir < 0 {
		return CmdMoveLeft
	}
	return CmdMoveRight
}

func toward(x, target float64) Command {
	if target < x {
		return CmdMoveLeft
	}
	return CmdMoveRight
}
