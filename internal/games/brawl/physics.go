package brawl

import (
	"math"

	"github.com/vovakirdan/tui-brawl/internal/config"
	"github.com/vovakirdan/tui-brawl/internal/core"
)

// BlastZone bounds the arena. Anything outside it is KO'd.
type BlastZone struct {
	Left, Right, Bottom float64
}

// Outside reports whether p has left the arena.
func (b BlastZone) Outside(p core.Vec) bool {
	return p.X < b.Left || p.X > b.Right || p.Y > b.Bottom
}

// Platform is a one-way ledge: fighters fall through it from below and land
// on it from above.
type Platform struct {
	X, Y, W float64
}

func (p Platform) under(x float64) bool {
	return x >= p.X && x <= p.X+p.W
}

// Stage is the arena geometry.
type Stage struct {
	GroundY    float64
	FloorLeft  float64
	FloorRight float64
	Platforms  []Platform
	Blast      BlastZone
	Respawn    core.Vec
	Spawns     [2]core.Vec
}

// NewStage converts the stage config.
func NewStage(sc config.StageConfig) Stage {
	st := Stage{
		GroundY:    sc.GroundY,
		FloorLeft:  sc.FloorLeft,
		FloorRight: sc.FloorRight,
		Blast:      BlastZone{Left: sc.Blast.Left, Right: sc.Blast.Right, Bottom: sc.Blast.Bottom},
		Respawn:    core.V(sc.Respawn.X, sc.Respawn.Y),
	}
	for _, p := range sc.Platforms {
		st.Platforms = append(st.Platforms, Platform{X: p.X, Y: p.Y, W: p.W})
	}
	for i := range st.Spawns {
		if i < len(sc.Spawns) {
			st.Spawns[i] = core.V(sc.Spawns[i].X, sc.Spawns[i].Y)
		}
	}
	return st
}

// OverFloor reports whether x is above the main floor.
func (s Stage) OverFloor(x float64) bool {
	return x >= s.FloorLeft && x <= s.FloorRight
}

// supports reports whether p stands exactly on the floor or a platform.
func (s Stage) supports(p core.Vec) bool {
	if p.Y == s.GroundY && s.OverFloor(p.X) {
		return true
	}
	for _, pl := range s.Platforms {
		if p.Y == pl.Y && pl.under(p.X) {
			return true
		}
	}
	return false
}

// landing returns the highest surface crossed while moving from prevY to y
// at horizontal position x.
func (s Stage) landing(x, prevY, y float64) (float64, bool) {
	best, found := math.Inf(1), false
	if s.OverFloor(x) && prevY <= s.GroundY && y >= s.GroundY {
		best, found = s.GroundY, true
	}
	for _, p := range s.Platforms {
		if p.under(x) && prevY <= p.Y && y >= p.Y && p.Y < best {
			best, found = p.Y, true
		}
	}
	return best, found
}

// PhysicsTuning holds the integration constants.
type PhysicsTuning struct {
	Gravity         float64
	MaxFallSpeed    float64
	DT              float64
	HitstunFriction float64
}

func physicsTuning(pc config.PhysicsConfig) PhysicsTuning {
	return PhysicsTuning{
		Gravity:         pc.Gravity,
		MaxFallSpeed:    pc.MaxFallSpeed,
		DT:              pc.TickDT,
		HitstunFriction: pc.HitstunFriction,
	}
}

// jumpFrames is the airtime of a full jump, used as the Jumping duration.
func (t PhysicsTuning) jumpFrames(jumpVelocity float64) int {
	if t.Gravity <= 0 {
		return 1
	}
	return int(math.Ceil(2 * jumpVelocity / (t.Gravity * t.DT)))
}

// Integrate advances f by one tick of gravity and motion, resolves landings
// and the blast zone. It reports whether f was KO'd this tick.
//
// The blast zone is checked before and after moving, so a fighter placed
// past a boundary (by a teleport, say) is KO'd whatever its velocity.
func Integrate(f Fighter, s Stage, t PhysicsTuning) (Fighter, bool) {
	if !f.Alive() {
		return f, false
	}
	if s.Blast.Outside(f.Pos) {
		return knockOut(f, s), true
	}

	f.Vel.Y = math.Min(f.Vel.Y+t.Gravity*t.DT, t.MaxFallSpeed)

	prevY := f.Pos.Y
	f.Pos = f.Pos.Add(f.Vel.Scale(t.DT))

	f.Grounded = false
	if f.Vel.Y >= 0 {
		if y, ok := s.landing(f.Pos.X, prevY, f.Pos.Y); ok {
			f.Pos.Y = y
			f.Vel.Y = 0
			f.Grounded = true
			if f.Action == Jumping {
				f.enter(Idle, 0)
			}
		}
	}
	if f.Grounded && f.Action == Hitstun {
		f.Vel.X *= t.HitstunFriction
	}

	if s.Blast.Outside(f.Pos) {
		return knockOut(f, s), true
	}
	return f, false
}

// knockOut takes a stock. The last stock leaves the fighter Dead in place;
// otherwise it respawns at the stage's respawn point at rest.
func knockOut(f Fighter, s Stage) Fighter {
	f.Stocks--
	f.Percent = 0
	f.Vel = core.Vec{}
	f.LastHitBy = 0
	f.Grounded = false

	if f.Stocks <= 0 {
		f.Stocks = 0
		f.Action = Dead
		f.ActionTimer = 0
		f.AttackElapsed = 0
		return f
	}

	f.Pos = s.Respawn
	f.enter(Idle, 0)
	return f
}
