package brawl

import "github.com/vovakirdan/tui-brawl/internal/core"

// Projectile is a free-flying hitbox fired by a projectile special.
// It ignores gravity and platforms.
type Projectile struct {
	ID        int
	Owner     int
	Pos       core.Vec // Center
	Vel       core.Vec
	Size      float64
	Remaining int // Lifetime in ticks
	Damage    float64
	Knockback core.Vec
}

// newProjectile fires def's projectile from f's leading edge.
func newProjectile(id int, f Fighter) Projectile {
	md := f.Def.Move(MoveSpecial)
	pd := f.Def.Projectile
	dir := f.Facing.Sign()

	kb := md.Knockback
	kb.X *= dir

	c := f.Center()
	return Projectile{
		ID:        id,
		Owner:     f.Slot,
		Pos:       core.V(c.X+dir*(f.Def.Width/2+pd.Size/2), c.Y),
		Vel:       core.V(dir*pd.Speed, 0),
		Size:      pd.Size,
		Remaining: pd.Lifetime,
		Damage:    md.Damage,
		Knockback: kb,
	}
}

// Box returns the projectile's hit region.
func (p Projectile) Box() core.Box {
	return core.BoxAround(p.Pos, p.Size, p.Size)
}

// Hitbox views the projectile as a single-use hitbox for hit resolution.
func (p Projectile) Hitbox() Hitbox {
	return Hitbox{
		ID:        p.ID,
		Owner:     p.Owner,
		Move:      MoveSpecial,
		Box:       p.Box(),
		Damage:    p.Damage,
		Knockback: p.Knockback,
		Remaining: 1,
	}
}

// advance moves the projectile one tick and reports whether it is still live.
func (p *Projectile) advance(dt float64, blast BlastZone) bool {
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	p.Remaining--
	return p.Remaining > 0 && !blast.Outside(p.Pos)
}
