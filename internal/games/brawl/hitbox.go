package brawl

import "github.com/vovakirdan/tui-brawl/internal/core"

// Hitbox is a transient damaging region owned by a fighter.
// It follows its owner and lands at most once.
type Hitbox struct {
	ID        int
	Owner     int // Slot of the attacking fighter
	Move      Move
	Box       core.Box
	Damage    float64
	Knockback core.Vec // Already mirrored for the owner's facing
	Remaining int      // Active frames left
	Consumed  bool

	facing   Facing
	reach    float64
	height   float64
	centered bool
}

// newHitbox creates the hitbox of move m in front of (or around) f.
// The facing is fixed at creation: turning mid-swing does not flip it.
func newHitbox(id int, f Fighter, m Move) Hitbox {
	md := f.Def.Move(m)
	kb := md.Knockback
	kb.X *= f.Facing.Sign()

	hb := Hitbox{
		ID:        id,
		Owner:     f.Slot,
		Move:      m,
		Damage:    md.Damage,
		Knockback: kb,
		Remaining: max(md.Active, 1),
		facing:    f.Facing,
		reach:     md.Reach,
		height:    md.Height,
		centered:  md.Centered,
	}
	hb.follow(f)
	return hb
}

// follow re-anchors the box on the owner's current position. A directed box
// runs from the owner's center to reach past its front edge, so an opponent
// standing inside the owner's body is still in range.
func (h *Hitbox) follow(owner Fighter) {
	c := owner.Center()
	if h.centered {
		h.Box = core.BoxAround(c, h.reach, h.height)
		return
	}

	w := owner.Def.Width/2 + h.reach
	left := c.X
	if h.facing == FacingLeft {
		left = c.X - w
	}
	h.Box = core.BoxAt(left, c.Y-h.height/2, w, h.height)
}
