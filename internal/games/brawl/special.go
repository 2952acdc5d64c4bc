package brawl

import "github.com/vovakirdan/tui-brawl/internal/core"

// EffectKind tags a SpecialEffect.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectProjectile
	EffectTeleport
	EffectSmash
)

func (k EffectKind) String() string {
	switch k {
	case EffectProjectile:
		return "projectile"
	case EffectTeleport:
		return "teleport"
	case EffectSmash:
		return "smash"
	default:
		return "none"
	}
}

// SpecialEffect is what a special move does to the world when its startup
// ends. Only the fields for Kind are set. Hitbox and projectile IDs are left
// zero for the match to assign.
type SpecialEffect struct {
	Kind       EffectKind
	Projectile Projectile // EffectProjectile
	Teleport   core.Vec   // EffectTeleport: the new feet position
	Hitbox     Hitbox     // EffectTeleport strike, EffectSmash box
}

// HasHitbox reports whether the effect brings a hitbox with it.
func (e SpecialEffect) HasHitbox() bool {
	return e.Kind == EffectTeleport || e.Kind == EffectSmash
}

// ApplySpecial computes the special move of def performed by f.
// It does not mutate anything; the match applies the effect.
//
// Teleports are not clamped to the stage. Blinking past the blast zone is a
// self-KO on the next physics step.
func ApplySpecial(f Fighter, def *CharacterDef) SpecialEffect {
	f.Def = def

	switch def.Special {
	case SpecialProjectile:
		return SpecialEffect{
			Kind:       EffectProjectile,
			Projectile: newProjectile(0, f),
		}

	case SpecialTeleport:
		f.Pos.X += f.Facing.Sign() * def.TeleportDistance
		return SpecialEffect{
			Kind:     EffectTeleport,
			Teleport: f.Pos,
			Hitbox:   newHitbox(0, f, MoveSpecial),
		}

	case SpecialSmash:
		return SpecialEffect{
			Kind:   EffectSmash,
			Hitbox: newHitbox(0, f, MoveSpecial),
		}
	}
	return SpecialEffect{}
}
