package brawl

import (
	"math"

	"github.com/vovakirdan/tui-brawl/internal/config"
	"github.com/vovakirdan/tui-brawl/internal/core"
)

// CombatTuning holds the hit resolution constants.
type CombatTuning struct {
	HitstunBase    float64
	HitstunPerUnit float64
	HitstunMax     int
	MinWeight      float64
}

func combatTuning(cc config.CombatConfig) CombatTuning {
	return CombatTuning{
		HitstunBase:    cc.HitstunBase,
		HitstunPerUnit: cc.HitstunPerUnit,
		HitstunMax:     cc.HitstunMax,
		MinWeight:      cc.MinWeight,
	}
}

// Knockback scales a base vector by the defender's percent and weight:
//
//	kb = base * (1 + percent/100) / weight
//
// The weight is floored at MinWeight so featherweights cannot divide by
// (nearly) zero.
func Knockback(base core.Vec, percent, weight float64, t CombatTuning) core.Vec {
	w := math.Max(weight, t.MinWeight)
	return base.Scale((1 + percent/100) / w)
}

// HitstunFrames grows with the knockback magnitude and is capped. The hit
// tick itself is not one of them: a stun of H frames blocks the next H ticks.
func HitstunFrames(kb core.Vec, t CombatTuning) int {
	frames := int(math.Round(t.HitstunBase + t.HitstunPerUnit*kb.Len()))
	if t.HitstunMax > 0 {
		frames = min(frames, t.HitstunMax)
	}
	return max(frames, 1)
}

// CanBeHitBy reports whether hb may land on defender at all. A fighter still
// reeling from this very hitbox is immune to it.
func CanBeHitBy(defender Fighter, hb Hitbox) bool {
	if !defender.Alive() || hb.Consumed || hb.Owner == defender.Slot {
		return false
	}
	return !(defender.Action == Hitstun && defender.LastHitBy == hb.ID)
}

// ResolveHit applies a landed hitbox to the defender.
// The knockback uses the percent the defender had before this hit.
func ResolveHit(defender Fighter, hb Hitbox, t CombatTuning) Fighter {
	if !defender.Alive() {
		return defender
	}

	kb := Knockback(hb.Knockback, defender.Percent, defender.Def.Weight, t)

	defender.Percent += hb.Damage
	defender.Vel = kb
	if kb.Y < 0 {
		defender.Grounded = false
	}
	defender.LastHitBy = hb.ID
	defender.enter(Hitstun, HitstunFrames(kb, t))
	return defender
}
