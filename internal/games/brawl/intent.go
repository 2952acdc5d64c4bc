package brawl

import "github.com/vovakirdan/tui-brawl/internal/core"

// Intent is one fighter's decision for a tick, from a keyboard or the CPU.
type Intent struct {
	Move    int // -1 left, 0 none, +1 right
	Jump    bool
	Light   bool
	Heavy   bool
	Special bool
}

// IntentFromInput maps platform actions to an intent.
// Pressing both directions cancels out.
func IntentFromInput(in core.InputFrame) Intent {
	var it Intent
	if in.Has(core.ActionLeft) {
		it.Move--
	}
	if in.Has(core.ActionRight) {
		it.Move++
	}
	it.Jump = in.Has(core.ActionJump)
	it.Light = in.Has(core.ActionLight)
	it.Heavy = in.Has(core.ActionHeavy)
	it.Special = in.Has(core.ActionSpecial)
	return it
}

// attack returns the first requested move in light, heavy, special order
// that f could start now.
func (it Intent) attack(f Fighter) (Move, bool) {
	for _, c := range []struct {
		pressed bool
		move    Move
	}{
		{it.Light, MoveLight},
		{it.Heavy, MoveHeavy},
		{it.Special, MoveSpecial},
	} {
		if c.pressed && f.CanAttack(c.move) {
			return c.move, true
		}
	}
	return 0, false
}
