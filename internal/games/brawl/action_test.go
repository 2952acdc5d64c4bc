package brawl

import "testing"

func TestStateTable(t *testing.T) {
	tests := []struct {
		state              ActionState
		move, jump, attack bool
	}{
		{Idle, true, true, true},
		{Walking, true, true, true},
		{Jumping, true, false, true},
		{LightAttack, true, false, false},
		{HeavyAttack, true, false, false},
		{Special, true, false, false},
		{Hitstun, false, false, false},
		{Dead, false, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.state.String(), func(t *testing.T) {
			if got := tc.state.AllowsMove(); got != tc.move {
				t.Errorf("AllowsMove() = %v, expected %v", got, tc.move)
			}
			if got := tc.state.AllowsJump(); got != tc.jump {
				t.Errorf("AllowsJump() = %v, expected %v", got, tc.jump)
			}
			if got := tc.state.AllowsAttack(); got != tc.attack {
				t.Errorf("AllowsAttack() = %v, expected %v", got, tc.attack)
			}
		})
	}
}

func TestTimedStatesRevertToIdle(t *testing.T) {
	for _, state := range []ActionState{Walking, Jumping, LightAttack, HeavyAttack, Special, Hitstun} {
		t.Run(state.String(), func(t *testing.T) {
			var f Fighter
			f.enter(state, 4)

			for i := range 3 {
				f.tickAction()
				if f.Action != state {
					t.Fatalf("left %s after %d ticks, expected 4", state, i+1)
				}
			}
			f.tickAction()
			if f.Action != Idle {
				t.Errorf("after 4 ticks action = %s, expected idle", f.Action)
			}
		})
	}
}

func TestIdleIsUntimed(t *testing.T) {
	var f Fighter
	f.enter(Idle, 10)
	for range 20 {
		f.tickAction()
	}
	if f.Action != Idle || f.ActionTimer != 0 {
		t.Errorf("idle should stay idle with no timer, got %s/%d", f.Action, f.ActionTimer)
	}
}

func TestDeadIsTerminal(t *testing.T) {
	f := Fighter{Action: Dead}

	f.enter(Idle, 0)
	f.enter(Hitstun, 30)
	f.tickAction()

	if f.Action != Dead {
		t.Errorf("dead fighter moved to %s", f.Action)
	}
}

func TestAttackStateMapping(t *testing.T) {
	for m := MoveLight; m < moveCount; m++ {
		st := attackState(m)
		if !st.IsAttack() {
			t.Errorf("%s maps to non-attack state %s", m, st)
		}
		if back := attackMove(st); back != m {
			t.Errorf("attackMove(attackState(%s)) = %s", m, back)
		}
	}
}
