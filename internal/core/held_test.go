package core

import "testing"

func TestHeldInputPulse(t *testing.T) {
	h := NewHeldInput(60)
	h.Press(ActionLight)
	h.Press(ActionJump)

	f := h.Frame()
	if !f.Has(ActionLight) || !f.Has(ActionJump) {
		t.Fatalf("first frame should carry the presses, got %v", f.Actions)
	}
	if next := h.Frame(); next.Has(ActionLight) || next.Has(ActionJump) {
		t.Error("one-shot actions should fire once")
	}
}

func TestHeldInputDecay(t *testing.T) {
	h := NewHeldInput(60) // firstHold 18, repeatHold 6
	h.Press(ActionRight)

	for i := range 18 {
		if !h.Frame().Has(ActionRight) {
			t.Fatalf("tick %d: fresh press should still be held", i)
		}
	}
	if h.Frame().Has(ActionRight) {
		t.Error("key should release once the hold runs out")
	}
}

func TestHeldInputAutorepeatExtends(t *testing.T) {
	h := NewHeldInput(60)
	h.Press(ActionLeft)

	// Autorepeat every 2 ticks keeps the key down well past the first hold
	for i := range 60 {
		if i%2 == 0 {
			h.Press(ActionLeft)
		}
		if !h.Frame().Has(ActionLeft) {
			t.Fatalf("tick %d: repeating key dropped", i)
		}
	}
}

func TestHeldInputOppositeCancels(t *testing.T) {
	h := NewHeldInput(60)
	h.Press(ActionLeft)
	h.Frame()
	h.Press(ActionRight)

	f := h.Frame()
	if f.Has(ActionLeft) || !f.Has(ActionRight) {
		t.Errorf("turning should drop the old direction, got %v", f.Actions)
	}
}

func TestHeldInputRelease(t *testing.T) {
	h := NewHeldInput(60)
	h.Press(ActionLeft)
	h.Press(ActionHeavy)
	h.Release()

	if f := h.Frame(); len(f.Actions) != 0 {
		t.Errorf("Release() left %v", f.Actions)
	}
}
