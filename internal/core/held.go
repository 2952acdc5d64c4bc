package core

// Terminals report key presses and autorepeats but never releases. HeldInput
// turns that stream into per-tick frames: a movement key counts as held until
// it goes quiet for a few ticks, everything else fires once.
type HeldInput struct {
	firstHold  int // Ticks a fresh press stays held, covering the autorepeat delay
	repeatHold int // Ticks each autorepeat extends the hold
	held       map[Action]int
	pulses     InputFrame
}

// holdable lists the actions that behave like held keys.
var holdable = map[Action]bool{
	ActionLeft:  true,
	ActionRight: true,
}

// opposite maps a direction to the one it cancels.
var opposite = map[Action]Action{
	ActionLeft:  ActionRight,
	ActionRight: ActionLeft,
}

// NewHeldInput sizes the hold windows for the given tick rate.
func NewHeldInput(tickRate int) *HeldInput {
	tickRate = max(tickRate, 1)
	return &HeldInput{
		firstHold:  max(tickRate*3/10, 1),
		repeatHold: max(tickRate/10, 1),
		held:       make(map[Action]int),
		pulses:     NewInputFrame(),
	}
}

// Press records a key press or autorepeat.
func (h *HeldInput) Press(a Action) {
	if !holdable[a] {
		h.pulses.Set(a)
		return
	}

	if other, ok := opposite[a]; ok {
		delete(h.held, other)
	}
	if h.held[a] > 0 {
		h.held[a] = max(h.held[a], h.repeatHold)
		return
	}
	h.held[a] = h.firstHold
}

// Frame returns the input for the next tick and ages the held keys.
func (h *HeldInput) Frame() InputFrame {
	f := h.pulses.Clone()
	h.pulses.Clear()

	for a, left := range h.held {
		f.Set(a)
		if left <= 1 {
			delete(h.held, a)
		} else {
			h.held[a] = left - 1
		}
	}
	return f
}

// Release drops every held key and pending press.
func (h *HeldInput) Release() {
	clear(h.held)
	h.pulses.Clear()
}
