package brawl

// ActionState is what a fighter is currently doing.
type ActionState int

const (
	Idle ActionState = iota
	Walking
	Jumping
	LightAttack
	HeavyAttack
	Special
	Hitstun
	Dead
)

func (a ActionState) String() string {
	switch a {
	case Idle:
		return "idle"
	case Walking:
		return "walking"
	case Jumping:
		return "jumping"
	case LightAttack:
		return "light"
	case HeavyAttack:
		return "heavy"
	case Special:
		return "special"
	case Hitstun:
		return "hitstun"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// stateRule is one row of the action state machine.
type stateRule struct {
	Move   bool // Horizontal movement input is applied
	Jump   bool // Jump input is applied (still requires ground)
	Attack bool // A new attack may start

	// Duration sources the frame count set on entry: a fixed count
	// (Walking), the move's frame data (attacks), the airtime of a full jump
	// (Jumping) or the knockback-scaled hitstun (Hitstun). Untimed states
	// stay until something else changes them.
	Timed bool
	Next  ActionState // Entered when the timer runs out
}

var stateTable = [...]stateRule{
	Idle:        {Move: true, Jump: true, Attack: true},
	Walking:     {Move: true, Jump: true, Attack: true, Timed: true, Next: Idle},
	Jumping:     {Move: true, Attack: true, Timed: true, Next: Idle},
	LightAttack: {Move: true, Timed: true, Next: Idle},
	HeavyAttack: {Move: true, Timed: true, Next: Idle},
	Special:     {Move: true, Timed: true, Next: Idle},
	Hitstun:     {Timed: true, Next: Idle},
	Dead:        {},
}

// walkFrames is how long a single movement input keeps a fighter Walking:
// the tick it arrives on plus one, so held input never flickers to Idle.
const walkFrames = 2

func (a ActionState) rule() stateRule {
	if a < 0 || int(a) >= len(stateTable) {
		return stateRule{}
	}
	return stateTable[a]
}

// AllowsMove reports whether horizontal input is applied in this state.
func (a ActionState) AllowsMove() bool { return a.rule().Move }

// AllowsJump reports whether a jump may start in this state.
func (a ActionState) AllowsJump() bool { return a.rule().Jump }

// AllowsAttack reports whether a new attack may start in this state.
func (a ActionState) AllowsAttack() bool { return a.rule().Attack }

// IsAttack reports whether the state is one of the three attack states.
func (a ActionState) IsAttack() bool {
	return a == LightAttack || a == HeavyAttack || a == Special
}

// attackState maps a move to the state it puts its owner in.
func attackState(m Move) ActionState {
	switch m {
	case MoveHeavy:
		return HeavyAttack
	case MoveSpecial:
		return Special
	default:
		return LightAttack
	}
}

// attackMove is the inverse of attackState.
func attackMove(a ActionState) Move {
	switch a {
	case HeavyAttack:
		return MoveHeavy
	case Special:
		return MoveSpecial
	default:
		return MoveLight
	}
}

// enter switches f to state a for the given number of frames.
// Dead is terminal: nothing leaves it.
//
// States entered from input count the entry tick as their first frame, the
// way an attack's AttackElapsed starts at 0 on that tick. Hitstun is entered
// after input has been applied, so the match skips its countdown on the hit
// tick.
func (f *Fighter) enter(a ActionState, frames int) {
	if f.Action == Dead {
		return
	}
	f.Action = a
	f.ActionTimer = 0
	if a.rule().Timed {
		f.ActionTimer = max(frames, 1)
	}
	f.AttackElapsed = 0
}

// tickAction counts down the current state and follows the table on expiry.
func (f *Fighter) tickAction() {
	r := f.Action.rule()
	if !r.Timed {
		return
	}
	if f.ActionTimer > 0 {
		f.ActionTimer--
	}
	if f.ActionTimer == 0 {
		f.Action = r.Next
		f.AttackElapsed = 0
	}
}
