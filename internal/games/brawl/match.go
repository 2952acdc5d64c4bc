package brawl

import (
	"fmt"

	"github.com/vovakirdan/tui-brawl/internal/config"
	"github.com/vovakirdan/tui-brawl/internal/core"
)

// Rules is everything a match needs besides the two characters.
type Rules struct {
	Physics PhysicsTuning
	Combat  CombatTuning
	Stage   Stage
	Stocks  int
}

// NewRules derives match rules from the config.
func NewRules(cfg config.BrawlConfig) Rules {
	return Rules{
		Physics: physicsTuning(cfg.Physics),
		Combat:  combatTuning(cfg.Combat),
		Stage:   NewStage(cfg.Stage),
		Stocks:  max(cfg.Match.Stocks, 1),
	}
}

// Match is the fixed-tick simulation of one fight between two fighters.
// It is single-threaded: Step must not be called concurrently.
type Match struct {
	rules       Rules
	fighters    [2]Fighter
	hitboxes    []Hitbox
	projectiles []Projectile
	nextID      int
	tick        int
	events      []Event
	result      Result

	landed      map[int]bool // Hitbox and projectile IDs that have landed
	prevPercent [2]float64
	koed        [2]bool
	stunned     [2]bool // Knocked into hitstun this tick
}

// NewMatch puts defs[0] on the left spawn and defs[1] on the right one.
func NewMatch(rules Rules, defs [2]*CharacterDef) *Match {
	m := &Match{
		rules:  rules,
		landed: make(map[int]bool),
		result: Result{Winner: NoWinner},
	}
	facings := [2]Facing{FacingRight, FacingLeft}
	for i, def := range defs {
		f := NewFighter(i, def, rules.Stage.Spawns[i], facings[i], rules.Stocks)
		f.Grounded = rules.Stage.supports(f.Pos)
		m.fighters[i] = f
	}
	return m
}

// Fighter returns a copy of the fighter in slot.
func (m *Match) Fighter(slot int) Fighter { return m.fighters[slot] }

// Fighters returns copies of both fighters.
func (m *Match) Fighters() [2]Fighter { return m.fighters }

// Tick returns the number of completed ticks.
func (m *Match) Tick() int { return m.tick }

// Result returns the match-over signal.
func (m *Match) Result() Result { return m.result }

// Rules returns the rules the match runs under.
func (m *Match) Rules() Rules { return m.rules }

// Step runs one tick: intents, attack timelines, physics, projectiles, hit
// resolution, timers and the match-over check, in that order.
// Once the match is over Step changes nothing.
func (m *Match) Step(intents [2]Intent) Snapshot {
	m.events = m.events[:0]
	if m.result.Over {
		return m.Snapshot()
	}
	m.tick++
	m.koed = [2]bool{}
	m.stunned = [2]bool{}
	for i, f := range m.fighters {
		m.prevPercent[i] = f.Percent
	}

	for i := range m.fighters {
		m.applyIntent(i, intents[i])
	}
	for i := range m.fighters {
		m.advanceAttack(i)
	}
	for i := range m.fighters {
		m.integrate(i)
	}
	for j := range m.hitboxes {
		m.hitboxes[j].follow(m.fighters[m.hitboxes[j].Owner])
	}
	m.moveProjectiles()
	m.resolveHits()
	m.tickTimers()
	m.checkOver()
	m.assertInvariants()

	return m.Snapshot()
}

func (m *Match) applyIntent(i int, it Intent) {
	f := &m.fighters[i]
	if !f.Alive() {
		return
	}

	if f.Action.AllowsMove() {
		dir := core.Clamp(it.Move, -1, 1)
		f.Vel.X = core.ClampF(float64(dir)*f.Def.MaxSpeed, -f.Def.MaxSpeed, f.Def.MaxSpeed)
		if dir != 0 && !f.Action.IsAttack() {
			f.Facing = Facing(dir)
			if f.Grounded && (f.Action == Idle || f.Action == Walking) {
				f.enter(Walking, walkFrames)
			}
		}
	}

	if it.Jump && f.CanJump() {
		f.Vel.Y = -f.Def.JumpVelocity
		f.Grounded = false
		f.enter(Jumping, m.rules.Physics.jumpFrames(f.Def.JumpVelocity))
	}

	if mv, ok := it.attack(*f); ok {
		md := f.Def.Move(mv)
		f.Cooldowns[mv] = md.Cooldown
		f.enter(attackState(mv), md.Frames())
	}
}

// advanceAttack launches the move's hitbox or special effect when startup ends.
func (m *Match) advanceAttack(i int) {
	f := &m.fighters[i]
	if !f.Action.IsAttack() {
		return
	}
	mv := attackMove(f.Action)
	if f.AttackElapsed == f.Def.Move(mv).Startup {
		m.launch(i, mv)
	}
	f.AttackElapsed++
}

func (m *Match) launch(i int, mv Move) {
	f := &m.fighters[i]
	if mv != MoveSpecial {
		m.hitboxes = append(m.hitboxes, newHitbox(m.newID(), *f, mv))
		return
	}

	eff := ApplySpecial(*f, f.Def)
	switch eff.Kind {
	case EffectProjectile:
		p := eff.Projectile
		p.ID = m.newID()
		m.projectiles = append(m.projectiles, p)
	case EffectTeleport:
		f.Pos = eff.Teleport
	}
	if eff.HasHitbox() {
		hb := eff.Hitbox
		hb.ID = m.newID()
		m.hitboxes = append(m.hitboxes, hb)
	}
	m.events = append(m.events, Event{Kind: EventSpecial, Slot: i, Effect: eff.Kind})
}

func (m *Match) integrate(i int) {
	f, ko := Integrate(m.fighters[i], m.rules.Stage, m.rules.Physics)
	m.fighters[i] = f
	if !ko {
		return
	}
	m.koed[i] = true
	m.events = append(m.events, Event{Kind: EventKO, Slot: i})
	m.dropHitboxesOf(i)
}

func (m *Match) moveProjectiles() {
	live := m.projectiles[:0]
	for _, p := range m.projectiles {
		if p.advance(m.rules.Physics.DT, m.rules.Stage.Blast) {
			live = append(live, p)
		}
	}
	m.projectiles = live
}

// resolveHits finds every overlap first and applies them afterwards, so two
// fighters swinging into each other on the same tick trade hits. A fighter
// KO'd this tick cannot be hit until the next one.
func (m *Match) resolveHits() {
	var hits []Hitbox

	for j := range m.hitboxes {
		hb := &m.hitboxes[j]
		target := m.fighters[1-hb.Owner]
		if m.koed[target.Slot] {
			continue
		}
		if CanBeHitBy(target, *hb) && hb.Box.Overlaps(target.Hurtbox()) {
			hb.Consumed = true
			hits = append(hits, *hb)
		}
	}

	flying := m.projectiles[:0]
	for _, p := range m.projectiles {
		target := m.fighters[1-p.Owner]
		if target.Alive() && !m.koed[target.Slot] && p.Box().Overlaps(target.Hurtbox()) {
			hits = append(hits, p.Hitbox())
			continue
		}
		flying = append(flying, p)
	}
	m.projectiles = flying

	for _, hb := range hits {
		if m.landed[hb.ID] {
			panic(fmt.Sprintf("brawl: hitbox %d landed twice", hb.ID))
		}
		m.landed[hb.ID] = true

		target := 1 - hb.Owner
		m.fighters[target] = ResolveHit(m.fighters[target], hb, m.rules.Combat)
		m.stunned[target] = true
		m.events = append(m.events, Event{
			Kind:     EventHit,
			Slot:     target,
			Attacker: hb.Owner,
			Damage:   hb.Damage,
			HitboxID: hb.ID,
		})
	}

	// Consumed swings are gone, and a fighter knocked into hitstun loses
	// whatever it was swinging.
	kept := m.hitboxes[:0]
	for _, hb := range m.hitboxes {
		owner := m.fighters[hb.Owner]
		if hb.Consumed || owner.Action == Hitstun || !owner.Alive() {
			continue
		}
		kept = append(kept, hb)
	}
	m.hitboxes = kept
}

func (m *Match) tickTimers() {
	for i := range m.fighters {
		f := &m.fighters[i]
		for mv := range f.Cooldowns {
			if f.Cooldowns[mv] > 0 {
				f.Cooldowns[mv]--
			}
		}
		// Hitstun starts counting on the tick after the hit, so H frames of
		// stun swallow the input of the next H ticks.
		if !m.stunned[i] {
			f.tickAction()
		}
	}

	kept := m.hitboxes[:0]
	for _, hb := range m.hitboxes {
		hb.Remaining--
		if hb.Remaining > 0 {
			kept = append(kept, hb)
		}
	}
	m.hitboxes = kept
}

func (m *Match) checkOver() {
	dead0, dead1 := !m.fighters[0].Alive(), !m.fighters[1].Alive()
	if !dead0 && !dead1 {
		return
	}

	m.result.Over = true
	switch {
	case dead0 && dead1:
		m.result.Winner = NoWinner
	case dead0:
		m.result.Winner = 1
	default:
		m.result.Winner = 0
	}
	m.events = append(m.events, Event{Kind: EventMatchOver, Slot: m.result.Winner})
}

func (m *Match) dropHitboxesOf(slot int) {
	kept := m.hitboxes[:0]
	for _, hb := range m.hitboxes {
		if hb.Owner != slot {
			kept = append(kept, hb)
		}
	}
	m.hitboxes = kept
}

func (m *Match) newID() int {
	m.nextID++
	return m.nextID
}

// assertInvariants panics on states no sequence of inputs should produce.
func (m *Match) assertInvariants() {
	for i, f := range m.fighters {
		switch {
		case f.Stocks < 0:
			panic(fmt.Sprintf("brawl: fighter %d has %d stocks", i, f.Stocks))
		case f.Percent < 0:
			panic(fmt.Sprintf("brawl: fighter %d has negative percent %v", i, f.Percent))
		case (f.Stocks == 0) != (f.Action == Dead):
			panic(fmt.Sprintf("brawl: fighter %d has %d stocks in state %s", i, f.Stocks, f.Action))
		case m.koed[i] && f.Percent != 0:
			panic(fmt.Sprintf("brawl: fighter %d kept %v%% through a KO", i, f.Percent))
		case !m.koed[i] && f.Percent < m.prevPercent[i]:
			panic(fmt.Sprintf("brawl: fighter %d percent dropped from %v to %v", i, m.prevPercent[i], f.Percent))
		}
	}
}
