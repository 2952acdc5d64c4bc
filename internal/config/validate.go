package config

import (
	"errors"
	"fmt"
)

// RosterKeys lists the character entries every config must define.
var RosterKeys = []string{"mage", "ninja", "tank"}

// Validate reports every nonsensical value in the config.
func (c BrawlConfig) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	p := c.Physics
	if p.Gravity < 0 {
		add("physics.gravity must be >= 0, got %v", p.Gravity)
	}
	if p.TickDT <= 0 {
		add("physics.tick_dt must be > 0, got %v", p.TickDT)
	}
	if p.MaxFallSpeed <= 0 {
		add("physics.max_fall_speed must be > 0, got %v", p.MaxFallSpeed)
	}
	if p.HitstunFriction < 0 || p.HitstunFriction > 1 {
		add("physics.hitstun_friction must be in [0, 1], got %v", p.HitstunFriction)
	}

	s := c.Stage
	if s.FloorLeft >= s.FloorRight {
		add("stage.floor_left (%v) must be left of floor_right (%v)", s.FloorLeft, s.FloorRight)
	}
	if s.Blast.Left >= s.FloorLeft || s.Blast.Right <= s.FloorRight {
		add("stage.blast must lie outside the floor [%v, %v]", s.FloorLeft, s.FloorRight)
	}
	if s.Blast.Bottom <= s.GroundY {
		add("stage.blast.bottom (%v) must be below ground_y (%v)", s.Blast.Bottom, s.GroundY)
	}
	if !insideBlast(s, s.Respawn) {
		add("stage.respawn %+v is outside the blast zone", s.Respawn)
	}
	if len(s.Spawns) < 2 {
		add("stage.spawns needs two points, got %d", len(s.Spawns))
	}
	for i, sp := range s.Spawns {
		if !insideBlast(s, sp) {
			add("stage.spawns[%d] %+v is outside the blast zone", i, sp)
		}
	}
	for i, pl := range s.Platforms {
		if pl.W <= 0 {
			add("stage.platforms[%d].w must be > 0", i)
		}
	}
	if s.View.Right <= s.View.Left || s.View.Bottom <= s.View.Top {
		add("stage.view must have positive width and height")
	}

	if c.Combat.HitstunMax < 0 {
		add("combat.hitstun_max must be >= 0")
	}
	if c.Combat.MinWeight <= 0 {
		add("combat.min_weight must be > 0")
	}

	if c.Match.Stocks < 1 {
		add("match.stocks must be >= 1, got %d", c.Match.Stocks)
	}

	for _, key := range RosterKeys {
		ch, ok := c.Characters[key]
		if !ok {
			add("characters.%s is missing", key)
			continue
		}
		errs = append(errs, ch.validate(key)...)
	}

	return errors.Join(errs...)
}

func (ch CharacterConfig) validate(key string) []error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("characters.%s: %s", key, fmt.Sprintf(format, args...)))
	}

	if ch.Width <= 0 || ch.Height <= 0 {
		add("width and height must be > 0")
	}
	if ch.MaxSpeed < 0 {
		add("max_speed must be >= 0")
	}
	if ch.JumpVelocity <= 0 {
		add("jump_velocity must be > 0")
	}
	if ch.Weight <= 0 {
		add("weight must be > 0, got %v", ch.Weight)
	}

	checkFrames := func(name string, m MoveConfig) {
		if m.Startup < 0 || m.Recovery < 0 || m.Cooldown < 0 {
			add("%s frames must be >= 0", name)
		}
		if m.Active < 1 {
			add("%s.active must be >= 1", name)
		}
		if m.Damage < 0 {
			add("%s.damage must be >= 0", name)
		}
		if total := m.Startup + m.Active + m.Recovery; m.Cooldown < total {
			add("%s.cooldown %d is shorter than the move (%d frames)", name, m.Cooldown, total)
		}
	}
	checkBox := func(name string, m MoveConfig) {
		if m.Reach <= 0 || m.Height <= 0 {
			add("%s hitbox needs reach and height > 0", name)
		}
	}

	checkFrames("light", ch.Light)
	checkBox("light", ch.Light)
	checkFrames("heavy", ch.Heavy)
	checkBox("heavy", ch.Heavy)
	checkFrames("special_move", ch.SpecialMove)

	sp := ch.SpecialMove
	switch ch.Special {
	case "projectile":
		if sp.ProjectileSpeed <= 0 || sp.ProjectileLifetime <= 0 || sp.ProjectileSize <= 0 {
			add("projectile special needs projectile_speed, projectile_lifetime and projectile_size > 0")
		}
	case "teleport":
		if sp.TeleportDistance <= 0 {
			add("teleport special needs teleport_distance > 0")
		}
		checkBox("special_move", sp)
	case "smash":
		checkBox("special_move", sp)
	default:
		add("unknown special %q", ch.Special)
	}

	return errs
}

func insideBlast(s StageConfig, p Point) bool {
	return p.X >= s.Blast.Left && p.X <= s.Blast.Right && p.Y <= s.Blast.Bottom
}
