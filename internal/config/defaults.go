package config

import (
	_ "embed"
)

//go:embed defaults/brawl.yaml
var defaultBrawlYAML []byte

// DefaultBrawlConfig returns the built-in tuning. It mirrors defaults/brawl.yaml
// and is used when the embedded file cannot be parsed.
func DefaultBrawlConfig() BrawlConfig {
	return BrawlConfig{
		Physics: PhysicsConfig{
			Gravity:         0.9,
			MaxFallSpeed:    18,
			TickDT:          1.0,
			HitstunFriction: 0.85,
		},
		Stage: StageConfig{
			GroundY:    520,
			FloorLeft:  0,
			FloorRight: 1000,
			Platforms: []PlatformConfig{
				{X: 400, Y: 370, W: 200},
				{X: 150, Y: 430, W: 200},
				{X: 650, Y: 430, W: 200},
			},
			Blast:   BlastZone{Left: -200, Right: 1200, Bottom: 800},
			Respawn: Point{X: 500, Y: 370},
			Spawns: []Point{
				{X: 250, Y: 520},
				{X: 750, Y: 520},
			},
			View: ViewConfig{Left: -100, Top: 40, Right: 1100, Bottom: 600},
		},
		Combat: CombatConfig{
			HitstunBase:    6,
			HitstunPerUnit: 1.0,
			HitstunMax:     45,
			MinWeight:      0.5,
		},
		AI: AIConfig{
			PreferredRange:    90,
			JumpThreshold:     60,
			EdgeMargin:        24,
			ProjectileRange:   480,
			FinishPercentEasy: 200,
			FinishPercentHard: 70,
			SpecialLevel:      0.25,
			Difficulty: DifficultyConfig{
				Enabled:      true,
				InitialLevel: 0.3,
				Progression: ProgressionConfig{
					Type:  "time",
					MaxAt: 3600, // one minute at 60fps
				},
			},
		},
		Match: MatchConfig{
			Stocks: 3,
		},
		Characters: map[string]CharacterConfig{
			"mage": {
				Name:         "Mage",
				Special:      "projectile",
				Width:        64,
				Height:       80,
				MaxSpeed:     6,
				JumpVelocity: 13.5,
				Weight:       1.0,
				Light: MoveConfig{
					Damage: 6, Knockback: Point{X: 6, Y: -3.6},
					Startup: 3, Active: 4, Recovery: 6, Cooldown: 18,
					Reach: 38, Height: 20,
				},
				Heavy: MoveConfig{
					Damage: 10, Knockback: Point{X: 12, Y: -7.2},
					Startup: 6, Active: 5, Recovery: 10, Cooldown: 23,
					Reach: 58, Height: 28,
				},
				SpecialMove: MoveConfig{
					Damage: 9, Knockback: Point{X: 10, Y: -6},
					Startup: 6, Active: 1, Recovery: 12, Cooldown: 30,
					ProjectileSpeed: 10, ProjectileLifetime: 90, ProjectileSize: 14,
				},
			},
			"ninja": {
				Name:         "Ninja",
				Special:      "teleport",
				Width:        64,
				Height:       80,
				MaxSpeed:     8,
				JumpVelocity: 15,
				Weight:       0.9,
				Light: MoveConfig{
					Damage: 6, Knockback: Point{X: 6, Y: -3.6},
					Startup: 2, Active: 4, Recovery: 5, Cooldown: 13,
					Reach: 38, Height: 20,
				},
				Heavy: MoveConfig{
					Damage: 10, Knockback: Point{X: 12, Y: -7.2},
					Startup: 5, Active: 5, Recovery: 9, Cooldown: 20,
					Reach: 58, Height: 28,
				},
				SpecialMove: MoveConfig{
					Damage: 12, Knockback: Point{X: 14, Y: -8.4},
					Startup: 4, Active: 3, Recovery: 10, Cooldown: 24,
					Reach: 40, Height: 24,
					TeleportDistance: 60,
				},
			},
			"tank": {
				Name:         "Tank",
				Special:      "smash",
				Width:        72,
				Height:       88,
				MaxSpeed:     4.5,
				JumpVelocity: 13,
				Weight:       1.8,
				Light: MoveConfig{
					Damage: 8, Knockback: Point{X: 8, Y: -4.8},
					Startup: 4, Active: 4, Recovery: 8, Cooldown: 25,
					Reach: 40, Height: 32,
				},
				Heavy: MoveConfig{
					Damage: 13, Knockback: Point{X: 14, Y: -8.4},
					Startup: 8, Active: 5, Recovery: 12, Cooldown: 33,
					Reach: 60, Height: 32,
				},
				SpecialMove: MoveConfig{
					Damage: 18, Knockback: Point{X: 28, Y: -16.8},
					Startup: 18, Active: 6, Recovery: 20, Cooldown: 54,
					Reach: 120, Height: 120, Centered: true,
				},
			},
		},
	}
}

// DefaultYAML returns the embedded default YAML, e.g. for `brawl config dump`.
func DefaultYAML() []byte {
	return defaultBrawlYAML
}
