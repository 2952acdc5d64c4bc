// Package config provides YAML-based tuning for the brawler: physics, stage
// layout, combat formulas, AI thresholds and the character roster.
package config

import (
	"fmt"
	"strings"
)

// BrawlConfig contains every tunable constant of a match.
// World units follow the stage layout: x grows right, y grows down.
type BrawlConfig struct {
	Physics    PhysicsConfig              `yaml:"physics"`
	Stage      StageConfig                `yaml:"stage"`
	Combat     CombatConfig               `yaml:"combat"`
	AI         AIConfig                   `yaml:"ai"`
	Match      MatchConfig                `yaml:"match"`
	Characters map[string]CharacterConfig `yaml:"characters"`
}

// PhysicsConfig defines per-tick integration parameters.
type PhysicsConfig struct {
	Gravity         float64 `yaml:"gravity"`          // Added to vy every tick
	MaxFallSpeed    float64 `yaml:"max_fall_speed"`   // Terminal vy
	TickDT          float64 `yaml:"tick_dt"`          // Δt in position += velocity * Δt
	HitstunFriction float64 `yaml:"hitstun_friction"` // vx multiplier per grounded hitstun tick
}

// Point is a position in world units.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// PlatformConfig is a one-way platform: its top edge at Y spanning [X, X+W].
type PlatformConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
}

// BlastZone bounds the playable area. Leaving it is a KO.
type BlastZone struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
}

// ViewConfig is the world rectangle projected onto the terminal.
type ViewConfig struct {
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
}

// StageConfig describes the arena.
type StageConfig struct {
	GroundY    float64          `yaml:"ground_y"`
	FloorLeft  float64          `yaml:"floor_left"`
	FloorRight float64          `yaml:"floor_right"`
	Platforms  []PlatformConfig `yaml:"platforms"`
	Blast      BlastZone        `yaml:"blast"`
	Respawn    Point            `yaml:"respawn"`
	Spawns     []Point          `yaml:"spawns"`
	View       ViewConfig       `yaml:"view"`
}

// CombatConfig defines hit resolution parameters.
type CombatConfig struct {
	HitstunBase    float64 `yaml:"hitstun_base"`     // Frames of hitstun for a zero-length knockback
	HitstunPerUnit float64 `yaml:"hitstun_per_unit"` // Extra frames per unit of knockback magnitude
	HitstunMax     int     `yaml:"hitstun_max"`      // Cap on hitstun frames
	MinWeight      float64 `yaml:"min_weight"`       // Floor for the knockback divisor
}

// AIConfig defines the CPU policy thresholds.
type AIConfig struct {
	PreferredRange    float64          `yaml:"preferred_range"`
	JumpThreshold     float64          `yaml:"jump_threshold"`
	EdgeMargin        float64          `yaml:"edge_margin"`
	ProjectileRange   float64          `yaml:"projectile_range"`
	FinishPercentEasy float64          `yaml:"finish_percent_easy"`
	FinishPercentHard float64          `yaml:"finish_percent_hard"`
	SpecialLevel      float64          `yaml:"special_level"` // Difficulty level from which the CPU uses specials
	Difficulty        DifficultyConfig `yaml:"difficulty"`
}

// MatchConfig defines match rules.
type MatchConfig struct {
	Stocks int `yaml:"stocks"`
}

// CharacterConfig is the stat table of one roster entry.
type CharacterConfig struct {
	Name         string     `yaml:"name"`
	Special      string     `yaml:"special"` // "projectile", "teleport" or "smash"
	Width        float64    `yaml:"width"`
	Height       float64    `yaml:"height"`
	MaxSpeed     float64    `yaml:"max_speed"`
	JumpVelocity float64    `yaml:"jump_velocity"`
	Weight       float64    `yaml:"weight"`
	Light        MoveConfig `yaml:"light"`
	Heavy        MoveConfig `yaml:"heavy"`
	SpecialMove  MoveConfig `yaml:"special_move"`
}

// MoveConfig is the frame data and hitbox of one attack.
type MoveConfig struct {
	Damage    float64 `yaml:"damage"`
	Knockback Point   `yaml:"knockback"` // Base vector, authored facing right
	Startup   int     `yaml:"startup"`
	Active    int     `yaml:"active"`
	Recovery  int     `yaml:"recovery"`
	Cooldown  int     `yaml:"cooldown"`
	Reach     float64 `yaml:"reach"`  // Hitbox width
	Height    float64 `yaml:"height"` // Hitbox height
	Centered  bool    `yaml:"centered,omitempty"`

	// Projectile specials
	ProjectileSpeed    float64 `yaml:"projectile_speed,omitempty"`
	ProjectileLifetime int     `yaml:"projectile_lifetime,omitempty"`
	ProjectileSize     float64 `yaml:"projectile_size,omitempty"`

	// Teleport specials
	TeleportDistance float64 `yaml:"teleport_distance,omitempty"`
}

// Frames returns the full duration of the move.
func (m MoveConfig) Frames() int {
	return m.Startup + m.Active + m.Recovery
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParseDifficulty maps a flag value to a preset. Empty means normal.
func ParseDifficulty(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
