package brawl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-brawl/internal/config"
	"github.com/vovakirdan/tui-brawl/internal/core"
)

// ErrUnknownCharacter is returned when a character name is not on the roster.
var ErrUnknownCharacter = errors.New("brawl: unknown character")

// Kind identifies a roster entry.
type Kind int

const (
	Mage Kind = iota
	Ninja
	Tank
	kindCount
)

// Roster lists every selectable character in menu order.
var Roster = []Kind{Mage, Ninja, Tank}

// Key returns the config key of the character.
func (k Kind) Key() string {
	switch k {
	case Mage:
		return "mage"
	case Ninja:
		return "ninja"
	case Tank:
		return "tank"
	default:
		return "unknown"
	}
}

func (k Kind) String() string {
	return k.Key()
}

// ParseKind maps a name ("mage", "Ninja", ...) to a Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, k := range Roster {
		if k.Key() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownCharacter, s)
}

// SpecialBehavior is the closed set of special-move effects.
type SpecialBehavior int

const (
	SpecialProjectile SpecialBehavior = iota // Mage
	SpecialTeleport                          // Ninja
	SpecialSmash                             // Tank
)

func (s SpecialBehavior) String() string {
	switch s {
	case SpecialProjectile:
		return "projectile"
	case SpecialTeleport:
		return "teleport"
	case SpecialSmash:
		return "smash"
	default:
		return "unknown"
	}
}

func parseSpecial(s string) (SpecialBehavior, error) {
	for _, b := range []SpecialBehavior{SpecialProjectile, SpecialTeleport, SpecialSmash} {
		if b.String() == s {
			return b, nil
		}
	}
	return 0, fmt.Errorf("brawl: unknown special %q", s)
}

// Move indexes a fighter's attack slots.
type Move int

const (
	MoveLight Move = iota
	MoveHeavy
	MoveSpecial
	moveCount
)

func (m Move) String() string {
	switch m {
	case MoveLight:
		return "light"
	case MoveHeavy:
		return "heavy"
	case MoveSpecial:
		return "special"
	default:
		return "unknown"
	}
}

// MoveDef is the frame data and hitbox of one attack.
type MoveDef struct {
	Damage    float64
	Knockback core.Vec // Authored facing right
	Startup   int
	Active    int
	Recovery  int
	Cooldown  int
	Reach     float64
	Height    float64
	Centered  bool // Box centered on the body instead of in front of it
}

// Frames returns how long the move keeps its owner in the attack state.
func (m MoveDef) Frames() int {
	return m.Startup + m.Active + m.Recovery
}

// ProjectileDef describes what a projectile special fires.
type ProjectileDef struct {
	Speed    float64
	Lifetime int
	Size     float64
}

// CharacterDef is the immutable stat table of a character.
// One instance is shared by every fighter of that kind.
type CharacterDef struct {
	Kind         Kind
	Name         string
	Width        float64
	Height       float64
	MaxSpeed     float64
	JumpVelocity float64
	Weight       float64
	Special      SpecialBehavior
	Moves        [moveCount]MoveDef

	Projectile       ProjectileDef
	TeleportDistance float64
}

// LightDamage returns the damage of the light attack.
func (d *CharacterDef) LightDamage() float64 { return d.Moves[MoveLight].Damage }

// HeavyDamage returns the damage of the heavy attack.
func (d *CharacterDef) HeavyDamage() float64 { return d.Moves[MoveHeavy].Damage }

// Move returns the frame data of m.
func (d *CharacterDef) Move(m Move) MoveDef { return d.Moves[m] }

// NewCharacterDef builds a definition from its config entry.
func NewCharacterDef(kind Kind, cc config.CharacterConfig) (*CharacterDef, error) {
	special, err := parseSpecial(cc.Special)
	if err != nil {
		return nil, fmt.Errorf("brawl: character %s: %w", kind, err)
	}

	name := cc.Name
	if name == "" {
		name = strings.ToUpper(kind.Key()[:1]) + kind.Key()[1:]
	}

	sp := cc.SpecialMove
	return &CharacterDef{
		Kind:         kind,
		Name:         name,
		Width:        cc.Width,
		Height:       cc.Height,
		MaxSpeed:     cc.MaxSpeed,
		JumpVelocity: cc.JumpVelocity,
		Weight:       cc.Weight,
		Special:      special,
		Moves: [moveCount]MoveDef{
			MoveLight:   moveDef(cc.Light),
			MoveHeavy:   moveDef(cc.Heavy),
			MoveSpecial: moveDef(sp),
		},
		Projectile: ProjectileDef{
			Speed:    sp.ProjectileSpeed,
			Lifetime: sp.ProjectileLifetime,
			Size:     sp.ProjectileSize,
		},
		TeleportDistance: sp.TeleportDistance,
	}, nil
}

func moveDef(m config.MoveConfig) MoveDef {
	return MoveDef{
		Damage:    m.Damage,
		Knockback: core.V(m.Knockback.X, m.Knockback.Y),
		Startup:   m.Startup,
		Active:    m.Active,
		Recovery:  m.Recovery,
		Cooldown:  m.Cooldown,
		Reach:     m.Reach,
		Height:    m.Height,
		Centered:  m.Centered,
	}
}

// Characters holds the definitions of the whole roster.
type Characters struct {
	defs [kindCount]*CharacterDef
}

// NewCharacters builds every roster definition from the config.
func NewCharacters(cfg config.BrawlConfig) (*Characters, error) {
	c := &Characters{}
	for _, k := range Roster {
		cc, ok := cfg.Characters[k.Key()]
		if !ok {
			return nil, fmt.Errorf("brawl: config has no entry for %s", k)
		}
		def, err := NewCharacterDef(k, cc)
		if err != nil {
			return nil, err
		}
		c.defs[k] = def
	}
	return c, nil
}

// Get returns the definition of kind. It panics on a kind outside the roster.
func (c *Characters) Get(kind Kind) *CharacterDef {
	if kind < 0 || kind >= kindCount {
		panic(fmt.Sprintf("brawl: kind %d outside the roster", kind))
	}
	return c.defs[kind]
}
