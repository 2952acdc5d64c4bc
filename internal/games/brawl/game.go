// Package brawl implements a two-fighter platform brawler: percent-based
// knockback, hitstun, per-move cooldowns, three characters with one special
// each and a reactive CPU opponent.
//
// Match is the pure fixed-tick simulation. Game adapts it to the terminal
// platform: it loads the tuning, picks the characters, feeds keyboard input
// and CPU decisions into the match, and draws snapshots.
package brawl

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/tui-brawl/internal/config"
	"github.com/vovakirdan/tui-brawl/internal/core"
	"github.com/vovakirdan/tui-brawl/internal/registry"
)

// Registered game IDs.
const (
	IDVersusCPU = "brawl"
	IDDemo      = "brawl_demo"
)

// flashFrames is how long the screen shakes after a landed hit.
const flashFrames = 6

var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	playerKind       = Mage
	playerRandom     = true
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names keep the
// config's own difficulty settings.
func SetDifficultyPreset(preset string) {
	p, err := config.ParseDifficulty(preset)
	if err != nil || preset == "" {
		difficultyPreset = ""
		return
	}
	difficultyPreset = p
}

// SetPlayerCharacter fixes the human fighter for games created afterwards.
func SetPlayerCharacter(kind Kind) {
	playerKind = kind
	playerRandom = false
}

// PlayerCharacter returns the character the next match gives the player and
// whether it was chosen explicitly.
func PlayerCharacter() (Kind, bool) {
	return playerKind, !playerRandom
}

// LoadTuning reads the config set with SetConfigPath and applies the
// difficulty preset. On error it falls back to the defaults and still
// returns the error so callers can report it.
func LoadTuning() (config.BrawlConfig, *Characters, error) {
	cfg, loadErr := config.LoadBrawl(configPath)
	if loadErr != nil {
		cfg = config.DefaultBrawlConfig()
	}
	if difficultyPreset != "" {
		config.ApplyBrawlPreset(&cfg, difficultyPreset)
	}

	chars, err := NewCharacters(cfg)
	if err != nil {
		cfg = config.DefaultBrawlConfig()
		chars, _ = NewCharacters(cfg)
		return cfg, chars, err
	}
	return cfg, chars, loadErr
}

// Summary describes a finished match for the history.
type Summary struct {
	Mode       string
	Player     Kind
	Opponent   Kind
	Winner     int // Slot, NoWinner for a draw
	Ticks      int
	StocksLeft [2]int
	Damage     [2]float64 // Total damage dealt by each slot
	KOs        [2]int     // Stocks taken by each slot
}

// Game adapts a Match to the registry.Game interface.
type Game struct {
	id   string
	demo bool

	cfg        config.BrawlConfig
	chars      *Characters
	rules      Rules
	match      *Match
	difficulty *config.DifficultyManager
	rng        *rand.Rand
	runtime    core.RuntimeConfig
	kinds      [2]Kind
	choice     Kind // Per-game pick, overrides the package setting
	chosen     bool

	view    *View
	snap    Snapshot
	paused  bool
	damage  [2]float64
	kos     [2]int
	loadErr error
}

// New creates a player-versus-CPU game.
func New() *Game {
	return &Game{id: IDVersusCPU}
}

// NewDemo creates a CPU-versus-CPU game.
func NewDemo() *Game {
	return &Game{id: IDDemo, demo: true}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.demo {
		return "Brawl (CPU vs CPU)"
	}
	return "Brawl"
}

// Reset loads the tuning, picks both characters and starts a new match.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.rng = rand.New(rand.NewSource(runtime.Seed))

	cfg, chars, err := LoadTuning()
	g.loadErr = err
	g.cfg = cfg
	g.chars = chars
	g.rules = NewRules(cfg)
	g.difficulty = config.NewDifficultyManager(cfg.AI.Difficulty)

	switch {
	case g.chosen:
		g.kinds[0] = g.choice
	case g.demo || playerRandom:
		g.kinds[0] = g.randomKind()
	default:
		g.kinds[0] = playerKind
	}
	g.kinds[1] = g.randomKind()

	g.match = NewMatch(g.rules, [2]*CharacterDef{chars.Get(g.kinds[0]), chars.Get(g.kinds[1])})
	g.snap = g.match.Snapshot()
	g.view = NewView(g.Title(), [2]string{g.slotLabel(0), g.slotLabel(1)}, g.rules.Stage, cfg.Stage.View, runtime.TickRate)
	g.paused = false
	g.damage = [2]float64{}
	g.kos = [2]int{}
}

func (g *Game) randomKind() Kind {
	return Roster[g.rng.Intn(len(Roster))]
}

// Step advances the match by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.match == nil || g.match.Result().Over {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	var intents [2]Intent
	if g.demo {
		intents[0] = g.cpuIntent(0)
	} else {
		intents[0] = IntentFromInput(in)
	}
	intents[1] = g.cpuIntent(1)

	g.snap = g.match.Step(intents)
	g.view.Observe(g.snap)

	for _, e := range g.snap.Events {
		switch e.Kind {
		case EventHit:
			g.damage[e.Attacker] += e.Damage
		case EventKO:
			g.kos[1-e.Slot]++
		}
	}

	return core.StepResult{State: g.State()}
}

// cpuIntent asks the policy what the fighter in slot does this tick.
// Difficulty ramps with match time and the KOs the human has scored.
func (g *Game) cpuIntent(slot int) Intent {
	level := g.difficulty.Level(g.kos[0], g.match.Tick())
	t := NewAITuning(g.cfg.AI, g.rules.Stage, level)
	return Decide(g.match.Fighter(slot), g.match.Fighter(1-slot), t).Intent()
}

// State returns the current game state. Score is the number of stocks the
// player has taken.
func (g *Game) State() core.GameState {
	if g.match == nil {
		return core.GameState{}
	}
	st := core.GameState{
		Score:    g.kos[0],
		GameOver: g.match.Result().Over,
		Paused:   g.paused,
	}
	if st.GameOver {
		st.Winner = g.WinnerName()
	}
	return st
}

// WinnerName labels the winner for display, or "Draw".
func (g *Game) WinnerName() string {
	return g.view.WinnerName(g.snap)
}

func (g *Game) slotLabel(slot int) string {
	if g.demo {
		return fmt.Sprintf("CPU %d", slot+1)
	}
	if slot == 0 {
		return "P1"
	}
	return "CPU"
}

// Render draws the current snapshot.
func (g *Game) Render(dst *core.Screen) {
	if g.view == nil {
		dst.Clear()
		return
	}
	g.view.Draw(dst, g.snap, g.paused)
}

// Snapshot returns the state after the last tick.
func (g *Game) Snapshot() Snapshot {
	return g.snap
}

// Kinds returns the characters of both slots.
func (g *Game) Kinds() [2]Kind {
	return g.kinds
}

// ChoosePlayer fixes the human fighter of this game only. Sessions that
// share the process use it instead of SetPlayerCharacter.
func (g *Game) ChoosePlayer(kind Kind) {
	g.choice = kind
	g.chosen = true
}

// IsDemo reports whether both fighters are CPU controlled.
func (g *Game) IsDemo() bool {
	return g.demo
}

// LoadError returns the config error the last Reset recovered from, if any.
func (g *Game) LoadError() error {
	return g.loadErr
}

// Summary describes the match so far. It is final once State().GameOver is set.
func (g *Game) Summary() Summary {
	f := g.match.Fighters()
	return Summary{
		Mode:       g.id,
		Player:     g.kinds[0],
		Opponent:   g.kinds[1],
		Winner:     g.match.Result().Winner,
		Ticks:      g.match.Tick(),
		StocksLeft: [2]int{f[0].Stocks, f[1].Stocks},
		Damage:     g.damage,
		KOs:        g.kos,
	}
}

// Register the game with the registry
func init() {
	registry.Register(IDVersusCPU, func() registry.Game {
		return New()
	})
	registry.Register(IDDemo, func() registry.Game {
		return NewDemo()
	})
}
