// Package registry maps mode IDs to game factories.
// Game packages register their modes in init(), so the CLI, the menu and the
// SSH server can start a fight without importing the game directly.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-brawl/internal/core"
)

// ErrUnknownMode is returned by Create for an ID nobody registered.
var ErrUnknownMode = errors.New("registry: unknown mode")

// Game is the interface the platform drives. Implementations hold pure
// simulation logic and never touch Bubble Tea: the platform maps keys to
// actions, runs the fixed tick and paints the screen buffer.
type Game interface {
	// ID returns the mode identifier (e.g. "brawl", "brawl_demo").
	// It is the key for CLI commands and match history.
	ID() string

	// Title returns the name shown in menus and the title bar.
	Title() string

	// Reset starts a fresh match. Called before the first Step and again
	// for every rematch.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by exactly one tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into a cleared screen buffer.
	Render(dst *core.Screen)

	// State returns score, pause and match-over status.
	State() core.GameState
}

// GameInfo describes a registered mode.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a fresh game for one session.
type Factory func() Game

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
)

// Register adds a mode. It panics on a duplicate ID.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: mode %q already registered", id))
	}
	factories[id] = f
	titles[id] = f().Title()
}

// List returns every registered mode, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{ID: id, Title: titles[id]})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates the mode registered under id.
func Create(id string) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownMode, id)
	}
	return f(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
