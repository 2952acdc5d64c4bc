package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-brawl/internal/core"
)

// FightKeyMap defines the key bindings used during a match.
type FightKeyMap struct {
	Left    key.Binding
	Right   key.Binding
	Jump    key.Binding
	Light   key.Binding
	Heavy   key.Binding
	Special key.Binding
	Pause   key.Binding
	Restart key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k FightKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Jump, k.Light, k.Heavy, k.Special, k.Pause, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k FightKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Jump},
		{k.Light, k.Heavy, k.Special},
		{k.Pause, k.Restart, k.Back, k.Quit},
	}
}

// DefaultFightKeyMap returns default key bindings.
func DefaultFightKeyMap() FightKeyMap {
	return FightKeyMap{
		Left: key.NewBinding(
			key.WithKeys("a", "left"),
			key.WithHelp("a/left", "walk left"),
		),
		Right: key.NewBinding(
			key.WithKeys("d", "right"),
			key.WithHelp("d/right", "walk right"),
		),
		Jump: key.NewBinding(
			key.WithKeys("w", "up", " "),
			key.WithHelp("w/space", "jump"),
		),
		Light: key.NewBinding(
			key.WithKeys("z", "j"),
			key.WithHelp("z/j", "light"),
		),
		Heavy: key.NewBinding(
			key.WithKeys("x", "k"),
			key.WithHelp("x/k", "heavy"),
		),
		Special: key.NewBinding(
			key.WithKeys("c", "l"),
			key.WithHelp("c/l", "special"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p/esc", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rematch"),
		),
		Back: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "characters"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys     FightKeyMap
	bindings []actionBinding
}

type actionBinding struct {
	binding key.Binding
	action  core.Action
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	k := DefaultFightKeyMap()
	return &KeyMapper{
		keys: k,
		bindings: []actionBinding{
			{k.Left, core.ActionLeft},
			{k.Right, core.ActionRight},
			{k.Jump, core.ActionJump},
			{k.Light, core.ActionLight},
			{k.Heavy, core.ActionHeavy},
			{k.Special, core.ActionSpecial},
			{k.Pause, core.ActionPause},
			{k.Restart, core.ActionRestart},
			{k.Back, core.ActionBack},
		},
	}
}

// Keys returns the fight bindings for help views.
func (km *KeyMapper) Keys() FightKeyMap {
	return km.keys
}

// MapKey translates a key message to a fight action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	if key.Matches(msg, km.keys.Quit) {
		return core.ActionQuit, true
	}
	if msg.String() == "enter" {
		return core.ActionConfirm, false
	}
	for _, b := range km.bindings {
		if key.Matches(msg, b.binding) {
			return b.action, false
		}
	}
	return core.ActionNone, false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionHistory
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionLeft
	case "d", "right", "l":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionHistory
	}

	return MenuActionNone
}
