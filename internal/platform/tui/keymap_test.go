package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-brawl/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKeyFightActions(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Action
	}{
		{"a walks left", runeKey('a'), core.ActionLeft},
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft},
		{"d walks right", runeKey('d'), core.ActionRight},
		{"w jumps", runeKey('w'), core.ActionJump},
		{"space jumps", runeKey(' '), core.ActionJump},
		{"z light", runeKey('z'), core.ActionLight},
		{"j light", runeKey('j'), core.ActionLight},
		{"x heavy", runeKey('x'), core.ActionHeavy},
		{"k heavy", runeKey('k'), core.ActionHeavy},
		{"c special", runeKey('c'), core.ActionSpecial},
		{"l special", runeKey('l'), core.ActionSpecial},
		{"p pauses", runeKey('p'), core.ActionPause},
		{"esc pauses", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionPause},
		{"r restarts", runeKey('r'), core.ActionRestart},
		{"b goes back", runeKey('b'), core.ActionBack},
		{"enter confirms", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm},
		{"unbound key", runeKey('y'), core.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, quit := km.MapKey(tt.msg)
			if quit {
				t.Fatalf("%q reported as quit", tt.msg.String())
			}
			if got != tt.want {
				t.Errorf("MapKey(%q) = %v, expected %v", tt.msg.String(), got, tt.want)
			}
		})
	}
}

func TestMapKeyQuit(t *testing.T) {
	km := NewKeyMapper()

	for _, msg := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyCtrlC}} {
		action, quit := km.MapKey(msg)
		if !quit || action != core.ActionQuit {
			t.Errorf("MapKey(%q) = (%v, %v), expected quit", msg.String(), action, quit)
		}
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{runeKey('q'), MenuActionQuit},
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey('k'), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{runeKey('j'), MenuActionDown},
		{runeKey('h'), MenuActionLeft},
		{runeKey('l'), MenuActionRight},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionHistory},
		{runeKey('y'), MenuActionNone},
	}

	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tt.msg.String(), got, tt.want)
		}
	}
}

func TestFightKeyMapHelp(t *testing.T) {
	keys := DefaultFightKeyMap()

	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help is empty")
	}
	n := 0
	for _, col := range keys.FullHelp() {
		n += len(col)
	}
	if n < len(keys.ShortHelp()) {
		t.Errorf("full help lists %d bindings, fewer than the short help", n)
	}
}
