// Package tui provides the Bubble Tea integration for the brawler.
// It handles the terminal UI loop, input mapping, and screen orchestration.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a simulation tick. Loop tells apart the tick
// chains of different fight screens sharing one program.
type TickMsg struct {
	Loop int64
	At   time.Time
}

var loopSeq atomic.Int64

// nextLoop returns a fresh tick chain ID.
func nextLoop() int64 {
	return loopSeq.Add(1)
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(loop int64, tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(max(tickRate, 1))
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Loop: loop, At: t}
	})
}
