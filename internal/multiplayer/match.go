package multiplayer

import (
	"sync"
	"time"

	"github.com/vovakirdan/tui-brawl/internal/core"
	"github.com/vovakirdan/tui-brawl/internal/games/brawl"
)

// MatchResult contains the outcome of a completed match.
type MatchResult struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  int // Slot, brawl.NoWinner for a draw
	Ticks   int
	Stocks  [2]int
	Damage  [2]float64 // Damage dealt by each slot
	KOs     [2]int     // Stocks taken by each slot
}

// OnlineMatch is the authoritative loop of one brawl between two sessions.
// Sessions only contribute key presses; the match owns the simulation and
// broadcasts a snapshot every tick.
type OnlineMatch struct {
	id      MatchID
	code    string
	arena   Arena
	players [2]Player

	// Input handling
	held      [2]*core.HeldInput
	inputChan chan PlayerInputMsg

	// Match state
	tickRate int
	damage   [2]float64
	kos      [2]int
	done     chan struct{}
	doneOnce sync.Once

	// Disconnect handling
	departures chan departure
}

type departure struct {
	session SessionID
	reason  MatchEndReason
}

// NewOnlineMatch creates a new online match.
func NewOnlineMatch(id MatchID, code string, arena Arena, players [2]Player, tickRate int) *OnlineMatch {
	tickRate = max(tickRate, 1)
	return &OnlineMatch{
		id:         id,
		code:       code,
		arena:      arena,
		players:    players,
		held:       [2]*core.HeldInput{core.NewHeldInput(tickRate), core.NewHeldInput(tickRate)},
		inputChan:  make(chan PlayerInputMsg, 64),
		tickRate:   tickRate,
		done:       make(chan struct{}),
		departures: make(chan departure, 2),
	}
}

// ID returns the match identifier.
func (m *OnlineMatch) ID() MatchID {
	return m.id
}

// Code returns the join code used to create this match.
func (m *OnlineMatch) Code() string {
	return m.code
}

// Players returns both participants by slot.
func (m *OnlineMatch) Players() [2]Player {
	return m.players
}

// StartEvent builds the MatchStartedEvent for side.
func (m *OnlineMatch) StartEvent(side Side) MatchStartedEvent {
	return MatchStartedEvent{
		MatchID: m.id,
		Code:    m.code,
		Side:    side,
		Names:   [2]string{m.players[0].Username, m.players[1].Username},
		Kinds:   [2]brawl.Kind{m.players[0].Kind, m.players[1].Kind},
		Stage:   m.arena.Stage,
		Frame:   m.arena.Frame,
	}
}

// SendInput queues key presses for the next tick.
// Non-blocking, uses a buffered channel.
func (m *OnlineMatch) SendInput(msg PlayerInputMsg) {
	select {
	case m.inputChan <- msg:
	default:
		// Channel full, drop input (rare under normal conditions)
	}
}

// PlayerDisconnected signals that a player's connection is gone.
func (m *OnlineMatch) PlayerDisconnected(sessionID SessionID) {
	m.depart(departure{session: sessionID, reason: MatchEndReasonDisconnect})
}

// Forfeit signals that a player quit the running match.
func (m *OnlineMatch) Forfeit(sessionID SessionID) {
	m.depart(departure{session: sessionID, reason: MatchEndReasonForfeit})
}

func (m *OnlineMatch) depart(d departure) {
	select {
	case m.departures <- d:
	default:
	}
}

// Run starts the authoritative match loop.
// The callback is called when the match ends.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer m.Stop()

	ticker := time.NewTicker(time.Second / time.Duration(m.tickRate))
	defer ticker.Stop()

	// Monitor session disconnects
	go m.monitorSessions()

	for {
		select {
		case <-ticker.C:
			if result, over := m.runTick(); over {
				if onComplete != nil {
					onComplete(result)
				}
				return
			}

		case d := <-m.departures:
			if onComplete != nil {
				onComplete(m.forfeit(d.session, d.reason))
			}
			return

		case <-m.done:
			return
		}
	}
}

// runTick advances the simulation once and broadcasts the snapshot.
func (m *OnlineMatch) runTick() (MatchResult, bool) {
	m.drainInputs()

	var intents [2]brawl.Intent
	for i, h := range m.held {
		intents[i] = brawl.IntentFromInput(h.Frame())
	}
	snap := m.arena.Match.Step(intents)

	for _, e := range snap.Events {
		switch e.Kind {
		case brawl.EventHit:
			m.damage[e.Attacker] += e.Damage
		case brawl.EventKO:
			m.kos[1-e.Slot]++
		}
	}

	evt := SnapshotEvent{MatchID: m.id, Snapshot: snap}
	for _, p := range m.players {
		p.Session.Send(evt)
	}

	if !snap.Result.Over {
		return MatchResult{}, false
	}
	return m.result(MatchEndReasonCompleted, snap.Result.Winner), true
}

func (m *OnlineMatch) drainInputs() {
	for {
		select {
		case msg := <-m.inputChan:
			if msg.Side != SideHost && msg.Side != SideGuest {
				continue
			}
			for _, a := range msg.Actions {
				m.held[msg.Side].Press(a)
			}
		default:
			return
		}
	}
}

// forfeit ends the match in favor of whoever did not leave.
func (m *OnlineMatch) forfeit(sessionID SessionID, reason MatchEndReason) MatchResult {
	winner := SideHost
	if sessionID == m.players[SideHost].Session.ID() {
		winner = SideGuest
	}
	return m.result(reason, winner.Slot())
}

func (m *OnlineMatch) result(reason MatchEndReason, winner int) MatchResult {
	fighters := m.arena.Match.Fighters()
	return MatchResult{
		MatchID: m.id,
		Reason:  reason,
		Winner:  winner,
		Ticks:   m.arena.Match.Tick(),
		Stocks:  [2]int{fighters[0].Stocks, fighters[1].Stocks},
		Damage:  m.damage,
		KOs:     m.kos,
	}
}

func (m *OnlineMatch) monitorSessions() {
	host, guest := m.players[SideHost].Session, m.players[SideGuest].Session
	select {
	case <-host.Done():
		m.PlayerDisconnected(host.ID())
	case <-guest.Done():
		m.PlayerDisconnected(guest.ID())
	case <-m.done:
	}
}

// Stop ends the loop without reporting a result.
func (m *OnlineMatch) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}
