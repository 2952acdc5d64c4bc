package multiplayer

import (
	"github.com/vovakirdan/tui-brawl/internal/config"
	"github.com/vovakirdan/tui-brawl/internal/core"
	"github.com/vovakirdan/tui-brawl/internal/games/brawl"
)

// SessionEvent represents an event sent from the coordinator to a session.
type SessionEvent interface {
	sessionEvent()
}

// LobbyCreatedEvent is sent when a lobby is successfully created.
type LobbyCreatedEvent struct {
	Code string
}

func (LobbyCreatedEvent) sessionEvent() {}

// LobbyErrorEvent is sent when a lobby operation fails.
type LobbyErrorEvent struct {
	Message string
}

func (LobbyErrorEvent) sessionEvent() {}

// MatchStartedEvent is sent to both sessions when a match begins. It carries
// everything a session needs to draw the snapshots that follow.
type MatchStartedEvent struct {
	MatchID MatchID
	Code    string
	Side    Side
	Names   [2]string // Usernames by slot
	Kinds   [2]brawl.Kind
	Stage   brawl.Stage
	Frame   config.ViewConfig
}

func (MatchStartedEvent) sessionEvent() {}

// MatchEndedEvent is sent when the match ends for any reason.
type MatchEndedEvent struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  int // Slot, brawl.NoWinner for a draw or an aborted lobby
	Stocks  [2]int
	KOs     [2]int
}

func (MatchEndedEvent) sessionEvent() {}

// RematchStatusEvent tells a session what its opponent chose after a match.
type RematchStatusEvent struct {
	MatchID       MatchID
	OpponentReady bool
	OpponentLeft  bool // No rematch is possible any more
}

func (RematchStatusEvent) sessionEvent() {}

// MatchEndReason describes why a match ended.
type MatchEndReason int

const (
	MatchEndReasonCompleted  MatchEndReason = iota // Last stock lost
	MatchEndReasonDisconnect                       // Opponent disconnected
	MatchEndReasonCancelled                        // Match was cancelled
	MatchEndReasonHostLeft                         // Host left the lobby
	MatchEndReasonForfeit                          // Opponent quit the match
)

func (r MatchEndReason) String() string {
	switch r {
	case MatchEndReasonCompleted:
		return "Match completed"
	case MatchEndReasonDisconnect:
		return "Opponent disconnected"
	case MatchEndReasonCancelled:
		return "Match cancelled"
	case MatchEndReasonHostLeft:
		return "Host left"
	case MatchEndReasonForfeit:
		return "Opponent forfeited"
	default:
		return "Unknown"
	}
}

// SnapshotEvent carries the state after one server tick.
type SnapshotEvent struct {
	MatchID  MatchID
	Snapshot brawl.Snapshot
}

func (SnapshotEvent) sessionEvent() {}

// CoordinatorMessage represents a message from a session to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// CreateLobbyMsg requests creation of a new lobby.
type CreateLobbyMsg struct {
	SessionID SessionID
	Username  string
	Kind      brawl.Kind
}

func (CreateLobbyMsg) coordinatorMessage() {}

// JoinLobbyMsg requests joining an existing lobby.
type JoinLobbyMsg struct {
	SessionID SessionID
	Username  string
	Kind      brawl.Kind
	Code      string
}

func (JoinLobbyMsg) coordinatorMessage() {}

// CancelLobbyMsg requests cancellation of a hosted lobby.
type CancelLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (CancelLobbyMsg) coordinatorMessage() {}

// LeaveMatchMsg forfeits a running match, or declines the rematch of a
// finished one.
type LeaveMatchMsg struct {
	SessionID SessionID
	MatchID   MatchID
}

func (LeaveMatchMsg) coordinatorMessage() {}

// PlayerInputMsg forwards the key presses of one side to its match.
type PlayerInputMsg struct {
	MatchID MatchID
	Side    Side
	Actions []core.Action
}

func (PlayerInputMsg) coordinatorMessage() {}

// ReadyForRematchMsg signals readiness for a rematch.
type ReadyForRematchMsg struct {
	SessionID SessionID
	MatchID   MatchID
}

func (ReadyForRematchMsg) coordinatorMessage() {}

// SessionDisconnectedMsg is sent when a session disconnects.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}
