package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-brawl/internal/games/brawl"
)

// Lobby is a hosted match waiting for an opponent.
type Lobby struct {
	Code      string
	Host      Player
	CreatedAt time.Time
}

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // How long before an unjoined lobby expires
	TickRate      int           // Match tick rate (Hz)
	CleanupPeriod time.Duration // How often to clean up expired lobbies
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  2 * time.Minute,
		TickRate:      60,
		CleanupPeriod: 30 * time.Second,
	}
}

// MatchResultSaver is an interface for saving match results.
// This allows the coordinator to save results without depending on the storage package.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData contains match result data for persistence.
type MatchResultData struct {
	MatchID   string
	Code      string
	Usernames [2]string
	Kinds     [2]string // Character keys by slot
	Winner    int       // Slot, brawl.NoWinner for a draw
	EndReason string
	Ticks     int
	Stocks    [2]int
	Damage    [2]float64
	KOs       [2]int
}

// rematch keeps a finished pairing around until both sides decide.
type rematch struct {
	code    string
	players [2]Player
	ready   [2]bool
}

// Coordinator manages lobbies and active matches.
type Coordinator struct {
	config      CoordinatorConfig
	arenas      ArenaFactory
	sessions    *SessionRegistry
	resultSaver MatchResultSaver // Optional, can be nil
	logger      *log.Logger

	mu        sync.RWMutex
	lobbies   map[string]*Lobby        // code -> lobby
	matches   map[MatchID]*OnlineMatch // running matches
	rematches map[MatchID]*rematch     // finished matches awaiting a rematch decision

	// Track which session is in which lobby/match
	sessionLobby map[SessionID]string  // sessionID -> lobby code
	sessionMatch map[SessionID]MatchID // sessionID -> running or finished match

	// Message channel for async processing
	msgChan  chan CoordinatorMessage
	done     chan struct{}
	stopOnce sync.Once
}

// NewCoordinator creates a new coordinator. A nil factory uses
// DefaultArenaFactory.
func NewCoordinator(cfg CoordinatorConfig, arenas ArenaFactory, sessions *SessionRegistry) *Coordinator {
	if arenas == nil {
		arenas = DefaultArenaFactory
	}
	return &Coordinator{
		config:       cfg,
		arenas:       arenas,
		sessions:     sessions,
		logger:       log.New(io.Discard),
		lobbies:      make(map[string]*Lobby),
		matches:      make(map[MatchID]*OnlineMatch),
		rematches:    make(map[MatchID]*rematch),
		sessionLobby: make(map[SessionID]string),
		sessionMatch: make(map[SessionID]MatchID),
		msgChan:      make(chan CoordinatorMessage, 256),
		done:         make(chan struct{}),
	}
}

// SetResultSaver sets the optional match result saver.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// SetLogger sets the logger for lobby and match lifecycle messages.
func (c *Coordinator) SetLogger(logger *log.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Start begins the coordinator's background processing.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts down the coordinator and every running match.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.matches {
		m.Stop()
	}
}

// Send sends a message to the coordinator for async processing.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

// processMessages handles incoming messages.
func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case LeaveMatchMsg:
		c.handleLeaveMatch(m)
	case PlayerInputMsg:
		c.handlePlayerInput(m)
	case ReadyForRematchMsg:
		c.handleReadyForRematch(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	}
}

// busyReason explains why a session cannot host or join, or returns "".
// Must be called with lock held.
func (c *Coordinator) busyReason(id SessionID) string {
	if _, ok := c.sessionLobby[id]; ok {
		return "Already in a lobby"
	}
	if _, ok := c.sessionMatch[id]; ok {
		return "Already in a match"
	}
	return ""
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if reason := c.busyReason(msg.SessionID); reason != "" {
		session.Send(LobbyErrorEvent{Message: reason})
		return
	}

	code := c.generateUniqueCode()
	c.lobbies[code] = &Lobby{
		Code:      code,
		Host:      Player{Session: session, Username: msg.Username, Kind: msg.Kind},
		CreatedAt: time.Now(),
	}
	c.sessionLobby[msg.SessionID] = code

	c.logger.Info("lobby created", "code", code, "host", msg.Username, "character", msg.Kind)
	session.Send(LobbyCreatedEvent{Code: code})
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if reason := c.busyReason(msg.SessionID); reason != "" {
		session.Send(LobbyErrorEvent{Message: reason})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	lobby, exists := c.lobbies[code]
	if !exists {
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	}
	if lobby.Host.Session.ID() == msg.SessionID {
		session.Send(LobbyErrorEvent{Message: "Cannot join your own lobby"})
		return
	}

	delete(c.lobbies, code)
	delete(c.sessionLobby, lobby.Host.Session.ID())

	joiner := Player{Session: session, Username: msg.Username, Kind: msg.Kind}
	c.startMatch(code, [2]Player{lobby.Host, joiner})
}

// startMatch builds the arena and launches the match loop.
// Must be called with lock held.
func (c *Coordinator) startMatch(code string, players [2]Player) {
	arena, err := c.arenas([2]brawl.Kind{players[0].Kind, players[1].Kind})
	if err != nil {
		c.logger.Error("cannot create arena", "code", code, "err", err)
		for _, p := range players {
			delete(c.sessionMatch, p.Session.ID())
			p.Session.Send(LobbyErrorEvent{Message: "Failed to create match"})
		}
		return
	}

	matchID := MatchID(fmt.Sprintf("match-%s-%d", code, time.Now().UnixNano()))
	match := NewOnlineMatch(matchID, code, arena, players, c.config.TickRate)

	c.matches[matchID] = match
	for side, p := range players {
		c.sessionMatch[p.Session.ID()] = matchID
		p.Session.Send(match.StartEvent(Side(side)))
	}

	c.logger.Info("match started", "match", matchID,
		"host", players[0].Username, "guest", players[1].Username,
		"characters", fmt.Sprintf("%s vs %s", players[0].Kind, players[1].Kind))

	go match.Run(func(result MatchResult) {
		c.handleMatchEnded(matchID, result)
	})
}

func (c *Coordinator) handleMatchEnded(matchID MatchID, result MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	match, exists := c.matches[matchID]
	if !exists {
		return
	}
	delete(c.matches, matchID)
	players := match.Players()

	c.logger.Info("match ended", "match", matchID, "reason", result.Reason, "winner", result.Winner, "ticks", result.Ticks)

	if c.resultSaver != nil {
		data := MatchResultData{
			MatchID:   string(matchID),
			Code:      match.Code(),
			Usernames: [2]string{players[0].Username, players[1].Username},
			Kinds:     [2]string{players[0].Kind.Key(), players[1].Kind.Key()},
			Winner:    result.Winner,
			EndReason: result.Reason.String(),
			Ticks:     result.Ticks,
			Stocks:    result.Stocks,
			Damage:    result.Damage,
			KOs:       result.KOs,
		}
		// Best effort, the match is over either way
		go func() {
			if err := c.resultSaver.SaveMatchResult(data); err != nil {
				c.logger.Warn("cannot save match result", "match", data.MatchID, "err", err)
			}
		}()
	}

	if result.Reason == MatchEndReasonCompleted {
		c.rematches[matchID] = &rematch{code: match.Code(), players: players}
	} else {
		for _, p := range players {
			delete(c.sessionMatch, p.Session.ID())
		}
	}

	endEvent := MatchEndedEvent{
		MatchID: matchID,
		Reason:  result.Reason,
		Winner:  result.Winner,
		Stocks:  result.Stocks,
		KOs:     result.KOs,
	}
	for _, p := range players {
		p.Session.Send(endEvent)
	}
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	code := strings.ToUpper(msg.Code)
	lobby, exists := c.lobbies[code]
	if !exists || lobby.Host.Session.ID() != msg.SessionID {
		return
	}

	delete(c.lobbies, code)
	delete(c.sessionLobby, msg.SessionID)
	c.logger.Info("lobby cancelled", "code", code)
}

func (c *Coordinator) handleLeaveMatch(msg LeaveMatchMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if match, running := c.matches[msg.MatchID]; running {
		match.Forfeit(msg.SessionID)
		return
	}
	if _, pending := c.rematches[msg.MatchID]; pending {
		c.dropRematch(msg.MatchID, msg.SessionID)
	}
}

func (c *Coordinator) handleReadyForRematch(msg ReadyForRematchMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rm, exists := c.rematches[msg.MatchID]
	if !exists {
		return
	}

	side := SideHost
	if rm.players[SideGuest].Session.ID() == msg.SessionID {
		side = SideGuest
	} else if rm.players[SideHost].Session.ID() != msg.SessionID {
		return
	}

	rm.ready[side] = true
	if !rm.ready[side.Other()] {
		rm.players[side.Other()].Session.Send(RematchStatusEvent{MatchID: msg.MatchID, OpponentReady: true})
		return
	}

	delete(c.rematches, msg.MatchID)
	c.startMatch(rm.code, rm.players)
}

// dropRematch cancels a pending rematch because leaver is gone.
// Must be called with lock held.
func (c *Coordinator) dropRematch(matchID MatchID, leaver SessionID) {
	rm := c.rematches[matchID]
	delete(c.rematches, matchID)

	for _, p := range rm.players {
		delete(c.sessionMatch, p.Session.ID())
		if p.Session.ID() != leaver {
			p.Session.Send(RematchStatusEvent{MatchID: matchID, OpponentLeft: true})
		}
	}
}

func (c *Coordinator) handlePlayerInput(msg PlayerInputMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if !exists {
		return
	}

	match.SendInput(msg)
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if code, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		delete(c.lobbies, code)
		delete(c.sessionLobby, msg.SessionID)
		c.logger.Info("lobby closed", "code", code, "reason", "host disconnected")
	}

	matchID, inMatch := c.sessionMatch[msg.SessionID]
	if !inMatch {
		return
	}
	if match, running := c.matches[matchID]; running {
		match.PlayerDisconnected(msg.SessionID)
		return
	}
	if _, pending := c.rematches[matchID]; pending {
		c.dropRematch(matchID, msg.SessionID)
	}
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpiredLobbies(time.Now())
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupExpiredLobbies(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for code, lobby := range c.lobbies {
		if now.Sub(lobby.CreatedAt) > c.config.LobbyTimeout {
			lobby.Host.Session.Send(LobbyErrorEvent{Message: "Lobby expired"})
			delete(c.sessionLobby, lobby.Host.Session.ID())
			delete(c.lobbies, code)
			c.logger.Info("lobby expired", "code", code)
		}
	}
}

func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates a 6-character uppercase alphanumeric code.
func generateJoinCode() string {
	b := make([]byte, 4) // 4 bytes = 32 bits, base32 encodes to 8 chars, we take 6
	_, err := rand.Read(b)
	if err != nil {
		// Fallback to timestamp-based
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b)[:6]
}

// GetLobby returns a lobby by code (for testing/debug).
func (c *Coordinator) GetLobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lobbies[strings.ToUpper(code)]
	return l, ok
}

// GetMatch returns a running match by ID (for testing/debug).
func (c *Coordinator) GetMatch(id MatchID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

// LobbyCount returns the number of open lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

// MatchCount returns the number of running matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}
