package multiplayer

import "sync"

// SessionHandle is the transport-neutral interface for communicating with a session.
// It allows the coordinator and matches to send events without depending on Wish/Bubble Tea.
type SessionHandle interface {
	// ID returns the unique session identifier.
	ID() SessionID

	// Send delivers an event to the session. It must not block.
	Send(evt SessionEvent)

	// Done returns a channel that closes when the session ends.
	Done() <-chan struct{}
}

// ChannelSession is a SessionHandle implementation using Go channels.
// Snapshots and lifecycle events travel separately: a slow reader only ever
// misses stale snapshots, never a start or end of match.
type ChannelSession struct {
	id       SessionID
	events   chan SessionEvent
	snaps    chan SnapshotEvent // Holds at most the newest snapshot
	done     chan struct{}
	doneOnce sync.Once

	mu       sync.Mutex
	overflow []SessionEvent // Lifecycle events that did not fit in events
}

// NewChannelSession creates a new channel-based session handle.
// eventBufferSize sizes the lifecycle queue.
func NewChannelSession(id SessionID, eventBufferSize int) *ChannelSession {
	if eventBufferSize < 1 {
		eventBufferSize = 16
	}
	return &ChannelSession{
		id:     id,
		events: make(chan SessionEvent, eventBufferSize),
		snaps:  make(chan SnapshotEvent, 1),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Send queues an event. A snapshot replaces any snapshot not yet read.
func (s *ChannelSession) Send(evt SessionEvent) {
	select {
	case <-s.done:
		return
	default:
	}

	if snap, ok := evt.(SnapshotEvent); ok {
		s.sendSnapshot(snap)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.overflow) == 0 {
		select {
		case s.events <- evt:
			return
		default:
		}
	}
	s.overflow = append(s.overflow, evt)
}

func (s *ChannelSession) sendSnapshot(snap SnapshotEvent) {
	for {
		select {
		case s.snaps <- snap:
			return
		default:
		}
		select {
		case <-s.snaps:
		default:
		}
	}
}

// Next blocks until an event arrives or the session closes. Lifecycle
// events win over snapshots when both are pending. ok is false once the
// session is done.
func (s *ChannelSession) Next() (evt SessionEvent, ok bool) {
	if evt, ok := s.poll(); ok {
		return evt, true
	}
	select {
	case evt := <-s.events:
		s.refill()
		return evt, true
	case snap := <-s.snaps:
		return snap, true
	case <-s.done:
		return nil, false
	}
}

func (s *ChannelSession) poll() (SessionEvent, bool) {
	select {
	case evt := <-s.events:
		s.refill()
		return evt, true
	default:
		return nil, false
	}
}

// refill moves overflowed events into the queue as room frees up.
func (s *ChannelSession) refill() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.overflow) > 0 {
		select {
		case s.events <- s.overflow[0]:
			s.overflow = s.overflow[1:]
		default:
			return
		}
	}
}

// Done returns the done channel.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Close marks the session as done.
// Safe to call multiple times.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// SessionRegistry tracks active sessions.
// Thread-safe for concurrent access.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

// NewSessionRegistry creates a new session registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[SessionID]SessionHandle),
	}
}

// Register adds a session to the registry.
func (r *SessionRegistry) Register(session SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
}

// Unregister removes a session from the registry.
func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get retrieves a session by ID.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of registered sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
