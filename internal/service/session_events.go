package service

import (
	"sync"

	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
)

// SessionEventKind names a session lifecycle transition.
type SessionEventKind string

const (
	SessionLogin    SessionEventKind = "login"
	SessionRegister SessionEventKind = "register"
	SessionLogout   SessionEventKind = "logout"
)

// SessionEvent is published after a successful session mutation.
type SessionEvent struct {
	Kind      SessionEventKind
	SessionID string
	Role      domainauth.Role
}

const sessionEventBuffer = 64

// SessionEvents fans session lifecycle events out to subscribers.
// Publishing never blocks: a subscriber whose buffer is full misses the event.
type SessionEvents struct {
	mu      sync.Mutex
	subs    map[chan SessionEvent]struct{}
	dropped uint64
}

// NewSessionEvents constructs an empty broker.
func NewSessionEvents() *SessionEvents {
	return &SessionEvents{subs: make(map[chan SessionEvent]struct{})}
}

// Subscribe registers a subscriber. Call the returned func to unsubscribe; the channel is then closed.
func (e *SessionEvents) Subscribe() (func(), <-chan SessionEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch := make(chan SessionEvent, sessionEventBuffer)
	e.subs[ch] = struct{}{}

	unsub := func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if _, ok := e.subs[ch]; !ok {
			return
		}
		delete(e.subs, ch)
		drainAndClose(ch)
	}
	return unsub, ch
}

// Publish delivers ev to every subscriber without blocking.
func (e *SessionEvents) Publish(ev SessionEvent) {
	if e == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	for ch := range e.subs {
		select {
		case ch <- ev:
		default:
			e.dropped++
		}
	}
}

// Dropped reports how many deliveries were skipped because a subscriber was full.
func (e *SessionEvents) Dropped() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dropped
}

// StopAll closes every subscription.
func (e *SessionEvents) StopAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for ch := range e.subs {
		drainAndClose(ch)
		delete(e.subs, ch)
	}
}

// drainAndClose removes any buffered events before closing the channel so
// receivers observe a closed channel immediately.
func drainAndClose(ch chan SessionEvent) {
	for {
		select {
		case <-ch:
		default:
			close(ch)
			return
		}
	}
}
