// Package session owns the conversation-continuity handle shared with
// the backends across turns.
package session

import (
	"sync"

	"docchat/internal/domain"
)

// Tracker holds the active session. The id is first-session-wins: once
// a backend response establishes it, later responses never overwrite
// it, so a backend restart cannot silently start a new server-side
// session the client doesn't know about.
//
// Generation counts session resets. A query captures the generation at
// send time; a response carrying a stale generation is discarded.
type Tracker struct {
	mu         sync.Mutex
	session    domain.Session
	generation uint64
}

// New creates a tracker starting in the given mode and variant.
func New(mode domain.Mode, variant domain.Variant) *Tracker {
	return &Tracker{session: domain.Session{Mode: mode, Variant: variant}}
}

// Current returns a copy of the active session.
func (t *Tracker) Current() domain.Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session
}

// Generation returns the current session generation.
func (t *Tracker) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.generation
}

// OnModeSwitch unconditionally drops the session id and moves to
// newMode. The caller is responsible for clearing its message log.
func (t *Tracker) OnModeSwitch(newMode domain.Mode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session.ID = ""
	t.session.Mode = newMode
	t.generation++
}

// SetVariant changes the KAG query variant. The session survives: only
// a mode switch resets continuity.
func (t *Tracker) SetVariant(v domain.Variant) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session.Variant = v
}

// OnResponse adopts sessionID only if no session is established yet.
// Empty ids are ignored.
func (t *Tracker) OnResponse(sessionID string) {
	if sessionID == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session.ID == "" {
		t.session.ID = sessionID
	}
}

// Clear resets to the unset, no-mode state (user-initiated).
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session = domain.Session{}
	t.generation++
}
