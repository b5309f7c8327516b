package cancel

import (
	"errors"
	"sync"
	"time"
)

// ErrCancelled marks work aborted because the turn's token was signalled.
// Callers wrap it so cancellation stays distinguishable from provider
// failures.
var ErrCancelled = errors.New("turn cancelled")

// Token is the cancellation handle for one in-flight chat turn.
// It starts live and can be signalled exactly once; a signalled token
// stays cancelled for the rest of its life. A pipeline run keeps its own
// reference, so a token replaced in the registry remains readable by the
// run that captured it.
type Token struct {
	sessionID string
	createdAt time.Time

	once sync.Once
	done chan struct{}
}

func newToken(sessionID string) *Token {
	return &Token{
		sessionID: sessionID,
		createdAt: time.Now(),
		done:      make(chan struct{}),
	}
}

// SessionID returns the session this token belongs to.
func (t *Token) SessionID() string {
	return t.sessionID
}

// CreatedAt returns when the token was created.
func (t *Token) CreatedAt() time.Time {
	return t.createdAt
}

// Cancel marks the token cancelled. Returns true only on the first call.
func (t *Token) Cancel() bool {
	first := false
	t.once.Do(func() {
		close(t.done)
		first = true
	})
	return first
}

// Cancelled reports whether the token has been signalled.
func (t *Token) Cancelled() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed when the token is cancelled. Adapters use
// it to abort their own outbound calls mid-flight.
func (t *Token) Done() <-chan struct{} {
	return t.done
}

// Registry maps a session id to its single live cancellation token.
// State is process-local and lost on restart; cancellation is a
// best-effort UX feature, not a durability guarantee.
type Registry struct {
	mu     sync.Mutex
	tokens map[string]*Token
}

func NewRegistry() *Registry {
	return &Registry{
		tokens: make(map[string]*Token),
	}
}

// CreateToken replaces any existing token for the session with a fresh
// live one and returns it. The previous token is dropped without being
// signalled: a new chat turn supersedes the ability to cancel a
// still-running previous turn (last writer wins).
func (r *Registry) CreateToken(sessionID string) *Token {
	t := newToken(sessionID)

	r.mu.Lock()
	r.tokens[sessionID] = t
	r.mu.Unlock()

	return t
}

// GetToken returns the live token for the session, if any.
func (r *Registry) GetToken(sessionID string) (*Token, bool) {
	r.mu.Lock()
	t, found := r.tokens[sessionID]
	r.mu.Unlock()
	return t, found
}

// Signal cancels the live token for the session. Returns true only when a
// live, not-yet-cancelled token existed. Signalling twice or signalling an
// unknown session is not an error.
func (r *Registry) Signal(sessionID string) bool {
	r.mu.Lock()
	t, found := r.tokens[sessionID]
	r.mu.Unlock()

	if !found {
		return false
	}
	return t.Cancel()
}

// Release removes the session's entry regardless of its state. Safe to
// call when the entry is already gone. References captured by running
// adapter calls stay valid for that call's lifetime.
func (r *Registry) Release(sessionID string) {
	r.mu.Lock()
	delete(r.tokens, sessionID)
	r.mu.Unlock()
}

// Len returns the number of live entries. Used by tests and diagnostics.
func (r *Registry) Len() int {
	r.mu.Lock()
	n := len(r.tokens)
	r.mu.Unlock()
	return n
}
