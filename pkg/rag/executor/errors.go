package executor

import (
	"errors"
	"fmt"
)

// ErrSessionMissing rejects a turn that arrives without a session id.
// Nothing is persisted and no token is consulted.
var ErrSessionMissing = errors.New("session id is required")

// CancelledError reports a turn stopped at a cancellation checkpoint or
// aborted mid-generation.
type CancelledError struct {
	SessionID string
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("chat turn cancelled for session %s", e.SessionID)
}
