package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuthSession is the server-side login session. One active session per
// user: login reuses or reactivates the existing row. Its id is the
// sessionId carried in the JWT and used to key conversations and
// cancellation tokens.
type AuthSession struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
