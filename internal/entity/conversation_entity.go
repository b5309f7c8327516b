package entity

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is the append-only per-session message log. messageCount
// is incremented with every append and drives pagination math; summary
// and context are opaque write targets, never inputs to the pipeline.
type Conversation struct {
	Id           uuid.UUID
	SessionId    uuid.UUID
	UserId       uuid.UUID
	MessageCount int
	IsActive     bool
	Summary      string
	Context      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ConversationMessage is immutable once appended. Position is the 0-based
// append order within its conversation.
type ConversationMessage struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	Position       int
	Role           string
	Content        string
	Metadata       map[string]interface{}
	CreatedAt      time.Time
}
