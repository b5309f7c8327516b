package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_REGISTERED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes used across the system.
const (
	TypeUserRegistered   = "USER_REGISTERED"
	TypeUserLogin        = "USER_LOGIN"
	TypeChunksIngested   = "CHUNKS_INGESTED"
	TypeChatAnswered     = "CHAT_ANSWERED"
	TypeChatCancelled    = "CHAT_CANCELLED"
	TypeHistoryCleared   = "HISTORY_CLEARED"
)

func NewUserRegisteredEvent(userId, email string) Event {
	return BaseEvent{
		Type: TypeUserRegistered,
		Data: map[string]interface{}{
			"user_id": userId,
			"email":   email,
		},
		OccurredAt: time.Now(),
	}
}

func NewUserLoginEvent(userId string) Event {
	return BaseEvent{
		Type: TypeUserLogin,
		Data: map[string]interface{}{
			"user_id": userId,
		},
		OccurredAt: time.Now(),
	}
}

func NewChunksIngestedEvent(numeroLoi string, count int) Event {
	return BaseEvent{
		Type: TypeChunksIngested,
		Data: map[string]interface{}{
			"numero_loi": numeroLoi,
			"count":      count,
		},
		OccurredAt: time.Now(),
	}
}

func NewChatAnsweredEvent(sessionId string, documentCount int, cached bool) Event {
	return BaseEvent{
		Type: TypeChatAnswered,
		Data: map[string]interface{}{
			"session_id":     sessionId,
			"document_count": documentCount,
			"cached":         cached,
		},
		OccurredAt: time.Now(),
	}
}

func NewChatCancelledEvent(sessionId string) Event {
	return BaseEvent{
		Type: TypeChatCancelled,
		Data: map[string]interface{}{
			"session_id": sessionId,
		},
		OccurredAt: time.Now(),
	}
}

func NewHistoryClearedEvent(sessionId string) Event {
	return BaseEvent{
		Type: TypeHistoryCleared,
		Data: map[string]interface{}{
			"session_id": sessionId,
		},
		OccurredAt: time.Now(),
	}
}
