package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BySessionID filters conversations by their auth-session key
type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// ByConversationID filters messages by conversation
type ByConversationID struct {
	ConversationID uuid.UUID
}

func (s ByConversationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}

// ByGoogleID filters users by google account id
type ByGoogleID struct {
	GoogleID string
}

func (s ByGoogleID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("google_id = ?", s.GoogleID)
}

// PositionBetween selects messages whose position falls in [From, To)
type PositionBetween struct {
	From int
	To   int
}

func (s PositionBetween) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("position >= ? AND position < ?", s.From, s.To)
}

// ByNumeroLoi filters legal chunks by law number
type ByNumeroLoi struct {
	NumeroLoi string
}

func (s ByNumeroLoi) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("numero_loi = ?", s.NumeroLoi)
}
