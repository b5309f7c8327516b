package dto

import (
	"time"

	"github.com/google/uuid"

	"ai-legalchat-be/pkg/store"
)

type ChatRequest struct {
	Question string `json:"question" validate:"required,min=1"`
}

type ChatResponse struct {
	Answer            string           `json:"answer"`
	RelevantDocuments []store.Document `json:"relevant_documents"`
	Sources           []store.Source   `json:"sources"`
	SessionId         string           `json:"session_id"`
	Timestamp         time.Time        `json:"timestamp"`
}

type ChatMessageDTO struct {
	Id        uuid.UUID              `json:"id"`
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Position  int                    `json:"position"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// HistoryPageResponse is one tail-anchored window of the conversation.
// Page 1 holds the newest messages; has_next points at newer pages,
// has_prev at older ones.
type HistoryPageResponse struct {
	Messages   []ChatMessageDTO `json:"messages"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
	TotalCount int              `json:"total_count"`
	HasNext    bool             `json:"has_next"`
	HasPrev    bool             `json:"has_prev"`
}

type ConversationDTO struct {
	Id           uuid.UUID `json:"id"`
	SessionId    uuid.UUID `json:"session_id"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CancelResponse struct {
	SessionId string `json:"session_id"`
	Signalled bool   `json:"cancelled"`
}
