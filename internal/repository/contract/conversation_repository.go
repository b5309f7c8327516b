package contract

import (
	"context"

	"ai-legalchat-be/internal/entity"
	"ai-legalchat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error)

	// AppendMessage inserts one message at the conversation's tail and
	// increments message_count in the same transaction. The message's
	// Position and ConversationId are assigned by the repository.
	AppendMessage(ctx context.Context, sessionId uuid.UUID, message *entity.ConversationMessage) error

	FindMessages(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationMessage, error)

	// ClearMessages removes every message of the session's conversation
	// and resets message_count, summary and context. The conversation
	// record itself survives.
	ClearMessages(ctx context.Context, sessionId uuid.UUID) error
}
