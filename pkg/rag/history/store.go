package history

import (
	"context"
	"time"

	"ai-legalchat-be/internal/entity"
	"ai-legalchat-be/internal/repository/specification"
	"ai-legalchat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Store persists and reads the per-session conversation log. Messages are
// append-only; position carries the 0-based append order and message_count
// on the conversation row drives pagination.
type Store struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewStore(uowFactory unitofwork.RepositoryFactory) *Store {
	return &Store{uowFactory: uowFactory}
}

// Page is one window of a paginated history read, oldest-first within the
// window. Page 1 always holds the most recent messages.
type Page struct {
	Messages   []*entity.ConversationMessage
	Page       int
	PageSize   int
	TotalPages int
	TotalCount int
	HasNewer   bool
	HasOlder   bool
}

// EnsureConversation creates the session's conversation record if it does
// not exist yet and returns it.
func (s *Store) EnsureConversation(ctx context.Context, sessionId uuid.UUID, userId uuid.UUID) (*entity.Conversation, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conv, err := uow.ConversationRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}

	now := time.Now()
	conv = &entity.Conversation{
		Id:        uuid.New(),
		SessionId: sessionId,
		UserId:    userId,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uow.ConversationRepository().Create(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// Append records one message at the conversation tail. The repository
// assigns position and bumps message_count atomically.
func (s *Store) Append(ctx context.Context, sessionId uuid.UUID, role, content string, metadata map[string]interface{}) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	msg := &entity.ConversationMessage{
		Id:        uuid.New(),
		Role:      role,
		Content:   content,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}
	return uow.ConversationRepository().AppendMessage(ctx, sessionId, msg)
}

// GetRecent returns the last n messages in chronological order. A missing
// conversation yields an empty slice.
func (s *Store) GetRecent(ctx context.Context, sessionId uuid.UUID, n int) ([]*entity.ConversationMessage, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conv, err := uow.ConversationRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return []*entity.ConversationMessage{}, nil
	}

	messages, err := uow.ConversationRepository().FindMessages(ctx,
		specification.ByConversationID{ConversationID: conv.Id},
		specification.OrderBy{Field: "position", Desc: true},
		specification.Pagination{Limit: n},
	)
	if err != nil {
		return nil, err
	}

	// Reverse back to chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// GetPage returns one window of the session's history. Windows are anchored
// at the tail: page 1 is the newest pageSize messages, higher pages walk
// back in time. Out-of-range pages clamp instead of erroring.
func (s *Store) GetPage(ctx context.Context, sessionId uuid.UUID, page, pageSize int) (*Page, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conv, err := uow.ConversationRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return &Page{Messages: []*entity.ConversationMessage{}, Page: 1, PageSize: pageSize}, nil
	}

	window := ComputeWindow(conv.MessageCount, page, pageSize)
	result := &Page{
		Messages:   []*entity.ConversationMessage{},
		Page:       window.Page,
		PageSize:   pageSize,
		TotalPages: window.TotalPages,
		TotalCount: conv.MessageCount,
		HasNewer:   window.HasNewer,
		HasOlder:   window.HasOlder,
	}
	if window.End <= window.Start {
		return result, nil
	}

	messages, err := uow.ConversationRepository().FindMessages(ctx,
		specification.ByConversationID{ConversationID: conv.Id},
		specification.PositionBetween{From: window.Start, To: window.End},
		specification.OrderBy{Field: "position", Desc: false},
	)
	if err != nil {
		return nil, err
	}
	result.Messages = messages
	return result, nil
}

// Clear wipes the session's messages while keeping the conversation record.
func (s *Store) Clear(ctx context.Context, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ConversationRepository().ClearMessages(ctx, sessionId)
}

// Window is the half-open position range [Start, End) a page maps to.
type Window struct {
	Start      int
	End        int
	Page       int
	TotalPages int
	HasNewer   bool
	HasOlder   bool
}

// ComputeWindow maps a 1-indexed page onto the tail-anchored position range
// it covers. Page 1 ends at the last message; the oldest window absorbs
// the remainder when total is not a multiple of pageSize.
func ComputeWindow(total, page, pageSize int) Window {
	if total <= 0 || pageSize <= 0 {
		return Window{Page: 1}
	}

	totalPages := (total + pageSize - 1) / pageSize
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	end := total - (page-1)*pageSize
	start := end - pageSize
	if start < 0 {
		start = 0
	}

	return Window{
		Start:      start,
		End:        end,
		Page:       page,
		TotalPages: totalPages,
		HasNewer:   page > 1,
		HasOlder:   page < totalPages,
	}
}
