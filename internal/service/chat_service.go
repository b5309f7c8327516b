package service

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"ai-legalchat-be/internal/constant"
	"ai-legalchat-be/internal/dto"
	"ai-legalchat-be/internal/repository/specification"
	"ai-legalchat-be/internal/repository/unitofwork"
	"ai-legalchat-be/pkg/cancel"
	"ai-legalchat-be/pkg/events"
	pkgNats "ai-legalchat-be/pkg/nats"
	"ai-legalchat-be/pkg/rag/executor"
	"ai-legalchat-be/pkg/rag/history"
	"ai-legalchat-be/pkg/rag/response"
	"ai-legalchat-be/pkg/rag/search"

	"github.com/google/uuid"
)

// IChatService defines the chat service interface
type IChatService interface {
	Chat(ctx context.Context, userId, sessionId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error)
	GetHistory(ctx context.Context, sessionId uuid.UUID, page int) (*dto.HistoryPageResponse, error)
	GetConversations(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationDTO, error)
	Cancel(ctx context.Context, sessionId uuid.UUID) *dto.CancelResponse
	Clear(ctx context.Context, sessionId uuid.UUID) error
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	registry       *cancel.Registry
	historyStore   *history.Store
	pipeline       *executor.PipelineExecutor
	eventPublisher *pkgNats.Publisher
	llmLogger      *log.Logger
}

// NewChatService wires the retrieval pipeline behind the chat surface.
func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	registry *cancel.Registry,
	searcher search.Searcher,
	generator *response.Generator,
	eventPublisher *pkgNats.Publisher,
) IChatService {
	llmLogger := initLLMLogger()
	historyStore := history.NewStore(uowFactory)

	return &chatService{
		uowFactory:     uowFactory,
		registry:       registry,
		historyStore:   historyStore,
		pipeline:       executor.NewPipelineExecutor(historyStore, searcher, generator, llmLogger),
		eventPublisher: eventPublisher,
		llmLogger:      llmLogger,
	}
}

func initLLMLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_rag.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

// Chat runs one pipeline turn. The turn's token replaces any live token
// for the session and is released on every exit path.
func (cs *chatService) Chat(ctx context.Context, userId, sessionId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	sessionIdStr := sessionId.String()
	token := cs.registry.CreateToken(sessionIdStr)
	defer cs.registry.Release(sessionIdStr)

	result, err := cs.pipeline.Execute(ctx, userId, sessionId, req.Question, token)
	if err != nil {
		return nil, err
	}

	if cs.eventPublisher != nil {
		event := events.NewChatAnsweredEvent(sessionIdStr, len(result.RelevantDocuments), false)
		if pubErr := cs.eventPublisher.Publish(ctx, event); pubErr != nil {
			cs.llmLogger.Printf("[WARN] Failed to publish CHAT_ANSWERED event: %v", pubErr)
		}
	}

	return &dto.ChatResponse{
		Answer:            result.Answer,
		RelevantDocuments: result.RelevantDocuments,
		Sources:           result.Sources,
		SessionId:         result.SessionID,
		Timestamp:         result.Timestamp,
	}, nil
}

func (cs *chatService) GetHistory(ctx context.Context, sessionId uuid.UUID, page int) (*dto.HistoryPageResponse, error) {
	pageResult, err := cs.historyStore.GetPage(ctx, sessionId, page, constant.HistoryPageSize)
	if err != nil {
		return nil, err
	}

	messages := make([]dto.ChatMessageDTO, 0, len(pageResult.Messages))
	for _, msg := range pageResult.Messages {
		messages = append(messages, dto.ChatMessageDTO{
			Id:        msg.Id,
			Role:      msg.Role,
			Content:   msg.Content,
			Position:  msg.Position,
			Metadata:  msg.Metadata,
			CreatedAt: msg.CreatedAt,
		})
	}

	return &dto.HistoryPageResponse{
		Messages:   messages,
		Page:       pageResult.Page,
		PageSize:   pageResult.PageSize,
		TotalPages: pageResult.TotalPages,
		TotalCount: pageResult.TotalCount,
		HasNext:    pageResult.HasNewer,
		HasPrev:    pageResult.HasOlder,
	}, nil
}

func (cs *chatService) GetConversations(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationDTO, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.IsActive{},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ConversationDTO, 0, len(conversations))
	for _, conv := range conversations {
		result = append(result, &dto.ConversationDTO{
			Id:           conv.Id,
			SessionId:    conv.SessionId,
			MessageCount: conv.MessageCount,
			CreatedAt:    conv.CreatedAt,
			UpdatedAt:    conv.UpdatedAt,
		})
	}
	return result, nil
}

// Cancel signals the session's live token. Signalling an unknown or
// already released session is a no-op reported back to the caller.
func (cs *chatService) Cancel(ctx context.Context, sessionId uuid.UUID) *dto.CancelResponse {
	sessionIdStr := sessionId.String()
	signalled := cs.registry.Signal(sessionIdStr)

	if signalled && cs.eventPublisher != nil {
		event := events.NewChatCancelledEvent(sessionIdStr)
		if err := cs.eventPublisher.Publish(ctx, event); err != nil {
			cs.llmLogger.Printf("[WARN] Failed to publish CHAT_CANCELLED event: %v", err)
		}
	}

	return &dto.CancelResponse{
		SessionId: sessionIdStr,
		Signalled: signalled,
	}
}

func (cs *chatService) Clear(ctx context.Context, sessionId uuid.UUID) error {
	if err := cs.historyStore.Clear(ctx, sessionId); err != nil {
		return err
	}

	if cs.eventPublisher != nil {
		event := events.NewHistoryClearedEvent(sessionId.String())
		if err := cs.eventPublisher.Publish(ctx, event); err != nil {
			cs.llmLogger.Printf("[WARN] Failed to publish HISTORY_CLEARED event: %v", err)
		}
	}
	return nil
}
