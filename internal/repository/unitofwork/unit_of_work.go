package unitofwork

import (
	"context"

	"ai-legalchat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	AuthSessionRepository() contract.AuthSessionRepository
	ConversationRepository() contract.ConversationRepository
	LegalChunkRepository() contract.LegalChunkRepository
	ChunkEmbeddingRepository() contract.ChunkEmbeddingRepository
}
