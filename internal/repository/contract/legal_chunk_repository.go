package contract

import (
	"context"

	"ai-legalchat-be/internal/entity"
	"ai-legalchat-be/internal/repository/specification"
)

type LegalChunkRepository interface {
	Create(ctx context.Context, chunk *entity.LegalChunk) error
	CreateBulk(ctx context.Context, chunks []*entity.LegalChunk) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LegalChunk, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LegalChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
