package contract

import (
	"context"

	"ai-legalchat-be/internal/entity"
	"ai-legalchat-be/internal/repository/specification"
)

type AuthSessionRepository interface {
	Create(ctx context.Context, session *entity.AuthSession) error
	Update(ctx context.Context, session *entity.AuthSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AuthSession, error)
}
