package implementation

import (
	"context"
	"errors"

	"ai-legalchat-be/internal/entity"
	"ai-legalchat-be/internal/mapper"
	"ai-legalchat-be/internal/model"
	"ai-legalchat-be/internal/repository/contract"
	"ai-legalchat-be/internal/repository/specification"

	"gorm.io/gorm"
)

type AuthSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewAuthSessionRepository(db *gorm.DB) contract.AuthSessionRepository {
	return &AuthSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *AuthSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AuthSessionRepositoryImpl) Create(ctx context.Context, session *entity.AuthSession) error {
	m := r.mapper.SessionToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionToEntity(m)
	return nil
}

func (r *AuthSessionRepositoryImpl) Update(ctx context.Context, session *entity.AuthSession) error {
	m := r.mapper.SessionToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionToEntity(m)
	return nil
}

func (r *AuthSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AuthSession, error) {
	var m model.AuthSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SessionToEntity(&m), nil
}
