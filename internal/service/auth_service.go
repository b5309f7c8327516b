package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-legalchat-be/internal/config"
	"ai-legalchat-be/internal/dto"
	"ai-legalchat-be/internal/entity"
	"ai-legalchat-be/internal/pkg/mailer"
	"ai-legalchat-be/internal/repository/memory"
	"ai-legalchat-be/internal/repository/specification"
	"ai-legalchat-be/internal/repository/unitofwork"
	"ai-legalchat-be/pkg/events"
	pkgNats "ai-legalchat-be/pkg/nats"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, sessionId uuid.UUID) error
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher *pkgNats.Publisher
	sessionCache   *memory.SessionCache
	authConfig     config.AuthConfig
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	eventPublisher *pkgNats.Publisher,
	sessionCache *memory.SessionCache,
	authConfig config.AuthConfig,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		sessionCache:   sessionCache,
		authConfig:     authConfig,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, _ := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	now := time.Now()
	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: &hashStr,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	// SEND REAL EMAIL
	go func() {
		if emailErr := s.emailService.SendWelcome(user.Email, user.FullName); emailErr != nil {
			fmt.Printf("Error sending welcome email: %v\n", emailErr)
		}
	}()

	if s.eventPublisher != nil {
		event := events.NewUserRegisteredEvent(user.Id.String(), user.Email)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish USER_REGISTERED event: %v\n", err)
		}
	}

	return &dto.RegisterResponse{Id: user.Id, Email: user.Email}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, errors.New("invalid credentials")
	}
	if user == nil {
		return nil, errors.New("invalid credentials")
	}

	if user.PasswordHash == nil {
		return nil, errors.New("user registered via OAuth")
	}
	if !user.IsActive {
		return nil, errors.New("user account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	session, err := s.ensureActiveSession(ctx, uow, user.Id)
	if err != nil {
		return nil, err
	}

	signedToken, err := s.issueToken(user.Id, session.Id)
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		event := events.NewUserLoginEvent(user.Id.String())
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish USER_LOGIN event: %v\n", err)
		}
	}

	resp := &dto.LoginResponse{
		AccessToken: signedToken,
		User: dto.UserDTO{
			Id:       user.Id,
			Email:    user.Email,
			FullName: user.FullName,
		},
	}
	if user.AvatarURL != nil {
		resp.User.AvatarURL = *user.AvatarURL
	}
	return resp, nil
}

func (s *authService) Logout(ctx context.Context, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.AuthSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	session.IsActive = false
	session.UpdatedAt = time.Now()
	if err := uow.AuthSessionRepository().Update(ctx, session); err != nil {
		return err
	}

	s.sessionCache.Delete(sessionId.String())
	return nil
}

// ensureActiveSession enforces one active login session per user: the
// existing row is reactivated instead of accumulating rows per login.
func (s *authService) ensureActiveSession(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.AuthSession, error) {
	session, err := uow.AuthSessionRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if session == nil {
		session = &entity.AuthSession{
			Id:        uuid.New(),
			UserId:    userId,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uow.AuthSessionRepository().Create(ctx, session); err != nil {
			return nil, err
		}
	} else if !session.IsActive {
		session.IsActive = true
		session.UpdatedAt = now
		if err := uow.AuthSessionRepository().Update(ctx, session); err != nil {
			return nil, err
		}
	}

	s.sessionCache.Save(session)
	return session, nil
}

func (s *authService) issueToken(userId, sessionId uuid.UUID) (string, error) {
	expiry := time.Duration(s.authConfig.JwtExpiryHours) * time.Hour

	claims := jwt.MapClaims{
		"user_id":    userId.String(),
		"session_id": sessionId.String(),
		"exp":        time.Now().Add(expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	secret := s.authConfig.JwtSecret
	if secret == "" {
		secret = "default_secret"
	}
	return token.SignedString([]byte(secret))
}
