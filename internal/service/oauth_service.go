package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"ai-legalchat-be/internal/config"
	"ai-legalchat-be/internal/dto"
	"ai-legalchat-be/internal/entity"
	"ai-legalchat-be/internal/repository/memory"
	"ai-legalchat-be/internal/repository/specification"
	"ai-legalchat-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type IOAuthService interface {
	GetLoginURL(provider string) (string, error)
	HandleCallback(ctx context.Context, provider string, code string) (*dto.LoginResponse, error)
}

type oauthService struct {
	uowFactory   unitofwork.RepositoryFactory
	sessionCache *memory.SessionCache
	authConfig   config.AuthConfig
	googleConf   *oauth2.Config
}

func NewOAuthService(
	uowFactory unitofwork.RepositoryFactory,
	sessionCache *memory.SessionCache,
	authConfig config.AuthConfig,
) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     authConfig.GoogleClientID,
		ClientSecret: authConfig.GoogleClientSecret,
		RedirectURL:  authConfig.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &oauthService{
		uowFactory:   uowFactory,
		sessionCache: sessionCache,
		authConfig:   authConfig,
		googleConf:   conf,
	}
}

func (s *oauthService) GetLoginURL(provider string) (string, error) {
	if provider != "google" {
		return "", errors.New("unsupported provider")
	}

	b := make([]byte, 16)
	rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)

	return s.googleConf.AuthCodeURL(state), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider string, code string) (*dto.LoginResponse, error) {
	if provider != "google" {
		return nil, errors.New("unsupported provider")
	}

	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %v", err)
	}

	userInfoURL := "https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken
	resp, err := http.Get(userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %v", err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading response: %v", err)
	}

	var googleUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.Unmarshal(content, &googleUser); err != nil {
		return nil, err
	}
	if googleUser.Email == "" {
		return nil, errors.New("google did not return an email")
	}

	user, err := s.upsertGoogleUser(ctx, googleUser.ID, googleUser.Email, googleUser.Name, googleUser.Picture)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := s.ensureActiveSession(ctx, uow, user.Id)
	if err != nil {
		return nil, err
	}

	signedToken, err := s.issueToken(user.Id, session.Id)
	if err != nil {
		return nil, err
	}

	response := &dto.LoginResponse{
		AccessToken: signedToken,
		User: dto.UserDTO{
			Id:       user.Id,
			Email:    user.Email,
			FullName: user.FullName,
		},
	}
	if user.AvatarURL != nil {
		response.User.AvatarURL = *user.AvatarURL
	}
	return response, nil
}

// upsertGoogleUser links the Google identity to an existing account by
// google id first, then by email, creating the account when neither hits.
func (s *oauthService) upsertGoogleUser(ctx context.Context, googleId, email, name, picture string) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	user, err := uow.UserRepository().FindOne(ctx, specification.ByGoogleID{GoogleID: googleId})
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user, err = uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if user != nil {
		user.GoogleId = &googleId
		if picture != "" && user.AvatarURL == nil {
			user.AvatarURL = &picture
		}
		user.UpdatedAt = now
		if err := uow.UserRepository().Update(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	user = &entity.User{
		Id:        uuid.New(),
		Email:     email,
		FullName:  name,
		GoogleId:  &googleId,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if picture != "" {
		user.AvatarURL = &picture
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("[OAuth Service] Created new user %s via Google", user.Email)
	return user, nil
}

func (s *oauthService) ensureActiveSession(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.AuthSession, error) {
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

func (s *oauthService) issueToken(userId, sessionId uuid.UUID) (string, error) {
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
