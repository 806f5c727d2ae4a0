package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ASAPmarius/Projet-WEB-sub000/internal/dependencies/clock"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/model"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/services/token"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service handles account registration and login. Session tokens themselves
// live in the token store; this service only decides when one is issued.
type Service struct {
	storage storage.Storage
	tokens  *token.Service
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates an auth service
func New(store storage.Storage, tokens *token.Service, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		tokens:  tokens,
		clock:   clk,
		logger:  logger.With(slog.String("component", "auth")),
	}
}

// Register creates a new account with a bcrypt-hashed password
func (s *Service) Register(ctx context.Context, username, password, profilePicture string) (model.Identity, error) {
	_, err := s.storage.GetUser(ctx, username)
	if err == nil {
		return model.Identity{}, model.ErrUsernameExists
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return model.Identity{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.Identity{}, err
	}

	now := s.clock.Now()
	user := &model.RegisteredUser{
		ID:             model.UserID(uuid.NewString()),
		Username:       username,
		PasswordHash:   string(hash),
		ProfilePicture: profilePicture,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return model.Identity{}, err
	}

	s.logger.Info("user registered", slog.String("username", username))
	return user.Identity(), nil
}

// Login verifies the password and issues a fresh session token, revoking any
// previous token the user held.
func (s *Service) Login(ctx context.Context, username, password string) (string, model.Identity, error) {
	user, err := s.storage.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return "", model.Identity{}, ErrInvalidCredentials
		}
		return "", model.Identity{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", model.Identity{}, ErrInvalidCredentials
	}

	t, err := s.tokens.Issue(username)
	if err != nil {
		return "", model.Identity{}, err
	}

	s.logger.Info("user logged in", slog.String("username", username))
	return t, user.Identity(), nil
}

// Logout revokes a session token. Unknown tokens are a no-op.
func (s *Service) Logout(sessionToken string) {
	s.tokens.Revoke(sessionToken)
}

// IdentityFor resolves a session token to the stored identity
func (s *Service) IdentityFor(ctx context.Context, sessionToken string) (model.Identity, error) {
	username, err := s.tokens.Verify(sessionToken)
	if err != nil {
		return model.Identity{}, err
	}
	user, err := s.storage.GetUser(ctx, username)
	if err != nil {
		return model.Identity{}, err
	}
	return user.Identity(), nil
}
