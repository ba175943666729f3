package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/KAFKA2306/chat-code-architect-ai2/internal/apperr"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/model"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/session"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/store"
)

const minPasswordLength = 8

// AuthService handles registration, login and session credentials.
// Sessions live behind the injected session.Store so the backing can be the
// database or a shared cache.
type AuthService struct {
	store      *store.Store
	sessions   session.Store
	sessionTTL time.Duration
}

// NewAuthService creates a new auth service.
func NewAuthService(s *store.Store, sessions session.Store, sessionTTL time.Duration) *AuthService {
	return &AuthService{store: s, sessions: sessions, sessionTTL: sessionTTL}
}

// Register creates a user with a bcrypt-hashed password and issues a
// session token for it.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, "", apperr.Wrap(apperr.ErrInvalidInput, "username is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", apperr.Wrap(apperr.ErrInvalidInput, "a valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, "", apperr.Wrapf(apperr.ErrInvalidInput, "password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: string(hash),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, "", apperr.Wrap(apperr.ErrConflict, "username or email already taken")
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and issues a session token. Bad credentials
// are reported as invalid input so unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", apperr.Wrap(apperr.ErrInvalidInput, "invalid email or password")
		}
		return nil, "", err
	}

	// bcrypt comparison is constant-time over the hash.
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperr.Wrap(apperr.ErrInvalidInput, "invalid email or password")
	}

	token, err := s.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// CreateSession issues a random 256-bit token for a user. Only the token's
// SHA-256 hash is stored server-side.
func (s *AuthService) CreateSession(ctx context.Context, userID uint) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	if err := s.sessions.Create(ctx, hashToken(token), userID, s.sessionTTL); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

// ValidateSession resolves a session token to its user.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*model.User, error) {
	rec, err := s.sessions.Get(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, apperr.Wrap(apperr.ErrUnauthenticated, "invalid or expired session")
		}
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Wrap(apperr.ErrUnauthenticated, "session user no longer exists")
		}
		return nil, err
	}
	return user, nil
}

// DeleteSession invalidates a session token server-side.
func (s *AuthService) DeleteSession(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, hashToken(token))
}

// SweepExpiredSessions removes expired sessions from the backing store.
func (s *AuthService) SweepExpiredSessions(ctx context.Context) error {
	return s.sessions.DeleteExpired(ctx)
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
