// Package store provides database operations using GORM.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/KAFKA2306/chat-code-architect-ai2/internal/model"
)

// Common errors
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("unique constraint violation")
)

// Store wraps GORM DB for database operations.
type Store struct {
	db *gorm.DB
}

// New creates a new Store with the given GORM DB.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying GORM DB for advanced queries.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// translateCreateErr maps driver-level uniqueness failures onto ErrConflict.
// Covers the message shapes of modernc SQLite and PostgreSQL.
func translateCreateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint") || strings.Contains(msg, "duplicate key") {
		return ErrConflict
	}
	return err
}

// --- Users ---

func (s *Store) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	return translateCreateErr(s.db.WithContext(ctx).Create(user).Error)
}

// --- Auth Sessions ---

func (s *Store) CreateAuthSession(ctx context.Context, session *model.AuthSession) error {
	return s.db.WithContext(ctx).Create(session).Error
}

func (s *Store) GetAuthSessionByTokenHash(ctx context.Context, tokenHash string) (*model.AuthSession, error) {
	var session model.AuthSession
	if err := s.db.WithContext(ctx).Preload("User").First(&session, "token_hash = ?", tokenHash).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (s *Store) DeleteAuthSession(ctx context.Context, tokenHash string) error {
	return s.db.WithContext(ctx).Delete(&model.AuthSession{}, "token_hash = ?", tokenHash).Error
}

func (s *Store) DeleteExpiredAuthSessions(ctx context.Context) error {
	return s.db.WithContext(ctx).Delete(&model.AuthSession{}, "expires_at < ?", time.Now()).Error
}

// --- Projects ---

func (s *Store) GetProjectByID(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	if err := s.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (s *Store) ListProjectsByUser(ctx context.Context, userID uint) ([]*model.Project, error) {
	var projects []*model.Project
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&projects).Error
	return projects, err
}

func (s *Store) CreateProject(ctx context.Context, project *model.Project) error {
	return translateCreateErr(s.db.WithContext(ctx).Create(project).Error)
}

// UpdateProjectFields merges the given column updates into a project and
// stamps a fresh updated_at. Returns the updated record, or ErrNotFound if
// the id is absent. The user_id column is never part of updates; ownership
// is immutable after creation.
func (s *Store) UpdateProjectFields(ctx context.Context, id uint, updates map[string]interface{}) (*model.Project, error) {
	updates["updated_at"] = time.Now()
	result := s.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetProjectByID(ctx, id)
}

// --- Chat Sessions ---

func (s *Store) GetChatSessionByID(ctx context.Context, id uint) (*model.ChatSession, error) {
	var session model.ChatSession
	if err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (s *Store) ListChatSessionsByUser(ctx context.Context, userID uint) ([]*model.ChatSession, error) {
	var sessions []*model.ChatSession
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (s *Store) CreateChatSession(ctx context.Context, session *model.ChatSession) error {
	return s.db.WithContext(ctx).Create(session).Error
}

// TouchChatSession refreshes a session's updated_at so recently active
// sessions sort first in listings.
func (s *Store) TouchChatSession(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Model(&model.ChatSession{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

// --- Chat Messages ---

func (s *Store) GetChatMessageByID(ctx context.Context, id uint) (*model.ChatMessage, error) {
	var message model.ChatMessage
	if err := s.db.WithContext(ctx).First(&message, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &message, nil
}

// ListMessagesBySession returns a session's messages in creation order,
// ties broken by id so insertion order is preserved.
func (s *Store) ListMessagesBySession(ctx context.Context, sessionID uint) ([]*model.ChatMessage, error) {
	var messages []*model.ChatMessage
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

func (s *Store) CreateChatMessage(ctx context.Context, message *model.ChatMessage) error {
	return s.db.WithContext(ctx).Create(message).Error
}

// UpdateChatMessage exists for parity with the storage contract but is not
// called by any request flow; messages are append-only.
func (s *Store) UpdateChatMessage(ctx context.Context, id uint, updates map[string]interface{}) (*model.ChatMessage, error) {
	result := s.db.WithContext(ctx).Model(&model.ChatMessage{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetChatMessageByID(ctx, id)
}

// --- Generated Files ---

func (s *Store) GetGeneratedFileByID(ctx context.Context, id uint) (*model.GeneratedFile, error) {
	var file model.GeneratedFile
	if err := s.db.WithContext(ctx).First(&file, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &file, nil
}

func (s *Store) ListGeneratedFilesByProject(ctx context.Context, projectID uint) ([]*model.GeneratedFile, error) {
	var files []*model.GeneratedFile
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Find(&files).Error
	return files, err
}

func (s *Store) CreateGeneratedFile(ctx context.Context, file *model.GeneratedFile) error {
	return s.db.WithContext(ctx).Create(file).Error
}
