package service

import (
	"context"
	"errors"

	"github.com/KAFKA2306/chat-code-architect-ai2/internal/apperr"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/model"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/store"
)

// Access is the single ownership predicate used by every service. Each
// method resolves the addressed record, walks the ownership chain up to the
// owning user and distinguishes NotFound (no such record) from Unauthorized
// (record exists, wrong owner).
type Access struct {
	store *store.Store
}

// NewAccess creates the shared authorization predicate.
func NewAccess(s *store.Store) *Access {
	return &Access{store: s}
}

// Project returns the project if userID owns it.
func (a *Access) Project(ctx context.Context, userID, projectID uint) (*model.Project, error) {
	project, err := a.store.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "project not found")
		}
		return nil, err
	}
	if project.UserID != userID {
		return nil, apperr.Wrap(apperr.ErrUnauthorized, "project belongs to another user")
	}
	return project, nil
}

// ChatSession returns the session if userID owns it.
func (a *Access) ChatSession(ctx context.Context, userID, sessionID uint) (*model.ChatSession, error) {
	session, err := a.store.GetChatSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "chat session not found")
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, apperr.Wrap(apperr.ErrUnauthorized, "chat session belongs to another user")
	}
	return session, nil
}

// GeneratedFile returns the file if userID transitively owns it through its
// project.
func (a *Access) GeneratedFile(ctx context.Context, userID, fileID uint) (*model.GeneratedFile, error) {
	file, err := a.store.GetGeneratedFileByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "file not found")
		}
		return nil, err
	}
	if _, err := a.Project(ctx, userID, file.ProjectID); err != nil {
		return nil, err
	}
	return file, nil
}
