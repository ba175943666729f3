package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/KAFKA2306/chat-code-architect-ai2/internal/ai"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/apperr"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/logger"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/model"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/store"
)

// ChatService implements chat sessions, the message-creation protocol and
// the shared collaborator entry point used by both the REST path and the
// websocket relay.
type ChatService struct {
	store     *store.Store
	access    *Access
	collab    ai.Client
	aiTimeout time.Duration
	log       *logger.Logger
}

// NewChatService creates a new chat service.
func NewChatService(s *store.Store, access *Access, collab ai.Client, aiTimeout time.Duration, log *logger.Logger) *ChatService {
	return &ChatService{store: s, access: access, collab: collab, aiTimeout: aiTimeout, log: log}
}

// CreateSession creates a chat session for userID, optionally bound to one
// of their projects.
func (s *ChatService) CreateSession(ctx context.Context, userID uint, title string, projectID *uint) (*model.ChatSession, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "session title is required")
	}
	if projectID != nil {
		if _, err := s.access.Project(ctx, userID, *projectID); err != nil {
			return nil, err
		}
	}

	session := &model.ChatSession{
		UserID:    userID,
		ProjectID: projectID,
		Title:     title,
	}
	if err := s.store.CreateChatSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ListSessions returns the user's sessions, most recently updated first.
func (s *ChatService) ListSessions(ctx context.Context, userID uint) ([]*model.ChatSession, error) {
	return s.store.ListChatSessionsByUser(ctx, userID)
}

// ListMessages returns a session's messages in creation order after
// verifying ownership.
func (s *ChatService) ListMessages(ctx context.Context, userID, sessionID uint) ([]*model.ChatMessage, error) {
	if _, err := s.access.ChatSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.store.ListMessagesBySession(ctx, sessionID)
}

// PostMessageResult reports the outcome of the message-creation protocol.
// UserMessage is always set on success; AIMessage is set only when the
// collaborator call succeeded, AIError otherwise.
type PostMessageResult struct {
	UserMessage *model.ChatMessage `json:"userMessage"`
	AIMessage   *model.ChatMessage `json:"aiMessage,omitempty"`
	AIError     string             `json:"error,omitempty"`
}

// PostMessage runs the message-creation protocol:
//
//  1. validate the payload and confirm session ownership
//  2. persist the inbound message unconditionally
//  3. for role=user, build project context and call the collaborator
//  4. persist the assistant reply; on collaborator failure keep the user
//     message and report the failure distinctly
func (s *ChatService) PostMessage(ctx context.Context, userID, sessionID uint, role, content string, metadata json.RawMessage) (*PostMessageResult, error) {
	if !model.ValidRole(role) {
		return nil, apperr.Wrapf(apperr.ErrInvalidInput, "unknown message role %q", role)
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "message content is required")
	}

	session, err := s.access.ChatSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	userMessage := &model.ChatMessage{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Metadata:  metadata,
	}
	if err := s.store.CreateChatMessage(ctx, userMessage); err != nil {
		return nil, err
	}
	if err := s.store.TouchChatSession(ctx, sessionID); err != nil {
		s.log.Warn("failed to touch chat session", "sessionId", sessionID, "error", err)
	}

	result := &PostMessageResult{UserMessage: userMessage}
	if role != model.RoleUser {
		return result, nil
	}

	var projectContext *ai.ProjectContext
	if session.ProjectID != nil {
		if project, err := s.store.GetProjectByID(ctx, *session.ProjectID); err == nil {
			projectContext = projectToContext(project)
		}
	}

	reply, err := s.generateReply(ctx, ai.ChatRequest{
		UserMessage:    content,
		SessionID:      sessionID,
		ProjectContext: projectContext,
	})
	if err != nil {
		// The user's message is already persisted; report the assistant
		// failure without discarding it.
		s.log.Warn("collaborator chat call failed", "sessionId", sessionID, "error", err)
		result.AIError = "AI response generation failed"
		return result, nil
	}

	aiMessage := &model.ChatMessage{
		SessionID: sessionID,
		Role:      model.RoleAssistant,
		Content:   reply.Content,
		Metadata:  reply.Metadata,
	}
	if err := s.store.CreateChatMessage(ctx, aiMessage); err != nil {
		return nil, err
	}
	result.AIMessage = aiMessage
	return result, nil
}

// EphemeralResponse serves the websocket relay: one collaborator call, no
// persistence. It shares generateReply with PostMessage so there is a
// single code path to the collaborator.
func (s *ChatService) EphemeralResponse(ctx context.Context, userMessage string, sessionID uint, contextNote string) (*ai.ChatResponse, error) {
	if strings.TrimSpace(userMessage) == "" {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "message content is required")
	}

	var projectContext *ai.ProjectContext
	if contextNote != "" {
		projectContext = &ai.ProjectContext{Description: contextNote}
	}
	return s.generateReply(ctx, ai.ChatRequest{
		UserMessage:    userMessage,
		SessionID:      sessionID,
		ProjectContext: projectContext,
	})
}

// generateReply bounds every collaborator call with the configured timeout
// and maps any failure, including expiry, to CollaboratorUnavailable.
func (s *ChatService) generateReply(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	defer cancel()

	reply, err := s.collab.GenerateChatResponse(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperr.Wrap(apperr.ErrCollaboratorUnavailable, "collaborator call timed out")
		}
		return nil, apperr.Wrap(apperr.ErrCollaboratorUnavailable, err.Error())
	}
	return reply, nil
}

func projectToContext(p *model.Project) *ai.ProjectContext {
	desc := ""
	if p.Description != nil {
		desc = *p.Description
	}
	return &ai.ProjectContext{
		Name:        p.Name,
		Description: desc,
		TechStack:   p.TechStack,
	}
}
