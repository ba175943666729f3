package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/KAFKA2306/chat-code-architect-ai2/internal/ai"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/apperr"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/logger"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/model"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/store"
)

// GenerateService drives collaborator code generation and persists the
// returned file artifacts.
type GenerateService struct {
	store     *store.Store
	access    *Access
	collab    ai.Client
	aiTimeout time.Duration
	log       *logger.Logger
}

// NewGenerateService creates a new generation service.
func NewGenerateService(s *store.Store, access *Access, collab ai.Client, aiTimeout time.Duration, log *logger.Logger) *GenerateService {
	return &GenerateService{store: s, access: access, collab: collab, aiTimeout: aiTimeout, log: log}
}

// GenerateInput is a free-text generation request with an optional target
// project for persisting the artifacts.
type GenerateInput struct {
	Prompt      string   `json:"prompt"`
	TechStack   []string `json:"techStack,omitempty"`
	ProjectType string   `json:"projectType,omitempty"`
	Context     string   `json:"context,omitempty"`
	ProjectID   *uint    `json:"projectId,omitempty"`
}

// Generate invokes the collaborator's code-generation capability. When a
// project id is given, ownership is checked up front and every returned
// artifact is persisted as a GeneratedFile. If the collaborator call fails
// nothing is persisted; a successful call with zero files is not an error.
func (s *GenerateService) Generate(ctx context.Context, userID uint, in GenerateInput) (*ai.CodeResponse, error) {
	if strings.TrimSpace(in.Prompt) == "" {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "prompt is required")
	}
	if in.ProjectID != nil {
		if _, err := s.access.Project(ctx, userID, *in.ProjectID); err != nil {
			return nil, err
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	defer cancel()

	result, err := s.collab.GenerateCode(callCtx, ai.CodeRequest{
		Prompt:      in.Prompt,
		TechStack:   in.TechStack,
		ProjectType: in.ProjectType,
		Context:     in.Context,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperr.Wrap(apperr.ErrCollaboratorUnavailable, "collaborator call timed out")
		}
		return nil, apperr.Wrap(apperr.ErrCollaboratorUnavailable, err.Error())
	}

	if in.ProjectID != nil {
		for _, f := range result.Files {
			file := &model.GeneratedFile{
				ProjectID: *in.ProjectID,
				Filename:  f.Filename,
				Filepath:  f.Filepath,
				Content:   f.Content,
				FileType:  f.FileType,
			}
			if err := s.store.CreateGeneratedFile(ctx, file); err != nil {
				return nil, err
			}
		}
		s.log.Info("persisted generated files", "projectId", *in.ProjectID, "count", len(result.Files))
	}

	return result, nil
}
