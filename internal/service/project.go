package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/KAFKA2306/chat-code-architect-ai2/internal/apperr"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/model"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/store"
)

// ProjectService implements project CRUD with ownership enforcement.
type ProjectService struct {
	store  *store.Store
	access *Access
}

// NewProjectService creates a new project service.
func NewProjectService(s *store.Store, access *Access) *ProjectService {
	return &ProjectService{store: s, access: access}
}

// CreateProjectInput are the caller-settable project fields.
type CreateProjectInput struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	TechStack   []string        `json:"techStack"`
	Status      string          `json:"status"`
	Metadata    json.RawMessage `json:"metadata"`
}

// UpdateProjectInput carries a partial update. Nil fields are left alone.
type UpdateProjectInput struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	TechStack   []string        `json:"techStack"`
	Status      *string         `json:"status"`
	Metadata    json.RawMessage `json:"metadata"`
}

// CreateProject creates a project owned by userID. Status defaults to
// planning.
func (s *ProjectService) CreateProject(ctx context.Context, userID uint, in CreateProjectInput) (*model.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "project name is required")
	}
	status := in.Status
	if status == "" {
		status = model.ProjectStatusPlanning
	}
	if !model.ValidProjectStatus(status) {
		return nil, apperr.Wrapf(apperr.ErrInvalidInput, "unknown project status %q", status)
	}

	project := &model.Project{
		UserID:      userID,
		Name:        name,
		Description: in.Description,
		TechStack:   in.TechStack,
		Status:      status,
		Metadata:    in.Metadata,
	}
	if err := s.store.CreateProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// ListProjects returns the user's projects, most recently updated first.
func (s *ProjectService) ListProjects(ctx context.Context, userID uint) ([]*model.Project, error) {
	return s.store.ListProjectsByUser(ctx, userID)
}

// GetProject returns a project the user owns.
func (s *ProjectService) GetProject(ctx context.Context, userID, projectID uint) (*model.Project, error) {
	return s.access.Project(ctx, userID, projectID)
}

// UpdateProject merges the given fields into a project the user owns and
// stamps a fresh updatedAt. Ownership is immutable: user_id is never among
// the updated columns.
func (s *ProjectService) UpdateProject(ctx context.Context, userID, projectID uint, in UpdateProjectInput) (*model.Project, error) {
	if _, err := s.access.Project(ctx, userID, projectID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Wrap(apperr.ErrInvalidInput, "project name cannot be empty")
		}
		updates["name"] = name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.TechStack != nil {
		updates["tech_stack"] = model.StringList(in.TechStack)
	}
	if in.Status != nil {
		if !model.ValidProjectStatus(*in.Status) {
			return nil, apperr.Wrapf(apperr.ErrInvalidInput, "unknown project status %q", *in.Status)
		}
		updates["status"] = *in.Status
	}
	if in.Metadata != nil {
		updates["metadata"] = in.Metadata
	}

	return s.store.UpdateProjectFields(ctx, projectID, updates)
}
