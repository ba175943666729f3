package service

import (
	"context"

	"github.com/KAFKA2306/chat-code-architect-ai2/internal/apperr"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/model"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/store"
)

// FileService exposes generated-file reads and the project download
// manifest.
type FileService struct {
	store  *store.Store
	access *Access
}

// NewFileService creates a new file service.
func NewFileService(s *store.Store, access *Access) *FileService {
	return &FileService{store: s, access: access}
}

// ListProjectFiles returns a project's generated files in creation order.
func (s *FileService) ListProjectFiles(ctx context.Context, userID, projectID uint) ([]*model.GeneratedFile, error) {
	if _, err := s.access.Project(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.store.ListGeneratedFilesByProject(ctx, projectID)
}

// GetFile returns a single generated file the user transitively owns.
func (s *FileService) GetFile(ctx context.Context, userID, fileID uint) (*model.GeneratedFile, error) {
	return s.access.GeneratedFile(ctx, userID, fileID)
}

// DownloadEntry describes one file in a download manifest.
type DownloadEntry struct {
	Filename string `json:"filename"`
	Filepath string `json:"filepath"`
	Size     int    `json:"size"`
}

// DownloadManifest lists a project's files with sizes. A project with no
// generated files has nothing to download and reports NotFound.
type DownloadManifest struct {
	Message string          `json:"message"`
	Files   []DownloadEntry `json:"files"`
}

// Download builds the download manifest for a project the user owns.
func (s *FileService) Download(ctx context.Context, userID, projectID uint) (*DownloadManifest, error) {
	files, err := s.ListProjectFiles(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, apperr.Wrap(apperr.ErrNotFound, "no files found for this project")
	}

	entries := make([]DownloadEntry, 0, len(files))
	for _, f := range files {
		entries = append(entries, DownloadEntry{
			Filename: f.Filename,
			Filepath: f.Filepath,
			Size:     len(f.Content),
		})
	}
	return &DownloadManifest{Message: "Project download ready", Files: entries}, nil
}
