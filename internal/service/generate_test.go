package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KAFKA2306/chat-code-architect-ai2/internal/ai"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/apperr"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/logger"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/store"
)

func newTestGenerateService(s *store.Store, collab ai.Client) *GenerateService {
	return NewGenerateService(s, NewAccess(s), collab, 5*time.Second, logger.NewNop())
}

func TestGeneratePersistsArtifacts(t *testing.T) {
	s := setupTestStore(t)
	collab := &fakeCollab{codeReply: &ai.CodeResponse{
		Content: "scaffolded",
		Status:  "completed",
		Files: []ai.FileArtifact{
			{Filename: "main.py", Filepath: "app/main.py", Content: "print('hi')", FileType: "py"},
			{Filename: "models.py", Filepath: "app/models.py", Content: "pass", FileType: "py"},
		},
	}}
	svc := newTestGenerateService(s, collab)
	ctx := context.Background()
	user := createTestUser(t, s, "alice", "alice@x.com")
	project := createTestProject(t, s, user.ID, "Foo")

	result, err := svc.Generate(ctx, user.ID, GenerateInput{Prompt: "scaffold a REST API", ProjectID: &project.ID})
	if err != nil {
		t.Fatalf("failed to generate: %v", err)
	}
	if len(result.Files) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(result.Files))
	}

	files, err := s.ListGeneratedFilesByProject(ctx, project.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 persisted files, got %d", len(files))
	}
	if files[0].Filename != "main.py" || files[1].Filename != "models.py" {
		t.Errorf("unexpected persisted files: %+v", files)
	}
}

func TestGenerateWithoutProjectPersistsNothing(t *testing.T) {
	s := setupTestStore(t)
	collab := &fakeCollab{codeReply: &ai.CodeResponse{
		Status: "completed",
		Files:  []ai.FileArtifact{{Filename: "main.py", Filepath: "app/main.py", Content: "x", FileType: "py"}},
	}}
	svc := newTestGenerateService(s, collab)
	ctx := context.Background()
	user := createTestUser(t, s, "alice", "alice@x.com")
	project := createTestProject(t, s, user.ID, "Foo")

	if _, err := svc.Generate(ctx, user.ID, GenerateInput{Prompt: "scaffold"}); err != nil {
		t.Fatalf("failed to generate: %v", err)
	}

	files, err := s.ListGeneratedFilesByProject(ctx, project.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Errorf("projectless generation persisted %d files", len(files))
	}
}

func TestGenerateCollaboratorFailure(t *testing.T) {
	s := setupTestStore(t)
	svc := newTestGenerateService(s, &fakeCollab{codeErr: errors.New("upstream down")})
	ctx := context.Background()
	user := createTestUser(t, s, "alice", "alice@x.com")
	project := createTestProject(t, s, user.ID, "Foo")

	_, err := svc.Generate(ctx, user.ID, GenerateInput{Prompt: "scaffold", ProjectID: &project.ID})
	if !errors.Is(err, apperr.ErrCollaboratorUnavailable) {
		t.Fatalf("expected ErrCollaboratorUnavailable, got %v", err)
	}

	// A failed call persists nothing
	files, listErr := s.ListGeneratedFilesByProject(ctx, project.ID)
	if listErr != nil {
		t.Fatal(listErr)
	}
	if len(files) != 0 {
		t.Errorf("failed generation persisted %d files", len(files))
	}
}

func TestGenerateZeroFilesIsSuccess(t *testing.T) {
	s := setupTestStore(t)
	svc := newTestGenerateService(s, &fakeCollab{codeReply: &ai.CodeResponse{Content: "nothing to do", Status: "completed"}})
	ctx := context.Background()
	user := createTestUser(t, s, "alice", "alice@x.com")
	project := createTestProject(t, s, user.ID, "Foo")

	result, err := svc.Generate(ctx, user.ID, GenerateInput{Prompt: "noop", ProjectID: &project.ID})
	if err != nil {
		t.Fatalf("zero-file response must succeed: %v", err)
	}
	if len(result.Files) != 0 {
		t.Errorf("unexpected files: %+v", result.Files)
	}
}

func TestGenerateValidationAndOwnership(t *testing.T) {
	s := setupTestStore(t)
	collab := &fakeCollab{}
	svc := newTestGenerateService(s, collab)
	ctx := context.Background()
	alice := createTestUser(t, s, "alice", "alice@x.com")
	bob := createTestUser(t, s, "bob", "bob@x.com")
	project := createTestProject(t, s, alice.ID, "Foo")

	if _, err := svc.Generate(ctx, alice.ID, GenerateInput{Prompt: "  "}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for blank prompt, got %v", err)
	}
	if _, err := svc.Generate(ctx, bob.ID, GenerateInput{Prompt: "scaffold", ProjectID: &project.ID}); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if collab.codeCalls != 0 {
		t.Errorf("collaborator called %d times for rejected requests", collab.codeCalls)
	}
}
