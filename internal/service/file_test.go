package service

import (
	"context"
	"errors"
	"testing"

	"github.com/KAFKA2306/chat-code-architect-ai2/internal/apperr"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/model"
)

func TestDownloadManifest(t *testing.T) {
	s := setupTestStore(t)
	svc := NewFileService(s, NewAccess(s))
	ctx := context.Background()
	user := createTestUser(t, s, "alice", "alice@x.com")
	project := createTestProject(t, s, user.ID, "Foo")

	file := &model.GeneratedFile{
		ProjectID: project.ID,
		Filename:  "main.py",
		Filepath:  "app/main.py",
		Content:   "print('hi')",
		FileType:  "py",
	}
	if err := s.CreateGeneratedFile(ctx, file); err != nil {
		t.Fatal(err)
	}

	manifest, err := svc.Download(ctx, user.ID, project.ID)
	if err != nil {
		t.Fatalf("failed to build manifest: %v", err)
	}
	if len(manifest.Files) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(manifest.Files))
	}
	entry := manifest.Files[0]
	if entry.Filename != "main.py" || entry.Size != len("print('hi')") {
		t.Errorf("unexpected entry: %+v", entry)
	}
}

func TestDownloadEmptyProject(t *testing.T) {
	s := setupTestStore(t)
	svc := NewFileService(s, NewAccess(s))
	ctx := context.Background()
	user := createTestUser(t, s, "alice", "alice@x.com")
	project := createTestProject(t, s, user.ID, "Foo")

	if _, err := svc.Download(ctx, user.ID, project.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty project, got %v", err)
	}
}

func TestGetFileOwnershipChain(t *testing.T) {
	s := setupTestStore(t)
	svc := NewFileService(s, NewAccess(s))
	ctx := context.Background()
	alice := createTestUser(t, s, "alice", "alice@x.com")
	bob := createTestUser(t, s, "bob", "bob@x.com")
	project := createTestProject(t, s, alice.ID, "Foo")

	file := &model.GeneratedFile{ProjectID: project.ID, Filename: "a", Filepath: "a", Content: "x", FileType: "txt"}
	if err := s.CreateGeneratedFile(ctx, file); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.GetFile(ctx, alice.ID, file.ID); err != nil {
		t.Errorf("owner denied: %v", err)
	}
	if _, err := svc.GetFile(ctx, bob.ID, file.ID); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.GetFile(ctx, alice.ID, file.ID+100); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
