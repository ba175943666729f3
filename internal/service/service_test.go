package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/KAFKA2306/chat-code-architect-ai2/internal/ai"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/logger"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/model"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/store"
)

// setupTestStore creates an in-memory SQLite database for testing
func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return store.New(db)
}

func createTestUser(t *testing.T, s *store.Store, username, email string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Email: email, Password: "x"}
	if err := s.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func createTestProject(t *testing.T, s *store.Store, userID uint, name string) *model.Project {
	t.Helper()
	project := &model.Project{UserID: userID, Name: name, Status: model.ProjectStatusPlanning}
	if err := s.CreateProject(context.Background(), project); err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	return project
}

// fakeCollab is a scriptable ai.Client for exercising the collaborator
// failure paths without a network.
type fakeCollab struct {
	chatReply *ai.ChatResponse
	chatErr   error
	codeReply *ai.CodeResponse
	codeErr   error
	chatCalls int
	codeCalls int
}

func (f *fakeCollab) GenerateChatResponse(_ context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
	f.chatCalls++
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	if f.chatReply != nil {
		return f.chatReply, nil
	}
	return &ai.ChatResponse{Content: "assistant reply"}, nil
}

func (f *fakeCollab) GenerateCode(_ context.Context, _ ai.CodeRequest) (*ai.CodeResponse, error) {
	f.codeCalls++
	if f.codeErr != nil {
		return nil, f.codeErr
	}
	if f.codeReply != nil {
		return f.codeReply, nil
	}
	return &ai.CodeResponse{Content: "done", Status: "completed"}, nil
}

func newTestChatService(s *store.Store, collab ai.Client) *ChatService {
	return NewChatService(s, NewAccess(s), collab, 5*time.Second, logger.NewNop())
}
