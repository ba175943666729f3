package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/KAFKA2306/chat-code-architect-ai2/internal/ai"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/logger"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/model"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/service"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/session"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/store"
)

// fakeCollab is a scriptable ai.Client for handler tests.
type fakeCollab struct {
	chatReply *ai.ChatResponse
	chatErr   error
	codeReply *ai.CodeResponse
	codeErr   error
}

func (f *fakeCollab) GenerateChatResponse(_ context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	if f.chatReply != nil {
		return f.chatReply, nil
	}
	return &ai.ChatResponse{Content: "assistant reply"}, nil
}

func (f *fakeCollab) GenerateCode(_ context.Context, _ ai.CodeRequest) (*ai.CodeResponse, error) {
	if f.codeErr != nil {
		return nil, f.codeErr
	}
	if f.codeReply != nil {
		return f.codeReply, nil
	}
	return &ai.CodeResponse{Content: "done", Status: "completed"}, nil
}

// setupTestServer builds the full router over an in-memory database and
// returns a running test server plus a cookie-keeping client.
func setupTestServer(t *testing.T, collab ai.Client) (*httptest.Server, *http.Client, *store.Store) {
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

	s := store.New(db)
	log := logger.NewNop()
	access := service.NewAccess(s)
	authSvc := service.NewAuthService(s, session.NewDBStore(s), time.Hour)
	projectSvc := service.NewProjectService(s, access)
	chatSvc := service.NewChatService(s, access, collab, 5*time.Second, log)
	generateSvc := service.NewGenerateService(s, access, collab, 5*time.Second, log)
	fileSvc := service.NewFileService(s, access)

	h := New(s, authSvc, projectSvc, chatSvc, generateSvc, fileSvc, log)
	srv := httptest.NewServer(h.Routes([]string{"http://localhost:3000"}, log))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	return srv, &http.Client{Jar: jar}, s
}

// doJSON issues a request with a JSON body and decodes the JSON response
// into out (when out is non-nil).
func doJSON(t *testing.T, client *http.Client, method, url string, body any, out any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return resp
}

// registerUser registers an account through the API so the client's jar
// holds a valid session cookie.
func registerUser(t *testing.T, client *http.Client, baseURL, username, email string) {
	t.Helper()
	resp := doJSON(t, client, http.MethodPost, baseURL+"/api/register", map[string]string{
		"username": username,
		"email":    email,
		"password": "password123",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("registration failed with status %d", resp.StatusCode)
	}
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func TestHealth(t *testing.T) {
	srv, client, _ := setupTestServer(t, &fakeCollab{})

	var body map[string]string
	resp := doJSON(t, client, http.MethodGet, srv.URL+"/health", nil, &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected health body: %v", body)
	}
}

func TestRegisterLoginFlow(t *testing.T) {
	srv, client, _ := setupTestServer(t, &fakeCollab{})

	registerUser(t, client, srv.URL, "alice", "alice@example.com")

	// The registration cookie authenticates immediately
	var me map[string]any
	resp := doJSON(t, client, http.MethodGet, srv.URL+"/api/current-user", nil, &me)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if me["username"] != "alice" || me["email"] != "alice@example.com" {
		t.Errorf("unexpected identity: %v", me)
	}

	// A fresh client can log in with the same credentials
	other := newClient(t)
	var loginBody map[string]map[string]any
	resp = doJSON(t, other, http.MethodPost, srv.URL+"/api/login", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	}, &loginBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if loginBody["user"]["username"] != "alice" {
		t.Errorf("unexpected login body: %v", loginBody)
	}
	if _, ok := loginBody["user"]["password"]; ok {
		t.Error("password leaked in login response")
	}
}

func TestLoginBadCredentials(t *testing.T) {
	srv, client, _ := setupTestServer(t, &fakeCollab{})
	registerUser(t, client, srv.URL, "alice", "alice@example.com")

	other := newClient(t)
	resp := doJSON(t, other, http.MethodPost, srv.URL+"/api/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrongpass99",
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad credentials, got %d", resp.StatusCode)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	srv, client, _ := setupTestServer(t, &fakeCollab{})
	registerUser(t, client, srv.URL, "alice", "alice@example.com")

	other := newClient(t)
	resp := doJSON(t, other, http.MethodPost, srv.URL+"/api/register", map[string]string{
		"username": "alice",
		"email":    "second@example.com",
		"password": "password123",
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for duplicate username, got %d", resp.StatusCode)
	}
}

func TestUnauthenticatedRequests(t *testing.T) {
	srv, client, _ := setupTestServer(t, &fakeCollab{})

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/current-user"},
		{http.MethodGet, "/api/projects"},
		{http.MethodPost, "/api/projects"},
		{http.MethodGet, "/api/chat-sessions"},
		{http.MethodPost, "/api/generate-code"},
	}
	for _, tc := range paths {
		resp := doJSON(t, client, tc.method, srv.URL+tc.path, nil, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", tc.method, tc.path, resp.StatusCode)
		}
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	srv, client, _ := setupTestServer(t, &fakeCollab{})
	registerUser(t, client, srv.URL, "alice", "alice@example.com")

	var body map[string]bool
	resp := doJSON(t, client, http.MethodPost, srv.URL+"/api/logout", nil, &body)
	if resp.StatusCode != http.StatusOK || !body["success"] {
		t.Fatalf("logout failed: %d %v", resp.StatusCode, body)
	}

	resp = doJSON(t, client, http.MethodGet, srv.URL+"/api/current-user", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestStaleCookieRejected(t *testing.T) {
	srv, client, _ := setupTestServer(t, &fakeCollab{})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/current-user", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.AddCookie(&http.Cookie{Name: "architect_session", Value: "stale-token"})

	resp, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for stale cookie, got %d", resp.StatusCode)
	}
}

func projectURL(base string, id uint) string {
	return fmt.Sprintf("%s/api/projects/%d", base, id)
}
