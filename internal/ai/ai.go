// Package ai defines the collaborator interface for chat responses and code
// generation, plus the HTTP client implementing it. Callers treat the
// collaborator as a black box: both capabilities may fail, and failure must
// never crash the caller.
package ai

import (
	"context"
	"encoding/json"
)

// FileArtifact is one generated file returned by a code-generation call.
type FileArtifact struct {
	Filename    string `json:"filename"`
	Filepath    string `json:"filepath"`
	Content     string `json:"content"`
	FileType    string `json:"fileType"`
	Description string `json:"description,omitempty"`
}

// Action is a follow-up suggestion attached to a code-generation response.
type Action struct {
	Type        string `json:"type"` // pr, deploy, file, migration
	Label       string `json:"label"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

// CodeRequest asks the collaborator to generate project files.
type CodeRequest struct {
	Prompt      string   `json:"prompt"`
	TechStack   []string `json:"techStack,omitempty"`
	ProjectType string   `json:"projectType,omitempty"`
	Context     string   `json:"context,omitempty"`
}

// CodeResponse is the structured result of a code-generation call.
type CodeResponse struct {
	Content string         `json:"content"`
	Files   []FileArtifact `json:"files"`
	Actions []Action       `json:"actions"`
	Status  string         `json:"status"` // thinking, building, completed, error
}

// ProjectContext carries the target project's fields into a chat call.
type ProjectContext struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	TechStack   []string `json:"techStack,omitempty"`
}

// ChatRequest asks the collaborator for an assistant reply.
type ChatRequest struct {
	UserMessage    string          `json:"userMessage"`
	SessionID      uint            `json:"sessionId"`
	ProjectContext *ProjectContext `json:"projectContext,omitempty"`
}

// ChatResponse is an assistant reply with opaque metadata the caller
// persists alongside the message.
type ChatResponse struct {
	Content  string          `json:"content"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// Client is the collaborator contract consumed by the service layer.
type Client interface {
	GenerateChatResponse(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	GenerateCode(ctx context.Context, req CodeRequest) (*CodeResponse, error)
}
