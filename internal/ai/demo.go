package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// DemoClient answers without any external service. It stands in for the
// real collaborator when no API key is configured, so the rest of the
// application keeps working end to end.
type DemoClient struct{}

// NewDemoClient returns a collaborator that produces canned responses.
func NewDemoClient() *DemoClient {
	return &DemoClient{}
}

func (c *DemoClient) GenerateChatResponse(_ context.Context, req ChatRequest) (*ChatResponse, error) {
	content := fmt.Sprintf(`Hello! This is Code Architect running in demo mode because no AI API key is configured.

Your message: %q

Set GEMINI_API_KEY to enable:
- backend application design through natural language
- automatic code generation
- project structure and tech stack suggestions`, req.UserMessage)

	meta, _ := json.Marshal(map[string]any{
		"sessionId":         req.SessionID,
		"demoMode":          true,
		"hasProjectContext": req.ProjectContext != nil,
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
	})
	return &ChatResponse{Content: content, Metadata: meta}, nil
}

func (c *DemoClient) GenerateCode(_ context.Context, req CodeRequest) (*CodeResponse, error) {
	return &CodeResponse{
		Content: fmt.Sprintf("Demo mode: no AI API key configured, so no files were generated for %q. Set GEMINI_API_KEY to enable code generation.", req.Prompt),
		Files:   []FileArtifact{},
		Actions: []Action{},
		Status:  "completed",
	}, nil
}
