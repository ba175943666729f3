package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/KAFKA2306/chat-code-architect-ai2/internal/config"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/logger"
)

const codeSystemPrompt = `You are Code Architect, an expert backend developer who generates production-ready code.

Always respond with JSON in this exact format:
{
  "content": "Detailed explanation of what you're building",
  "files": [
    {
      "filename": "main.py",
      "filepath": "app/main.py",
      "content": "complete file content",
      "fileType": "py",
      "description": "application entry point"
    }
  ],
  "actions": [
    {
      "type": "pr",
      "label": "PR #1: Initial setup",
      "description": "Created project structure"
    }
  ],
  "status": "completed"
}

Generate real, working code - no placeholders.
Include all necessary files: main application, models, routes, config, dependency manifest, Dockerfile.`

const chatSystemPrompt = `You are Code Architect, a backend development expert. Help the user design and build backend applications through natural conversation. Offer to generate code when the user asks for a concrete application, API, database, or auth system.`

// GeminiClient calls a generateContent-shaped HTTP endpoint.
type GeminiClient struct {
	baseURL string
	apiKey  string
	model   string
	httpc   *http.Client
	log     *logger.Logger
}

// New returns the configured collaborator. Without an API key the demo
// client is returned so the application degrades instead of failing.
func New(cfg *config.Config, log *logger.Logger) Client {
	if cfg.AIAPIKey == "" {
		log.Warn("no AI API key configured, collaborator running in demo mode")
		return NewDemoClient()
	}
	return &GeminiClient{
		baseURL: strings.TrimSuffix(cfg.AIBaseURL, "/"),
		apiKey:  cfg.AIAPIKey,
		model:   cfg.AIModel,
		// Backstop timeout; callers bound each request with a context
		// deadline as well.
		httpc: &http.Client{Timeout: cfg.AITimeout},
		log:   log,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClient) generate(ctx context.Context, req geminiRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("collaborator request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("collaborator returned %d: %s", resp.StatusCode, string(raw))
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode collaborator response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("collaborator returned no candidates")
	}

	c.log.Debug("collaborator call completed", "model", c.model, "elapsed", time.Since(start))
	return out.Candidates[0].Content.Parts[0].Text, nil
}

// GenerateChatResponse produces an assistant reply for a user message.
func (c *GeminiClient) GenerateChatResponse(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	contextInfo := "Starting new conversation about backend development"
	if pc := req.ProjectContext; pc != nil {
		desc := pc.Description
		if desc == "" {
			desc = "No description"
		}
		contextInfo = fmt.Sprintf("Current project: %s - %s\nTech stack: %s",
			pc.Name, desc, strings.Join(pc.TechStack, ", "))
	}

	text, err := c.generate(ctx, geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{Text: chatSystemPrompt + "\n\nConversation context: " + contextInfo},
				{Text: req.UserMessage},
			},
		}},
	})
	if err != nil {
		return nil, err
	}

	meta, _ := json.Marshal(map[string]any{
		"sessionId":         req.SessionID,
		"hasProjectContext": req.ProjectContext != nil,
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
	})
	return &ChatResponse{Content: text, Metadata: meta}, nil
}

// GenerateCode asks for a structured set of file artifacts. The model is
// forced into JSON mode; a reply that does not parse is an error, not a
// silently empty result.
func (c *GeminiClient) GenerateCode(ctx context.Context, req CodeRequest) (*CodeResponse, error) {
	stack := "FastAPI + PostgreSQL + Docker"
	if len(req.TechStack) > 0 {
		stack = strings.Join(req.TechStack, ", ")
	}
	projectType := req.ProjectType
	if projectType == "" {
		projectType = "Backend API"
	}
	extra := req.Context
	if extra == "" {
		extra = "None"
	}

	system := fmt.Sprintf("%s\n\nTech stack preference: %s\nProject type: %s\nAdditional context: %s",
		codeSystemPrompt, stack, projectType, extra)

	text, err := c.generate(ctx, geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: system}, {Text: req.Prompt}},
		}},
		GenerationConfig: &geminiGenerationConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return nil, err
	}

	var out CodeResponse
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("collaborator returned malformed JSON: %w", err)
	}
	if out.Content == "" {
		out.Content = "Code generation completed"
	}
	if out.Files == nil {
		out.Files = []FileArtifact{}
	}
	if out.Actions == nil {
		out.Actions = []Action{}
	}
	out.Status = "completed"
	return &out, nil
}
