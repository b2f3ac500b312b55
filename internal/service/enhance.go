package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dkotenko/snipvault/internal/logging"
)

var (
	ErrNoCode          = errors.New("no code provided")
	ErrNoProviderKey   = errors.New("no provider API key configured")
	ErrProviderFailure = errors.New("provider call failed")
)

// Enhancement is the structured result the model is instructed to return.
type Enhancement struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ImprovedCode string   `json:"improvedCode"`
	Tags         []string `json:"tags"`
	Language     string   `json:"language"`
}

// Enhancer is consumed by the HTTP layer; tests substitute a fake.
type Enhancer interface {
	Enhance(ctx context.Context, code, language string) (*Enhancement, error)
	EnhanceWithKey(ctx context.Context, apiKey, code, language string) (*Enhancement, error)
}

// EnhanceService calls the external generative provider. The provider is a
// black box here: it returns structured text or fails.
type EnhanceService struct {
	apiKey string
	model  string
}

func NewEnhanceService(apiKey, model string) *EnhanceService {
	return &EnhanceService{apiKey: apiKey, model: model}
}

// Enhance uses the platform key; callers gate it behind the quota.
func (s *EnhanceService) Enhance(ctx context.Context, code, language string) (*Enhancement, error) {
	if s.apiKey == "" {
		return nil, ErrNoProviderKey
	}
	return s.complete(ctx, s.apiKey, code, language)
}

// EnhanceWithKey uses a caller-supplied key and is not metered.
func (s *EnhanceService) EnhanceWithKey(ctx context.Context, apiKey, code, language string) (*Enhancement, error) {
	if apiKey == "" {
		return nil, ErrNoProviderKey
	}
	return s.complete(ctx, apiKey, code, language)
}

func (s *EnhanceService) complete(ctx context.Context, apiKey, code, language string) (*Enhancement, error) {
	if strings.TrimSpace(code) == "" {
		return nil, ErrNoCode
	}
	l := logging.FromContext(ctx).With("svc", "enhance")

	client := openai.NewClient(apiKey)
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: 1024,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: enhancePrompt(code, language),
			},
		},
	})
	if err != nil {
		l.Warn("provider call failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrProviderFailure)
	}

	result, err := parseEnhancement(resp.Choices[0].Message.Content)
	if err != nil {
		l.Warn("unparseable provider response", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}
	return result, nil
}

func enhancePrompt(code, language string) string {
	if language == "" {
		language = "unknown"
	}
	return fmt.Sprintf(`You are a code analysis assistant. Analyze the following code and return a JSON object with these exact fields:
- title: a short, smart title for this snippet (max 6 words)
- description: a concise one-sentence description of what it does
- improvedCode: the same code with minor quality improvements (better naming, formatting, remove redundancy) - preserve behavior exactly
- tags: an array of 2-5 relevant lowercase tag strings (e.g. ["typescript", "array", "utility"])
- language: the detected programming language as a lowercase string

Return ONLY valid JSON. No markdown, no explanation, no code fences.

Language hint: %s

Code:
%s`, language, code)
}

// parseEnhancement tolerates models that wrap the JSON in a code fence
// despite instructions.
func parseEnhancement(content string) (*Enhancement, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	var result Enhancement
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, err
	}
	if result.Title == "" && result.ImprovedCode == "" {
		return nil, errors.New("response missing expected fields")
	}
	return &result, nil
}
