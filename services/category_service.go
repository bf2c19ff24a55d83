package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// ExternalServiceError marks a category-generation failure. It is always
// recoverable: the current prompt is left untouched and the admin can retry
// or type a category by hand.
type ExternalServiceError struct {
	Err error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("category service: %v", e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

var thinkTags = regexp.MustCompile(`(?s)<think>.*?(</think>|$)`)

// CategoryService asks an OpenAI-compatible chat completion endpoint for a
// single short category string. The model is treated as an opaque text
// oracle.
type CategoryService struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

func NewCategoryService(endpoint, apiKey, model string) *CategoryService {
	return &CategoryService{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate returns one fresh category suggestion.
func (s *CategoryService) Generate(ctx context.Context) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: "You are a helpful assistant. Do not use thinking tags. Respond directly and concisely.",
			},
			{
				Role: "user",
				Content: `Generate one unique, creative Scattergories category. ` +
					`Examples: "Things at a birthday party", "Types of fish", "Household chores". ` +
					`Do NOT repeat any of those examples. Respond with ONLY the category name, nothing else.`,
			},
		},
		MaxTokens: 500,
	})
	if err != nil {
		return "", &ExternalServiceError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &ExternalServiceError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &ExternalServiceError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &ExternalServiceError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &ExternalServiceError{Err: err}
	}
	if len(parsed.Choices) == 0 {
		return "", &ExternalServiceError{Err: fmt.Errorf("empty response")}
	}

	category := cleanCategory(parsed.Choices[0].Message.Content)
	if category == "" {
		return "", &ExternalServiceError{Err: fmt.Errorf("model returned no usable text")}
	}
	return category, nil
}

// cleanCategory strips thinking tags (complete or truncated) and surrounding
// quotes some models wrap the answer in.
func cleanCategory(text string) string {
	text = thinkTags.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	text = strings.Trim(text, `"'`)
	return strings.TrimSpace(text)
}
