// Package llm is a thin client for the chat-completions API that produces
// analysis and report text. Calls are awaited synchronously within the
// request that asked for them; a slow or failing provider only affects that
// one request.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"trade-journal/config"
)

// Generator produces analysis text from a prompt. Satisfied by Client and by
// test fakes.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

type Client struct {
	client *resty.Client
	cfg    config.LLM
	logger *zap.Logger
}

var _ Generator = (*Client)(nil)

// NewClient creates a new chat-completions client.
func NewClient(cfg config.LLM, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	return &Client{client: client, cfg: cfg, logger: logger}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
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
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends one chat-completion request and returns the assistant text.
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", errors.New("llm api key not configured")
	}

	body := chatRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	}

	var parsed chatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&parsed).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	if resp.IsError() {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return "", fmt.Errorf("llm http %d: %s", resp.StatusCode(), parsed.Error.Message)
		}
		return "", fmt.Errorf("llm http %d", resp.StatusCode())
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("llm returned no choices")
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("llm returned empty content")
	}

	c.logger.Debug("llm completion received",
		zap.String("model", c.cfg.Model),
		zap.Int("chars", len(text)))
	return text, nil
}
