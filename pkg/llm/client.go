// Package llm provides the language-model collaborator: an OpenAI-compatible
// chat client plus the resilience wrapper (circuit breaker and client-side
// rate limiting) the orchestrator calls through.
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/lab-analysis-server/internal/domain"
)

// Client implements domain.Generator over an OpenAI-compatible chat API.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
	log         *logrus.Logger
}

// NewClient creates a chat client from configuration. BaseURL may point at
// any OpenAI-compatible endpoint.
func NewClient(config domain.LLMConfig, logger *logrus.Logger) *Client {
	cfg := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		cfg.BaseURL = config.BaseURL
	}

	model := config.Model
	if model == "" {
		model = openai.GPT4o
	}

	return &Client{
		api:         openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
		log:         logger,
	}
}

// Generate sends one prompt and returns the raw completion text. The caller
// owns JSON parsing and fence stripping.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	c.log.WithFields(logrus.Fields{
		"model":             c.model,
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
	}).Debug("Completion received")

	return resp.Choices[0].Message.Content, nil
}
