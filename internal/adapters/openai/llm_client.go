package openai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/extraction"
	"github.com/mikey/email-triage/internal/prompt"
	"github.com/mikey/email-triage/internal/utils"
)

// OpenAIClient is an implementation of the LLMClient interface using the
// OpenAI chat-completion API. A custom base URL makes it work against any
// OpenAI-compatible endpoint (OpenRouter and friends).
type OpenAIClient struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(
	apiKey string,
	baseURL string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIClient{
		client:        openai.NewClientWithConfig(cfg),
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// ClassifyEmail submits the email and taxonomy for classification and
// extracts the structured result from the completion text.
func (c *OpenAIClient) ClassifyEmail(ctx context.Context, email *core.ParsedEmail, taxonomy core.Taxonomy) (*core.ClassificationResult, error) {
	bounded := *email
	bounded.Body = c.textProcessor.ProcessText(email.Body, c.maxBodySize)

	p, err := prompt.Build(&bounded, taxonomy)
	if err != nil {
		return nil, err
	}

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: p,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from model %s", c.modelName)
	}

	responseText := resp.Choices[0].Message.Content
	c.logger.Debug("Model response received",
		zap.String("model", c.modelName),
		zap.String("completion_id", resp.ID),
		zap.Int("response_size", len(responseText)))

	return extraction.ExtractResult(responseText), nil
}
