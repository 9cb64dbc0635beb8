package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/extraction"
	"github.com/mikey/email-triage/internal/prompt"
	"github.com/mikey/email-triage/internal/utils"
)

// GeminiClient is an implementation of the LLMClient interface using Google
// Gemini
type GeminiClient struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*GeminiClient, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &GeminiClient{
		client:        client,
		model:         model,
		modelName:     modelName,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// ClassifyEmail submits the email and taxonomy for classification and
// extracts the structured result from the completion text.
func (c *GeminiClient) ClassifyEmail(ctx context.Context, email *core.ParsedEmail, taxonomy core.Taxonomy) (*core.ClassificationResult, error) {
	bounded := *email
	bounded.Body = c.textProcessor.ProcessText(email.Body, c.maxBodySize)

	p, err := prompt.Build(&bounded, taxonomy)
	if err != nil {
		return nil, err
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(p))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("empty response from model %s", c.modelName)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	responseText := b.String()

	c.logger.Debug("Model response received",
		zap.String("model", c.modelName),
		zap.Int("response_size", len(responseText)))

	return extraction.ExtractResult(responseText), nil
}
