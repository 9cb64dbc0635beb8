package factory

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/adapters/bedrock"
	"github.com/mikey/email-triage/internal/adapters/gemini"
	"github.com/mikey/email-triage/internal/adapters/openai"
	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/utils"
)

// LLMFactory creates LLM clients
type LLMFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *LLMFactory {
	return &LLMFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateLLMClient creates a new LLM client based on the configuration
func (f *LLMFactory) CreateLLMClient() (core.LLMClient, error) {
	switch f.cfg.GetLLM().Provider {
	case "openai":
		c := f.cfg.GetOpenAI()
		return openai.NewOpenAIClient(
			c.APIKey, c.BaseURL, c.ModelName,
			c.MaxTokens, c.Temperature, c.TopP, c.MaxBodySize,
			f.logger, f.textProcessor,
		), nil
	case "bedrock":
		c := f.cfg.GetBedrock()
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(c.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		return bedrock.NewBedrockClient(
			bedrockruntime.NewFromConfig(awsCfg), c.ModelID,
			c.MaxTokens, c.Temperature, c.TopP, c.MaxBodySize,
			f.logger, f.textProcessor,
		), nil
	case "gemini":
		c := f.cfg.GetGemini()
		return gemini.NewGeminiClient(
			c.APIKey, c.ModelName,
			c.MaxTokens, c.Temperature, c.TopP, c.MaxBodySize,
			f.logger, f.textProcessor,
		)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", f.cfg.GetLLM().Provider)
	}
}
