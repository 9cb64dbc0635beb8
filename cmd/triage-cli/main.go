package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/factory"
	"github.com/mikey/email-triage/internal/logging"
	"github.com/mikey/email-triage/internal/parser"
)

var (
	// LLM provider flags
	provider    = flag.String("provider", "openai", "LLM provider (openai, bedrock, gemini)")
	maxTokens   = flag.Int("max-tokens", 2000, "Maximum tokens for LLM response")
	temperature = flag.Float64("temperature", 0.1, "Temperature for LLM generation")
	topP        = flag.Float64("top-p", 0.9, "Top-p for LLM generation")
	maxBodySize = flag.Int("max-body-size", 8192, "Maximum email body size to send to the model")

	// OpenAI flags
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiBaseURL   = flag.String("openai-base-url", "", "Base URL for OpenAI-compatible endpoints")
	openaiModelName = flag.String("openai-model", "gpt-4", "OpenAI model name")

	// Bedrock flags
	bedrockRegion  = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModelID = flag.String("bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Gemini flags
	geminiAPIKey    = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModelName = flag.String("gemini-model", "gemini-pro", "Gemini model name")

	// Input flags
	inputFile    = flag.String("file", "", "Input .eml file (use stdin if not specified)")
	taxonomyFile = flag.String("taxonomy", "", "JSON taxonomy file (uses the built-in default if not specified)")
	timeout      = flag.Duration("timeout", 60*time.Second, "Timeout for the model call")
	verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog      = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := createConfigFromFlags()

	raw, err := readInput()
	if err != nil {
		logger.Fatal("Failed to read input", zap.Error(err))
	}

	taxonomy, err := loadTaxonomy()
	if err != nil {
		logger.Fatal("Failed to load taxonomy", zap.Error(err))
	}

	textProcessor := factory.NewTextProcessorFactory(logger).CreateTextProcessor()
	extractor := parser.NewTextExtractor(logger, textProcessor)
	emlParser := parser.NewEmlParser(extractor, logger)

	llmClient, err := factory.NewLLMFactory(cfg, logger, textProcessor).CreateLLMClient()
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	defer func() {
		if closer, ok := llmClient.(interface{ Close() error }); ok {
			closer.Close()
		}
	}()

	email, err := emlParser.Parse(raw)
	if err != nil {
		logger.Fatal("Failed to parse email", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := llmClient.ClassifyEmail(ctx, email, taxonomy)
	if err != nil {
		logger.Fatal("Classification failed", zap.Error(err))
	}
	if result.Empty() {
		logger.Fatal("Model returned no usable classification")
	}

	out, err := json.MarshalIndent(map[string]interface{}{
		"fingerprint": core.EmailFingerprint(email),
		"email":       email,
		"mlResults":   result,
	}, "", "  ")
	if err != nil {
		logger.Fatal("Failed to encode output", zap.Error(err))
	}
	fmt.Println(string(out))
}

func readInput() ([]byte, error) {
	if *inputFile != "" {
		return os.ReadFile(*inputFile)
	}
	return io.ReadAll(os.Stdin)
}

func loadTaxonomy() (core.Taxonomy, error) {
	if *taxonomyFile == "" {
		return core.DefaultTaxonomy(), nil
	}
	data, err := os.ReadFile(*taxonomyFile)
	if err != nil {
		return nil, err
	}
	var taxonomy core.Taxonomy
	if err := json.Unmarshal(data, &taxonomy); err != nil {
		return nil, err
	}
	return taxonomy, nil
}

func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("llm.provider", *provider)

	v.Set("openai.api_key", *openaiAPIKey)
	v.Set("openai.base_url", *openaiBaseURL)
	v.Set("openai.model_name", *openaiModelName)
	v.Set("openai.max_tokens", *maxTokens)
	v.Set("openai.temperature", *temperature)
	v.Set("openai.top_p", *topP)
	v.Set("openai.max_body_size", *maxBodySize)

	v.Set("bedrock.region", *bedrockRegion)
	v.Set("bedrock.model_id", *bedrockModelID)
	v.Set("bedrock.max_tokens", *maxTokens)
	v.Set("bedrock.temperature", *temperature)
	v.Set("bedrock.top_p", *topP)
	v.Set("bedrock.max_body_size", *maxBodySize)

	v.Set("gemini.api_key", *geminiAPIKey)
	v.Set("gemini.model_name", *geminiModelName)
	v.Set("gemini.max_tokens", *maxTokens)
	v.Set("gemini.temperature", *temperature)
	v.Set("gemini.top_p", *topP)
	v.Set("gemini.max_body_size", *maxBodySize)

	return config.NewFromViper(v)
}
