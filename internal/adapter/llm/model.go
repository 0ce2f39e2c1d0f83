// Package llm adapts langchaingo backends to domain.QuizLanguageModel.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"quiz-tube/internal/config"
	"quiz-tube/internal/domain"
	"quiz-tube/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	ProviderGoogleAI = "googleai"
	ProviderOllama   = "ollama"
	ProviderOpenAI   = "openai"
)

// DefaultOllamaURL is used when the ollama provider has no server_url configured.
const DefaultOllamaURL = "http://localhost:11434"

// NewModel builds the langchaingo client selected by cfg.Provider.
func NewModel(ctx context.Context, cfg config.LLMConfig) (llms.Model, error) {
	switch cfg.Provider {
	case ProviderGoogleAI, "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("googleai API key cannot be empty")
		}
		return googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
		)
	case ProviderOllama:
		return ollama.New(
			ollama.WithServerURL(ollamaServerURL(cfg)),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(&http.Client{}),
		)
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai API key cannot be empty")
		}
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
		}
		if cfg.ServerURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.ServerURL))
		}
		return openai.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

func ollamaServerURL(cfg config.LLMConfig) string {
	if cfg.ServerURL == "" {
		return DefaultOllamaURL
	}
	return cfg.ServerURL
}

// LangchainModel implements domain.QuizLanguageModel on top of any langchaingo model,
// throttled to a fixed number of requests per minute.
type LangchainModel struct {
	model       llms.Model
	limiter     *rate.Limiter
	temperature float64
}

var _ domain.QuizLanguageModel = (*LangchainModel)(nil)

func NewLangchainModel(model llms.Model, temperature float64, requestsPerMinute int) *LangchainModel {
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	return &LangchainModel{
		model:       model,
		limiter:     rate.NewLimiter(limit, 1),
		temperature: temperature,
	}
}

// Complete implements domain.QuizLanguageModel.
func (m *LangchainModel) Complete(ctx context.Context, prompt string) (string, error) {
	l := logger.Get()

	if err := m.limiter.Wait(ctx); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", domain.NewTimeoutError(domain.StageGenerate, domain.KindGeneration, err)
		}
		return "", domain.NewGenerationError("rate limited", err)
	}

	start := time.Now()
	response, err := llms.GenerateFromSinglePrompt(ctx, m.model, prompt,
		llms.WithTemperature(m.temperature),
		llms.WithJSONMode(),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			l.Error("LLM request timed out", zap.Error(err))
			return "", domain.NewTimeoutError(domain.StageGenerate, domain.KindGeneration, err)
		}
		l.Error("Failed to get response from LLM", zap.Error(err))
		return "", domain.NewGenerationError("language model call failed", err)
	}

	l.Debug("LLM call completed", zap.Duration("duration", time.Since(start)), zap.Int("response_length", len(response)))
	return response, nil
}
