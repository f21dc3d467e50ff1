package agents

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/coincortex/coincortex/internal/config"
)

// Shared chat models for the agent graph. QuickModel handles the
// high-volume analyst and debate turns, DeepModel the manager decisions.
// InitChatModels must run before the orchestrator is built.
var (
	QuickModel model.ToolCallingChatModel
	DeepModel  model.ToolCallingChatModel
)

func InitChatModels(ctx context.Context, cfg *config.Config) error {
	quick, err := NewChatModel(ctx, cfg, cfg.QuickThinkLLM)
	if err != nil {
		return fmt.Errorf("create quick-think model: %w", err)
	}
	deep, err := NewChatModel(ctx, cfg, cfg.DeepThinkLLM)
	if err != nil {
		return fmt.Errorf("create deep-think model: %w", err)
	}
	QuickModel = quick
	DeepModel = deep
	return nil
}

// NewChatModel builds a chat model for the configured provider.
func NewChatModel(ctx context.Context, cfg *config.Config, modelName string) (model.ToolCallingChatModel, error) {
	switch cfg.LLMProvider {
	case "deepseek":
		return deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:    cfg.DeepSeekAPIKey,
			Model:     modelName,
			MaxTokens: cfg.ReservedOutputTokens,
		})
	case "openai", "":
		maxTokens := cfg.ReservedOutputTokens
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:   cfg.BackendURL,
			APIKey:    cfg.OpenAIAPIKey,
			Model:     modelName,
			MaxTokens: &maxTokens,
		})
	default:
		return nil, fmt.Errorf("unsupported llm_provider: %s", cfg.LLMProvider)
	}
}
