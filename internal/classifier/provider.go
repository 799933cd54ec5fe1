package classifier

import (
	"fmt"
	"log/slog"

	"github.com/dvornikita/SleecReddit/internal/config"
	"github.com/dvornikita/SleecReddit/internal/llm"
)

// NewProvider selects the completion backend based on the LLM mode.
func NewProvider(cfg config.LLMConfig, logger *slog.Logger) (llm.Provider, error) {
	switch cfg.Mode {
	case config.LLMOpenAI:
		return llm.NewOpenAIProvider(cfg, logger), nil
	case config.LLMMock:
		return HeuristicProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown LLM_MODE: %s (use 'openai' or 'mock')", cfg.Mode)
	}
}
