package collector

import (
	"fmt"

	"github.com/dvornikita/SleecReddit/internal/config"
	"github.com/dvornikita/SleecReddit/internal/domain"
)

// NewSource selects the correct implementation based on the mode
func NewSource(cfg config.RedditConfig) (domain.PostSource, error) {
	switch cfg.Mode {
	case config.ModeAPI:
		return NewAPIClient(cfg.ClientID, cfg.ClientSecret, cfg.Username, cfg.Password, cfg.UserAgent)
	case config.ModePublic:
		if cfg.UserAgent == "" {
			return nil, fmt.Errorf("REDDIT_USER_AGENT is required for public mode")
		}
		return NewPublicClient(cfg.UserAgent)
	case config.ModeMock:
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown COLLECTOR_MODE: %s (use 'api', 'public', or 'mock')", cfg.Mode)
	}
}
