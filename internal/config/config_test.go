package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment does not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"COLLECTOR_MODE", "REDDIT_CLIENT_ID", "REDDIT_CLIENT_SECRET", "REDDIT_USERNAME",
		"REDDIT_PASSWORD", "REDDIT_USER_AGENT", "LLM_MODE", "OPENAI_API_KEY",
		"OPENAI_BASE_URL", "OPENAI_MODEL", "LOG_LEVEL", "LOG_FORMAT", "PORT", "ANALYZER_SAMPLE_SEED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file gives defaults", func(t *testing.T) {
		clearEnv(t)
		cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
		require.NoError(t, err)

		assert.Equal(t, []string{"HomeworkHelp", "AskAcademia", "Student"}, cfg.Collector.Subreddits)
		assert.Equal(t, 3, cfg.Collector.WindowYears)
		assert.Equal(t, "reddit_data", cfg.Collector.DataDir)
		assert.Equal(t, "results", cfg.Analyzer.ResultsDir)
		assert.Equal(t, "reddit_analysis_results.json", cfg.Analyzer.ResultsFile)
		assert.Equal(t, "subreddit_to_positive_ids.json", cfg.Analyzer.PositiveFile)
		assert.Equal(t, 10, cfg.Analyzer.SampleSize)
		assert.Equal(t, 10, cfg.Analyzer.CheckpointEvery)
		assert.Equal(t, 500*time.Millisecond, cfg.Analyzer.ItemPause)
		assert.Equal(t, time.Second, cfg.Analyzer.FailurePause)
		assert.Equal(t, "gpt-4.1-mini", cfg.LLM.Model)
		assert.Equal(t, ModeAPI, cfg.Reddit.Mode)
		assert.Equal(t, LLMOpenAI, cfg.LLM.Mode)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("yaml overrides defaults", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
collector:
  subreddits: [GradSchool]
  window_years: 1
analyzer:
  sample_size: 25
  item_pause: 2s
  ledger_path: results/ledger.db
llm:
  model: gpt-4o-mini
`), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"GradSchool"}, cfg.Collector.Subreddits)
		assert.Equal(t, 1, cfg.Collector.WindowYears)
		assert.Equal(t, 25, cfg.Analyzer.SampleSize)
		assert.Equal(t, 2*time.Second, cfg.Analyzer.ItemPause)
		assert.Equal(t, "results/ledger.db", cfg.Analyzer.LedgerPath)
		assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
		assert.Equal(t, 10, cfg.Analyzer.CheckpointEvery)
	})

	t.Run("environment overrides yaml", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("COLLECTOR_MODE", "mock")
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("OPENAI_MODEL", "gpt-4.1")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("ANALYZER_SAMPLE_SEED", "99")

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("llm:\n  model: from-yaml\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ModeMock, cfg.Reddit.Mode)
		assert.Equal(t, "sk-test", cfg.LLM.APIKey)
		assert.Equal(t, "gpt-4.1", cfg.LLM.Model)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, int64(99), cfg.Analyzer.SampleSeed)
	})

	t.Run("bad yaml", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("collector: [\n"), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestValidateCollector(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantSetting string
		wantErr     bool
	}{
		{"api without client id", func(c *Config) {}, "REDDIT_CLIENT_ID", true},
		{"api without secret", func(c *Config) { c.Reddit.ClientID = "id" }, "REDDIT_CLIENT_SECRET", true},
		{"api complete", func(c *Config) { c.Reddit.ClientID = "id"; c.Reddit.ClientSecret = "s" }, "", false},
		{"public without agent", func(c *Config) { c.Reddit.Mode = ModePublic; c.Reddit.UserAgent = "" }, "REDDIT_USER_AGENT", true},
		{"mock", func(c *Config) { c.Reddit.Mode = ModeMock }, "", false},
		{"unknown mode", func(c *Config) { c.Reddit.Mode = "scrape" }, "", true},
		{"zero window", func(c *Config) { c.Reddit.Mode = ModeMock; c.Collector.WindowYears = 0 }, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.ValidateCollector()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.wantSetting != "" {
				var missing *MissingSettingError
				require.True(t, errors.As(err, &missing))
				assert.Equal(t, tt.wantSetting, missing.Setting)
				assert.Contains(t, err.Error(), tt.wantSetting)
			}
		})
	}
}

func TestValidateAnalyzer(t *testing.T) {
	cfg := Default()
	err := cfg.ValidateAnalyzer()
	var missing *MissingSettingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "OPENAI_API_KEY", missing.Setting)

	cfg.LLM.APIKey = "sk"
	assert.NoError(t, cfg.ValidateAnalyzer())

	cfg = Default()
	cfg.LLM.Mode = LLMMock
	assert.NoError(t, cfg.ValidateAnalyzer())

	cfg.Analyzer.CheckpointEvery = 0
	assert.Error(t, cfg.ValidateAnalyzer())
}
