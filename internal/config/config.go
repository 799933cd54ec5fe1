// Package config loads settings for the scraper, analyzer and dashboard.
//
// Values come from three layers, later ones winning: built-in defaults, an
// optional YAML file, and the environment (after .env has been loaded).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Collector modes.
const (
	ModeAPI    = "api"
	ModePublic = "public"
	ModeMock   = "mock"
)

// LLM modes.
const (
	LLMOpenAI = "openai"
	LLMMock   = "mock"
)

// Config is the root of config.yaml.
type Config struct {
	Reddit    RedditConfig    `yaml:"reddit"`
	Collector CollectorConfig `yaml:"collector"`
	Analyzer  AnalyzerConfig  `yaml:"analyzer"`
	LLM       LLMConfig       `yaml:"llm"`
	Log       LogConfig       `yaml:"log"`
	Dashboard DashboardConfig `yaml:"dashboard"`
}

// RedditConfig holds credentials. Secrets are normally supplied through the environment.
type RedditConfig struct {
	Mode         string `yaml:"mode"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	UserAgent    string `yaml:"user_agent"`
}

type CollectorConfig struct {
	Subreddits     []string `yaml:"subreddits"`
	SubredditsFile string   `yaml:"subreddits_file"` // CSV with header, overrides Subreddits
	WindowYears    int      `yaml:"window_years"`
	DataDir        string   `yaml:"data_dir"`
	MaxPages       int      `yaml:"max_pages"` // per listing, 0 = until the cursor runs out
}

type AnalyzerConfig struct {
	DataDir         string        `yaml:"data_dir"`
	ResultsDir      string        `yaml:"results_dir"`
	ResultsFile     string        `yaml:"results_file"`
	PositiveFile    string        `yaml:"positive_file"`
	SampleSize      int           `yaml:"sample_size"` // <= 0 disables subsampling
	SampleSeed      int64         `yaml:"sample_seed"` // 0 = seeded from the clock
	CheckpointEvery int           `yaml:"checkpoint_every"`
	ItemPause       time.Duration `yaml:"item_pause"`
	FailurePause    time.Duration `yaml:"failure_pause"`
	LedgerPath      string        `yaml:"ledger_path"` // empty = no cross-run ledger
}

type LLMConfig struct {
	Mode              string        `yaml:"mode"`
	Model             string        `yaml:"model"`
	APIKey            string        `yaml:"api_key"`
	BaseURL           string        `yaml:"base_url"`
	Temperature       float32       `yaml:"temperature"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "text"
}

type DashboardConfig struct {
	Port string `yaml:"port"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Reddit: RedditConfig{
			Mode:      ModeAPI,
			UserAgent: "SleecReddit scraper by /u/YourUsername",
		},
		Collector: CollectorConfig{
			Subreddits:  []string{"HomeworkHelp", "AskAcademia", "Student"},
			WindowYears: 3,
			DataDir:     "reddit_data",
		},
		Analyzer: AnalyzerConfig{
			DataDir:         "reddit_data",
			ResultsDir:      "results",
			ResultsFile:     "reddit_analysis_results.json",
			PositiveFile:    "subreddit_to_positive_ids.json",
			SampleSize:      10,
			CheckpointEvery: 10,
			ItemPause:       500 * time.Millisecond,
			FailurePause:    time.Second,
		},
		LLM: LLMConfig{
			Mode:              LLMOpenAI,
			Model:             "gpt-4.1-mini",
			Timeout:           60 * time.Second,
			RequestsPerMinute: 60,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Dashboard: DashboardConfig{
			Port: "8080",
		},
	}
}

// Load reads .env, then the YAML file at path (a missing file is not an
// error), then environment overrides.
func Load(path string) (*Config, error) {
	godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// Path returns the config file location, SLEEC_CONFIG or config.yaml.
func Path() string {
	if p := os.Getenv("SLEEC_CONFIG"); p != "" {
		return p
	}
	return "config.yaml"
}

func (c *Config) applyEnv() {
	setString(&c.Reddit.Mode, "COLLECTOR_MODE")
	setString(&c.Reddit.ClientID, "REDDIT_CLIENT_ID")
	setString(&c.Reddit.ClientSecret, "REDDIT_CLIENT_SECRET")
	setString(&c.Reddit.Username, "REDDIT_USERNAME")
	setString(&c.Reddit.Password, "REDDIT_PASSWORD")
	setString(&c.Reddit.UserAgent, "REDDIT_USER_AGENT")

	setString(&c.LLM.Mode, "LLM_MODE")
	setString(&c.LLM.APIKey, "OPENAI_API_KEY")
	setString(&c.LLM.BaseURL, "OPENAI_BASE_URL")
	setString(&c.LLM.Model, "OPENAI_MODEL")

	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	setString(&c.Dashboard.Port, "PORT")

	if v := os.Getenv("ANALYZER_SAMPLE_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Analyzer.SampleSeed = seed
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// MissingSettingError reports a required setting that is empty.
type MissingSettingError struct {
	Setting string
	Reason  string
}

func (e *MissingSettingError) Error() string {
	return fmt.Sprintf("missing required setting %s: %s", e.Setting, e.Reason)
}

// ValidateCollector checks what the scraper needs before it touches the network or disk.
func (c *Config) ValidateCollector() error {
	switch c.Reddit.Mode {
	case ModeAPI:
		if c.Reddit.ClientID == "" {
			return &MissingSettingError{Setting: "REDDIT_CLIENT_ID", Reason: "create a Reddit app at https://www.reddit.com/prefs/apps"}
		}
		if c.Reddit.ClientSecret == "" {
			return &MissingSettingError{Setting: "REDDIT_CLIENT_SECRET", Reason: "create a Reddit app at https://www.reddit.com/prefs/apps"}
		}
	case ModePublic:
		if c.Reddit.UserAgent == "" {
			return &MissingSettingError{Setting: "REDDIT_USER_AGENT", Reason: "required for public mode"}
		}
	case ModeMock:
	default:
		return fmt.Errorf("unknown COLLECTOR_MODE: %s (use 'api', 'public', or 'mock')", c.Reddit.Mode)
	}
	if c.Collector.WindowYears <= 0 {
		return fmt.Errorf("collector.window_years must be positive, got %d", c.Collector.WindowYears)
	}
	return nil
}

// ValidateAnalyzer checks what the analyzer needs before it reads the store.
func (c *Config) ValidateAnalyzer() error {
	switch c.LLM.Mode {
	case LLMOpenAI:
		if c.LLM.APIKey == "" {
			return &MissingSettingError{Setting: "OPENAI_API_KEY", Reason: "needed to call the completion API"}
		}
	case LLMMock:
	default:
		return fmt.Errorf("unknown LLM_MODE: %s (use 'openai' or 'mock')", c.LLM.Mode)
	}
	if c.Analyzer.CheckpointEvery <= 0 {
		return fmt.Errorf("analyzer.checkpoint_every must be positive, got %d", c.Analyzer.CheckpointEvery)
	}
	return nil
}
