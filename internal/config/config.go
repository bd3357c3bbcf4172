package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the context bridge. Components receive
// the specific sub-config they need in their constructors; nothing reads this
// struct ambiently.
type Config struct {
	Gemini     GeminiConfig     `yaml:"gemini"`
	Limits     LimitsConfig     `yaml:"limits"`
	Processing ProcessingConfig `yaml:"processing"`
	Cache      CacheConfig      `yaml:"cache"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Retry      RetryConfig      `yaml:"retry"`
	Collector  CollectorConfig  `yaml:"collector"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GeminiConfig configures the remote inference client
type GeminiConfig struct {
	APIKey          string        `yaml:"api_key"`
	Model           string        `yaml:"model"`
	Temperature     float64       `yaml:"temperature"`
	MaxOutputTokens int           `yaml:"max_output_tokens"`
	Timeout         time.Duration `yaml:"timeout"`
}

// LimitsConfig holds the context size thresholds for the two models
type LimitsConfig struct {
	// SmallContextTokens is the threshold below which content is answered
	// without the large model at all
	SmallContextTokens int `yaml:"small_context_tokens"`
	// LargeContextTokens is the large model's context window
	LargeContextTokens int `yaml:"large_context_tokens"`
}

// ProcessingConfig configures chunking
type ProcessingConfig struct {
	ChunkTokens   int `yaml:"chunk_tokens"`
	OverlapTokens int `yaml:"overlap_tokens"`
}

// CacheConfig configures the analysis result cache
type CacheConfig struct {
	MaxEntries int           `yaml:"max_entries"`
	TTL        time.Duration `yaml:"ttl"`
	// Policy is one of lru, lfu, fifo
	Policy string `yaml:"policy"`
}

// RateLimitConfig configures the gateway's fixed-window rate limiter
type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// RetryConfig configures exponential backoff for transient inference errors
type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`
}

// CollectorConfig configures file collection
type CollectorConfig struct {
	Extensions     []string `yaml:"extensions"`
	IgnorePatterns []string `yaml:"ignore_patterns"`
	MaxFileBytes   int64    `yaml:"max_file_bytes"`
}

// LoggingConfig configures slog output
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Gemini: GeminiConfig{
			Model:           "gemini-2.0-flash-exp",
			Temperature:     0.1,
			MaxOutputTokens: 8192,
			Timeout:         300 * time.Second,
		},
		Limits: LimitsConfig{
			SmallContextTokens: 200_000,
			LargeContextTokens: 2_000_000,
		},
		Processing: ProcessingConfig{
			ChunkTokens:   100_000,
			OverlapTokens: 1_000,
		},
		Cache: CacheConfig{
			MaxEntries: 100,
			TTL:        time.Hour,
			Policy:     "lru",
		},
		RateLimit: RateLimitConfig{
			Requests: 100,
			Window:   time.Minute,
		},
		Retry: RetryConfig{
			MaxAttempts:  3,
			InitialDelay: time.Second,
			MaxDelay:     30 * time.Second,
		},
		Collector: CollectorConfig{
			Extensions: []string{
				".py", ".js", ".ts", ".jsx", ".tsx", ".java", ".cpp", ".c",
				".h", ".hpp", ".cs", ".go", ".rs", ".rb", ".php", ".swift",
				".kt", ".scala", ".r", ".m", ".mm", ".md", ".txt", ".json",
				".yaml", ".yml", ".toml", ".xml", ".html", ".css", ".scss",
			},
			IgnorePatterns: []string{
				"__pycache__", ".git", ".venv", "node_modules", ".pytest_cache",
				"*.pyc", "*.pyo", "*.egg-info", "dist", "build", ".DS_Store",
				"vendor",
			},
			MaxFileBytes: 10 * 1024 * 1024,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file, falling back to defaults for any
// field the file omits. A missing file returns defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg.withEnv(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg.withEnv(), nil
}

// LoadFromEnv resolves the config file location from GEMINI_CONTEXT_CONFIG or
// the default ~/.gemini-context/config.yaml, then loads it.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv("GEMINI_CONTEXT_CONFIG")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DefaultConfig().withEnv(), nil
		}
		path = filepath.Join(home, ".gemini-context", "config.yaml")
	}
	return Load(path)
}

// withEnv applies environment variable overrides. The API key is only ever
// read from the environment or the config file, never logged.
func (c *Config) withEnv() *Config {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		c.Gemini.Model = model
	}
	return c
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.Processing.ChunkTokens <= 0 {
		return fmt.Errorf("processing.chunk_tokens must be positive, got %d", c.Processing.ChunkTokens)
	}
	if c.Processing.OverlapTokens < 0 {
		return fmt.Errorf("processing.overlap_tokens cannot be negative, got %d", c.Processing.OverlapTokens)
	}
	if c.Processing.OverlapTokens >= c.Processing.ChunkTokens {
		return fmt.Errorf("processing.overlap_tokens (%d) must be smaller than chunk_tokens (%d)",
			c.Processing.OverlapTokens, c.Processing.ChunkTokens)
	}
	if c.Limits.SmallContextTokens <= 0 || c.Limits.LargeContextTokens <= 0 {
		return fmt.Errorf("context limits must be positive")
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit requires positive requests and window")
	}
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry.max_attempts must be positive, got %d", c.Retry.MaxAttempts)
	}
	switch c.Cache.Policy {
	case "lru", "lfu", "fifo":
	default:
		return fmt.Errorf("cache.policy must be lru, lfu or fifo, got %q", c.Cache.Policy)
	}
	return nil
}
