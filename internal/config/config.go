package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Responder kinds
const (
	ResponderLLM    = "llm"
	ResponderOllama = "ollama"
	ResponderOpenAI = "openai"
	ResponderRules  = "rules"
	ResponderFirst  = "first"
)

// Config holds all configuration for the classifier worker
type Config struct {
	// Worker configuration
	WorkerID string `env:"WORKER_ID" envDefault:"classifier-1"`

	// Tree configuration
	TreesFile      string `env:"TREES_FILE" envDefault:"trees.yaml"`
	TreeName       string `env:"TREE_NAME" envDefault:""`
	PromptTemplate string `env:"PROMPT_TEMPLATE" envDefault:""`

	// Redis configuration
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASS" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Stream configuration
	StreamKey      string        `env:"STREAM_KEY" envDefault:"classifier.work"`
	ConsumerGroup  string        `env:"CONSUMER_GROUP" envDefault:"classifier-workers"`
	ResultStream   string        `env:"RESULT_STREAM" envDefault:"classifier.classified"`
	ResultTTL      time.Duration `env:"RESULT_TTL" envDefault:"24h"`
	BlockTime      time.Duration `env:"BLOCK_TIME" envDefault:"1s"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"2m"`
	MaxRetries     int           `env:"MAX_RETRIES" envDefault:"3"`

	// Responder configuration
	Responder    string `env:"RESPONDER" envDefault:"llm"`
	RulesEnabled bool   `env:"RULES_ENABLED" envDefault:"true"`

	// LLM configuration
	LLMProvider  string        `env:"LLM_PROVIDER" envDefault:"anthropic"`
	LLMAPIKey    string        `env:"LLM_API_KEY"`
	LLMModel     string        `env:"LLM_MODEL" envDefault:"claude-sonnet-4-20250514"`
	LLMBaseURL   string        `env:"LLM_BASE_URL" envDefault:""`
	LLMTimeout   time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
	LLMMaxTokens int           `env:"LLM_MAX_TOKENS" envDefault:"16"`
	OllamaHost   string        `env:"OLLAMA_HOST" envDefault:""`

	// Health check configuration
	HealthPort int `env:"HEALTH_PORT" envDefault:"8082"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.WorkerID == "" {
		return fmt.Errorf("WORKER_ID is required")
	}

	if c.TreesFile == "" {
		return fmt.Errorf("TREES_FILE is required")
	}

	if c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}

	if c.StreamKey == "" {
		return fmt.Errorf("STREAM_KEY is required")
	}

	if c.ConsumerGroup == "" {
		return fmt.Errorf("CONSUMER_GROUP is required")
	}

	if c.ResultStream == "" {
		return fmt.Errorf("RESULT_STREAM is required")
	}

	if c.ResultTTL < 0 {
		return fmt.Errorf("RESULT_TTL must be non-negative")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if !isValidResponder(c.Responder) {
		return fmt.Errorf("RESPONDER must be one of: llm, ollama, openai, rules, first")
	}

	if c.LLMProvider == "" {
		return fmt.Errorf("LLM_PROVIDER is required")
	}

	// LLM_API_KEY is optional - only the llm and openai responders need it,
	// and they check for it when they are built

	if c.LLMModel == "" {
		return fmt.Errorf("LLM_MODEL is required")
	}

	if c.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive")
	}

	if c.LLMMaxTokens <= 0 {
		return fmt.Errorf("LLM_MAX_TOKENS must be positive")
	}

	if c.BlockTime <= 0 {
		return fmt.Errorf("BLOCK_TIME must be positive")
	}

	if c.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES must be non-negative")
	}

	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("HEALTH_PORT must be between 1 and 65535")
	}

	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}

	return nil
}

// isValidLogLevel checks if the log level is valid
func isValidLogLevel(level string) bool {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	return validLevels[level]
}

func isValidResponder(kind string) bool {
	switch kind {
	case ResponderLLM, ResponderOllama, ResponderOpenAI, ResponderRules, ResponderFirst:
		return true
	}
	return false
}

// String returns a string representation of the config (without sensitive data)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{WorkerID=%s, TreesFile=%s, TreeName=%s, RedisAddr=%s, RedisDB=%d, StreamKey=%s, "+
			"ConsumerGroup=%s, Responder=%s, RulesEnabled=%v, LLMProvider=%s, LLMModel=%s, "+
			"HealthPort=%d, LogLevel=%s}",
		c.WorkerID,
		c.TreesFile,
		c.TreeName,
		c.RedisAddr,
		c.RedisDB,
		c.StreamKey,
		c.ConsumerGroup,
		c.Responder,
		c.RulesEnabled,
		c.LLMProvider,
		c.LLMModel,
		c.HealthPort,
		c.LogLevel,
	)
}
