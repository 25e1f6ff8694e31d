package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// HTTP server
	ListenAddr       string
	MaxUploadMB      int
	CORSOrigin       string
	CritiqueCategory string // category served by the HTTP endpoint

	// Anthropic API
	AnthropicAPIKey string
	Model           string

	// Conversation store
	StoreBackend string // file, sqlite or bolt
	StorePath    string

	// Defaults
	DefaultBluntness int

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr:       getEnv("LISTEN_ADDR", ":8080"),
		CORSOrigin:       getEnv("CORS_ORIGIN", "*"),
		CritiqueCategory: getEnv("CRITIQUE_CATEGORY", "writing"),
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		Model:            getEnv("ANTHROPIC_MODEL", ""),
		StoreBackend:     getEnv("STORE_BACKEND", "file"),
		StorePath:        getEnv("STORE_PATH", "data/conversations.json"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	maxMB, err := strconv.Atoi(getEnv("MAX_UPLOAD_MB", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %w", err)
	}
	cfg.MaxUploadMB = maxMB

	bluntness, err := strconv.Atoi(getEnv("DEFAULT_BLUNTNESS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_BLUNTNESS: %w", err)
	}
	cfg.DefaultBluntness = bluntness

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.StorePath == "" {
		return fmt.Errorf("STORE_PATH is required")
	}
	switch c.StoreBackend {
	case "file", "sqlite", "bolt":
	default:
		return fmt.Errorf("invalid STORE_BACKEND: %s (must be 'file', 'sqlite' or 'bolt')", c.StoreBackend)
	}
	return nil
}

// ValidateForCritique checks configuration needed to generate critiques.
func (c *Config) ValidateForCritique() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required for critique generation")
	}
	return nil
}

// ValidateForServe checks all configuration needed for serve mode.
func (c *Config) ValidateForServe() error {
	if err := c.ValidateForCritique(); err != nil {
		return err
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("LISTEN_ADDR is required")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
