package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment from ENV.
func GetEnvironment() Environment {
	if os.Getenv("ENV") == "production" {
		return Production
	}
	return Development
}

// IsProduction returns true if the current environment is production
func IsProduction() bool {
	return GetEnvironment() == Production
}

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string

	// Gemini configuration
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	// Session gate configuration
	SessionSecret   string
	AppPassword     string
	AppPasswordHash string

	// Recipe store configuration; empty DatabaseURL disables store routes
	DatabaseURL string

	// Redis session store configuration; empty falls back to in-memory
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string

	// Content pipeline configuration
	InstructionsPath    string
	FetchHTMLToMarkdown bool

	// CORS allowed origins, comma-separated
	CORSOrigins []string
}

// LoadConfig creates a new Config instance with values from environment
// variables or secret files. A .env file is loaded first when present.
func LoadConfig() (*Config, error) {
	// Best effort; production supplies real environment variables.
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:          getEnv("PORT", "3000"),
		GeminiAPIKey:        getSecretEnv("GEMINI_API_KEY"),
		GeminiModel:         os.Getenv("GEMINI_MODEL"),
		GeminiBaseURL:       os.Getenv("GEMINI_API_BASE_URL"),
		SessionSecret:       getSecretEnv("SESSION_SECRET"),
		AppPassword:         getSecretEnv("APP_PASSWORD"),
		AppPasswordHash:     getSecretEnv("APP_PASSWORD_HASH"),
		DatabaseURL:         getSecretEnv("DATABASE_URL"),
		RedisURL:            getSecretEnv("REDIS_URL"),
		RedisHost:           os.Getenv("REDIS_HOST"),
		RedisPort:           getEnv("REDIS_PORT", "6379"),
		RedisPassword:       getSecretEnv("REDIS_PASSWORD"),
		InstructionsPath:    getEnv("INSTRUCTIONS_PATH", "prompts/recipe_extraction_instructions.md"),
		FetchHTMLToMarkdown: os.Getenv("FETCH_HTML_TO_MARKDOWN") == "true",
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			cfg.CORSOrigins = append(cfg.CORSOrigins, strings.TrimSpace(origin))
		}
	}

	// Fall back to the API key so a minimal .env still works.
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = cfg.GeminiAPIKey
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	var problems []string
	if cfg.GeminiAPIKey == "" {
		problems = append(problems, "GEMINI_API_KEY is required")
	}
	if cfg.AppPassword == "" && cfg.AppPasswordHash == "" {
		problems = append(problems, "APP_PASSWORD or APP_PASSWORD_HASH is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

// getEnv reads an environment variable with a default.
func getEnv(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// getSecretEnv reads NAME, falling back to the file named by NAME_FILE. The
// file form supports Docker secrets.
func getSecretEnv(name string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	if path := os.Getenv(name + "_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return ""
}
