package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Warehouse (curated analytical views)
	Warehouse WarehouseConfig

	// Redis
	Redis RedisConfig

	// LLM providers
	LLM LLMConfig

	// Insight pipeline
	Insight InsightConfig

	// API rate limiting
	RateLimit RateLimitConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// WarehouseConfig holds the analytical warehouse connection settings.
type WarehouseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// LLMConfig holds LLM provider configuration.
type LLMConfig struct {
	Provider string // openai, anthropic, gemini, ollama

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	AnthropicAPIKey string
	AnthropicModel  string

	GeminiAPIKey string
	GeminiModel  string

	OllamaBaseURL string
	OllamaModel   string

	MaxTokens   int
	Temperature float64
	Timeout     time.Duration

	// Client-side request budget (requests per minute)
	RequestsPerMinute int
}

// InsightConfig holds tunables for the insight pipeline.
type InsightConfig struct {
	NarrativeBudget  int           // character budget for the LLM grounding context
	CropHistoryYears int           // lookback window for crop history
	CacheTTL         time.Duration // insight result cache TTL
	FetchTimeout     time.Duration // per-category warehouse fetch timeout
}

// RateLimitConfig holds API rate limit settings.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Warehouse: WarehouseConfig{
			URL:             getEnv("WAREHOUSE_URL", ""),
			MaxConns:        getEnvAsInt("WAREHOUSE_MAX_CONNS", 20),
			MinConns:        getEnvAsInt("WAREHOUSE_MIN_CONNS", 4),
			MaxConnLifetime: getEnvAsDuration("WAREHOUSE_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("WAREHOUSE_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		LLM: LLMConfig{
			Provider:          getEnv("LLM_PROVIDER", "openai"),
			OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
			OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4-turbo-preview"),
			AnthropicAPIKey:   getEnv("ANTHROPIC_API_KEY", ""),
			AnthropicModel:    getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-latest"),
			GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
			GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_MODEL", "llama3"),
			MaxTokens:         getEnvAsInt("LLM_MAX_TOKENS", 4000),
			Temperature:       getEnvAsFloat("LLM_TEMPERATURE", 0.7),
			Timeout:           getEnvAsDuration("LLM_TIMEOUT", "45s"),
			RequestsPerMinute: getEnvAsInt("LLM_REQUESTS_PER_MINUTE", 60),
		},

		Insight: InsightConfig{
			NarrativeBudget:  getEnvAsInt("NARRATIVE_BUDGET", 6000),
			CropHistoryYears: getEnvAsInt("CROP_HISTORY_YEARS", 5),
			CacheTTL:         getEnvAsDuration("INSIGHT_CACHE_TTL", "1h"),
			FetchTimeout:     getEnvAsDuration("WAREHOUSE_FETCH_TIMEOUT", "10s"),
		},

		RateLimit: RateLimitConfig{
			Requests: getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
			Window:   getEnvAsDuration("RATE_LIMIT_WINDOW", "1m"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Warehouse.URL == "" {
		return fmt.Errorf("WAREHOUSE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.LLM.Provider {
	case "openai", "anthropic", "gemini", "ollama":
	default:
		return fmt.Errorf("LLM_PROVIDER must be one of: openai, anthropic, gemini, ollama")
	}

	if c.Insight.NarrativeBudget <= 0 {
		return fmt.Errorf("NARRATIVE_BUDGET must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
