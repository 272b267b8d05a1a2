package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// OpenAI
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// Supabase
	SupabaseURL            string
	SupabasePublishableKey string
	SupabaseJWTSecret      string
	SupabaseStorageBucket  string

	// Delegated processing service
	LangchainAPIURL string
	LangchainAPIKey string

	// Database
	DatabaseURL string

	// Server
	Port        string
	Environment string
	BaseURL     string
	LogLevel    string

	// Generation policy
	AnalyzerMaxTextChars  int
	AnalyzerTemperature   float32
	AnalyzerMaxTokens     int
	GeneratorTemperatures []float32
	GeneratorMaxTokens    int
	ModelRequestTimeout   time.Duration

	// Uploads
	UploadMaxBytes int64
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	temps, err := parseTemperatures(getEnv("GENERATOR_TEMPERATURES", "0.8,0.9,0.7"))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg := &Config{
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4"),

		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabasePublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
		SupabaseJWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),
		SupabaseStorageBucket:  getEnv("SUPABASE_STORAGE_BUCKET", "pdfs"),

		LangchainAPIURL: getEnv("LANGCHAIN_API_URL", ""),
		LangchainAPIKey: getEnv("LANGCHAIN_API_KEY", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		AnalyzerMaxTextChars:  getEnvInt("ANALYZER_MAX_TEXT_CHARS", 3000),
		AnalyzerTemperature:   getEnvFloat32("ANALYZER_TEMPERATURE", 0.3),
		AnalyzerMaxTokens:     getEnvInt("ANALYZER_MAX_TOKENS", 1000),
		GeneratorTemperatures: temps,
		GeneratorMaxTokens:    getEnvInt("GENERATOR_MAX_TOKENS", 500),
		ModelRequestTimeout:   getEnvDuration("MODEL_REQUEST_TIMEOUT", 60*time.Second),

		UploadMaxBytes: int64(getEnvInt("UPLOAD_MAX_BYTES", 32<<20)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	if c.AnalyzerMaxTextChars <= 0 {
		return fmt.Errorf("ANALYZER_MAX_TEXT_CHARS must be positive")
	}
	if len(c.GeneratorTemperatures) != 3 {
		return fmt.Errorf("GENERATOR_TEMPERATURES must list exactly 3 values, got %d", len(c.GeneratorTemperatures))
	}
	if c.ModelRequestTimeout <= 0 {
		return fmt.Errorf("MODEL_REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// StorageEnabled reports whether uploads can be written to Supabase Storage.
func (c *Config) StorageEnabled() bool {
	return c.SupabaseURL != "" && c.SupabasePublishableKey != ""
}

func parseTemperatures(raw string) ([]float32, error) {
	parts := strings.Split(raw, ",")
	temps := make([]float32, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("GENERATOR_TEMPERATURES: invalid value %q", p)
		}
		if v < 0 || v > 2 {
			return nil, fmt.Errorf("GENERATOR_TEMPERATURES: %v out of range [0, 2]", v)
		}
		temps = append(temps, float32(v))
	}
	return temps, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(f)
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
