// Package main implements campaignctl, the operations CLI for the Campaign Studio backend.
package main

import (
	"fmt"
	"os"

	"campaign-studio-backend/internal/llm"
	"campaign-studio-backend/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:           "campaignctl",
	Short:         "Campaign Studio operations CLI",
	Long:          "Runs database migrations and exercises the PDF extraction, campaign analysis and marketing strength generation pipeline from the command line.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	logLevel     string
	modelAPIKey  string
	modelBaseURL string
	modelName    string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&modelAPIKey, "api-key", "", "Model API key (overrides OPENAI_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&modelBaseURL, "base-url", "", "Model base URL (overrides OPENAI_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", "", "Model name (overrides OPENAI_MODEL)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	return logging.New("development", logLevel)
}

func newModelClient() (llm.Client, error) {
	cfg := llm.Config{
		APIKey:  firstNonEmpty(modelAPIKey, os.Getenv("OPENAI_API_KEY")),
		BaseURL: firstNonEmpty(modelBaseURL, os.Getenv("OPENAI_BASE_URL")),
		Model:   firstNonEmpty(modelName, os.Getenv("OPENAI_MODEL")),
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key required: set --api-key flag or OPENAI_API_KEY environment variable")
	}
	client, err := llm.NewOpenAIClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}
	return client, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
