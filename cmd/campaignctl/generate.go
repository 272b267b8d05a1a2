package main

import (
	"encoding/json"
	"fmt"
	"os"

	"campaign-studio-backend/internal/models"
	"campaign-studio-backend/internal/services"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate marketing strengths without saving them",
	Long:  "Reads CampaignParameters JSON and prints the three marketing strength variations. Nothing is persisted.",
	RunE:  runGenerate,
}

var generateParams string

func init() {
	generateCmd.Flags().StringVarP(&generateParams, "params", "p", "", "Path to CampaignParameters JSON file (required)")

	if err := generateCmd.MarkFlagRequired("params"); err != nil {
		panic(fmt.Sprintf("failed to mark params flag as required: %v", err))
	}

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	content, err := os.ReadFile(generateParams)
	if err != nil {
		return fmt.Errorf("failed to read params file %s: %w", generateParams, err)
	}

	var params models.CampaignParameters
	if err := json.Unmarshal(content, &params); err != nil {
		return fmt.Errorf("failed to unmarshal params JSON: %w", err)
	}
	if err := params.Validate(); err != nil {
		return err
	}

	client, err := newModelClient()
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	gen := services.NewGenerator(client, nil, nil, services.DefaultGeneratorConfig(), logger)
	variants := gen.GenerateVariants(cmd.Context(), params)

	out := cmd.OutOrStdout()
	for i, v := range variants {
		status := "ok"
		if !v.Succeeded() {
			status = "failed: " + v.Err.Error()
		}
		fmt.Fprintf(out, "## Variation %d (temperature %.1f, %s)\n%s\n\n", i+1, v.Temperature, status, v.DisplayText())
	}
	return nil
}
