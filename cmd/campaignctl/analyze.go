package main

import (
	"encoding/json"
	"fmt"

	"campaign-studio-backend/internal/models"
	"campaign-studio-backend/internal/services"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.pdf>",
	Short: "Extract campaign parameters from a PDF",
	Long:  "Extracts the PDF text and runs the campaign parameter analyzer. When the model output is unusable the default parameters are printed and the degraded stage is reported on stderr.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var (
	analyzeDocumentType string
	analyzeMaxChars     int
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeDocumentType, "type", "t", "other", "Document type")
	analyzeCmd.Flags().IntVar(&analyzeMaxChars, "max-chars", services.DefaultAnalyzerConfig().MaxTextChars, "Maximum document characters sent to the model")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, err := extractFile(args[0])
	if err != nil {
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

	cfg := services.DefaultAnalyzerConfig()
	cfg.MaxTextChars = analyzeMaxChars
	analyzer := services.NewAnalyzer(client, cfg, logger)

	result := analyzer.AnalyzeDetailed(cmd.Context(), text, models.ParseDocumentType(analyzeDocumentType))
	if result.Degraded {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: analysis degraded at %s stage, using defaults: %v\n", result.Stage, result.Err)
	}

	out, err := json.MarshalIndent(result.Parameters, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal parameters: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
