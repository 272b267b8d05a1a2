package services

import (
	"context"
	"fmt"

	"campaign-studio-backend/internal/llm"
	"campaign-studio-backend/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FallbackVariationText replaces the output of a failed generation branch.
const FallbackVariationText = "Failed to generate marketing strength variation"

type GeneratorConfig struct {
	Temperatures []float32
	MaxTokens    int
}

func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{Temperatures: []float32{0.8, 0.9, 0.7}, MaxTokens: 500}
}

// VariantResult is the outcome of one generation branch.
type VariantResult struct {
	Temperature float32
	Text        string
	Err         error
}

func (v VariantResult) Succeeded() bool { return v.Err == nil }

// DisplayText is what callers show: the model text or the fallback placeholder.
func (v VariantResult) DisplayText() string {
	if v.Err != nil {
		return FallbackVariationText
	}
	return v.Text
}

type GenerationResult struct {
	Variants []VariantResult
	Record   *models.GeneratedMarketingStrength
}

// Strengths returns the display strings in temperature order.
func (r *GenerationResult) Strengths() []string {
	out := make([]string, len(r.Variants))
	for i, v := range r.Variants {
		out[i] = v.DisplayText()
	}
	return out
}

type Generator struct {
	llm    llm.Client
	store  MarketingStrengthStore
	events EventPublisher
	cfg    GeneratorConfig
	logger *zap.Logger
}

func NewGenerator(client llm.Client, store MarketingStrengthStore, events EventPublisher, cfg GeneratorConfig, logger *zap.Logger) *Generator {
	if events == nil {
		events = NopPublisher{}
	}
	return &Generator{llm: client, store: store, events: events, cfg: cfg, logger: logger}
}

// Generate runs the three variants, then persists one record for userID.
// Model failures degrade per branch; a store failure is returned as ErrPersistence.
func (g *Generator) Generate(ctx context.Context, userID string, params models.CampaignParameters) (*GenerationResult, error) {
	if userID == "" {
		return nil, models.ErrUnauthorized
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if g.store == nil {
		return nil, fmt.Errorf("%w: marketing strength store not configured", models.ErrPersistence)
	}

	// Branches and the write run to completion even if the caller disconnects.
	ctx = context.WithoutCancel(ctx)

	variants := g.GenerateVariants(ctx, params)

	outputs := make([]string, 3)
	for i := 0; i < len(variants) && i < 3; i++ {
		outputs[i] = variants[i].DisplayText()
	}

	record := &models.GeneratedMarketingStrength{
		Parameters:  params.Clone(),
		OwnerUserID: userID,
		Output1:     outputs[0],
		Output2:     outputs[1],
		Output3:     outputs[2],
	}
	if err := g.store.CreateMarketingStrength(ctx, record); err != nil {
		g.logger.Error("failed to save marketing strength",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", models.ErrPersistence, err)
	}

	succeeded := 0
	for _, v := range variants {
		if v.Succeeded() {
			succeeded++
		}
	}
	g.logger.Info("marketing strength generated",
		zap.Int64("id", record.ID),
		zap.String("user_id", userID),
		zap.Int("succeeded", succeeded),
	)
	if err := g.events.PublishUserEvent(userID, "generation_completed", map[string]interface{}{
		"marketing_strength_id": record.ID,
		"succeeded":             succeeded,
	}); err != nil {
		g.logger.Warn("failed to publish event", zap.String("event", "generation_completed"), zap.Error(err))
	}

	return &GenerationResult{Variants: variants, Record: record}, nil
}

// GenerateVariants issues one call per configured temperature concurrently and
// waits for all of them. The result preserves temperature order.
func (g *Generator) GenerateVariants(ctx context.Context, params models.CampaignParameters) []VariantResult {
	prompt := BuildMarketingPrompt(params)
	results := make([]VariantResult, len(g.cfg.Temperatures))

	var eg errgroup.Group
	for i, temp := range g.cfg.Temperatures {
		i, temp := i, temp
		eg.Go(func() error {
			results[i] = g.runVariant(ctx, prompt, temp)
			return nil
		})
	}
	_ = eg.Wait()

	return results
}

func (g *Generator) runVariant(ctx context.Context, prompt string, temperature float32) (result VariantResult) {
	result.Temperature = temperature
	defer func() {
		if r := recover(); r != nil {
			result.Text = ""
			result.Err = fmt.Errorf("generation panicked: %v", r)
		}
		if result.Err != nil {
			g.logger.Warn("marketing strength variation failed",
				zap.Float32("temperature", temperature),
				zap.Error(result.Err),
			)
		}
	}()

	text, err := g.llm.Complete(ctx, llm.Request{
		System:      marketingSystemPrompt,
		Prompt:      prompt,
		Temperature: temperature,
		MaxTokens:   g.cfg.MaxTokens,
	})
	if err != nil {
		result.Err = err
		return result
	}
	result.Text = text
	return result
}

// MaxHistoryLimit caps how many past generations History returns.
const MaxHistoryLimit = 10

// History returns userID's most recent generations, newest first. limit is
// clamped to [1, MaxHistoryLimit]; zero or negative means the maximum.
func (g *Generator) History(ctx context.Context, userID string, limit int) ([]models.GeneratedMarketingStrength, error) {
	if userID == "" {
		return nil, models.ErrUnauthorized
	}
	if g.store == nil {
		return nil, fmt.Errorf("%w: marketing strength store not configured", models.ErrPersistence)
	}
	if limit <= 0 || limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	records, err := g.store.ListMarketingStrengths(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrPersistence, err)
	}
	return records, nil
}
