package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"campaign-studio-backend/internal/llm"
	"campaign-studio-backend/internal/models"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

const analysisSchemaJSON = `{
  "type": "object",
  "required": ["selectedEpisodes", "campaignKPIs", "gender", "ethnicity", "age", "fansOf"],
  "anyOf": [
    {"required": ["campaignGoals"]},
    {"required": ["campaignGoal"]}
  ],
  "properties": {
    "selectedEpisodes": {"type": "array", "items": {"type": "string"}},
    "campaignGoals":    {"type": "array", "items": {"type": "string"}},
    "campaignGoal":     {"type": "string"},
    "campaignKPIs":     {"type": "array", "items": {"type": "string"}},
    "gender":           {"type": "string"},
    "ethnicity":        {"type": "array", "items": {"type": "string"}},
    "age":              {"type": "array", "items": {"type": "string"}},
    "fansOf":           {"type": "array", "items": {"type": "string"}}
  }
}`

var analysisSchema = mustCompileSchema(analysisSchemaJSON)

func mustCompileSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("invalid analysis schema: %v", err))
	}
	return schema
}

// Analysis stages reported when the analyzer degrades to defaults.
const (
	StageCompletion  = "completion"
	StageExtractJSON = "extract_json"
	StageSchema      = "schema"
	StageDecode      = "decode"
)

type AnalyzerConfig struct {
	MaxTextChars int
	Temperature  float32
	MaxTokens    int
}

func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{MaxTextChars: 3000, Temperature: 0.3, MaxTokens: 1000}
}

// AnalysisResult records whether the parameters came from the model or the defaults.
type AnalysisResult struct {
	Parameters models.CampaignParameters
	Degraded   bool
	Stage      string
	Err        error
}

type Analyzer struct {
	llm    llm.Client
	cfg    AnalyzerConfig
	logger *zap.Logger
}

func NewAnalyzer(client llm.Client, cfg AnalyzerConfig, logger *zap.Logger) *Analyzer {
	return &Analyzer{llm: client, cfg: cfg, logger: logger}
}

// Analyze never fails: any problem yields DefaultCampaignParameters.
func (a *Analyzer) Analyze(ctx context.Context, text string, documentType models.DocumentType) models.CampaignParameters {
	return a.AnalyzeDetailed(ctx, text, documentType).Parameters
}

func (a *Analyzer) AnalyzeDetailed(ctx context.Context, text string, documentType models.DocumentType) AnalysisResult {
	params, stage, err := a.analyze(ctx, text, documentType)
	if err != nil {
		a.logger.Warn("campaign analysis degraded to defaults",
			zap.String("event", "analysis_degraded"),
			zap.String("stage", stage),
			zap.String("document_type", string(documentType)),
			zap.Int("text_length", len(text)),
			zap.Error(err),
		)
		return AnalysisResult{
			Parameters: models.DefaultCampaignParameters(),
			Degraded:   true,
			Stage:      stage,
			Err:        err,
		}
	}

	a.logger.Debug("campaign analysis completed", zap.String("document_type", string(documentType)))
	return AnalysisResult{Parameters: params}
}

func (a *Analyzer) analyze(ctx context.Context, text string, documentType models.DocumentType) (models.CampaignParameters, string, error) {
	prompt := BuildAnalysisPrompt(text, documentType, a.cfg.MaxTextChars)

	completion, err := a.llm.Complete(ctx, llm.Request{
		System:      analysisSystemPrompt,
		Prompt:      prompt,
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxTokens,
	})
	if err != nil {
		return models.CampaignParameters{}, StageCompletion, err
	}

	raw, err := llm.ExtractJSONObject(completion)
	if err != nil {
		return models.CampaignParameters{}, StageExtractJSON, err
	}

	result, err := analysisSchema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return models.CampaignParameters{}, StageDecode, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", re.Field(), re.Description()))
		}
		return models.CampaignParameters{}, StageSchema, fmt.Errorf("analysis JSON does not match schema: %s", strings.Join(msgs, "; "))
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return models.CampaignParameters{}, StageDecode, fmt.Errorf("failed to decode analysis JSON: %w", err)
	}

	return payload.toParameters(), "", nil
}

type analysisPayload struct {
	SelectedEpisodes []string `json:"selectedEpisodes"`
	CampaignGoals    []string `json:"campaignGoals"`
	CampaignGoal     string   `json:"campaignGoal"`
	CampaignKPIs     []string `json:"campaignKPIs"`
	Gender           string   `json:"gender"`
	Ethnicity        []string `json:"ethnicity"`
	Age              []string `json:"age"`
	FansOf           []string `json:"fansOf"`
}

// toParameters joins the goal list and fills empty fields from the defaults,
// so the result always passes CampaignParameters.Validate.
func (p analysisPayload) toParameters() models.CampaignParameters {
	def := models.DefaultCampaignParameters()

	goal := strings.TrimSpace(p.CampaignGoal)
	if goals := compact(p.CampaignGoals); len(goals) > 0 {
		goal = strings.Join(goals, "; ")
	}
	if goal == "" {
		goal = def.CampaignGoal
	}

	gender := strings.TrimSpace(p.Gender)
	if gender == "" {
		gender = def.Gender
	}

	return models.CampaignParameters{
		SelectedEpisodes: orDefault(p.SelectedEpisodes, def.SelectedEpisodes),
		CampaignGoal:     goal,
		CampaignKPIs:     orDefault(p.CampaignKPIs, def.CampaignKPIs),
		Gender:           gender,
		Ethnicity:        orDefault(p.Ethnicity, def.Ethnicity),
		Age:              orDefault(p.Age, def.Age),
		FansOf:           orDefault(p.FansOf, def.FansOf),
	}
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func orDefault(values, def []string) []string {
	if c := compact(values); len(c) > 0 {
		return c
	}
	return def
}
