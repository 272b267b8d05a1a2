package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"campaign-studio-backend/internal/llm"
	"campaign-studio-backend/internal/models"
	"campaign-studio-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func echoTemperature(req llm.Request) (string, error) {
	return fmt.Sprintf("strength at %.1f", req.Temperature), nil
}

func TestGenerator_ReturnsThreeOutputsInTemperatureOrder(t *testing.T) {
	client := &fakeLLM{respond: echoTemperature}
	store := &memoryStrengths{}
	events := &recordingPublisher{}
	gen := services.NewGenerator(client, store, events, services.DefaultGeneratorConfig(), zap.NewNop())

	result, err := gen.Generate(context.Background(), "user-1", models.DefaultCampaignParameters())
	require.NoError(t, err)

	assert.Equal(t, []string{"strength at 0.8", "strength at 0.9", "strength at 0.7"}, result.Strengths())
	require.Len(t, result.Variants, 3)
	for _, v := range result.Variants {
		assert.True(t, v.Succeeded())
	}

	calls := client.calls()
	require.Len(t, calls, 3)
	for _, c := range calls {
		assert.Equal(t, calls[0].Prompt, c.Prompt, "all variants share one prompt")
		assert.Equal(t, 500, c.MaxTokens)
	}

	require.Len(t, store.records, 1)
	rec := store.records[0]
	assert.Equal(t, "user-1", rec.OwnerUserID)
	assert.Equal(t, [3]string{"strength at 0.8", "strength at 0.9", "strength at 0.7"}, rec.Outputs())
	assert.Equal(t, rec.ID, result.Record.ID)
	assert.Equal(t, []string{"generation_completed"}, events.names())
}

func TestGenerator_FailedBranchUsesFallback(t *testing.T) {
	client := &fakeLLM{respond: func(req llm.Request) (string, error) {
		if req.Temperature > 0.85 {
			return "", errors.New("rate limited")
		}
		return echoTemperature(req)
	}}
	store := &memoryStrengths{}
	gen := services.NewGenerator(client, store, nil, services.DefaultGeneratorConfig(), zap.NewNop())

	result, err := gen.Generate(context.Background(), "user-1", models.DefaultCampaignParameters())
	require.NoError(t, err)

	strengths := result.Strengths()
	require.Len(t, strengths, 3)
	assert.Equal(t, "strength at 0.8", strengths[0])
	assert.Equal(t, services.FallbackVariationText, strengths[1])
	assert.Equal(t, "strength at 0.7", strengths[2])
	assert.False(t, result.Variants[1].Succeeded())
	assert.True(t, result.Variants[0].Succeeded())

	require.Len(t, store.records, 1)
	assert.Equal(t, services.FallbackVariationText, store.records[0].Output2)
}

func TestGenerator_AllBranchesFailStillPersists(t *testing.T) {
	client := &fakeLLM{respond: func(llm.Request) (string, error) { return "", errors.New("down") }}
	store := &memoryStrengths{}
	gen := services.NewGenerator(client, store, nil, services.DefaultGeneratorConfig(), zap.NewNop())

	result, err := gen.Generate(context.Background(), "user-1", models.DefaultCampaignParameters())
	require.NoError(t, err)
	for _, s := range result.Strengths() {
		assert.Equal(t, services.FallbackVariationText, s)
	}
	assert.Len(t, store.records, 1)
}

func TestGenerator_PanickingBranchIsIsolated(t *testing.T) {
	client := &fakeLLM{respond: func(req llm.Request) (string, error) {
		if req.Temperature < 0.75 {
			panic("boom")
		}
		return echoTemperature(req)
	}}
	gen := services.NewGenerator(client, &memoryStrengths{}, nil, services.DefaultGeneratorConfig(), zap.NewNop())

	result, err := gen.Generate(context.Background(), "user-1", models.DefaultCampaignParameters())
	require.NoError(t, err)
	assert.Equal(t, services.FallbackVariationText, result.Strengths()[2])
	assert.Equal(t, "strength at 0.8", result.Strengths()[0])
}

func TestGenerator_StoreFailureIsPersistenceError(t *testing.T) {
	client := &fakeLLM{respond: echoTemperature}
	store := &memoryStrengths{err: errors.New("connection refused")}
	events := &recordingPublisher{}
	gen := services.NewGenerator(client, store, events, services.DefaultGeneratorConfig(), zap.NewNop())

	result, err := gen.Generate(context.Background(), "user-1", models.DefaultCampaignParameters())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, models.ErrPersistence)
	assert.Empty(t, events.names())
}

func TestGenerator_RequiresUser(t *testing.T) {
	client := &fakeLLM{respond: echoTemperature}
	store := &memoryStrengths{}
	gen := services.NewGenerator(client, store, nil, services.DefaultGeneratorConfig(), zap.NewNop())

	_, err := gen.Generate(context.Background(), "", models.DefaultCampaignParameters())
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.Empty(t, client.calls())
	assert.Empty(t, store.records)
}

func TestGenerator_InvalidParametersRejectedBeforeModelCalls(t *testing.T) {
	client := &fakeLLM{respond: echoTemperature}
	gen := services.NewGenerator(client, &memoryStrengths{}, nil, services.DefaultGeneratorConfig(), zap.NewNop())

	params := models.DefaultCampaignParameters()
	params.FansOf = nil
	params.CampaignGoal = ""

	_, err := gen.Generate(context.Background(), "user-1", params)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"fansOf", "campaignGoal"}, fields)
	assert.Empty(t, client.calls())
}

func TestGenerator_PersistsExactParameters(t *testing.T) {
	client := &fakeLLM{respond: echoTemperature}
	store := &memoryStrengths{}
	gen := services.NewGenerator(client, store, nil, services.DefaultGeneratorConfig(), zap.NewNop())

	params := models.CampaignParameters{
		SelectedEpisodes: []string{"Law And Order CI S01E05"},
		CampaignGoal:     "Attract new audience to legacy IP",
		CampaignKPIs:     []string{"Grow follow count"},
		Gender:           "Women",
		Ethnicity:        []string{"All ethnicities"},
		Age:              []string{"18 to 24 years old", "25 to 34 years old"},
		FansOf:           []string{"Drama", "Romance", "News"},
	}
	_, err := gen.Generate(context.Background(), "user-1", params)
	require.NoError(t, err)

	require.Len(t, store.records, 1)
	saved := store.records[0].Parameters
	assert.Equal(t, params, saved)
	assert.Equal(t, "Women", saved.Gender)
	assert.Equal(t, []string{"All ethnicities"}, saved.Ethnicity)
	assert.Equal(t, []string{"18 to 24 years old", "25 to 34 years old"}, saved.Age)
	assert.Equal(t, []string{"Drama", "Romance", "News"}, saved.FansOf)

	calls := client.calls()
	require.Len(t, calls, 3)
	for _, call := range calls {
		assert.Contains(t, call.Prompt, "- Gender: Women")
		assert.Contains(t, call.Prompt, "- Ethnicity: All ethnicities")
		assert.Contains(t, call.Prompt, "- Age: 18 to 24 years old, 25 to 34 years old")
		assert.Contains(t, call.Prompt, "- Fans of: Drama, Romance, News")
		assert.Contains(t, call.Prompt, "- Selected Episodes: Law And Order CI S01E05")
	}
}

func TestGenerator_WithoutStoreFailsBeforeModelCalls(t *testing.T) {
	client := &fakeLLM{respond: echoTemperature}
	events := &recordingPublisher{}
	gen := services.NewGenerator(client, nil, events, services.DefaultGeneratorConfig(), zap.NewNop())

	result, err := gen.Generate(context.Background(), "user-1", models.DefaultCampaignParameters())
	assert.ErrorIs(t, err, models.ErrPersistence)
	assert.Nil(t, result)
	assert.Empty(t, client.calls())
	assert.Empty(t, events.names())

	_, err = gen.History(context.Background(), "user-1", 5)
	assert.ErrorIs(t, err, models.ErrPersistence)
}

func TestGenerator_ContinuesAfterCallerCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &fakeLLM{respond: echoTemperature}
	store := &memoryStrengths{}
	gen := services.NewGenerator(client, store, nil, services.DefaultGeneratorConfig(), zap.NewNop())

	cancel()
	result, err := gen.Generate(ctx, "user-1", models.DefaultCampaignParameters())
	require.NoError(t, err)
	assert.Equal(t, "strength at 0.8", result.Strengths()[0])
	assert.Len(t, store.records, 1)
}

func TestGenerator_HistoryNewestFirstAndClamped(t *testing.T) {
	client := &fakeLLM{respond: echoTemperature}
	store := &memoryStrengths{}
	gen := services.NewGenerator(client, store, nil, services.DefaultGeneratorConfig(), zap.NewNop())

	for i := 0; i < 12; i++ {
		params := models.DefaultCampaignParameters()
		params.CampaignGoal = fmt.Sprintf("goal %d", i)
		_, err := gen.Generate(context.Background(), "user-1", params)
		require.NoError(t, err)
	}
	_, err := gen.Generate(context.Background(), "user-2", models.DefaultCampaignParameters())
	require.NoError(t, err)

	history, err := gen.History(context.Background(), "user-1", 50)
	require.NoError(t, err)
	require.Len(t, history, services.MaxHistoryLimit)
	assert.Equal(t, "goal 11", history[0].Parameters.CampaignGoal)
	for _, h := range history {
		assert.Equal(t, "user-1", h.OwnerUserID)
	}

	history, err = gen.History(context.Background(), "user-1", 2)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	_, err = gen.History(context.Background(), "", 2)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}
