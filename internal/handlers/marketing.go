package handlers

import (
	"net/http"
	"strconv"

	"campaign-studio-backend/internal/middleware"
	"campaign-studio-backend/internal/models"
	"campaign-studio-backend/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MarketingHandler struct {
	generator *services.Generator
	logger    *zap.Logger
}

func NewMarketingHandler(generator *services.Generator, logger *zap.Logger) *MarketingHandler {
	return &MarketingHandler{generator: generator, logger: logger}
}

// Generate godoc
// @Summary     Generate marketing strengths
// @Description Generates three marketing strength paragraphs for the campaign
// @Description parameters, one per sampling temperature, and saves them.
// @Description A failed variation is replaced by a placeholder string.
// @Tags        marketing
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CampaignParameters true "Campaign parameters"
// @Success     200 {object} models.GenerateResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /marketing-strengths [post]
func (h *MarketingHandler) Generate(c *gin.Context) {
	var params models.CampaignParameters
	if err := c.ShouldBindJSON(&params); err != nil {
		badRequest(c, "request body must be a JSON object of campaign parameters")
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), middleware.UserID(c), params)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	variants := make([]models.VariantResponse, len(result.Variants))
	for i, v := range result.Variants {
		variants[i] = models.VariantResponse{Temperature: v.Temperature, Succeeded: v.Succeeded()}
	}

	c.JSON(http.StatusOK, models.GenerateResponse{
		Strengths: result.Strengths(),
		ID:        result.Record.ID,
		Variants:  variants,
	})
}

// History godoc
// @Summary     List generated marketing strengths
// @Description Returns the caller's most recent generations, newest first.
// @Tags        marketing
// @Produce     json
// @Security    Bearer
// @Param       limit query int false "Maximum records (1-10, default 10)"
// @Success     200 {object} models.MarketingStrengthHistoryResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /marketing-strengths [get]
func (h *MarketingHandler) History(c *gin.Context) {
	limit := services.MaxHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := h.generator.History(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	history := make([]models.MarketingStrengthResponse, len(records))
	for i := range records {
		history[i] = models.NewMarketingStrengthResponse(&records[i])
	}
	c.JSON(http.StatusOK, models.MarketingStrengthHistoryResponse{History: history})
}
