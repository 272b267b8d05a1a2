package handlers

import (
	"errors"
	"net/http"

	"campaign-studio-backend/internal/extractor"
	"campaign-studio-backend/internal/langchain"
	"campaign-studio-backend/internal/middleware"
	"campaign-studio-backend/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps service errors onto status codes. Anything unrecognized
// is logged and reported as a bare 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var verr *models.ValidationError
	var statusErr *langchain.StatusError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: verr.Error(),
			Details: verr.Fields,
		})
	case errors.Is(err, models.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "unauthorized"})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "access denied"})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found"})
	case errors.Is(err, models.ErrFileUnavailable):
		c.JSON(http.StatusGone, models.ErrorResponse{
			Error:   "file unavailable",
			Message: models.ErrFileUnavailable.Error(),
		})
	case errors.Is(err, extractor.ErrExtraction):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "failed to extract text from pdf",
			Message: "the file is not a readable PDF",
		})
	case errors.Is(err, models.ErrServiceUnavailable):
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "service unavailable"})
	case errors.As(err, &statusErr):
		logger.Warn("upstream service error",
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
			zap.Int("upstream_status", statusErr.StatusCode),
		)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "upstream service error"})
	default:
		logger.Error("request failed",
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
			zap.String("user_id", middleware.UserID(c)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
	}
	_ = c.Error(err)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: message})
}
