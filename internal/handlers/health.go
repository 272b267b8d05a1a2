package handlers

import (
	"context"
	"net/http"
	"time"

	"campaign-studio-backend/internal/models"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by the database client.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db             Pinger
	storageEnabled bool
}

func NewHealthHandler(db Pinger, storageEnabled bool) *HealthHandler {
	return &HealthHandler{db: db, storageEnabled: storageEnabled}
}

// Health godoc
// @Summary     Health check
// @Description Returns the health status of the API and its backing services
// @Tags        health
// @Produce     json
// @Success     200 {object} models.HealthResponse
// @Router      /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	response := models.HealthResponse{
		Status:   "ok",
		Database: "disabled",
		Storage:  "disabled",
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			response.Status = "degraded"
			response.Database = "unavailable"
		} else {
			response.Database = "ok"
		}
	}
	if h.storageEnabled {
		response.Storage = "ok"
	}

	c.JSON(http.StatusOK, response)
}
