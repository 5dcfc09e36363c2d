// internal/interfaces/http/handlers/history.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/promotion-engine/internal/config"
	"github.com/your-org/promotion-engine/internal/domain/evaluation"
	"github.com/your-org/promotion-engine/internal/domain/history"
	"gorm.io/gorm"
)

// HistoryHandler handles applied-promotion history and insights endpoints
type HistoryHandler struct {
	historyService *history.Service
	config         *config.Config
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(db *gorm.DB, engine *evaluation.Engine, cfg *config.Config) *HistoryHandler {
	return &HistoryHandler{
		historyService: history.NewService(db, engine, cfg),
		config:         cfg,
	}
}

// ListAppliedPromotions handles GET /applied-promotions
func (h *HistoryHandler) ListAppliedPromotions(c *gin.Context) {
	var req history.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.historyService.List(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve applied promotions",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Applied promotions retrieved successfully",
		"data":    response,
	})
}

// RecordAppliedPromotions handles POST /applied-promotions
func (h *HistoryHandler) RecordAppliedPromotions(c *gin.Context) {
	var req history.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	records, err := h.historyService.Record(&req, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to record applied promotions",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Applied promotions recorded successfully",
		"data":    records,
	})
}

// GetInsights handles GET /insights/promotions
func (h *HistoryHandler) GetInsights(c *gin.Context) {
	clientID := c.Query("client_id")

	insights, err := h.historyService.Insights(clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to aggregate insights",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Insights retrieved successfully",
		"data":    insights,
	})
}
