// internal/interfaces/http/handlers/evaluation.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/promotion-engine/internal/config"
	"github.com/your-org/promotion-engine/internal/domain/evaluation"
	"github.com/your-org/promotion-engine/internal/domain/promotion"
	"github.com/your-org/promotion-engine/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// EvaluationHandler handles cart evaluation endpoints
type EvaluationHandler struct {
	promotionService *promotion.Service
	engine           *evaluation.Engine
	config           *config.Config
}

// NewEvaluationHandler creates a new evaluation handler
func NewEvaluationHandler(db *gorm.DB, redisClient *redis.Client, engine *evaluation.Engine, cfg *config.Config) *EvaluationHandler {
	return &EvaluationHandler{
		promotionService: promotion.NewService(db, redisClient, cfg),
		engine:           engine,
		config:           cfg,
	}
}

// EvaluateRequest represents a cart evaluation request. EvaluatedAt
// pins the evaluation instant for deterministic replay; it defaults to
// the current time.
type EvaluateRequest struct {
	Cart        evaluation.Cart `json:"cart" binding:"required"`
	EvaluatedAt *time.Time      `json:"evaluatedAt"`
}

// EvaluateCart handles POST /evaluate
func (h *EvaluationHandler) EvaluateCart(c *gin.Context) {
	clientID, ok := middleware.GetClientIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Client authentication required",
		})
		return
	}

	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	now := time.Now().UTC()
	if req.EvaluatedAt != nil {
		now = req.EvaluatedAt.UTC()
	}

	catalog, err := h.promotionService.ActiveCatalog(c.Request.Context(), clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load promotion catalog",
		})
		return
	}

	result, err := h.engine.Evaluate(catalog, &req.Cart, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Evaluation failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart evaluated successfully",
		"data":    result,
	})
}

// PriceActionRequest represents an action pricing preview request from
// the rule builder
type PriceActionRequest struct {
	Action promotion.Action `json:"action" binding:"required"`
	Cart   evaluation.Cart  `json:"cart" binding:"required"`
}

// PriceAction handles POST /actions/price
func (h *EvaluationHandler) PriceAction(c *gin.Context) {
	var req PriceActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	amount := h.engine.PriceAction(req.Action, &req.Cart)

	c.JSON(http.StatusOK, gin.H{
		"message": "Action priced successfully",
		"data": gin.H{
			"amount": amount,
		},
	})
}
