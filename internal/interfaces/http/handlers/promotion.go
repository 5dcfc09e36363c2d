// internal/interfaces/http/handlers/promotion.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/promotion-engine/internal/config"
	"github.com/your-org/promotion-engine/internal/domain/promotion"
	"github.com/your-org/promotion-engine/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// PromotionHandler handles promotion catalog endpoints
type PromotionHandler struct {
	promotionService *promotion.Service
	config           *config.Config
}

// NewPromotionHandler creates a new promotion handler
func NewPromotionHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *PromotionHandler {
	return &PromotionHandler{
		promotionService: promotion.NewService(db, redisClient, cfg),
		config:           cfg,
	}
}

// ListPromotions handles GET /promotions
func (h *PromotionHandler) ListPromotions(c *gin.Context) {
	var req promotion.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.promotionService.List(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve promotions",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promotions retrieved successfully",
		"data":    response,
	})
}

// GetPromotion handles GET /promotions/:id
func (h *PromotionHandler) GetPromotion(c *gin.Context) {
	id := c.Param("id")

	promo, err := h.promotionService.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promotion retrieved successfully",
		"data":    promo,
	})
}

// CreatePromotion handles POST /promotions
func (h *PromotionHandler) CreatePromotion(c *gin.Context) {
	var req promotion.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	createdBy, _ := middleware.GetAdminEmailFromContext(c)

	promo, err := h.promotionService.Create(&req, createdBy)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Promotion created successfully",
		"data":    promo,
	})
}

// UpdatePromotion handles PUT /promotions/:id
func (h *PromotionHandler) UpdatePromotion(c *gin.Context) {
	id := c.Param("id")

	var req promotion.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updatedBy, _ := middleware.GetAdminEmailFromContext(c)

	promo, err := h.promotionService.Update(id, &req, updatedBy)
	if err != nil {
		status := http.StatusBadRequest
		if err.Error() == "promotion not found" {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promotion updated successfully",
		"data":    promo,
	})
}

// DeletePromotion handles DELETE /promotions/:id
func (h *PromotionHandler) DeletePromotion(c *gin.Context) {
	id := c.Param("id")

	if err := h.promotionService.Delete(id); err != nil {
		status := http.StatusInternalServerError
		if err.Error() == "promotion not found" {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promotion deleted successfully",
	})
}
