// internal/interfaces/http/handlers/client.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/promotion-engine/internal/config"
	"github.com/your-org/promotion-engine/internal/domain/client"
	"gorm.io/gorm"
)

// ClientHandler handles API client management endpoints
type ClientHandler struct {
	clientService *client.Service
	config        *config.Config
}

// NewClientHandler creates a new client handler
func NewClientHandler(db *gorm.DB, cfg *config.Config) *ClientHandler {
	return &ClientHandler{
		clientService: client.NewService(db, cfg),
		config:        cfg,
	}
}

// ListClients handles GET /clients
func (h *ClientHandler) ListClients(c *gin.Context) {
	clients, err := h.clientService.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve clients",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Clients retrieved successfully",
		"data":    clients,
	})
}

// GetClient handles GET /clients/:id
func (h *ClientHandler) GetClient(c *gin.Context) {
	id := c.Param("id")

	apiClient, err := h.clientService.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Client retrieved successfully",
		"data":    apiClient,
	})
}

// CreateClient handles POST /clients
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req client.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	apiClient, err := h.clientService.Create(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Client created successfully",
		"data":    apiClient,
	})
}

// UpdateClient handles PUT /clients/:id
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id := c.Param("id")

	var req client.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	apiClient, err := h.clientService.Update(id, &req)
	if err != nil {
		status := http.StatusBadRequest
		if err.Error() == "client not found" {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Client updated successfully",
		"data":    apiClient,
	})
}

// DeleteClient handles DELETE /clients/:id
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id := c.Param("id")

	if err := h.clientService.Delete(id); err != nil {
		status := http.StatusInternalServerError
		if err.Error() == "client not found" {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Client deleted successfully",
	})
}

// RotateAPIKey handles POST /clients/:id/rotate-key
func (h *ClientHandler) RotateAPIKey(c *gin.Context) {
	id := c.Param("id")

	apiClient, err := h.clientService.RotateAPIKey(id)
	if err != nil {
		status := http.StatusInternalServerError
		if err.Error() == "client not found" {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "API key rotated successfully",
		"data":    apiClient,
	})
}
