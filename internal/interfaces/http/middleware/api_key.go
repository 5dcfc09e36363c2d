// internal/interfaces/http/middleware/api_key.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/promotion-engine/internal/domain/client"
)

// APIKeyMiddleware authenticates evaluation requests with the client's
// API key from the X-API-Key header
func APIKeyMiddleware(clientService *client.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "X-API-Key header required",
			})
			c.Abort()
			return
		}

		apiClient, err := clientService.Authenticate(apiKey)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid API key",
			})
			c.Abort()
			return
		}

		c.Set("client_id", apiClient.ID)
		c.Set("client", apiClient)

		c.Next()
	}
}

// GetClientIDFromContext extracts the authenticated client id from gin
// context
func GetClientIDFromContext(c *gin.Context) (string, bool) {
	clientID, exists := c.Get("client_id")
	if !exists {
		return "", false
	}
	return clientID.(string), true
}
