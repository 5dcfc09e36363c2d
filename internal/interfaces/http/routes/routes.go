// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/promotion-engine/internal/config"
	"github.com/your-org/promotion-engine/internal/domain/client"
	"github.com/your-org/promotion-engine/internal/domain/evaluation"
	"github.com/your-org/promotion-engine/internal/interfaces/http/handlers"
	"github.com/your-org/promotion-engine/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires all API routes
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, engine *evaluation.Engine, cfg *config.Config) {
	setupAuthRoutes(rg, cfg)
	setupPromotionRoutes(rg, db, redisClient, cfg)
	setupClientRoutes(rg, db, cfg)
	setupEvaluationRoutes(rg, db, redisClient, engine, cfg)
	setupHistoryRoutes(rg, db, engine, cfg)
}

// setupAuthRoutes sets up admin console authentication routes
func setupAuthRoutes(rg *gin.RouterGroup, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(cfg)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
	}
}

// setupPromotionRoutes sets up promotion catalog routes
func setupPromotionRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	promotionHandler := handlers.NewPromotionHandler(db, redisClient, cfg)

	promotions := rg.Group("/promotions")
	promotions.Use(middleware.AuthMiddleware(cfg))
	{
		promotions.GET("", promotionHandler.ListPromotions)
		promotions.POST("", promotionHandler.CreatePromotion)
		promotions.GET("/:id", promotionHandler.GetPromotion)
		promotions.PUT("/:id", promotionHandler.UpdatePromotion)
		promotions.DELETE("/:id", promotionHandler.DeletePromotion)
	}
}

// setupClientRoutes sets up API client management routes
func setupClientRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	clientHandler := handlers.NewClientHandler(db, cfg)

	clients := rg.Group("/clients")
	clients.Use(middleware.AuthMiddleware(cfg))
	{
		clients.GET("", clientHandler.ListClients)
		clients.POST("", clientHandler.CreateClient)
		clients.GET("/:id", clientHandler.GetClient)
		clients.PUT("/:id", clientHandler.UpdateClient)
		clients.DELETE("/:id", clientHandler.DeleteClient)
		clients.POST("/:id/rotate-key", clientHandler.RotateAPIKey)
	}
}

// setupEvaluationRoutes sets up cart evaluation routes. Evaluation
// authenticates with the owning client's API key; the action pricing
// preview backs the admin console's rule builder.
func setupEvaluationRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, engine *evaluation.Engine, cfg *config.Config) {
	evaluationHandler := handlers.NewEvaluationHandler(db, redisClient, engine, cfg)
	clientService := client.NewService(db, cfg)

	evaluate := rg.Group("/evaluate")
	evaluate.Use(middleware.APIKeyMiddleware(clientService))
	{
		evaluate.POST("", evaluationHandler.EvaluateCart)
	}

	actions := rg.Group("/actions")
	actions.Use(middleware.AuthMiddleware(cfg))
	{
		actions.POST("/price", evaluationHandler.PriceAction)
	}
}

// setupHistoryRoutes sets up applied-promotion history routes
func setupHistoryRoutes(rg *gin.RouterGroup, db *gorm.DB, engine *evaluation.Engine, cfg *config.Config) {
	historyHandler := handlers.NewHistoryHandler(db, engine, cfg)

	applied := rg.Group("/applied-promotions")
	applied.Use(middleware.AuthMiddleware(cfg))
	{
		applied.GET("", historyHandler.ListAppliedPromotions)
		applied.POST("", historyHandler.RecordAppliedPromotions)
	}

	insights := rg.Group("/insights")
	insights.Use(middleware.AuthMiddleware(cfg))
	{
		insights.GET("/promotions", historyHandler.GetInsights)
	}
}
