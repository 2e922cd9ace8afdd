package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sugarsense/backend/internal/metrics"
	"github.com/sugarsense/backend/internal/middleware"
	"github.com/sugarsense/backend/internal/service"
)

// Dependencies are the services the HTTP API is built from.
type Dependencies struct {
	Auth           service.IAuthService
	Predictions    service.IPredictionService
	Wellness       service.IWellnessService
	Chat           service.IChatService
	Exporter       *service.HistoryExporter
	Metrics        *metrics.Metrics
	CheckupLimiter *middleware.RateLimiter
	ChatLimiter    *middleware.RateLimiter
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	// Health check endpoint (no auth required)
	router.GET("/health", HealthCheck)
	router.GET("/api/health", HealthCheck)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	if deps.Exporter == nil {
		deps.Exporter = service.NewHistoryExporter()
	}

	v1 := router.Group("/api/v1")
	NewAuthHandler(deps.Auth).RegisterRoutes(v1)

	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(deps.Auth))
	NewCheckupHandler(deps.Predictions, deps.Auth, deps.Exporter, deps.CheckupLimiter).RegisterRoutes(authed)
	NewDashboardHandler(deps.Wellness, deps.Auth).RegisterRoutes(authed)
	NewChatHandler(deps.Chat, deps.Auth, deps.ChatLimiter).RegisterRoutes(authed)
}
