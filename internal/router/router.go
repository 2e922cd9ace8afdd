package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sugarsense/backend/internal/api"
	"github.com/sugarsense/backend/internal/middleware"
)

// SetupRouter configures the middleware chain and the application routes
func SetupRouter(corsOrigins []string, logger logrus.FieldLogger, deps api.Dependencies) *gin.Engine {
	router := gin.New()

	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.RequestLogger(logger, deps.Metrics))
	router.Use(middleware.CORS(corsOrigins))
	router.Use(middleware.NoStore())

	api.RegisterRoutes(router, deps)
	return router
}
